package uploader

import (
	"context"
	"fmt"
	"sync"
)

// Observer receives every visible change of a Flow. Calls are made from the
// goroutine running the flow, and progress is reported at most once per percent.
type Observer interface {
	OnStateChange(state State, err error)
	OnProgress(percent int)
}

type nopObserver struct{}

func (nopObserver) OnStateChange(State, error) {}
func (nopObserver) OnProgress(int)             {}

// Flow drives one file from local validation through signed upload to a CDN url.
type Flow struct {
	Purpose  Purpose
	Auth     AuthFetcher
	CDN      CDN
	Observer Observer
	Folder   string

	mu      sync.Mutex
	state   State
	lastErr error
}

func NewFlow(purpose Purpose, auth AuthFetcher, cdn CDN, observer Observer) *Flow {
	return &Flow{
		Purpose:  purpose,
		Auth:     auth,
		CDN:      cdn,
		Observer: observer,
	}
}

// State returns the current state and the error that caused it, if any.
func (f *Flow) State() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.lastErr
}

func (f *Flow) Run(ctx context.Context, file File) (*UploadResult, error) {
	f.mu.Lock()
	if f.state.Active() {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.state, f.lastErr = Validating, nil
	f.mu.Unlock()

	f.observer().OnStateChange(Validating, nil)
	if err := ValidateFile(file, f.Purpose); err != nil {
		f.transition(Idle, err)
		return nil, err
	}

	f.transition(AuthRequesting, nil)
	auth, err := f.Auth.FetchUploadAuth(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrAuthRequest, err)
		f.transition(Failed, err)
		return nil, err
	}
	if !auth.Complete() {
		f.transition(Failed, ErrInvalidAuth)
		return nil, ErrInvalidAuth
	}

	f.transition(Uploading, nil)
	obs := f.observer()
	reported := 0
	obs.OnProgress(0)

	result, err := f.CDN.Upload(ctx, UploadRequest{File: file, Auth: *auth, Folder: f.Folder}, func(loaded, total int64) {
		if pct := Percent(loaded, total); pct > reported {
			reported = pct
			obs.OnProgress(pct)
		}
	})
	if err != nil {
		f.transition(Failed, err)
		return nil, err
	}

	if reported < 100 {
		obs.OnProgress(100)
	}
	f.transition(Succeeded, nil)
	return result, nil
}

func (f *Flow) transition(state State, err error) {
	f.mu.Lock()
	f.state = state
	f.lastErr = err
	f.mu.Unlock()

	f.observer().OnStateChange(state, err)
}

func (f *Flow) observer() Observer {
	if f.Observer == nil {
		return nopObserver{}
	}
	return f.Observer
}
