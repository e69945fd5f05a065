package uploader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-video-service/entity"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type fakeAuth struct {
	auth  *entity.UploadAuthorization
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeAuth) FetchUploadAuth(context.Context) (*entity.UploadAuthorization, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a := *f.auth
	return &a, nil
}

func validAuth() *entity.UploadAuthorization {
	return &entity.UploadAuthorization{Signature: "sig", Expire: 1700000000, Token: "tok", PublicKey: "pub"}
}

type fakeCDN struct {
	url     string
	err     error
	steps   []int64
	calls   int
	mu      sync.Mutex
	release chan struct{}
}

func (f *fakeCDN) Upload(_ context.Context, req UploadRequest, onProgress ProgressFunc) (*UploadResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	for _, loaded := range f.steps {
		onProgress(loaded, req.File.Size)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &UploadResult{URL: f.url, Name: req.File.Name}, nil
}

type stateEvent struct {
	state State
	err   error
}

type recordingObserver struct {
	mu       sync.Mutex
	states   []stateEvent
	progress []int
}

func (o *recordingObserver) OnStateChange(s State, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, stateEvent{s, err})
}

func (o *recordingObserver) OnProgress(p int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, p)
}

func (o *recordingObserver) stateNames() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]State, len(o.states))
	for i, e := range o.states {
		out[i] = e.state
	}
	return out
}

func videoFile(size int64) File {
	return File{Name: "clip.mp4", MediaType: "video/mp4", Size: size, Content: strings.NewReader("data")}
}

func TestValidateFile(t *testing.T) {
	assert.NoError(t, ValidateFile(videoFile(10), PurposeVideo))
	assert.NoError(t, ValidateFile(videoFile(MaxFileSize), PurposeVideo))
	assert.ErrorIs(t, ValidateFile(videoFile(MaxFileSize+1), PurposeVideo), ErrFileTooLarge)

	img := File{Name: "t.png", MediaType: "image/png", Size: 10}
	assert.ErrorIs(t, ValidateFile(img, PurposeVideo), ErrInvalidFileType)
	assert.NoError(t, ValidateFile(img, PurposeImage))

	img.Size = MaxFileSize + 1
	assert.ErrorIs(t, ValidateFile(img, PurposeImage), ErrFileTooLarge)
}

func TestOpenFile_SniffsMediaType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.bin")
	content := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	f, fh, err := OpenFile(path)
	require.NoError(t, err)
	defer fh.Close()

	assert.Equal(t, "thumb.bin", f.Name)
	assert.Equal(t, "image/png", f.MediaType)
	assert.Equal(t, int64(len(content)), f.Size)
	assert.ErrorIs(t, ValidateFile(f, PurposeVideo), ErrInvalidFileType)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 200))
	assert.Equal(t, 50, Percent(100, 200))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(200, 200))
	assert.Equal(t, 100, Percent(0, 0))
}

func TestFlow_Success(t *testing.T) {
	obs := &recordingObserver{}
	cdn := &fakeCDN{url: "https://ik.imagekit.io/demo/clip.mp4", steps: []int64{10, 10, 50, 100}}
	flow := NewFlow(PurposeVideo, &fakeAuth{auth: validAuth()}, cdn, obs)

	res, err := flow.Run(context.Background(), videoFile(100))
	require.NoError(t, err)
	assert.Equal(t, "https://ik.imagekit.io/demo/clip.mp4", res.URL)

	assert.Equal(t, []State{Validating, AuthRequesting, Uploading, Succeeded}, obs.stateNames())
	assert.Equal(t, []int{0, 10, 50, 100}, obs.progress)

	state, lastErr := flow.State()
	assert.Equal(t, Succeeded, state)
	assert.NoError(t, lastErr)
}

func TestFlow_ProgressEndsAtHundred(t *testing.T) {
	obs := &recordingObserver{}
	cdn := &fakeCDN{url: "https://cdn/x.mp4"}
	flow := NewFlow(PurposeVideo, &fakeAuth{auth: validAuth()}, cdn, obs)

	_, err := flow.Run(context.Background(), videoFile(100))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 100}, obs.progress)
}

func TestFlow_ValidationFailureSkipsNetwork(t *testing.T) {
	obs := &recordingObserver{}
	auth := &fakeAuth{auth: validAuth()}
	cdn := &fakeCDN{url: "https://cdn/x.mp4"}
	flow := NewFlow(PurposeVideo, auth, cdn, obs)

	_, err := flow.Run(context.Background(), videoFile(MaxFileSize+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, auth.calls)
	assert.Equal(t, 0, cdn.calls)
	assert.Equal(t, []State{Validating, Idle}, obs.stateNames())

	state, lastErr := flow.State()
	assert.Equal(t, Idle, state)
	assert.ErrorIs(t, lastErr, ErrFileTooLarge)
}

func TestFlow_AuthFailures(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		cdn := &fakeCDN{url: "https://cdn/x.mp4"}
		flow := NewFlow(PurposeVideo, &fakeAuth{err: errors.New("status 500")}, cdn, nil)

		_, err := flow.Run(context.Background(), videoFile(10))
		assert.ErrorIs(t, err, ErrAuthRequest)
		assert.Equal(t, 0, cdn.calls)

		state, _ := flow.State()
		assert.Equal(t, Failed, state)
	})

	t.Run("incomplete tuple", func(t *testing.T) {
		auth := validAuth()
		auth.Signature = ""
		cdn := &fakeCDN{url: "https://cdn/x.mp4"}
		flow := NewFlow(PurposeVideo, &fakeAuth{auth: auth}, cdn, nil)

		_, err := flow.Run(context.Background(), videoFile(10))
		assert.ErrorIs(t, err, ErrInvalidAuth)
		assert.Equal(t, 0, cdn.calls)
	})
}

func TestFlow_TransferFailure(t *testing.T) {
	obs := &recordingObserver{}
	cdn := &fakeCDN{err: &TransferError{Kind: TransferNetwork, Message: "connection refused"}}
	flow := NewFlow(PurposeVideo, &fakeAuth{auth: validAuth()}, cdn, obs)

	_, err := flow.Run(context.Background(), videoFile(10))
	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TransferNetwork, te.Kind)
	assert.Equal(t, []State{Validating, AuthRequesting, Uploading, Failed}, obs.stateNames())

	// a failed flow can be retried by the user
	cdn.err = nil
	cdn.url = "https://cdn/x.mp4"
	_, err = flow.Run(context.Background(), videoFile(10))
	assert.NoError(t, err)
}

func TestFlow_RejectsConcurrentRun(t *testing.T) {
	cdn := &fakeCDN{url: "https://cdn/x.mp4", release: make(chan struct{})}
	flow := NewFlow(PurposeVideo, &fakeAuth{auth: validAuth()}, cdn, nil)

	done := make(chan error, 1)
	go func() {
		_, err := flow.Run(context.Background(), videoFile(10))
		done <- err
	}()

	require.Eventually(t, func() bool {
		s, _ := flow.State()
		return s == Uploading
	}, timeout, tick)

	_, err := flow.Run(context.Background(), videoFile(10))
	assert.ErrorIs(t, err, ErrBusy)

	close(cdn.release)
	assert.NoError(t, <-done)
}

func TestUploadAssets(t *testing.T) {
	auth := &fakeAuth{auth: validAuth()}
	videoFlow := NewFlow(PurposeVideo, auth, &fakeCDN{url: "https://cdn/v.mp4"}, nil)
	thumbFlow := NewFlow(PurposeImage, auth, &fakeCDN{url: "https://cdn/t.jpg"}, nil)
	thumb := File{Name: "t.jpg", MediaType: "image/jpeg", Size: 4, Content: strings.NewReader("jpeg")}

	assets, err := UploadAssets(context.Background(), videoFlow, videoFile(10), thumbFlow, thumb)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/v.mp4", assets.Video.URL)
	assert.Equal(t, "https://cdn/t.jpg", assets.Thumbnail.URL)
	assert.Equal(t, 2, auth.calls, "each upload gets its own authorization")
}

func TestUploadAssets_OneSideFails(t *testing.T) {
	auth := &fakeAuth{auth: validAuth()}
	thumbCDN := &fakeCDN{url: "https://cdn/t.jpg"}
	videoFlow := NewFlow(PurposeVideo, auth, &fakeCDN{err: &TransferError{Kind: TransferServer}}, nil)
	thumbFlow := NewFlow(PurposeImage, auth, thumbCDN, nil)
	thumb := File{Name: "t.jpg", MediaType: "image/jpeg", Size: 4, Content: strings.NewReader("jpeg")}

	assets, err := UploadAssets(context.Background(), videoFlow, videoFile(10), thumbFlow, thumb)
	require.Error(t, err)
	assert.Nil(t, assets.Video)
	require.NotNil(t, assets.Thumbnail)
	assert.Equal(t, 1, thumbCDN.calls)

	state, _ := thumbFlow.State()
	assert.Equal(t, Succeeded, state)
}
