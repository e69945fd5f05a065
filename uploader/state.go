package uploader

// State is the lifecycle position of a single upload widget.
type State int

const (
	Idle State = iota
	Validating
	AuthRequesting
	Uploading
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case AuthRequesting:
		return "auth_requesting"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Active reports whether a run is in progress.
func (s State) Active() bool {
	return s == Validating || s == AuthRequesting || s == Uploading
}
