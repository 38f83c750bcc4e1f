package localeutil

// LoadState tracks whether the messages in one locale file are usable.
type LoadState int

const (
	// NotLoaded means no load has been requested for the file.
	NotLoaded LoadState = iota
	// Loading means a load is in flight.
	Loading
	// Loaded means messages are available.
	Loaded
	// Error means every candidate file was missing or unreadable.
	Error
)

// String returns the lower-case state name.
func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "notloaded"
	}
}

// Settled reports whether the state will not change without a new request.
func (s LoadState) Settled() bool {
	return s == Loaded || s == Error
}
