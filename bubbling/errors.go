package bubbling

import "github.com/pkg/errors"

var (
	// ErrNilHost is returned by New when no host is supplied.
	ErrNilHost = errors.New("bubbling: host cannot be nil")

	// ErrAlreadyInitialized is returned by Configure after Init has run.
	ErrAlreadyInitialized = errors.New("bubbling: page already initialized")

	// ErrNotReady is returned by Start when the document never became
	// usable within the configured poll budget.
	ErrNotReady = errors.New("bubbling: document not ready")

	// ErrListenerPanic wraps a recovered listener or action panic.
	ErrListenerPanic = errors.New("bubbling: listener panicked")
)

// recovered converts a recovered panic value into an error wrapping
// ErrListenerPanic.
func recovered(v any, layer string) error {
	if err, ok := v.(error); ok {
		return errors.Wrapf(ErrListenerPanic, "layer %q: %v", layer, err)
	}
	return errors.Wrapf(ErrListenerPanic, "layer %q: %v", layer, v)
}
