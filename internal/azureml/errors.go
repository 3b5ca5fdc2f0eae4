package azureml

import "fmt"

// notFoundError signals a required local artifact path that does not exist.
// Detected before any client construction or remote call.
type notFoundError struct{ path string }

func (e notFoundError) Error() string {
	return fmt.Sprintf("model path does not exist: %s", e.path)
}

// ErrPathNotFound constructs a notFoundError for path.
func ErrPathNotFound(path string) error { return notFoundError{path: path} }

// IsNotFound reports whether err indicates a missing local path.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// transportError signals a failed control-plane call (auth, network, or API).
type transportError struct {
	op  string
	err error
}

func (e transportError) Error() string { return e.op + ": " + e.err.Error() }

func (e transportError) Unwrap() error { return e.err }

// IsTransportError reports whether err came from a remote workspace call.
func IsTransportError(err error) bool {
	_, ok := err.(transportError)
	return ok
}
