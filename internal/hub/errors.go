package hub

import "fmt"

// transportError signals a failed remote call (network, auth, or an
// unexpected API status). Never retried; the whole operation is re-run.
type transportError struct {
	op     string
	status int
	msg    string
}

func (e transportError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("%s: hub returned %d: %s", e.op, e.status, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.op, e.msg)
}

// IsTransportError reports whether err came from a remote hub call.
func IsTransportError(err error) bool {
	_, ok := err.(transportError)
	return ok
}
