package ghost

import "errors"

// Sentinel errors classifying every failure a client operation can
// return. Callers discriminate with errors.Is and errors.As rather than
// matching message text.
var (
	// ErrInvalidCredentials means the admin API key is malformed. No
	// request was sent.
	ErrInvalidCredentials = errors.New("invalid admin API credentials")

	// ErrPermissionDenied means the local policy refused the operation
	// before any network I/O. The accompanying Error carries the policy
	// rule in its Reason field.
	ErrPermissionDenied = errors.New("operation denied by local policy")

	// ErrAuthentication means the remote API rejected the request token.
	ErrAuthentication = errors.New("authentication rejected by remote API")

	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict means the resource was modified concurrently and the
	// server aborted the update.
	ErrConflict = errors.New("resource modified concurrently")

	// ErrRemoteAPI covers remote failures outside the cases above, such
	// as validation rejections and server errors.
	ErrRemoteAPI = errors.New("remote API request failed")

	// ErrTransport covers network-level failures: DNS, refused
	// connections, timeouts, canceled contexts.
	ErrTransport = errors.New("transport failure")

	// ErrDecode means a response body did not match the expected JSON
	// shape.
	ErrDecode = errors.New("malformed response body")
)

// Error is the error type returned by client operations. It wraps one of
// the package sentinels (or another *Error, for operations composed of
// internal steps) with the operation name and optional detail.
type Error struct {
	// Op is the operation that failed, such as "CreatePost".
	Op string

	// Err classifies the failure. Usually a package sentinel; may be a
	// nested *Error when one operation runs another internally.
	Err error

	// Msg carries optional human-readable detail.
	Msg string

	// StatusCode is the remote HTTP status, when a response was
	// received. Zero for failures that never reached the server.
	StatusCode int

	// Reason names the policy rule behind an ErrPermissionDenied, such
	// as "readonly_mode" or "allow_delete=false".
	Reason string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DenialReason walks an error chain for a policy denial and returns the
// rule that produced it. The second return is false when the chain
// contains no denial.
func DenialReason(err error) (string, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok && errors.Is(e.Err, ErrPermissionDenied) {
			return e.Reason, true
		}
		err = errors.Unwrap(err)
	}
	return "", false
}
