package ipx

import "fmt"

// Error is a status-code-carrying error returned by suppliers, the pipeline
// builder and the request engine. The HTTP facade maps it to a response
// via the status taxonomy in the specification's error handling design.
type Error struct {
	StatusCode    int
	StatusMessage string
	// Upstream, when true, marks an error whose message already describes
	// a passed-through upstream reason phrase (an origin's non-2xx status)
	// rather than an IPX-originated failure.
	Upstream bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusMessage)
}

// BadRequest builds a 400 error for malformed input: missing modifiers,
// missing id, an unknown source, or a non-file path.
func BadRequest(message string) *Error {
	return &Error{StatusCode: 400, StatusMessage: message}
}

// Forbidden builds a 403 error for path escapes, invalid filesystem
// characters, disallowed hosts, and filesystem access denial.
func Forbidden(message string) *Error {
	return &Error{StatusCode: 403, StatusMessage: message}
}

// NotFound builds a 404 error for a missing filesystem artifact.
func NotFound(message string) *Error {
	return &Error{StatusCode: 404, StatusMessage: message}
}

// UpstreamError builds an error that preserves a non-2xx status and reason
// phrase returned by a remote origin. Status falls back to 500 when the
// upstream status is itself out of range.
func UpstreamError(status int, reason string) *Error {
	if status < 100 || status > 599 {
		status = 500
	}
	return &Error{StatusCode: status, StatusMessage: reason, Upstream: true}
}

// InternalError builds a 500 error for anything uncaught, including codec
// failures.
func InternalError(message string) *Error {
	return &Error{StatusCode: 500, StatusMessage: message}
}

// AsError unwraps err into an *Error, falling back to a generic 500 when
// err does not already carry a status code.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return InternalError(err.Error())
}
