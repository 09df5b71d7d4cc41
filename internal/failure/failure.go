package failure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a swap failed.
type Kind string

const (
	KindInput     Kind = "input"
	KindReference Kind = "reference"
	KindUpstream  Kind = "upstream"
	KindTransport Kind = "transport"
	KindInternal  Kind = "internal"
)

// MaxBodyExcerpt bounds how much of an upstream response body is kept for diagnostics.
const MaxBodyExcerpt = 512

// Error is the single error type surfaced by the relay and its collaborators.
type Error struct {
	Kind   Kind
	Op     string
	Status int    // upstream HTTP status, 0 when not applicable
	Body   string // truncated upstream body
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
		if e.Body != "" {
			msg += ": " + e.Body
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Input reports a problem with what the caller sent.
func Input(op string, err error) *Error {
	return &Error{Kind: KindInput, Op: op, Err: err}
}

// Inputf is Input with a formatted cause.
func Inputf(op, format string, args ...any) *Error {
	return Input(op, fmt.Errorf(format, args...))
}

// Reference reports a failure to obtain the reference image.
func Reference(op string, status int, err error) *Error {
	return &Error{Kind: KindReference, Op: op, Status: status, Err: err}
}

// Upstream reports a non-success answer from the synthesis API.
func Upstream(op string, status int, body []byte) *Error {
	return &Error{Kind: KindUpstream, Op: op, Status: status, Body: Truncate(body)}
}

// Malformed reports a synthesis response that could not be used.
func Malformed(op string, err error) *Error {
	return &Error{Kind: KindUpstream, Op: op, Err: err}
}

// Transport reports a network level failure talking to a remote host.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// Truncate keeps at most MaxBodyExcerpt bytes of body.
func Truncate(body []byte) string {
	if len(body) <= MaxBodyExcerpt {
		return string(body)
	}
	return string(body[:MaxBodyExcerpt]) + "...(truncated)"
}

// KindOf returns the Kind of err, falling back to KindTransport for
// deadline and cancellation errors and KindInternal otherwise.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransport
	}
	return KindInternal
}

// HTTPStatus maps err to the status returned to callers of the relay.
// Only input errors are the caller's fault; everything else is a 500.
func HTTPStatus(err error) int {
	if KindOf(err) == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
