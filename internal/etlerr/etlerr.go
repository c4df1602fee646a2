// Package etlerr classifies pipeline failures so callers can branch on the
// kind of failure (and on whether a rerun could plausibly succeed) without
// parsing error strings.
package etlerr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind is the coarse failure category of a pipeline error.
type Kind string

const (
	KindUnknown  Kind = "unknown"
	KindNetwork  Kind = "network"
	KindParse    Kind = "parse"
	KindCoercion Kind = "coercion"
	KindDatabase Kind = "database"
	KindConfig   Kind = "config"
	KindIO       Kind = "io"
)

// Error is a classified pipeline error.
//
// Op names the operation that failed (e.g. "extract.fetch", "load.connect").
// Status carries the HTTP status for network failures that produced a
// response; it is zero otherwise. Connect marks database failures raised
// while establishing the connection.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Connect bool
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether rerunning the failed operation could succeed
// without operator intervention.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork:
		if e.Status == 0 {
			return true
		}
		return e.Status == http.StatusTooManyRequests || e.Status >= 500
	case KindDatabase:
		return e.Connect
	}
	return false
}

// New returns a classified error wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf returns a classified error with a formatted cause.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// HTTPStatus returns a network error for a non-success HTTP response.
func HTTPStatus(op string, status int) *Error {
	return &Error{
		Kind:   KindNetwork,
		Op:     op,
		Status: status,
		Err:    errors.Errorf("unexpected HTTP status %d %s", status, http.StatusText(status)),
	}
}

// Connect returns a database error raised while opening a connection.
func Connect(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Op: op, Connect: true, Err: err}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first classified error in err's chain, or
// KindUnknown when none is present.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// IsRetryable reports whether err is classified as retryable.
func IsRetryable(err error) bool {
	if e, ok := As(err); ok {
		return e.Retryable()
	}
	return false
}

// ExitCode maps error kinds onto distinct process exit codes.
func ExitCode(err error) int {
	switch KindOf(err) {
	case "":
		return 0
	case KindConfig:
		return 2
	case KindNetwork:
		return 3
	case KindParse:
		return 4
	case KindCoercion:
		return 5
	case KindDatabase:
		return 6
	case KindIO:
		return 7
	}
	return 1
}
