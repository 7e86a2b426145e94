package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrBusy                  = errors.New("operation already in progress")
	ErrClosed                = errors.New("view closed")
	ErrNoPendingConfirmation = errors.New("no pending confirmation")
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("admin role required")
)

// ValidationError is a failed client-side precondition. It is raised before any request
// is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransientError is any failed request other than a 404. Nothing retries it.
type TransientError struct {
	Op   string
	Code int
	Err  error
}

func (e *TransientError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func Transient(op string, code int, err error) error {
	return &TransientError{Op: op, Code: code, Err: err}
}

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindTransient    Kind = "transient"
	KindBusy         Kind = "busy"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindClosed       Kind = "closed"
)

func Classify(err error) Kind {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, ErrNoPendingConfirmation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrClosed):
		return KindClosed
	default:
		return KindTransient
	}
}

// Notification is how a failure is surfaced to the user.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

func Notice(err error) Notification {
	kind := Classify(err)
	n := Notification{Kind: kind, Message: err.Error()}
	switch kind {
	case KindTransient, KindBusy:
		n.Dismissible = true
	case KindNotFound:
		n.Message = "not found"
	}
	return n
}

func HTTPStatus(kind Kind, err error) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBusy:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindClosed:
		return http.StatusGone
	}
	var te *TransientError
	if errors.As(err, &te) && te.Code == http.StatusServiceUnavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
