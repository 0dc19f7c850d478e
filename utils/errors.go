package utils

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/lib/pq"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "ValidationError"
	KindDuplicateKey ErrorKind = "DuplicateKey"
	KindCast         ErrorKind = "CastError"
	KindBadRequest   ErrorKind = "BadRequest"
	KindUnauthorized ErrorKind = "Unauthorized"
	KindForbidden    ErrorKind = "Forbidden"
	KindNotFound     ErrorKind = "NotFound"
	KindServer       ErrorKind = "ServerError"
)

const uniqueViolation = "23505"

// AppError is an error that carries the HTTP status it should be reported with.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind ErrorKind, status int, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *AppError {
	return newAppError(KindBadRequest, http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *AppError {
	return newAppError(KindUnauthorized, http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *AppError {
	return newAppError(KindForbidden, http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return newAppError(KindNotFound, http.StatusNotFound, format, args...)
}

func DuplicateKey(format string, args ...any) *AppError {
	return newAppError(KindDuplicateKey, http.StatusBadRequest, format, args...)
}

// ResourceNotFound is reported for malformed identifiers so callers cannot
// tell a bad id from a missing record.
func ResourceNotFound() *AppError {
	return newAppError(KindCast, http.StatusNotFound, "Resource not found")
}

// ValidationErrors accumulates field messages into one ValidationError.
type ValidationErrors struct {
	errs *multierror.Error
}

func (v *ValidationErrors) Add(format string, args ...any) {
	v.errs = multierror.Append(v.errs, fmt.Errorf(format, args...))
}

func (v *ValidationErrors) Merge(err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind == KindValidation {
		if inner, ok := appErr.Err.(*multierror.Error); ok {
			v.errs = multierror.Append(v.errs, inner.Errors...)
			return
		}
	}
	v.errs = multierror.Append(v.errs, err)
}

// Err returns nil when nothing was added.
func (v *ValidationErrors) Err() error {
	if v.errs == nil || len(v.errs.Errors) == 0 {
		return nil
	}
	v.errs.ErrorFormat = joinMessages
	return &AppError{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: v.errs.Error(),
		Err:     v.errs,
	}
}

func NewValidationError(messages ...string) error {
	var v ValidationErrors
	for _, m := range messages {
		v.Add("%s", m)
	}
	return v.Err()
}

// Messages lists the individual messages of a ValidationError.
func (e *AppError) Messages() []string {
	var merr *multierror.Error
	if !errors.As(e.Err, &merr) {
		return []string{e.Message}
	}
	out := make([]string, 0, len(merr.Errors))
	for _, err := range merr.Errors {
		out = append(out, err.Error())
	}
	return out
}

func joinMessages(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, ", ")
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// AsAppError classifies any error into an AppError. Unknown errors become a
// ServerError that keeps the original as its cause.
func AsAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, sql.ErrNoRows):
		return ResourceNotFound()
	case IsUniqueViolation(err):
		return DuplicateKey("Duplicate field value entered")
	default:
		return &AppError{Kind: KindServer, Status: http.StatusInternalServerError, Message: "Server Error", Err: err}
	}
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
