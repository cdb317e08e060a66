package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

// Kind classifies an error for callers and the HTTP layer.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindDatabase       Kind = "database"
	KindNetwork        Kind = "network"
	KindUnknown        Kind = "unknown"
)

var defaultMessages = map[Kind]string{
	KindValidation:     "The provided input is invalid",
	KindAuthentication: "Authentication is required",
	KindAuthorization:  "You do not have permission to perform this action",
	KindDatabase:       "A database error occurred",
	KindNetwork:        "The service is temporarily unavailable",
	KindUnknown:        "An unexpected error occurred",
}

// DefaultMessage returns the human-readable message for k.
func DefaultMessage(k Kind) string {
	if msg, ok := defaultMessages[k]; ok {
		return msg
	}
	return defaultMessages[KindUnknown]
}

// Partial is implemented by errors reporting writes that were applied only in
// part. An AppError wrapping one maps to 500 regardless of the cause.
type Partial interface {
	error
	PartiallyApplied() bool
}

type AppError struct {
	Kind    Kind           // Error kind
	Message string         // User-friendly message
	Details map[string]any // Free-form context (field errors, ids)
	Err     error          // Wrapped original error (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error onto a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindDatabase:
		var partial Partial
		if errors.As(e.Err, &partial) && partial.PartiallyApplied() {
			return http.StatusInternalServerError
		}
		if errors.Is(e.Err, store.ErrNotFound) {
			return http.StatusNotFound
		}
		if errors.Is(e.Err, store.ErrDuplicate) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// New creates an AppError without wrapping. An empty message selects the kind's default.
func New(kind Kind, message string) *AppError {
	if message == "" {
		message = DefaultMessage(kind)
	}
	return &AppError{Kind: kind, Message: message}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, kind Kind, message string) *AppError {
	if err == nil {
		return nil
	}
	e := New(kind, message)
	e.Err = err
	return e
}

// WithDetail attaches a key to Details and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Validation reports field errors as returned by the validation package.
func Validation(fields map[string]string) *AppError {
	return New(KindValidation, "").WithDetail("fields", fields)
}

// NotFound reports a missing document.
func NotFound(entity, id string) *AppError {
	return Wrap(store.ErrNotFound, KindDatabase, fmt.Sprintf("%s not found", entity)).
		WithDetail("entity", entity).
		WithDetail("id", id)
}

// Forbidden reports a denied authorization check.
func Forbidden(message string) *AppError {
	return New(KindAuthorization, message)
}

// FromStore classifies a store error, tagging it with the operation that failed.
// Errors that already carry a kind are returned unchanged.
func FromStore(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	var e *AppError
	switch {
	case errors.Is(err, store.ErrNotFound):
		e = Wrap(err, KindDatabase, "Resource not found")
	case errors.Is(err, store.ErrDuplicate):
		e = Wrap(err, KindDatabase, "Resource already exists")
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		e = Wrap(err, KindNetwork, "")
	default:
		e = Wrap(err, KindDatabase, "")
	}
	return e.WithDetail("op", op)
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus returns the response status for any error. Errors that are not
// an AppError map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
