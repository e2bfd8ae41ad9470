package errutil

import (
	"fmt"
)

// Detail is a single field-level validation message.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BaseError is the one error type services return. It carries the taxonomy
// code, a human-readable message and optional field-level details.
type BaseError struct {
	Code    CoreStatus `json:"code"`
	Message string     `json:"message"`
	Details []Detail   `json:"details,omitempty"`
	Err     error      `json:"-"`
}

func (e BaseError) Status() CoreStatus {
	return e.Code
}

func (e BaseError) Unwrap() error {
	return e.Err
}

func (e BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// FieldErrors groups the details into a field -> messages map, preserving the
// order messages were attached in.
func (e BaseError) FieldErrors() map[string][]string {
	if len(e.Details) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e.Details))
	for _, d := range e.Details {
		out[d.Field] = append(out[d.Field], d.Message)
	}
	return out
}

type Option func(*BaseError)

func WithDetails(details ...Detail) Option {
	return func(be *BaseError) { be.Details = details }
}

func WithErr(err error) Option {
	return func(be *BaseError) { be.Err = err }
}

func New(code CoreStatus, message string, opts ...Option) error {
	be := BaseError{Code: code, Message: message}
	for _, opt := range opts {
		opt(&be)
	}
	return be
}

func BadRequest(msg string, opts ...Option) error {
	return New(StatusBadRequest, msg, opts...)
}

func ValidationFailed(msg string, opts ...Option) error {
	return New(StatusValidationFailed, msg, opts...)
}

func PatchFailed(msg string, opts ...Option) error {
	return New(StatusPatchFailed, msg, opts...)
}

func Unauthorized(msg string, opts ...Option) error {
	return New(StatusUnauthorized, msg, opts...)
}

func Forbidden(msg string, opts ...Option) error {
	return New(StatusForbidden, msg, opts...)
}

func NotFound(msg string, opts ...Option) error {
	return New(StatusNotFound, msg, opts...)
}

func MethodNotAllowed(msg string, opts ...Option) error {
	return New(StatusMethodNotAllowed, msg, opts...)
}

func Conflict(msg string, opts ...Option) error {
	return New(StatusConflict, msg, opts...)
}

func UnsupportedMediaType(msg string, opts ...Option) error {
	return New(StatusUnsupportedMediaType, msg, opts...)
}

func ServiceUnavailable(msg string, opts ...Option) error {
	return New(StatusServiceUnavailable, msg, opts...)
}

func Internal(msg string, opts ...Option) error {
	return New(StatusInternal, msg, opts...)
}
