package errutil

import (
	"net/http"
	"strings"
)

// CoreStatus identifies one kind of failure in the closed taxonomy. Every
// error that leaves a service is tagged with exactly one of these codes.
type CoreStatus string

const (
	StatusBadRequest           CoreStatus = "BAD_REQUEST"
	StatusValidationFailed     CoreStatus = "VALIDATION_FAILED"
	StatusPatchFailed          CoreStatus = "PATCH_FAILED"
	StatusUnauthorized         CoreStatus = "UNAUTHORIZED"
	StatusForbidden            CoreStatus = "FORBIDDEN"
	StatusNotFound             CoreStatus = "NOT_FOUND"
	StatusMethodNotAllowed     CoreStatus = "METHOD_NOT_ALLOWED"
	StatusConflict             CoreStatus = "CONFLICT"
	StatusUnsupportedMediaType CoreStatus = "UNSUPPORTED_MEDIA_TYPE"
	StatusServiceUnavailable   CoreStatus = "SERVICE_UNAVAILABLE"
	StatusInternal             CoreStatus = "INTERNAL"
)

// Category labels used on the wire problem payload.
const (
	CategoryGeneric = "Generic"
	CategoryRuntime = "Runtime"
)

// HTTPStatus converts the CoreStatus to the HTTP status it is reported with.
func (s CoreStatus) HTTPStatus() int {
	switch s {
	case StatusBadRequest, StatusValidationFailed, StatusPatchFailed:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case StatusConflict:
		return http.StatusConflict
	case StatusUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Category reports whether the failure is a Generic (caller-side) or Runtime
// (server-side / transient) condition. Patch failures count as Runtime: the
// document was readable but could not be applied.
func (s CoreStatus) Category() string {
	switch s {
	case StatusPatchFailed, StatusServiceUnavailable, StatusInternal:
		return CategoryRuntime
	default:
		return CategoryGeneric
	}
}

// HTTPStatusName returns the lower-cased, underscore-joined name of the HTTP
// status, e.g. "not_found". Used to derive stable problem type URIs.
func (s CoreStatus) HTTPStatusName() string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(s.HTTPStatus())), " ", "_")
}
