package errutil

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Classify normalises any failure encountered in the pipeline into a
// BaseError from the closed taxonomy. It is total: every input maps to
// exactly one code, with INTERNAL as the last resort. Already-classified
// errors pass through untouched.
func Classify(err error) BaseError {
	if err == nil {
		return BaseError{Code: StatusInternal, Message: "classified nil error"}
	}

	var base BaseError
	if errors.As(err, &base) {
		return base
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Losing writer of a create race: the unique index rejected the
		// second insert after the pre-check had already passed.
		return BaseError{Code: StatusConflict, Message: "duplicate business key", Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return BaseError{Code: StatusNotFound, Message: "record not found", Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return BaseError{Code: StatusServiceUnavailable, Message: "store unavailable", Err: err}
	case errors.Is(err, gorm.ErrInvalidDB), errors.Is(err, gorm.ErrInvalidTransaction):
		return BaseError{Code: StatusServiceUnavailable, Message: "store unavailable", Err: err}
	}

	return BaseError{Code: StatusInternal, Message: "internal error", Err: err}
}
