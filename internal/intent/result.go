// Package intent carries the result shape shared by every store mutation.
// Stores never let failures escape as errors to the presentation layer;
// they resolve to a Result the UI can render inline.
package intent

import (
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
)

// Result reports how a store mutation ended. A failed result means the
// optimistic state was already rolled back.
type Result struct {
	OK      bool
	Code    pkgerrors.Code
	Message string
}

// Success returns the all-clear result.
func Success() Result {
	return Result{OK: true}
}

// Failure converts an error into a result, preserving the original
// failure reason instead of a generic message.
func Failure(err error) Result {
	if err == nil {
		return Success()
	}
	if typed := pkgerrors.As(err); typed != nil {
		return Result{Code: typed.Code(), Message: typed.Message()}
	}
	return Result{Code: pkgerrors.CodeInternal, Message: err.Error()}
}

// Invalid builds a validation failure with the given reason.
func Invalid(message string) Result {
	return Result{Code: pkgerrors.CodeValidation, Message: message}
}

// NotFound builds a not-found failure with the given reason.
func NotFound(message string) Result {
	return Result{Code: pkgerrors.CodeNotFound, Message: message}
}
