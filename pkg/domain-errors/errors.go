// Package domainerrors carries the typed failure codes every core operation
// returns. Stores return plain or sentinel errors; services translate them into
// a *Error with one of the codes below before the result leaves the core.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a failure kind. The set is closed: callers switch on it to
// pick a console message and never inspect the wrapped cause.
type Code string

const (
	CodeUnauthorized           Code = "unauthorized"
	CodeAlreadyAuthenticated   Code = "already_authenticated"
	CodeSessionLimitReached    Code = "session_limit_reached"
	CodeDuplicateIdentity      Code = "duplicate_identity"
	CodeInvalidCredentials     Code = "invalid_credentials"
	CodeNoActiveAdmin          Code = "no_active_admin"
	CodeLevelNotFound          Code = "level_not_found"
	CodeNotFound               Code = "entity_not_found"
	CodeAmbiguousCity          Code = "ambiguous_city"
	CodeSameCountry            Code = "same_country"
	CodeMissingOccupier        Code = "missing_occupier"
	CodeReligionNotFound       Code = "religion_not_found"
	CodeInsufficientPercentage Code = "insufficient_percentage"
	CodeInvalidPercentage      Code = "invalid_percentage"
	CodeNegativePopulation     Code = "negative_population"
	CodeDowngradeNotAllowed    Code = "downgrade_not_allowed"
	CodeSameLevel              Code = "same_level"
	CodeInvalidArguments       Code = "invalid_arguments"
	CodeInternal               Code = "internal"
)

// Error is a coded failure with an optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the outermost *Error in the chain.
// Errors that never passed through a service are reported as CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
