package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the HTTP boundary can map it to a
// status code without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindForbidden
	KindConflict
)

// Error is a typed application error. It is created where a business rule
// fails and travels unchanged to the HTTP boundary.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// NewNotFound reports that an entity with the given id does not exist.
func NewNotFound(entity string, id any) *Error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf("%s with id=%v not found", entity, id)}
}

// NewNotFoundMsg reports a not-found condition with a custom message, for
// cases where an entity is hidden from the caller rather than absent.
func NewNotFoundMsg(msg string) *Error {
	return &Error{kind: KindNotFound, msg: msg}
}

// NewValidation reports a client-correctable rule violation.
func NewValidation(msg string) *Error {
	return &Error{kind: KindValidation, msg: msg}
}

// NewForbidden reports that the caller is not allowed to perform the operation.
func NewForbidden(msg string) *Error {
	return &Error{kind: KindForbidden, msg: msg}
}

// NewConflict reports a uniqueness conflict.
func NewConflict(msg string) *Error {
	return &Error{kind: KindConflict, msg: msg}
}

// KindOf extracts the Kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindInternal
}

// IsKind reports whether the error chain contains an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind() == kind
}
