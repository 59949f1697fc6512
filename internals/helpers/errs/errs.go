// Package errs mendefinisikan taksonomi error workflow nilai supaya
// service layer bebas dari HTTP; mapping ke status code ada di helper.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindPermission Kind = "permission"
	KindState      Kind = "state"
	KindInternal   Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError { return New(KindValidation, message) }
func NotFound(message string) *AppError   { return New(KindNotFound, message) }
func Conflict(message string) *AppError   { return New(KindConflict, message) }
func Permission(message string) *AppError { return New(KindPermission, message) }
func State(message string) *AppError      { return New(KindState, message) }

// KindOf mengembalikan kind dari error (internal jika bukan *AppError).
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
