package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the short machine-readable category of a conversion failure.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation_error"
	KindDecode         ErrorKind = "decode_error"
	KindEncode         ErrorKind = "encode_error"
	KindNotFound       ErrorKind = "not_found"
	KindNotImplemented ErrorKind = "not_implemented"
	KindInternal       ErrorKind = "internal_error"
)

// Error is a categorised failure. Detail is safe to show to clients, Err is
// the underlying cause kept for logs and errors.Is/As.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrDecode) works
// regardless of the detail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Detail == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrDecode         = &Error{Kind: KindDecode}
	ErrEncode         = &Error{Kind: KindEncode}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrNotImplemented = &Error{Kind: KindNotImplemented}
)

func NewValidationError(detail string) error {
	return &Error{Kind: KindValidation, Detail: detail}
}

func NewDecodeError(detail string, err error) error {
	return &Error{Kind: KindDecode, Detail: detail, Err: err}
}

func NewEncodeError(detail string, err error) error {
	return &Error{Kind: KindEncode, Detail: detail, Err: err}
}

func NewNotFoundError(detail string) error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func NewNotImplementedError(detail string) error {
	return &Error{Kind: KindNotImplemented, Detail: detail}
}

// FormatError is a ValidationError raised for a format outside the allowed
// set of a media kind. Allowed is listed for display.
type FormatError struct {
	Kind      MediaKind
	Requested string
	Allowed   []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", KindValidation, e.Detail())
}

func (e *FormatError) Detail() string {
	return fmt.Sprintf("invalid %s format %q, allowed formats are: %s", e.Kind, e.Requested, strings.Join(e.Allowed, ", "))
}

func (e *FormatError) Is(target error) bool { return target == ErrValidation }

// ConversionError wraps the first failure of an inline conversion.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string { return "conversion failed: " + e.Err.Error() }

func (e *ConversionError) Unwrap() error { return e.Err }

// KindOf reports the kind of err; anything not categorised is internal.
func KindOf(err error) ErrorKind {
	var fe *FormatError
	if errors.As(err, &fe) {
		return KindValidation
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailOf returns the client-facing message of err. Uncategorised errors
// are hidden behind a generic message.
func DetailOf(err error) string {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Detail()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal error"
}
