package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure so callers can decide whether to retry, surface or give up.
type ErrorKind string

const (
	KindValidation           ErrorKind = "VALIDATION"
	KindDuplicateSource      ErrorKind = "DUPLICATE_SOURCE"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindExtractionTimeout    ErrorKind = "EXTRACTION_TIMEOUT"
	KindExtractionBlocked    ErrorKind = "EXTRACTION_BLOCKED"
	KindIncompleteExtraction ErrorKind = "INCOMPLETE_EXTRACTION"
	KindNavigation           ErrorKind = "NAVIGATION_FAILED"
	KindPersistence          ErrorKind = "PERSISTENCE"
	KindInternal             ErrorKind = "INTERNAL"
)

// ViolationCode names the validation rule that was broken.
type ViolationCode string

const (
	ViolationInvalidTitle  ViolationCode = "INVALID_TITLE"
	ViolationInvalidSource ViolationCode = "INVALID_SOURCE"
	ViolationInvalidPrice  ViolationCode = "INVALID_PRICE"
	ViolationEmptyHistory  ViolationCode = "EMPTY_HISTORY"
	ViolationInvalidPage   ViolationCode = "INVALID_PAGE"
	ViolationInvalidBody   ViolationCode = "INVALID_BODY"
)

// Violation is a single failed validation rule.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Field   string        `json:"field"`
	Message string        `json:"message"`
}

// Error is a classified failure of the price ledger engine.
type Error struct {
	Kind       ErrorKind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, v.Message)
		}
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports a match on Kind, so sentinel errors below match any error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// NewError builds a classified error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError classifies an existing error.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewValidationError builds a VALIDATION error carrying the broken rules.
func NewValidationError(violations []Violation) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Violations: violations}
}

// Sentinel errors, one per kind.
var (
	ErrValidation           = NewError(KindValidation, "validation failed")
	ErrDuplicateSource      = NewError(KindDuplicateSource, "product with this source url is already tracked")
	ErrNotFound             = NewError(KindNotFound, "product not found")
	ErrExtractionTimeout    = NewError(KindExtractionTimeout, "page navigation timed out")
	ErrExtractionBlocked    = NewError(KindExtractionBlocked, "remote site blocked the request")
	ErrIncompleteExtraction = NewError(KindIncompleteExtraction, "essential product details not found")
	ErrNavigation           = NewError(KindNavigation, "failed to load product page")
	ErrPersistence          = NewError(KindPersistence, "persistence failure")
	ErrInternal             = NewError(KindInternal, "internal error")
)

// KindOf returns the kind of the first classified error in the chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the text of err that is safe to show to a caller: the message of
// the first classified error without its cause chain. Persistence and unclassified failures
// only report their kind.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return ErrInternal.Message
	}
	if e.Kind == KindPersistence {
		return ErrPersistence.Message
	}
	return e.Message
}

// ViolationsOf returns validation violations carried by err, if any.
func ViolationsOf(err error) []Violation {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}

// IsExtractionFailure reports whether err is one of the extraction failure kinds.
func IsExtractionFailure(err error) bool {
	switch KindOf(err) {
	case KindExtractionTimeout, KindExtractionBlocked, KindIncompleteExtraction, KindNavigation:
		return true
	default:
		return false
	}
}
