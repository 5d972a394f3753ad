package common

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a caller-facing failure class. Every engine operation
// that fails returns one of these so the caller can render a specific
// message; only StorageUnavailable is treated as potentially transient.
type ErrorKind string

const (
	KindInvalidBlockType            ErrorKind = "INVALID_BLOCK_TYPE"
	KindContentValidationError      ErrorKind = "CONTENT_VALIDATION_ERROR"
	KindBlockNotFound               ErrorKind = "BLOCK_NOT_FOUND"
	KindBlockNotDeletable           ErrorKind = "BLOCK_NOT_DELETABLE"
	KindReorderSetMismatch          ErrorKind = "REORDER_SET_MISMATCH"
	KindUnsupportedMimeType         ErrorKind = "UNSUPPORTED_MIME_TYPE"
	KindInvalidAssetDescriptor      ErrorKind = "INVALID_ASSET_DESCRIPTOR"
	KindAssetNotFound               ErrorKind = "ASSET_NOT_FOUND"
	KindDomainAlreadyTaken          ErrorKind = "DOMAIN_ALREADY_TAKEN"
	KindDomainImmutableAfterPublish ErrorKind = "DOMAIN_IMMUTABLE_AFTER_PUBLISH"
	KindNothingToPublish            ErrorKind = "NOTHING_TO_PUBLISH"
	KindLandingNotFound             ErrorKind = "LANDING_NOT_FOUND"
	KindStorageUnavailable          ErrorKind = "STORAGE_UNAVAILABLE"
)

// DomainError is a typed, recoverable failure carrying the error kind plus
// the offending identifier or field.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a typed failure of the given kind.
func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// WithDetail attaches an offending identifier or field to the error.
func (e *DomainError) WithDetail(key, value string) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// StorageError wraps an internal persistence failure. Callers are expected to
// retry these with backoff.
func StorageError(err error) *DomainError {
	return &DomainError{
		Kind:    KindStorageUnavailable,
		Message: "storage unavailable",
		cause:   err,
	}
}

// KindOf extracts the error kind from err, if it carries one.
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given error kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
