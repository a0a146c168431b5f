package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"
	CodeNotFound          Code = "NOT_FOUND"
	CodeStateConflict     Code = "STATE_CONFLICT"
	CodeCorruptRecord     Code = "CORRUPT_RECORD"
	CodeStoreWrite        Code = "STORE_WRITE_FAILED"
	CodeDependency        Code = "DEPENDENCY_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Metadata describes how a code surfaces to the UI layer: silently recovered,
// retryable, and the transient message shown when it is not silent.
type Metadata struct {
	Silent         bool
	Retryable      bool
	UserMessage    string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Silent:         false,
		Retryable:      false,
		UserMessage:    "invalid input",
		DetailsAllowed: true,
	},
	CodeInvalidCredential: {
		Silent:         true,
		Retryable:      false,
		UserMessage:    "session expired",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		Silent:         false,
		Retryable:      false,
		UserMessage:    "not found",
		DetailsAllowed: false,
	},
	CodeStateConflict: {
		Silent:         false,
		Retryable:      true,
		UserMessage:    "cart is still loading",
		DetailsAllowed: true,
	},
	CodeCorruptRecord: {
		Silent:         true,
		Retryable:      false,
		UserMessage:    "saved data was reset",
		DetailsAllowed: true,
	},
	CodeStoreWrite: {
		Silent:         false,
		Retryable:      true,
		UserMessage:    "could not save cart",
		DetailsAllowed: true,
	},
	CodeDependency: {
		Silent:         false,
		Retryable:      true,
		UserMessage:    "storage unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		Silent:         false,
		Retryable:      true,
		UserMessage:    "something went wrong",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
