// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import "errors"

// ErrorType is the category of a pipeline failure.
type ErrorType int

const (
	ErrorTypeInternal                 ErrorType = iota // unclassified failure
	ErrorTypeInvalidRequest                            // envelope fields unusable (bad name, format)
	ErrorTypeUnsupportedRecordKind                     // record is none of the three kinds
	ErrorTypeStorage                                   // output directory or docx write failed
	ErrorTypeConversionFailure                         // external converter failed or produced nothing
	ErrorTypeEncryptionSourceMissing                   // file to encrypt does not exist
	ErrorTypeEncryptionBackendFailure                  // encryption library rejected the input
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeInternal:                 "internal",
	ErrorTypeInvalidRequest:           "invalid_request",
	ErrorTypeUnsupportedRecordKind:    "unsupported_record_kind",
	ErrorTypeStorage:                  "storage",
	ErrorTypeConversionFailure:        "conversion_failure",
	ErrorTypeEncryptionSourceMissing:  "encryption_source_missing",
	ErrorTypeEncryptionBackendFailure: "encryption_backend_failure",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Error is a pipeline failure with its category.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TypeOf returns the category of err, or ErrorTypeInternal when err is not
// a pipeline error.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

func newError(t ErrorType, message string, err ...error) *Error {
	return &Error{Type: t, Message: message, Err: errors.Join(err...)}
}
