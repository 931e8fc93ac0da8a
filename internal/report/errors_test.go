// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := newError(ErrorTypeStorage, "writing docx", cause)

	assert.Equal(t, "writing docx: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "request carries no record", newError(ErrorTypeUnsupportedRecordKind, "request carries no record").Error())
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("serving request: %w", newError(ErrorTypeConversionFailure, "converting"))
	assert.Equal(t, ErrorTypeConversionFailure, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorTypeInternal, TypeOf(nil))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "encryption_source_missing", ErrorTypeEncryptionSourceMissing.String())
	assert.Equal(t, "invalid_request", ErrorTypeInvalidRequest.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
