package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "product not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading product: %w", NewNotFoundError("product not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestTenantNotFoundError(t *testing.T) {
	var err error = NewTenantNotFoundError("1790012345001")

	assert.Equal(t, "company with tax id 1790012345001 not found", err.Error())

	tnf, ok := IsTenantNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "1790012345001", tnf.TaxID)

	_, ok = IsNotFoundError(err)
	assert.False(t, ok)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("product code already exists in this company")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "product code already exists in this company", ce.Error())

	_, ok = IsConflictError(errors.New("boom"))
	assert.False(t, ok)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "page", Message: "page must be >= 1"},
		{Field: "pageSize", Message: "pageSize must be between 1 and 100"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Same(t, err, ve)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestInternalError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("listing: %w", NewInternalError("resolving tenant", cause))

	ie, ok := IsInternalError(err)
	assert.True(t, ok)
	assert.Equal(t, "resolving tenant: connection refused", ie.Error())
	assert.ErrorIs(t, err, cause)

	_, ok = IsInternalError(cause)
	assert.False(t, ok)
}
