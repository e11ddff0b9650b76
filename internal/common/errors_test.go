package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError_WrapsCause(t *testing.T) {
	err := NewUserError("could not open the learning database", ErrDatabaseCorrupted)

	var userErr *UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not open the learning database", userErr.UserMessage)
	assert.ErrorIs(t, err, ErrDatabaseCorrupted)
	assert.Contains(t, err.Error(), "database corrupted")
}

func TestUserError_WithoutCause(t *testing.T) {
	err := NewUserError("nothing to report", nil)

	assert.Equal(t, "nothing to report", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
