package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateErrorsAreConflicts(t *testing.T) {
	assert.True(t, errors.Is(ErrDuplicateEmail, ErrorConflict))
	assert.True(t, errors.Is(ErrDuplicateUsername, ErrorConflict))
	assert.False(t, errors.Is(ErrDuplicateEmail, ErrDuplicateUsername))
	assert.False(t, errors.Is(ErrorUnauthorized, ErrorConflict))
}
