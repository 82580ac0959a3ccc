package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.Empty(t, ValidateUsername("asha.k"))
	assert.NotEmpty(t, ValidateUsername("ab"))
	assert.NotEmpty(t, ValidateUsername("has space"))
}

func TestValidatePassword(t *testing.T) {
	assert.Empty(t, ValidatePassword("secret123"))
	assert.NotEmpty(t, ValidatePassword("abc"))
	assert.NotEmpty(t, ValidatePassword(" padded "))
}
