package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "12345678901234567890123456789012"

func TestPasetoMaker_RoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	userID := uuid.New()
	tok, issued, err := maker.CreateToken(userID, "asha", "tenant", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.True(t, strings.HasPrefix(tok, "v2.local."))

	payload, err := maker.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, payload.ID)
	assert.Equal(t, userID, payload.UserID)
	assert.Equal(t, "asha", payload.Username)
	assert.Equal(t, "tenant", payload.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), payload.ExpiredAt, time.Minute)
}

func TestPasetoMaker_ExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	tok, _, err := maker.CreateToken(uuid.New(), "admin", "admin", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = maker.VerifyToken(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestPasetoMaker_RejectsForeignKey(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)
	other, err := NewPasetoMaker("abcdefghijklmnopqrstuvwxyz123456")
	require.NoError(t, err)

	tok, _, err := other.CreateToken(uuid.New(), "admin", "admin", time.Hour)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tok)
	assert.Error(t, err)
}

func TestNewPasetoMaker_InvalidKeySize(t *testing.T) {
	_, err := NewPasetoMaker("short")
	assert.Error(t, err)
}

func TestNewPayload_Validation(t *testing.T) {
	_, err := NewPayload(uuid.Nil, "x", "admin", time.Hour)
	assert.Error(t, err)
	_, err = NewPayload(uuid.New(), "x", "", time.Hour)
	assert.Error(t, err)
	_, err = NewPayload(uuid.New(), "x", "admin", 0)
	assert.Error(t, err)
}
