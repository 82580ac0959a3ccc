package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDateFor(t *testing.T) {
	period, err := ParseBillingMonth("2024-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-06", DueDateFor(period, 6).String())

	feb, err := ParseBillingMonth("2023-02")
	require.NoError(t, err)
	assert.Equal(t, "2023-02-28", DueDateFor(feb, 31).String())
}

func TestParseBillingMonth_Invalid(t *testing.T) {
	_, err := ParseBillingMonth("June 2024")
	assert.Error(t, err)
	_, err = ParseBillingMonth("2024-13")
	assert.Error(t, err)
}

func TestCurrentBillingMonth_UsesClock(t *testing.T) {
	orig := Now
	t.Cleanup(func() { Now = orig })
	Now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	prevLoc := DateLocation
	DateLocation = time.UTC
	t.Cleanup(func() { DateLocation = prevLoc })

	assert.Equal(t, "2024-06", CurrentBillingMonth())
	assert.Equal(t, "2024-06-15", Today().String())
}
