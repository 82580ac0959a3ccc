package utils

import (
	"fmt"
	"time"

	"github.com/muhammedanshif/rentEase/db/models"
)

// DateLocation is the application's timezone
var DateLocation = time.Local

// InitializeDateLocation sets up the application's timezone
func InitializeDateLocation(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	DateLocation = loc
	return nil
}

// Now is swapped in tests that need a fixed clock.
var Now = time.Now

// Today returns the current calendar date in the application timezone.
func Today() models.DateOnly {
	return models.NewDateOnly(Now().In(DateLocation))
}

// CurrentBillingMonth formats today as YYYY-MM.
func CurrentBillingMonth() string {
	return Now().In(DateLocation).Format("2006-01")
}

// ParseBillingMonth validates a YYYY-MM period and returns its first day.
func ParseBillingMonth(period string) (time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, fmt.Errorf("billing month must be formatted as YYYY-MM: %w", err)
	}
	return t, nil
}

// DueDateFor places the due date on dueDay of the period, clamped to the month length.
func DueDateFor(period time.Time, dueDay int) models.DateOnly {
	if dueDay < 1 {
		dueDay = 1
	}
	lastDay := time.Date(period.Year(), period.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dueDay > lastDay {
		dueDay = lastDay
	}
	return models.DateOnly(time.Date(period.Year(), period.Month(), dueDay, 0, 0, 0, 0, time.UTC))
}
