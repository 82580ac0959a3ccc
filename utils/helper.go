package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID parses a path id, reporting a validation error for malformed input.
func ParseID(raw string, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ValidationError("Invalid %s id", what)
	}
	return id, nil
}

// OptionalString turns blank strings into nil, the way empty form fields are stored.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func DerefString(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
