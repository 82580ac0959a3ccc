package services

import (
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

// ValidateUsername returns an empty string when the username is acceptable.
func ValidateUsername(username string) string {
	if !usernamePattern.MatchString(username) {
		return "Username must be 3-50 characters of letters, digits, dot, dash or underscore"
	}
	return ""
}

func ValidatePassword(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters long"
	}
	if strings.TrimSpace(password) != password {
		return "Password must not start or end with spaces"
	}
	return ""
}
