// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var orcidRegex = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// ValidateORCID checks the 16-digit ORCID iD format (e.g. 0000-0002-1825-0097).
func ValidateORCID(orcid string) bool {
	return orcidRegex.MatchString(orcid)
}

// ValidateScore checks a review criterion score is inside [1,10].
func ValidateScore(score int) bool {
	return score >= 1 && score <= 10
}

// ValidateAbstractWordCount checks the abstract length in words.
func ValidateAbstractWordCount(abstract string, min, max int) (bool, string) {
	words := len(strings.Fields(abstract))
	if words < min {
		return false, "Abstract is too short"
	}
	if max > 0 && words > max {
		return false, "Abstract is too long"
	}
	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
