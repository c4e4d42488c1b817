package validation

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	validRoles = map[string]bool{
		"ADMIN":   true,
		"MANAGER": true,
		"DRIVER":  true,
		"COOK":    true,
	}
)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 200
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

func ValidateRole(role string) bool {
	return validRoles[role]
}

// ValidateCoordinates reports whether (lat,lng) is a plottable WGS84 point.
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func ValidatePrice(price float64) bool {
	return price >= 0 && price < 1_000_000
}
