package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	phoneStrip   = regexp.MustCompile(`[\s()\-]`)
	phonePattern = regexp.MustCompile(`^\+[0-9]{6,15}$`)
)

// NormalizePhone strips formatting characters and enforces E.164 style
// numbers: a leading plus followed by 6 to 15 digits.
func NormalizePhone(raw string) (string, error) {
	phone := phoneStrip.ReplaceAllString(strings.TrimSpace(raw), "")
	if !phonePattern.MatchString(phone) {
		return "", fmt.Errorf("invalid phone number %q, expected +<country code><number>", raw)
	}
	return phone, nil
}
