// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "KR"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// NormalizeLocal formats a phone number to the provider's expected national
// digits form ("010-1234-5678" -> "01012345678", "+82 10 1234 5678" -> "01012345678").
// Input that cannot be parsed is returned with non-digits stripped.
func NormalizeLocal(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		national := phonenumbers.Format(number, phonenumbers.NATIONAL)
		return stripNonDigits(national)
	}

	digits := stripNonDigits(trimmed)
	if strings.HasPrefix(digits, "82") && len(digits) >= 11 {
		digits = "0" + digits[2:]
	}
	return digits
}

// Mask obscures the middle digits of a phone number for notifications
// ("01012345678" -> "010-****-5678").
func Mask(input string) string {
	digits := stripNonDigits(input)
	if len(digits) < 8 {
		return input
	}
	return digits[:3] + "-****-" + digits[len(digits)-4:]
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
