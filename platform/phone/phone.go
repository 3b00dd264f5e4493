// Package phone provides Brazilian phone number utilities for the WhatsApp channel.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const countryCode = "55"

const displayRegion = "BR"

var validWhatsApp = regexp.MustCompile(`^\+55\d{10,11}$`)

// Normalize converts a loosely formatted Brazilian phone number to E.164.
// It accepts inputs like "(11) 99999-9999", "11999999999" or "+55 11 99999-9999".
// The result always starts with "+" but is not guaranteed to be valid; callers
// that need a hard guarantee must check IsValidWhatsApp.
func Normalize(raw string) string {
	cleaned := stripNonDigits(strings.TrimSpace(raw))

	// Already carries the country code.
	if strings.HasPrefix(cleaned, countryCode) && len(cleaned) >= 12 {
		return "+" + cleaned
	}

	// DDD (2) + mobile "9" prefix + subscriber (8).
	if len(cleaned) == 11 {
		return "+" + countryCode + cleaned
	}

	// DDD (2) + subscriber (8): mobile "9" prefix missing, insert it.
	if len(cleaned) == 10 {
		return "+" + countryCode + cleaned[:2] + "9" + cleaned[2:]
	}

	// Subscriber only, no DDD. Cannot resolve the area code; prefix the
	// country code as a last resort.
	if len(cleaned) >= 8 && len(cleaned) <= 9 {
		return "+" + countryCode + cleaned
	}

	return "+" + cleaned
}

// IsValidWhatsApp reports whether the number, after normalization, is a
// deliverable Brazilian WhatsApp destination (+55 followed by 10-11 digits).
func IsValidWhatsApp(number string) bool {
	normalized := number
	if !strings.HasPrefix(number, "+") {
		normalized = Normalize(number)
	}
	return validWhatsApp.MatchString(normalized)
}

// FormatDisplay renders a number for user-facing output, e.g. "+55 11 99999-9999".
// Falls back to the normalized value when the number cannot be parsed.
func FormatDisplay(number string) string {
	normalized := Normalize(number)

	parsed, err := phonenumbers.Parse(normalized, displayRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return normalized
	}

	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}

// stripNonDigits removes everything except digits. A leading "+" is dropped as
// well: the country code check below works on bare digits.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
