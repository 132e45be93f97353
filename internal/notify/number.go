// Package notify holds the workflow-side helpers for composing and addressing
// outbound patient notifications.
package notify

import "strings"

// DefaultCountryCode is prepended to numbers stored without an international
// prefix. The clinic operates in El Salvador.
const DefaultCountryCode = "+503"

// NormalizeNumber prepares a stored phone number for dispatch: hyphens are
// stripped and a default country calling code is prepended when the number
// does not already carry a "+" prefix. The provider applies its own, separate
// prefix check on top of this (see internal/provider).
func NormalizeNumber(raw string, countryCode string) string {
	number := strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
	if number == "" {
		return number
	}
	if strings.HasPrefix(number, "+") {
		return number
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return countryCode + number
}
