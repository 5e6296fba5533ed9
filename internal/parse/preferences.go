package parse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Dining zones.
const (
	ZoneIndoor  = "indoor"
	ZoneTerrace = "terrace"
)

var (
	terraceRe = regexp.MustCompile(`(?i)\b(terraza|terrace|outdoors?|outside|patio)\b`)
	indoorRe  = regexp.MustCompile(`(?i)\b(sal[oó]n|interior|indoors?|inside)\b`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// ParseZone extracts a zone hint from free-text preferences. It returns ""
// when the text names no zone. A terrace mention wins over an indoor one,
// as in "terraza, o salón si llueve".
func ParseZone(preferences string) string {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(preferences, " "))
	if s == "" {
		return ""
	}
	if terraceRe.MatchString(s) {
		return ZoneTerrace
	}
	if indoorRe.MatchString(s) {
		return ZoneIndoor
	}
	return ""
}

// NormalizeZone maps a zone name or alias to its canonical zone.
func NormalizeZone(zone string) string {
	switch z := strings.ToLower(strings.TrimSpace(zone)); z {
	case ZoneIndoor, ZoneTerrace, "":
		return z
	default:
		return ParseZone(z)
	}
}

const (
	minPhoneDigits = 9
	maxPhoneDigits = 15
)

// NormalizePhone strips formatting from a phone number ("+34 600-111 222")
// and returns its digits. Anything other than digits, spaces, dashes, dots,
// parentheses or a leading plus is rejected.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", fmt.Errorf("invalid character %q in phone number", r)
		}
	}

	digits := b.String()
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("phone number must have %d-%d digits, got %d", minPhoneDigits, maxPhoneDigits, len(digits))
	}
	return digits, nil
}
