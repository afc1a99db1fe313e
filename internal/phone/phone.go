package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// E164 normalizes a raw phone number. Strictly valid numbers win; "possible"
// numbers are accepted since carrier metadata lags in some regions; as a
// last resort a bare digit string of plausible length is kept with a leading
// plus. Returns "" when nothing usable remains.
func E164(raw, defaultRegion string) string {
	trimmed := strings.TrimSpace(raw)
	region := defaultRegion
	if strings.HasPrefix(trimmed, "+") {
		region = ""
	}

	parsed, err := phonenumbers.Parse(trimmed, region)
	if err == nil {
		if phonenumbers.IsValidNumber(parsed) || phonenumbers.IsPossibleNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}

	digits := nonDigits.ReplaceAllString(trimmed, "")
	if len(digits) >= 8 && len(digits) <= 15 {
		return "+" + digits
	}
	return ""
}

// Region detects the ISO country code of a phone number, falling back to
// "UNKN" when detection fails.
func Region(raw, defaultRegion string) string {
	trimmed := strings.TrimSpace(raw)
	region := defaultRegion
	if strings.HasPrefix(trimmed, "+") {
		region = ""
	}
	parsed, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return "UNKN"
	}
	detected := phonenumbers.GetRegionCodeForNumber(parsed)
	if detected == "" {
		return "UNKN"
	}
	return detected
}
