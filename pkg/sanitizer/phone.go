package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var supportedRegions = []string{
	"DE",
	"US",
}

// NormalizePhone converts a phone number to E.164 form. Numbers with an
// international prefix carry their own country code; for national-form
// input the trunk digit picks the default region, since a US number
// would otherwise also validate under the permissive German patterns.
// Returns an empty string when the number cannot be parsed.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range candidateRegions(phone) {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}

// candidateRegions narrows the default-region guess for national-form
// numbers. German national numbers always start with the trunk prefix 0;
// NANP numbers never do.
func candidateRegions(phone string) []string {
	if strings.HasPrefix(phone, "+") || strings.HasPrefix(phone, "00") {
		return supportedRegions
	}
	if d, ok := firstDigit(phone); ok && d == '0' {
		return []string{"DE"}
	}
	return []string{"US"}
}

func firstDigit(s string) (byte, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return s[i], true
		}
	}
	return 0, false
}
