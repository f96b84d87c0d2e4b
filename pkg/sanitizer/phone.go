package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Regions tried when the number carries no country code. The studio's
// clients are overwhelmingly domestic, so IN goes first.
var supportedRegions = []string{
	"IN",
	"US",
}

// NormalizePhone returns the E.164 form of the number, or "" when it cannot
// be parsed for any supported region. Lookups and storage always use the
// normalized form so "+91 98765 43210" and "09876543210" match.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
