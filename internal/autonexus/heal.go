package autonexus

import (
	"fmt"
	"regexp"
	"strconv"
)

// healNotificationKey is the outer discriminator the wire uses for a heal
// notification's embedded payload.
const healNotificationKey = "s.plus_symbol"

// amountPattern pulls the "t.amount" field out of the notification's
// payload without a full JSON5 parser: the payload is malformed JSON
// (unquoted keys, trailing commas observed in the wild), so the original
// proxy scrapes it with a targeted pattern rather than a strict decoder.
var amountPattern = regexp.MustCompile(`"?amount"?\s*:\s*"?(-?\d+)"?`)
var keyPattern = regexp.MustCompile(`"?k"?\s*:\s*"` + regexp.QuoteMeta(healNotificationKey) + `"`)

// ParseHealAmount extracts the integer heal amount from a green,
// self-targeted Notification payload. A malformed payload returns an
// error; per spec §4.7.1 this is logged and ignored by the caller, not
// fatal.
func ParseHealAmount(payload string) (int64, error) {
	if !keyPattern.MatchString(payload) {
		return 0, fmt.Errorf("autonexus: notification payload is not a heal (%q)", healNotificationKey)
	}
	m := amountPattern.FindStringSubmatch(payload)
	if m == nil {
		return 0, fmt.Errorf("autonexus: heal notification missing amount field")
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("autonexus: heal amount %q not an integer: %w", m[1], err)
	}
	return v, nil
}
