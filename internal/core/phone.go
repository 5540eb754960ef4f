package core

import "strings"

// NormalizePhone canonicalizes an inbound sender identifier into the phone key
// used to correlate messages with a UserLink. WhatsApp delivers numbers without
// the leading "+"; the companion app stores them with it. No country-code
// inference is performed. Idempotent.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "+") {
		return raw
	}
	return "+" + raw
}
