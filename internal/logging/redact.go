package logging

import (
	"sort"
	"strings"
)

// RedactedValue is the canonical placeholder used for sensitive fields in logs.
const RedactedValue = "[REDACTED]"

var redactionAllowlist = map[string]struct{}{
	"service":     {},
	"env":         {},
	"message":     {},
	"severity":    {},
	"timestamp":   {},
	"error":       {},
	"reason":      {},
	"component":   {},
	"proposal_id": {},
	"boost_id":    {},
	"chain_id":    {},
	"voter":       {},
	"request_id":  {},
	"boostId":     {},
	"recipient":   {},
	"amount":      {},
}

// IsAllowlisted reports whether the provided key is exempt from automatic redaction.
func IsAllowlisted(key string) bool {
	trimmed := strings.TrimSpace(key)
	if _, ok := redactionAllowlist[trimmed]; ok {
		return true
	}
	_, ok := redactionAllowlist[strings.ToLower(trimmed)]
	return ok
}

// RedactionAllowlist returns a sorted copy of the log keys that may be emitted unredacted.
func RedactionAllowlist() []string {
	keys := make([]string, 0, len(redactionAllowlist))
	for key := range redactionAllowlist {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MaskValue returns the canonical redacted placeholder for non-empty values.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return RedactedValue
}
