package security

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultRefreshTTL is the fallback applied when a TTL string cannot be
// parsed. Falling back instead of erroring is deliberate policy: a bad TTL in
// configuration must not take the service down or silently issue non-expiring
// tokens.
const DefaultRefreshTTL = 7 * 24 * time.Hour

var ttlPattern = regexp.MustCompile(`^(\d+)([smhdwy])$`)

var ttlUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
	"y": 365 * 24 * time.Hour,
}

// ParseTTL converts strings like "15m" or "7d" into a duration. Supported
// units: s, m, h, d, w, y. Unrecognized formats return DefaultRefreshTTL.
func ParseTTL(s string) time.Duration {
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultRefreshTTL
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return DefaultRefreshTTL
	}
	return time.Duration(n) * ttlUnits[m[2]]
}
