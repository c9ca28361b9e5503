package evidence

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// sizeTokenRe splits a size token like "1.5GiB", "500M", "1024k" into
// its numeric and unit parts.
var sizeTokenRe = regexp.MustCompile(`(?i)^([0-9]+(?:\.[0-9]+)?)\s*([a-z]*)$`)

// iecMultiplier maps a case-insensitive unit suffix to its IEC binary
// multiplier (KiB=1024, MiB=1024^2, GiB=1024^3). Bare letters (K, M,
// G) and the free(1)/df(1) short forms (Ki, Mi, Gi) are treated
// identically to their *iB spellings, matching common tool output
// across the probes this parses.
func iecMultiplier(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "", "b":
		return 1, true
	case "k", "ki", "kib":
		return 1024, true
	case "m", "mi", "mib":
		return 1024 * 1024, true
	case "g", "gi", "gib":
		return 1024 * 1024 * 1024, true
	case "t", "ti", "tib":
		return 1024 * 1024 * 1024 * 1024, true
	default:
		return 0, false
	}
}

// ParseSize parses a size token into a byte count using IEC binary
// multipliers. Rounding uses half-to-even (banker's rounding) so
// "1.5GiB" parses to exactly 1610612736 bytes.
func ParseSize(tok string) (uint64, bool) {
	tok = strings.TrimSpace(tok)
	m := sizeTokenRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	mult, ok := iecMultiplier(m[2])
	if !ok {
		return 0, false
	}
	return roundHalfEven(value * mult), true
}

// roundHalfEven rounds x to the nearest integer, breaking exact ties
// toward the nearest even integer (banker's rounding).
func roundHalfEven(x float64) uint64 {
	floor := math.Floor(x)
	diff := x - floor
	switch {
	case diff < 0.5:
		return uint64(floor)
	case diff > 0.5:
		return uint64(floor) + 1
	default:
		if uint64(floor)%2 == 0 {
			return uint64(floor)
		}
		return uint64(floor) + 1
	}
}
