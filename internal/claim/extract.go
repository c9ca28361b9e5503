package claim

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/annassistant/annad/internal/evidence"
)

// numericRe matches "<subject> (uses|is using|consuming|took) <number> <unit>".
// The subject is the run of word characters immediately before the verb
// phrase; multi-word subjects ("the postgres process") are trimmed to
// their last word, which is the canonical key evidence is matched on.
var numericRe = regexp.MustCompile(`(?i)\b([a-z][a-z0-9_.-]*)\s+(?:uses|is using|consuming|took)\s+([0-9]+(?:\.[0-9]+)?)\s*(B|KB|KiB|MB|MiB|GB|GiB)\b`)

// percentRe matches "<mount-or-alias> (is|at) <N>% (full|used|capacity)?".
var percentRe = regexp.MustCompile(`(?i)(/[a-zA-Z0-9_./-]*|\b(?:root|home|var|tmp|boot))\s+(?:is|at)\s+([0-9]{1,3})%(?:\s*(?:full|used|capacity))?`)

// statusRe matches "<service-word> is <state>".
var statusRe = regexp.MustCompile(`(?i)\b([a-zA-Z][a-zA-Z0-9_.-]*)\s+is\s+(running|active|failed|inactive|activating|deactivating|reloading)\b`)

// unitMultiplier maps the fixed unit vocabulary to its binary
// multiplier; non-IEC names (KB, MB, GB) are treated as their binary
// counterparts, matching how system tools actually report these units.
var unitMultiplier = map[string]uint64{
	"B": 1,
	"KB": 1024, "KiB": 1024,
	"MB": 1024 * 1024, "MiB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024, "GiB": 1024 * 1024 * 1024,
}

// Extract pulls every supported claim shape out of text. Overlapping
// matches are not deduplicated; each regex owns its own scan of the
// full text.
func Extract(text string) []Claim {
	var claims []Claim

	for _, m := range numericRe.FindAllStringSubmatch(text, -1) {
		subject := strings.ToLower(lastWord(m[1]))
		if vagueSubjects[subject] {
			continue
		}
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		mult, ok := unitMultiplier[canonicalUnit(m[3])]
		if !ok {
			continue
		}
		claims = append(claims, Numeric{
			Subject: subject,
			Bytes:   uint64(value * float64(mult)),
			Raw:     m[0],
		})
	}

	for _, m := range percentRe.FindAllStringSubmatch(text, -1) {
		mount, ok := resolveMount(strings.ToLower(m[1]))
		if !ok {
			continue
		}
		pct, err := strconv.Atoi(m[2])
		if err != nil || pct < 0 || pct > 100 {
			continue
		}
		claims = append(claims, Percent{Mount: mount, Percent: pct, Raw: m[0]})
	}

	for _, m := range statusRe.FindAllStringSubmatch(text, -1) {
		service := evidence.CanonicalServiceName(m[1])
		claims = append(claims, Status{
			Service: service,
			State:   string(evidence.ParseState(m[2])),
			Raw:     m[0],
		})
	}

	return claims
}

func canonicalUnit(u string) string {
	switch strings.ToUpper(u) {
	case "B":
		return "B"
	case "KB":
		return "KB"
	case "KIB":
		return "KiB"
	case "MB":
		return "MB"
	case "MIB":
		return "MiB"
	case "GB":
		return "GB"
	case "GIB":
		return "GiB"
	default:
		return u
	}
}

func lastWord(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '_' || r == '-' })
	if len(parts) == 0 {
		return s
	}
	return parts[len(parts)-1]
}
