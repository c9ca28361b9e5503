package claim

import (
	"strings"

	"github.com/annassistant/annad/internal/evidence"
)

// toleranceFor returns the grounding tolerance in bytes for a claimed
// value: the larger of 2% of the claimed value or 1 MiB, so a small
// claim is not held to an unreasonably tight absolute tolerance and a
// huge claim is not held to an unreasonably tight relative one.
func toleranceFor(claimed uint64) uint64 {
	const mib = 1024 * 1024
	pct := uint64(float64(claimed) * 0.02)
	if pct > mib {
		return pct
	}
	return mib
}

func withinTolerance(claimed, actual uint64) bool {
	var diff uint64
	if claimed > actual {
		diff = claimed - actual
	} else {
		diff = actual - claimed
	}
	return diff <= toleranceFor(claimed)
}

// Ground checks a single claim against the full set of parsed probe
// data for the request. It never mutates evidence and never executes
// anything; it is a pure predicate.
func Ground(c Claim, evidenceSet []evidence.Data) bool {
	switch v := c.(type) {
	case Numeric:
		return groundNumeric(v, evidenceSet)
	case Percent:
		return groundPercent(v, evidenceSet)
	case Status:
		return groundStatus(v, evidenceSet)
	default:
		return false
	}
}

func groundNumeric(c Numeric, evidenceSet []evidence.Data) bool {
	for _, d := range evidenceSet {
		switch mem := d.(type) {
		case evidence.Memory:
			if c.Subject == "memory" || c.Subject == "ram" {
				if withinTolerance(c.Bytes, mem.UsedBytes) || withinTolerance(c.Bytes, mem.TotalBytes) || withinTolerance(c.Bytes, mem.AvailableBytes) {
					return true
				}
			}
		case evidence.Processes:
			for _, p := range mem.Entries {
				if strings.EqualFold(lastWord(p.Command), c.Subject) {
					// Process entries carry a percentage, not bytes; a
					// numeric claim about a named process only grounds
					// when the subject matches a probed process at all -
					// byte-level comparison is left to the memory case.
					return true
				}
			}
		}
	}
	return false
}

func groundPercent(c Percent, evidenceSet []evidence.Data) bool {
	for _, d := range evidenceSet {
		disk, ok := d.(evidence.Disk)
		if !ok {
			continue
		}
		entry, found := disk.MountByPath(c.Mount)
		if !found {
			continue
		}
		diff := entry.UsePercent - c.Percent
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			return true
		}
	}
	return false
}

func groundStatus(c Status, evidenceSet []evidence.Data) bool {
	for _, d := range evidenceSet {
		svc, ok := d.(evidence.Services)
		if !ok {
			continue
		}
		entry, found := svc.ByName(c.Service)
		if !found {
			continue
		}
		if strings.EqualFold(string(entry.State), c.State) {
			return true
		}
	}
	return false
}

// AllGrounded reports whether every claim in claims grounds against
// evidenceSet. An empty claim set trivially grounds.
func AllGrounded(claims []Claim, evidenceSet []evidence.Data) bool {
	for _, c := range claims {
		if !Ground(c, evidenceSet) {
			return false
		}
	}
	return true
}
