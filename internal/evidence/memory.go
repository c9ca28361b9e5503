package evidence

import (
	"strings"
)

// Memory is the parsed result of a `free -h`-style table.
type Memory struct {
	TotalBytes     uint64
	UsedBytes      uint64
	AvailableBytes uint64
}

func (Memory) Kind() Kind { return KindMemory }

// ParseMemory reads `free -h` output and returns {total, used,
// available} in bytes. A missing or unparseable token yields Invalid
// with a reason code.
func ParseMemory(stdout string) Data {
	lines := nonEmptyLines(stdout)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(fields[0]), "mem") {
			continue
		}
		// Typical shape: Mem: <total> <used> <free> <shared> <buff/cache> <available>
		if len(fields) < 4 {
			return Invalid{Reason: "memory_row_too_short", Snippet: boundedSnippet(line)}
		}

		total, ok := ParseSize(fields[1])
		if !ok {
			return Invalid{Reason: "memory_total_unparseable", Snippet: boundedSnippet(line)}
		}
		used, ok := ParseSize(fields[2])
		if !ok {
			return Invalid{Reason: "memory_used_unparseable", Snippet: boundedSnippet(line)}
		}

		available := fields[len(fields)-1]
		availableBytes, ok := ParseSize(available)
		if !ok {
			// Fall back to the "free" column (index 3) when an
			// "available" column is absent (older free(1) builds).
			availableBytes, ok = ParseSize(fields[3])
			if !ok {
				return Invalid{Reason: "memory_available_unparseable", Snippet: boundedSnippet(line)}
			}
		}

		return Memory{TotalBytes: total, UsedBytes: used, AvailableBytes: availableBytes}
	}
	return Empty{Reason: "no_mem_row"}
}

func nonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
