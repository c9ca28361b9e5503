package evidence

import "strings"

// State is a systemd unit's active state, canonicalized to a fixed
// set of values regardless of the exact wording systemctl prints.
type State string

const (
	StateRunning     State = "running"
	StateActive      State = "active"
	StateFailed      State = "failed"
	StateInactive    State = "inactive"
	StateActivating  State = "activating"
	StateDeactivating State = "deactivating"
	StateReloading   State = "reloading"
	StateUnknown     State = "unknown"
)

// ParseState canonicalizes a raw systemctl state token.
func ParseState(raw string) State {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "running":
		return StateRunning
	case "active":
		return StateActive
	case "failed":
		return StateFailed
	case "inactive", "dead":
		return StateInactive
	case "activating":
		return StateActivating
	case "deactivating":
		return StateDeactivating
	case "reloading":
		return StateReloading
	default:
		return StateUnknown
	}
}

// IsUp reports whether state represents a healthy, running unit.
func (s State) IsUp() bool {
	return s == StateRunning || s == StateActive
}

// IsDown reports whether state represents a unit that is not running
// and not transitioning.
func (s State) IsDown() bool {
	return s == StateFailed || s == StateInactive
}

// ServiceEntry describes one systemd unit's observed state.
type ServiceEntry struct {
	Name        string // canonicalized: ".service" appended if no "." suffix
	State       State
	Description string
}

// Services is the parsed result of a systemctl probe (--failed,
// is-active, or status).
type Services struct {
	Entries []ServiceEntry
}

func (Services) Kind() Kind { return KindServices }

// CanonicalServiceName appends ".service" when name has no unit-type
// suffix, matching systemd's own default unit type resolution.
func CanonicalServiceName(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

// ParseFailedUnits reads `systemctl --failed` tabular output. Lines
// whose first column contains no '.' are treated as header/footer
// noise (e.g. a legend or a trailing "N loaded units listed." line)
// and skipped. exit_code==1 with empty stdout is valid evidence of
// zero failed units, not an error.
func ParseFailedUnits(stdout string, exitCode int) Data {
	lines := nonEmptyLines(stdout)
	if len(lines) == 0 {
		// A grep-like probe reporting "nothing matched" via exit_code
		// is still a valid, empty result.
		return Services{Entries: nil}
	}

	var entries []ServiceEntry
	for _, line := range lines {
		entry, ok := parseFailedUnitLine(line)
		if ok {
			entries = append(entries, entry)
		}
	}

	if entries == nil {
		return Empty{Reason: "no_failed_unit_rows"}
	}
	return Services{Entries: entries}
}

func parseFailedUnitLine(line string) (ServiceEntry, bool) {
	trimmed := strings.TrimLeft(line, "● \t")
	fields := strings.Fields(trimmed)
	if len(fields) < 4 {
		return ServiceEntry{}, false
	}
	unit := fields[0]
	if !strings.Contains(unit, ".") {
		return ServiceEntry{}, false
	}
	// UNIT LOAD ACTIVE SUB [DESCRIPTION...]
	state := ParseState(fields[2])
	desc := ""
	if len(fields) > 4 {
		desc = strings.Join(fields[4:], " ")
	}
	return ServiceEntry{Name: unit, State: state, Description: desc}, true
}

// ParseIsActive reads `systemctl is-active <unit>` output: a single
// state word, with exit_code!=0 for any non-active state (systemd's
// own convention, not an executor failure).
func ParseIsActive(unit, stdout string) Data {
	word := strings.TrimSpace(stdout)
	if word == "" {
		return Empty{Reason: "empty_is_active_output"}
	}
	return Services{Entries: []ServiceEntry{
		{Name: CanonicalServiceName(unit), State: ParseState(word)},
	}}
}

// ParseStatusVerbose reads `systemctl status <unit>` multi-line
// output, extracting the "Active: <state> (<sub>) ..." line and the
// leading "●"/"○" description line.
func ParseStatusVerbose(unit, stdout string) Data {
	lines := nonEmptyLines(stdout)
	if len(lines) == 0 {
		return Empty{Reason: "empty_status_output"}
	}

	entry := ServiceEntry{Name: CanonicalServiceName(unit), State: StateUnknown}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i == 0 && (strings.HasPrefix(trimmed, "●") || strings.HasPrefix(trimmed, "○")) {
			parts := strings.SplitN(trimmed, " - ", 2)
			if len(parts) == 2 {
				entry.Description = strings.TrimSpace(parts[1])
			}
			continue
		}
		if idx := strings.Index(trimmed, "Active:"); idx == 0 {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "Active:"))
			word := strings.Fields(rest)
			if len(word) > 0 {
				entry.State = ParseState(word[0])
			}
		}
	}

	if entry.State == StateUnknown && entry.Description == "" {
		return Invalid{Reason: "status_missing_active_line", Snippet: boundedSnippet(stdout)}
	}
	return Services{Entries: []ServiceEntry{entry}}
}

// ByName returns the entry matching the canonicalized name, if any.
func (s Services) ByName(name string) (ServiceEntry, bool) {
	canon := CanonicalServiceName(name)
	for _, e := range s.Entries {
		if e.Name == canon {
			return e, true
		}
	}
	return ServiceEntry{}, false
}
