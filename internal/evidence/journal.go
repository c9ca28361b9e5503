package evidence

import "strings"

// JournalEntry is one filtered error entry from journalctl.
type JournalEntry struct {
	Service   string
	Timestamp string
	Message   string
}

// Journal is the parsed result of a journalctl error-priority query.
type Journal struct {
	Entries []JournalEntry
}

func (Journal) Kind() Kind { return KindJournal }

// ParseJournal reads journalctl's short-iso output
// ("<timestamp> <host> <service>[pid]: <message>"). Lines that don't
// match the expected shape are skipped rather than failing the whole
// parse, since journal formatting varies across units.
func ParseJournal(stdout string) Data {
	lines := nonEmptyLines(stdout)
	var entries []JournalEntry

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		// short-iso timestamp is fields[0], host is fields[1],
		// "service[pid]:" or "service:" is fields[2].
		service := strings.TrimSuffix(fields[2], ":")
		if idx := strings.Index(service, "["); idx >= 0 {
			service = service[:idx]
		}
		msg := strings.Join(fields[3:], " ")

		entries = append(entries, JournalEntry{
			Service:   service,
			Timestamp: fields[0],
			Message:   msg,
		})
	}

	if entries == nil {
		return Empty{Reason: "no_journal_entries"}
	}
	return Journal{Entries: entries}
}
