// Package evidence implements the Evidence Parsers: pure, total,
// deterministic functions mapping a probe.Result to a typed
// ParsedProbeData variant. Parsers never execute anything; they only
// read the text already captured by the Probe Executor.
package evidence

// Kind discriminates the ParsedProbeData union.
type Kind string

const (
	KindMemory       Kind = "memory"
	KindDisk         Kind = "disk"
	KindCPU          Kind = "cpu"
	KindBlockDevices Kind = "block_devices"
	KindServices     Kind = "services"
	KindAudio        Kind = "audio"
	KindProcesses    Kind = "processes"
	KindNetwork      Kind = "network"
	KindJournal      Kind = "journal"
	KindToolExists   Kind = "tool_exists"
	KindEmpty        Kind = "empty"
	KindInvalid      Kind = "invalid"
)

// Data is the tagged-union interface every parser result satisfies.
// Grounding and display sites switch exhaustively on Kind() rather
// than relying on inheritance.
type Data interface {
	Kind() Kind
}

// Empty is returned when probe output was recognized as legitimately
// carrying no evidence (e.g. no lsblk rows, no journal entries). An
// empty failed-units or audio listing is not Empty: those parsers
// return their own variant with no entries.
type Empty struct {
	Reason string
}

func (Empty) Kind() Kind { return KindEmpty }

// Invalid is returned when probe output was non-empty but did not
// match the expected shape. The offending line is bounded in length
// so Invalid can never smuggle large probe output into a trace.
type Invalid struct {
	Reason  string
	Snippet string
}

func (Invalid) Kind() Kind { return KindInvalid }

const invalidSnippetMax = 160

func boundedSnippet(s string) string {
	if len(s) <= invalidSnippetMax {
		return s
	}
	return s[:invalidSnippetMax] + "…"
}
