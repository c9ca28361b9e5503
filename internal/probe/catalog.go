// Package probe implements the Probe Registry & Executor: a named
// catalog of read-only, shell-invocable actions with fixed argv
// templates, and a bounded-concurrency runner that turns a set of
// probe ids into one ProbeResult per id, preserving request order.
package probe

import (
	"fmt"
	"strings"
)

// ID identifies a ProbeSpec in the Registry. Stable across releases;
// referenced by RoutePlan.ProbeIDs.
type ID string

// Well-known probe ids. Every id here must resolve to exactly one
// ProbeSpec in the default catalog (data model invariant 1).
const (
	FreeMem          ID = "free_mem"
	DfHuman          ID = "df_human"
	LsCPU            ID = "lscpu"
	LsBlk            ID = "lsblk"
	LsPCI            ID = "lspci"
	SystemctlFailed  ID = "systemctl_failed"
	SystemctlActive  ID = "systemctl_is_active"
	SystemctlStatus  ID = "systemctl_status"
	PsTopMemory      ID = "ps_top_memory"
	PsTopCPU         ID = "ps_top_cpu"
	IPAddrShow       ID = "ip_addr_show"
	JournalctlErrors ID = "journalctl_errors"
	CommandExists    ID = "command_exists"
	UnameAll         ID = "uname_all"
	Uptime           ID = "uptime"
)

// Spec is a static, immutable description of one probe: its argv
// template (with named holes filled at invocation time), its timeout,
// and whether the daemon should refuse to start if its binary is
// absent from PATH.
type Spec struct {
	ID       ID
	Binary   string
	Argv     []string // may contain "{name}"-shaped holes
	TimeoutMs int
	Required bool
	// Shell marks probes that legitimately need `sh -lc` interpolation;
	// every other probe runs its binary directly with no shell involved.
	Shell bool
}

// Build resolves the argv template against the supplied holes,
// returning the final argv ready for exec. An unresolved hole is a
// configuration error, not a runtime one - callers should only ever
// pass specs whose holes are all satisfied by the RoutePlan.
func (s Spec) Build(holes map[string]string) ([]string, error) {
	argv := make([]string, len(s.Argv))
	for i, tok := range s.Argv {
		resolved, err := resolveHoles(tok, holes)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", s.ID, err)
		}
		argv[i] = resolved
	}
	return argv, nil
}

func resolveHoles(tok string, holes map[string]string) (string, error) {
	for strings.Contains(tok, "{") {
		start := strings.IndexByte(tok, '{')
		end := strings.IndexByte(tok, '}')
		if end < start {
			return "", fmt.Errorf("malformed hole in %q", tok)
		}
		name := tok[start+1 : end]
		val, ok := holes[name]
		if !ok {
			return "", fmt.Errorf("missing value for hole %q", name)
		}
		tok = tok[:start] + val + tok[end+1:]
	}
	return tok, nil
}

// DefaultCatalog returns the built-in, static probe table. It mirrors
// the ten expected probe tool ids of the reference tool executor,
// extended with the additional process/network/journal/tool-existence
// probes the evidence parsers support.
func DefaultCatalog() []Spec {
	return []Spec{
		{ID: FreeMem, Binary: "free", Argv: []string{"free", "-h"}, TimeoutMs: 2000, Required: true},
		{ID: DfHuman, Binary: "df", Argv: []string{"df", "-h"}, TimeoutMs: 2000, Required: true},
		{ID: LsCPU, Binary: "lscpu", Argv: []string{"lscpu"}, TimeoutMs: 2000, Required: true},
		{ID: LsBlk, Binary: "lsblk", Argv: []string{"lsblk"}, TimeoutMs: 2000, Required: false},
		{ID: LsPCI, Binary: "lspci", Argv: []string{"sh", "-lc", "lspci -v | grep -i audio"}, TimeoutMs: 3000, Required: false, Shell: true},
		{ID: SystemctlFailed, Binary: "systemctl", Argv: []string{"systemctl", "--failed", "--no-legend"}, TimeoutMs: 3000, Required: true},
		{ID: SystemctlActive, Binary: "systemctl", Argv: []string{"systemctl", "is-active", "{unit}"}, TimeoutMs: 2000, Required: true},
		{ID: SystemctlStatus, Binary: "systemctl", Argv: []string{"systemctl", "status", "{unit}", "--no-pager"}, TimeoutMs: 2000, Required: false},
		{ID: PsTopMemory, Binary: "ps", Argv: []string{"ps", "-eo", "pid,user,%mem,comm", "--sort=-%mem"}, TimeoutMs: 2000, Required: false},
		{ID: PsTopCPU, Binary: "ps", Argv: []string{"ps", "-eo", "pid,user,%cpu,comm", "--sort=-%cpu"}, TimeoutMs: 2000, Required: false},
		{ID: IPAddrShow, Binary: "ip", Argv: []string{"ip", "-brief", "addr"}, TimeoutMs: 2000, Required: false},
		{ID: JournalctlErrors, Binary: "journalctl", Argv: []string{"journalctl", "-p", "err", "-b", "--no-pager", "-n", "50"}, TimeoutMs: 4000, Required: false},
		{ID: CommandExists, Binary: "sh", Argv: []string{"sh", "-lc", "command -v {tool}"}, TimeoutMs: 1000, Required: true, Shell: true},
		{ID: UnameAll, Binary: "uname", Argv: []string{"uname", "-a"}, TimeoutMs: 1000, Required: true},
		{ID: Uptime, Binary: "uptime", Argv: []string{"uptime"}, TimeoutMs: 1000, Required: true},
	}
}
