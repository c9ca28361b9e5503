// Package trace implements the ExecutionTrace data model entity: a
// structured, deterministic record of which stages ran and which path
// produced the final answer. No timestamps - only enums and counts,
// so that two runs over identical inputs produce identical traces.
package trace

import (
	"fmt"
	"strings"

	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/probe"
)

// SpecialistOutcome records what happened in the optional specialist
// (LLM) stage.
type SpecialistOutcome string

const (
	SpecialistOK             SpecialistOutcome = "ok"
	SpecialistTimeout        SpecialistOutcome = "timeout"
	SpecialistBudgetExceeded SpecialistOutcome = "budget_exceeded"
	SpecialistSkipped        SpecialistOutcome = "skipped"
	SpecialistError          SpecialistOutcome = "error"
)

// FallbackUsed records whether and how the deterministic fallback
// path was taken.
type FallbackUsed struct {
	Deterministic bool   `json:"deterministic"`
	RouteClass    string `json:"route_class,omitempty"` // only meaningful when Deterministic is true
}

func (f FallbackUsed) String() string {
	if !f.Deterministic {
		return "none"
	}
	return fmt.Sprintf("deterministic (%s)", f.RouteClass)
}

// ProbeStats summarizes how the planned probe set actually executed.
type ProbeStats struct {
	Planned   int `json:"planned"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	TimedOut  int `json:"timed_out"`
}

// StatsFromResults classifies each probe.Result: succeeded means
// exit_code==0, timed_out means the result's stderr carries the
// timeout marker, failed means a non-zero exit that was not a
// timeout.
func StatsFromResults(planned int, results []probe.Result) ProbeStats {
	stats := ProbeStats{Planned: planned}
	for _, r := range results {
		switch {
		case r.ExitCode == 0:
			stats.Succeeded++
		case r.IsTimeout():
			stats.TimedOut++
		default:
			stats.Failed++
		}
	}
	return stats
}

func (p ProbeStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d probes succeeded", p.Succeeded, p.Planned)
	if p.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", p.Failed)
	}
	if p.TimedOut > 0 {
		fmt.Fprintf(&b, ", %d timed out", p.TimedOut)
	}
	return b.String()
}

// EvidenceKindsFromRoute derives the EvidenceKind set a route class
// is expected to produce. Case-insensitive so translator output and
// deterministic classifier output can share one table.
func EvidenceKindsFromRoute(routeClass string) []evidence.Kind {
	switch strings.ToLower(routeClass) {
	case "memoryusage", "memoryinfo", "memory_usage", "ram_info":
		return []evidence.Kind{evidence.KindMemory}
	case "diskusage", "diskinfo", "disk_usage", "disk_space":
		return []evidence.Kind{evidence.KindDisk}
	case "cpuinfo", "cpuusage", "cpu_info":
		return []evidence.Kind{evidence.KindCPU}
	case "systemservices", "servicestatus", "service_status", "service_is_active":
		return []evidence.Kind{evidence.KindServices}
	case "toolinstalled", "tool_installed":
		return []evidence.Kind{evidence.KindToolExists}
	case "blockdevices", "lsblk":
		return []evidence.Kind{evidence.KindBlockDevices}
	case "audio", "audio_devices":
		return []evidence.Kind{evidence.KindAudio}
	case "topmemoryprocesses", "top_memory_processes", "topcpuprocesses", "top_cpu_processes":
		return []evidence.Kind{evidence.KindProcesses}
	case "networkinterfaces", "network_interfaces":
		return []evidence.Kind{evidence.KindNetwork}
	case "systemlogs", "system_logs", "logs", "journal_errors":
		return []evidence.Kind{evidence.KindJournal}
	case "systemhealth", "system_health_summary":
		return []evidence.Kind{evidence.KindMemory, evidence.KindDisk, evidence.KindCPU, evidence.KindBlockDevices}
	default:
		return nil
	}
}

// Trace is the full ExecutionTrace data model entity, materialized
// once per request and embedded in the QueryResponse.
type Trace struct {
	SpecialistOutcome    SpecialistOutcome `json:"specialist_outcome"`
	FallbackUsed         FallbackUsed      `json:"fallback_used"`
	ProbeStats           ProbeStats        `json:"probe_stats"`
	EvidenceKinds        []evidence.Kind   `json:"evidence_kinds"`
	AnswerIsDeterministic bool             `json:"answer_is_deterministic"`
}

// OKTrace builds a trace for a successful specialist response.
func OKTrace(stats ProbeStats) Trace {
	return Trace{SpecialistOutcome: SpecialistOK, ProbeStats: stats}
}

// DeterministicRoute builds a trace for a deterministic-route answer
// where the specialist was skipped entirely.
func DeterministicRoute(stats ProbeStats, kinds []evidence.Kind) Trace {
	return Trace{
		SpecialistOutcome:     SpecialistSkipped,
		ProbeStats:            stats,
		EvidenceKinds:         kinds,
		AnswerIsDeterministic: true,
	}
}

// SpecialistTimeoutWithFallback builds a trace for a specialist
// timeout that was covered by a deterministic fallback.
func SpecialistTimeoutWithFallback(routeClass string, stats ProbeStats, kinds []evidence.Kind) Trace {
	return Trace{
		SpecialistOutcome:     SpecialistTimeout,
		FallbackUsed:          FallbackUsed{Deterministic: true, RouteClass: routeClass},
		ProbeStats:            stats,
		EvidenceKinds:         kinds,
		AnswerIsDeterministic: true,
	}
}

// SpecialistErrorWithFallback builds a trace for a specialist error
// that was covered by a deterministic fallback.
func SpecialistErrorWithFallback(routeClass string, stats ProbeStats, kinds []evidence.Kind) Trace {
	return Trace{
		SpecialistOutcome:     SpecialistError,
		FallbackUsed:          FallbackUsed{Deterministic: true, RouteClass: routeClass},
		ProbeStats:            stats,
		EvidenceKinds:         kinds,
		AnswerIsDeterministic: true,
	}
}

// SpecialistTimeoutNoFallback builds a trace for a specialist timeout
// with no usable deterministic fallback template.
func SpecialistTimeoutNoFallback(stats ProbeStats) Trace {
	return Trace{SpecialistOutcome: SpecialistTimeout, ProbeStats: stats}
}

func (t Trace) String() string {
	var b strings.Builder
	b.WriteString("path: ")
	if t.AnswerIsDeterministic {
		if t.FallbackUsed.Deterministic {
			fmt.Fprintf(&b, "deterministic fallback (%s)", t.FallbackUsed.RouteClass)
		} else {
			b.WriteString("deterministic route")
		}
	} else {
		b.WriteString("specialist")
	}

	fmt.Fprintf(&b, ", specialist: %s", t.SpecialistOutcome)

	if len(t.EvidenceKinds) > 0 {
		kinds := make([]string, len(t.EvidenceKinds))
		for i, k := range t.EvidenceKinds {
			kinds[i] = string(k)
		}
		fmt.Fprintf(&b, ", evidence: [%s]", strings.Join(kinds, ", "))
	}

	return b.String()
}
