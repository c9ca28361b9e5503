// Package router implements the Router/Translator: it maps a
// normalized query string to a RoutePlan naming the route class,
// domain, probes, and confidence the rest of the pipeline consumes.
// Classification is pure and stateless - no memoization, no per-query
// side effects.
package router

import (
	"regexp"
	"strings"

	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/probe"
)

// Class is the route_class enum. Predicate ordering in classifyRules
// matters where classes overlap (e.g. "top memory processes" must
// match before the plain "memory" check does).
type Class string

const (
	ClassCPUInfo            Class = "cpu_info"
	ClassRAMInfo            Class = "ram_info"
	ClassTopMemoryProcesses Class = "top_memory_processes"
	ClassTopCPUProcesses    Class = "top_cpu_processes"
	ClassDiskSpace          Class = "disk_space"
	ClassNetworkInterfaces  Class = "network_interfaces"
	ClassServiceStatus      Class = "service_status"
	ClassServiceIsActive    Class = "service_is_active"
	ClassToolInstalled      Class = "tool_installed"
	ClassAudioDevices       Class = "audio_devices"
	ClassSystemLogs         Class = "system_logs"
	ClassSystemSlow         Class = "system_slow"
	ClassHelp               Class = "help"
	ClassUnknown            Class = "unknown"
)

// Domain is the RoutePlan domain enum.
type Domain string

const (
	DomainSystem   Domain = "system"
	DomainStorage  Domain = "storage"
	DomainNetwork  Domain = "network"
	DomainServices Domain = "services"
	DomainHardware Domain = "hardware"
	DomainAudio    Domain = "audio"
	DomainLogs     Domain = "logs"
	DomainOther    Domain = "other"
)

// Intent is the RoutePlan intent enum.
type Intent string

const (
	IntentQuestion   Intent = "question"
	IntentInvestigate Intent = "investigate"
	IntentRequest    Intent = "request"
	IntentOther      Intent = "other"
)

// RoutePlan is produced once per request and consumed by the Executor
// and the deterministic answer templates.
type RoutePlan struct {
	RouteClass         Class
	Domain             Domain
	ProbeIDs           []probe.ID // duplicates already collapsed, order preserved
	Confidence         float64
	Intent             Intent
	ClarificationHint  string
	Entities           []string // extracted holes, e.g. a service name for {unit} probes
}

type rule struct {
	class   Class
	domain  Domain
	probes  []probe.ID
	matches func(q string) bool
	// entities extracts RoutePlan.Entities from the normalized query.
	// Left nil for rules whose probes take no holes.
	entities func(q string) []string
}

// serviceIsActivePattern matches phrasing like "is nginx running",
// "is sshd active?", "is docker up" and captures the service name.
var serviceIsActivePattern = regexp.MustCompile(`\bis\s+([a-z0-9][a-z0-9_.-]*)\s+(running|active|up|started|alive)\b`)

func extractServiceIsActive(q string) []string {
	m := serviceIsActivePattern.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	return []string{evidence.CanonicalServiceName(m[1])}
}

// toolInstalledPattern matches "is <tool> installed", "do i have
// <tool>", "is <tool> available" and captures the tool name.
var toolInstalledPattern = regexp.MustCompile(`\bis\s+([a-z0-9][a-z0-9_.-]*)\s+(?:installed|available)\b|\bdo\s+i\s+have\s+([a-z0-9][a-z0-9_.-]*)\s+installed\b`)

func extractToolInstalled(q string) []string {
	m := toolInstalledPattern.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	if m[1] != "" {
		return []string{m[1]}
	}
	return []string{m[2]}
}

// classifyRules is evaluated top to bottom; the first matching rule
// wins. Help and system-wide "slow" queries are checked first since
// they are the most specific predicates and would otherwise be
// shadowed by looser substring checks further down the table.
var classifyRules = []rule{
	{
		class:  ClassHelp,
		domain: DomainOther,
		matches: func(q string) bool {
			return strings.TrimSpace(q) == "help" ||
				strings.Contains(q, "what can you do") ||
				strings.Contains(q, "how do i use")
		},
	},
	{
		class:  ClassSystemSlow,
		domain: DomainSystem,
		probes: []probe.ID{probe.PsTopCPU, probe.PsTopMemory, probe.DfHuman},
		matches: func(q string) bool {
			return strings.Contains(q, "slow") || strings.Contains(q, "sluggish") || strings.Contains(q, "laggy")
		},
	},
	{
		class:  ClassTopMemoryProcesses,
		domain: DomainSystem,
		probes: []probe.ID{probe.PsTopMemory},
		matches: func(q string) bool {
			return (strings.Contains(q, "process") && (strings.Contains(q, "memory") || strings.Contains(q, "ram"))) ||
				strings.Contains(q, "memory hog") ||
				strings.Contains(q, "top memory") ||
				strings.Contains(q, "most memory") ||
				strings.Contains(q, "what's using memory") ||
				strings.Contains(q, "what is using memory")
		},
	},
	{
		class:  ClassTopCPUProcesses,
		domain: DomainSystem,
		probes: []probe.ID{probe.PsTopCPU},
		matches: func(q string) bool {
			return (strings.Contains(q, "process") && strings.Contains(q, "cpu")) ||
				strings.Contains(q, "cpu hog") ||
				strings.Contains(q, "top cpu") ||
				strings.Contains(q, "most cpu") ||
				strings.Contains(q, "what's using cpu") ||
				strings.Contains(q, "what is using cpu")
		},
	},
	{
		class:  ClassToolInstalled,
		domain: DomainSystem,
		probes: []probe.ID{probe.CommandExists},
		matches: func(q string) bool {
			return toolInstalledPattern.MatchString(q)
		},
		entities: extractToolInstalled,
	},
	{
		class:  ClassServiceIsActive,
		domain: DomainServices,
		probes: []probe.ID{probe.SystemctlActive, probe.SystemctlStatus},
		matches: func(q string) bool {
			return serviceIsActivePattern.MatchString(q)
		},
		entities: extractServiceIsActive,
	},
	{
		class:  ClassServiceStatus,
		domain: DomainServices,
		probes: []probe.ID{probe.SystemctlFailed},
		matches: func(q string) bool {
			return strings.Contains(q, "service") || strings.Contains(q, "systemd") || strings.Contains(q, "daemon") ||
				strings.Contains(q, "failed unit") || strings.Contains(q, "is running")
		},
	},
	{
		class:  ClassSystemLogs,
		domain: DomainLogs,
		probes: []probe.ID{probe.JournalctlErrors},
		matches: func(q string) bool {
			return strings.Contains(q, "log") || strings.Contains(q, "journal") || strings.Contains(q, "error in")
		},
	},
	{
		class:  ClassAudioDevices,
		domain: DomainAudio,
		probes: []probe.ID{probe.LsPCI},
		matches: func(q string) bool {
			return strings.Contains(q, "audio") || strings.Contains(q, "sound card") || strings.Contains(q, "speaker")
		},
	},
	{
		class:  ClassCPUInfo,
		domain: DomainHardware,
		probes: []probe.ID{probe.LsCPU},
		matches: func(q string) bool {
			return strings.Contains(q, "cpu") || strings.Contains(q, "processor") || strings.Contains(q, "core")
		},
	},
	{
		class:  ClassRAMInfo,
		domain: DomainHardware,
		probes: []probe.ID{probe.FreeMem},
		matches: func(q string) bool {
			return strings.Contains(q, "ram") || (strings.Contains(q, "memory") && !strings.Contains(q, "process"))
		},
	},
	{
		class:  ClassDiskSpace,
		domain: DomainStorage,
		probes: []probe.ID{probe.DfHuman},
		matches: func(q string) bool {
			return strings.Contains(q, "disk") || strings.Contains(q, "space") || strings.Contains(q, "storage") ||
				strings.Contains(q, "filesystem") || strings.Contains(q, "mount") || strings.Contains(q, "full")
		},
	},
	{
		class:  ClassNetworkInterfaces,
		domain: DomainNetwork,
		probes: []probe.ID{probe.IPAddrShow},
		matches: func(q string) bool {
			return strings.Contains(q, "network") || strings.Contains(q, "interface") || strings.Contains(q, "ip ") ||
				strings.Contains(q, "ip?") || strings.Contains(q, "ips") || strings.Contains(q, "wifi") ||
				strings.Contains(q, "ethernet") || strings.Contains(q, "wlan")
		},
	},
}

// Classify runs the deterministic classifier over query and returns a
// RoutePlan. Unknown queries return route_class=Unknown with an empty
// probe set and confidence 0.
func Classify(query string) RoutePlan {
	q := normalize(query)

	for _, r := range classifyRules {
		if r.matches(q) {
			var entities []string
			if r.entities != nil {
				entities = r.entities(q)
			}
			return RoutePlan{
				RouteClass: r.class,
				Domain:     r.domain,
				ProbeIDs:   probe.Dedup(r.probes),
				Confidence: 1.0,
				Intent:     intentFor(r.class, q),
				Entities:   entities,
			}
		}
	}

	return RoutePlan{
		RouteClass: ClassUnknown,
		Domain:     DomainOther,
		ProbeIDs:   nil,
		Confidence: 0.0,
		Intent:     IntentOther,
		ClarificationHint: "I couldn't match that to a known query type. Try asking about CPU, " +
			"memory, disk space, network interfaces, services, or logs.",
	}
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func intentFor(class Class, q string) Intent {
	if class == ClassHelp {
		return IntentOther
	}
	if class == ClassSystemSlow || class == ClassServiceStatus || class == ClassServiceIsActive {
		return IntentInvestigate
	}
	if strings.HasPrefix(q, "please") || strings.Contains(q, "can you") || strings.Contains(q, "could you") {
		return IntentRequest
	}
	return IntentQuestion
}
