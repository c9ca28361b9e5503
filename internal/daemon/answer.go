// Package daemon wires the Router, Executor, Evidence Parsers, Ticket
// Loop, Reliability Scorer and Transcript into the single answer-path
// pipeline a query RPC call drives end to end.
package daemon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/router"
)

// humanBytes renders a byte count the way an operator would say it
// out loud: whole GiB from one gibibyte up, whole MiB from one
// mebibyte up, whole KiB from one kibibyte up, and the exact byte
// count below that. Every unit it emits (GiB, MiB, KiB, B) is one
// that claim extraction in internal/claim recognizes.
func humanBytes(b uint64) string {
	const (
		kib = 1024
		mib = kib * 1024
		gib = mib * 1024
	)
	switch {
	case b >= gib:
		return fmt.Sprintf("%.0f GiB", float64(b)/gib)
	case b >= mib:
		return fmt.Sprintf("%.0f MiB", float64(b)/mib)
	case b >= kib:
		return fmt.Sprintf("%.0f KiB", float64(b)/kib)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func firstMemory(set []evidence.Data) (evidence.Memory, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Memory); ok {
			return v, true
		}
	}
	return evidence.Memory{}, false
}

func firstCPU(set []evidence.Data) (evidence.CPU, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.CPU); ok {
			return v, true
		}
	}
	return evidence.CPU{}, false
}

func firstDisk(set []evidence.Data) (evidence.Disk, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Disk); ok {
			return v, true
		}
	}
	return evidence.Disk{}, false
}

func firstProcesses(set []evidence.Data) (evidence.Processes, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Processes); ok {
			return v, true
		}
	}
	return evidence.Processes{}, false
}

func firstNetwork(set []evidence.Data) (evidence.Network, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Network); ok {
			return v, true
		}
	}
	return evidence.Network{}, false
}

func firstServices(set []evidence.Data) (evidence.Services, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Services); ok {
			return v, true
		}
	}
	return evidence.Services{}, false
}

func firstToolExists(set []evidence.Data) (evidence.ToolExists, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.ToolExists); ok {
			return v, true
		}
	}
	return evidence.ToolExists{}, false
}

func firstAudio(set []evidence.Data) (evidence.Audio, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Audio); ok {
			return v, true
		}
	}
	return evidence.Audio{}, false
}

func firstJournal(set []evidence.Data) (evidence.Journal, bool) {
	for _, d := range set {
		if v, ok := d.(evidence.Journal); ok {
			return v, true
		}
	}
	return evidence.Journal{}, false
}

// Draft produces the initial candidate answer for a RoutePlan from
// its gathered evidence. It is deterministic and never invents a
// fact not already present in ev - the Ticket Loop's junior reviewer
// is what catches it if this ever drifts.
func Draft(plan router.RoutePlan, ev []evidence.Data, query string) string {
	switch plan.RouteClass {
	case router.ClassRAMInfo:
		return draftRAMInfo(ev)
	case router.ClassCPUInfo:
		return draftCPUInfo(ev)
	case router.ClassDiskSpace:
		return draftDiskSpace(ev)
	case router.ClassTopMemoryProcesses:
		return draftTopProcesses(ev, "memory")
	case router.ClassTopCPUProcesses:
		return draftTopProcesses(ev, "cpu")
	case router.ClassNetworkInterfaces:
		return draftNetwork(ev)
	case router.ClassServiceStatus:
		return draftFailedServices(ev)
	case router.ClassServiceIsActive:
		return draftServiceIsActive(ev, plan.Entities)
	case router.ClassToolInstalled:
		return draftToolInstalled(ev, plan.Entities)
	case router.ClassAudioDevices:
		return draftAudio(ev)
	case router.ClassSystemLogs:
		return draftJournal(ev)
	case router.ClassSystemSlow:
		return draftSystemSlow(ev)
	case router.ClassHelp:
		return helpText
	default:
		if plan.ClarificationHint != "" {
			return plan.ClarificationHint
		}
		return "I don't have enough verified evidence to answer that."
	}
}

const helpText = "Ask me about CPU, memory, disk space, network interfaces, " +
	"services, audio devices, or recent system logs, and I'll check your " +
	"machine and answer with what I find."

func draftRAMInfo(ev []evidence.Data) string {
	mem, ok := firstMemory(ev)
	if !ok {
		return "I couldn't read memory usage from this machine right now."
	}
	return fmt.Sprintf("Memory uses %s of %s total (%s available).",
		humanBytes(mem.UsedBytes), humanBytes(mem.TotalBytes), humanBytes(mem.AvailableBytes))
}

func draftCPUInfo(ev []evidence.Data) string {
	cpu, ok := firstCPU(ev)
	if !ok {
		return "I couldn't read CPU information from this machine right now."
	}
	var b strings.Builder
	if cpu.ModelName != "" {
		fmt.Fprintf(&b, "CPU is %s", cpu.ModelName)
	} else {
		b.WriteString("CPU")
	}
	if cpu.CoreCount > 0 {
		fmt.Fprintf(&b, " with %d cores", cpu.CoreCount)
	}
	if cpu.FrequencyMHz > 0 {
		fmt.Fprintf(&b, " at %.1f GHz", cpu.FrequencyMHz/1000)
	}
	b.WriteByte('.')
	return b.String()
}

func draftDiskSpace(ev []evidence.Data) string {
	disk, ok := firstDisk(ev)
	if !ok || len(disk.Entries) == 0 {
		return "I couldn't read disk usage from this machine right now."
	}
	root, found := disk.MountByPath("/")
	if found {
		return fmt.Sprintf("/ is %d%% full (%s used of %s).", root.UsePercent, humanBytes(root.UsedBytes), humanBytes(root.TotalBytes))
	}
	entry := disk.Entries[0]
	return fmt.Sprintf("%s is %d%% full (%s used of %s).", entry.MountPoint, entry.UsePercent, humanBytes(entry.UsedBytes), humanBytes(entry.TotalBytes))
}

func draftTopProcesses(ev []evidence.Data, kind string) string {
	procs, ok := firstProcesses(ev)
	if !ok || len(procs.Entries) == 0 {
		return fmt.Sprintf("I couldn't read per-process %s usage from this machine right now.", kind)
	}
	entries := append([]evidence.ProcessEntry(nil), procs.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Percent > entries[j].Percent })
	if len(entries) > 3 {
		entries = entries[:3]
	}
	parts := make([]string, len(entries))
	unit := "%CPU"
	if kind == "memory" {
		unit = "%MEM"
	}
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%.1f%s)", e.Command, e.Percent, unit)
	}
	return "Top " + kind + " consumers: " + strings.Join(parts, ", ") + "."
}

func draftNetwork(ev []evidence.Data) string {
	net, ok := firstNetwork(ev)
	if !ok || len(net.Interfaces) == 0 {
		return "I couldn't read network interfaces from this machine right now."
	}
	parts := make([]string, 0, len(net.Interfaces))
	for _, iface := range net.Interfaces {
		addr := "no address"
		if len(iface.Addrs) > 0 {
			addr = strings.Join(iface.Addrs, ", ")
		}
		parts = append(parts, fmt.Sprintf("%s (%s): %s", iface.Name, iface.State, addr))
	}
	return "Network interfaces: " + strings.Join(parts, "; ") + "."
}

func draftFailedServices(ev []evidence.Data) string {
	svc, ok := firstServices(ev)
	if !ok {
		return "I couldn't read service status from this machine right now."
	}
	if len(svc.Entries) == 0 {
		return "No failed services."
	}
	names := make([]string, len(svc.Entries))
	for i, e := range svc.Entries {
		names[i] = e.Name
	}
	return "Failed services: " + strings.Join(names, ", ") + "."
}

func draftServiceIsActive(ev []evidence.Data, entities []string) string {
	svc, ok := firstServices(ev)
	if !ok || len(entities) == 0 {
		return "I couldn't determine that service's status right now."
	}
	name := evidence.CanonicalServiceName(entities[0])
	entry, found := svc.ByName(name)
	if !found {
		return fmt.Sprintf("I couldn't determine %s's status right now.", name)
	}
	return fmt.Sprintf("%s is %s.", entry.Name, entry.State)
}

func draftToolInstalled(ev []evidence.Data, entities []string) string {
	tool, ok := firstToolExists(ev)
	if !ok || len(entities) == 0 {
		return "I couldn't determine whether that tool is installed right now."
	}
	if !tool.Present {
		return fmt.Sprintf("%s is not installed.", tool.ToolName)
	}
	return fmt.Sprintf("%s is installed at %s.", tool.ToolName, tool.Path)
}

func draftAudio(ev []evidence.Data) string {
	audio, ok := firstAudio(ev)
	if !ok {
		return "I couldn't read the audio device list from this machine right now."
	}
	if len(audio.Devices) == 0 {
		return "No audio devices detected."
	}
	descs := make([]string, len(audio.Devices))
	for i, d := range audio.Devices {
		descs[i] = d.Description
	}
	return "Audio devices: " + strings.Join(descs, "; ") + "."
}

func draftJournal(ev []evidence.Data) string {
	journal, ok := firstJournal(ev)
	if !ok {
		return "I couldn't collect logs within the budget."
	}
	if len(journal.Entries) == 0 {
		return "No errors found in today's logs."
	}
	services := make(map[string]int)
	for _, e := range journal.Entries {
		services[e.Service]++
	}
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("Found %d error log entries today, from: %s.", len(journal.Entries), strings.Join(names, ", "))
}

func draftSystemSlow(ev []evidence.Data) string {
	var parts []string
	if procs, ok := firstProcesses(ev); ok && len(procs.Entries) > 0 {
		entries := append([]evidence.ProcessEntry(nil), procs.Entries...)
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Percent > entries[j].Percent })
		top := entries[0]
		parts = append(parts, fmt.Sprintf("top consumer is %s at %.1f%%", top.Command, top.Percent))
	}
	if disk, ok := firstDisk(ev); ok {
		if root, found := disk.MountByPath("/"); found {
			parts = append(parts, fmt.Sprintf("/ is %d%% full", root.UsePercent))
		}
	}
	if len(parts) == 0 {
		return "I couldn't gather enough evidence to explain the slowdown."
	}
	return "Checking for common causes: " + strings.Join(parts, "; ") + "."
}
