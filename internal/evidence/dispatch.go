package evidence

import "github.com/annassistant/annad/internal/probe"

// Parse dispatches a probe.Result to the parser registered for its
// id. Unit-holed probes (systemctl is-active/status) need the unit
// name back out of the result's holes via the task, so callers pass
// it explicitly; it is empty for probes with no hole.
func Parse(id probe.ID, result probe.Result, unit string) Data {
	switch id {
	case probe.FreeMem:
		return ParseMemory(result.Stdout)
	case probe.DfHuman:
		return ParseDisk(result.Stdout)
	case probe.LsCPU:
		return ParseCPU(result.Stdout)
	case probe.LsBlk:
		return ParseBlockDevices(result.Stdout)
	case probe.LsPCI:
		return ParseAudio(result.Stdout, result.ExitCode)
	case probe.SystemctlFailed:
		return ParseFailedUnits(result.Stdout, result.ExitCode)
	case probe.SystemctlActive:
		return ParseIsActive(unit, result.Stdout)
	case probe.SystemctlStatus:
		return ParseStatusVerbose(unit, result.Stdout)
	case probe.PsTopMemory, probe.PsTopCPU:
		return ParseProcesses(result.Stdout)
	case probe.IPAddrShow:
		return ParseNetwork(result.Stdout)
	case probe.JournalctlErrors:
		return ParseJournal(result.Stdout)
	case probe.CommandExists:
		return ParseToolExists(unit, result.Stdout, result.ExitCode)
	default:
		return Empty{Reason: "no_parser_for_probe"}
	}
}
