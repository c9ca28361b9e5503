package evidence

import (
	"regexp"
	"strings"
)

// AudioDevice is one PCI audio controller entry.
type AudioDevice struct {
	PCISlot     string
	Description string
}

// Audio is the parsed result of `lspci -v | grep -i audio`.
type Audio struct {
	Devices []AudioDevice
}

func (Audio) Kind() Kind { return KindAudio }

var audioLineRe = regexp.MustCompile(`^(\S+)\s+(.+)$`)

// ParseAudio matches both "Audio device" and "Multimedia audio
// controller" descriptions, since lspci spells the PCI class
// differently across chipsets. An empty stdout with exit_code=1
// (grep found nothing) is a valid empty device list, not an error.
func ParseAudio(stdout string, exitCode int) Data {
	lines := nonEmptyLines(stdout)
	if len(lines) == 0 {
		return Audio{Devices: nil}
	}

	var devices []AudioDevice
	for _, line := range lines {
		m := audioLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		slot, desc := m[1], m[2]
		lower := strings.ToLower(desc)
		if strings.Contains(lower, "audio device") || strings.Contains(lower, "audio controller") ||
			strings.Contains(lower, "multimedia audio") {
			devices = append(devices, AudioDevice{PCISlot: slot, Description: desc})
		}
	}

	if devices == nil {
		return Invalid{Reason: "audio_lines_unmatched", Snippet: boundedSnippet(lines[0])}
	}
	return Audio{Devices: devices}
}
