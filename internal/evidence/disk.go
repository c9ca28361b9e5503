package evidence

import (
	"strconv"
	"strings"
)

// DiskEntry is one mounted filesystem row from `df -h`.
type DiskEntry struct {
	Device      string
	TotalBytes  uint64
	UsedBytes   uint64
	FreeBytes   uint64
	UsePercent  int // 0-100; "100%" parses to 100, not 1.0
	MountPoint  string
}

// Disk is the parsed result of a `df -h` table.
type Disk struct {
	Entries []DiskEntry
}

func (Disk) Kind() Kind { return KindDisk }

// ParseDisk reads `df -h` output. Header detection is flexible: any
// line whose first field is "Filesystem" (case-insensitive) is
// treated as the header and skipped. Mounts containing spaces are
// reassembled from the trailing fields.
func ParseDisk(stdout string) Data {
	lines := nonEmptyLines(stdout)
	var entries []DiskEntry

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.EqualFold(fields[0], "filesystem") {
			continue
		}
		if len(fields) < 6 {
			continue
		}

		total, ok1 := ParseSize(fields[1])
		used, ok2 := ParseSize(fields[2])
		free, ok3 := ParseSize(fields[3])
		pctTok := strings.TrimSuffix(fields[4], "%")
		pct, perr := strconv.Atoi(pctTok)

		if !ok1 || !ok2 || !ok3 || perr != nil {
			continue
		}

		mount := strings.Join(fields[5:], " ")

		entries = append(entries, DiskEntry{
			Device:     fields[0],
			TotalBytes: total,
			UsedBytes:  used,
			FreeBytes:  free,
			UsePercent: pct,
			MountPoint: mount,
		})
	}

	if len(entries) == 0 {
		return Empty{Reason: "no_disk_rows"}
	}
	return Disk{Entries: entries}
}

// MountByPath returns the entry whose MountPoint equals path, if any.
func (d Disk) MountByPath(path string) (DiskEntry, bool) {
	for _, e := range d.Entries {
		if e.MountPoint == path {
			return e, true
		}
	}
	return DiskEntry{}, false
}
