package evidence

import "strings"

// BlockDevice is one row of `lsblk` output. Children are nested under
// their parent device by indentation, matching lsblk's tree rendering.
type BlockDevice struct {
	Name       string
	SizeBytes  uint64
	Type       string // disk, part, rom, lvm
	MountPoint string
	Children   []BlockDevice
}

// BlockDevices is the parsed, hierarchical result of `lsblk`.
type BlockDevices struct {
	Devices []BlockDevice
}

func (BlockDevices) Kind() Kind { return KindBlockDevices }

// ParseBlockDevices reads `lsblk` tabular output (NAME SIZE TYPE
// MOUNTPOINT columns, tree-prefixed names like "├─sda1").
func ParseBlockDevices(stdout string) Data {
	lines := nonEmptyLines(stdout)
	if len(lines) == 0 {
		return Empty{Reason: "no_lsblk_output"}
	}

	var depths []int
	var flat []BlockDevice

	for i, line := range lines {
		if i == 0 && strings.HasPrefix(strings.ToUpper(strings.Fields(line)[0]), "NAME") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		depth := treeDepth(line)
		name := strings.TrimLeft(fields[0], "├└─│ ")

		size, _ := ParseSize(fields[1])
		devType := fields[2]
		mount := ""
		if len(fields) > 3 {
			mount = strings.Join(fields[3:], " ")
		}

		depths = append(depths, depth)
		flat = append(flat, BlockDevice{Name: name, SizeBytes: size, Type: devType, MountPoint: mount})
	}

	if len(flat) == 0 {
		return Empty{Reason: "no_lsblk_rows"}
	}
	roots := buildDeviceTree(depths, flat)
	if len(roots) == 0 {
		return Empty{Reason: "no_lsblk_rows"}
	}
	return BlockDevices{Devices: roots}
}

// buildDeviceTree resolves the flat, depth-tagged row list into a
// nested tree by index rather than by holding pointers into a slice
// that later sibling appends would reallocate out from under: each
// level is built bottom-up from values, and a node's Children is only
// ever assigned once, after the recursive call for that subtree has
// already returned its complete slice.
func buildDeviceTree(depths []int, flat []BlockDevice) []BlockDevice {
	idx := 0
	var build func(parentDepth int) []BlockDevice
	build = func(parentDepth int) []BlockDevice {
		var nodes []BlockDevice
		for idx < len(depths) && depths[idx] > parentDepth {
			dev := flat[idx]
			depth := depths[idx]
			idx++
			dev.Children = build(depth)
			nodes = append(nodes, dev)
		}
		return nodes
	}
	return build(-1)
}

// treeDepth measures the lsblk tree-drawing prefix of a raw row
// ("├─", "└─", "│ " and the blank "  " lsblk prints under a last
// child) to determine nesting depth: every level is two columns wide.
func treeDepth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case '├', '└', '│', '─', ' ':
			width++
		default:
			return width / 2
		}
	}
	return width / 2
}
