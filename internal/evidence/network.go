package evidence

import "strings"

// Interface is one row from `ip -brief addr`.
type Interface struct {
	Name  string
	State string
	Addrs []string
}

// Network is the parsed result of `ip -brief addr`.
type Network struct {
	Interfaces []Interface
}

func (Network) Kind() Kind { return KindNetwork }

// ParseNetwork reads `ip -brief addr` lines: "<name> <state>
// <addr1> <addr2> ...".
func ParseNetwork(stdout string) Data {
	lines := nonEmptyLines(stdout)
	var ifaces []Interface

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ifaces = append(ifaces, Interface{
			Name:  fields[0],
			State: fields[1],
			Addrs: fields[2:],
		})
	}

	if ifaces == nil {
		return Empty{Reason: "no_interfaces"}
	}
	return Network{Interfaces: ifaces}
}
