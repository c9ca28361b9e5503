package evidence

import (
	"strconv"
	"strings"
)

// CPU is the parsed key/value result of `lscpu`.
type CPU struct {
	ModelName     string
	CoreCount     int
	ThreadCount   int
	Architecture  string
	FrequencyMHz  float64 // 0 when absent
}

func (CPU) Kind() Kind { return KindCPU }

// ParseCPU reads `lscpu`-style "Key:   value" lines.
func ParseCPU(stdout string) Data {
	kv := make(map[string]string)
	for _, line := range nonEmptyLines(stdout) {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		kv[strings.ToLower(key)] = val
	}

	if len(kv) == 0 {
		return Empty{Reason: "no_lscpu_fields"}
	}

	cpu := CPU{
		ModelName:    firstOf(kv, "model name", "model"),
		Architecture: kv["architecture"],
	}

	if v, ok := kv["cpu(s)"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cpu.ThreadCount = n
		}
	}
	coresPerSocket, hasCPS := atoiOK(kv["core(s) per socket"])
	sockets, hasSockets := atoiOK(kv["socket(s)"])
	if hasCPS && hasSockets {
		cpu.CoreCount = coresPerSocket * sockets
	} else if cpu.ThreadCount > 0 {
		cpu.CoreCount = cpu.ThreadCount
	}

	if v, ok := kv["cpu max mhz"]; ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cpu.FrequencyMHz = f
		}
	}

	if cpu.ModelName == "" && cpu.CoreCount == 0 {
		return Invalid{Reason: "lscpu_missing_core_fields", Snippet: boundedSnippet(stdout)}
	}

	return cpu
}

func firstOf(kv map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := kv[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

func atoiOK(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
