package evidence

import "strings"

// ToolExists is the parsed result of `command -v <tool>`.
type ToolExists struct {
	ToolName string
	Present  bool
	Path     string
}

func (ToolExists) Kind() Kind { return KindToolExists }

// ParseToolExists uses exit_code as the signal: exit_code==0 means
// the tool resolved to Path (stdout trimmed); any non-zero exit code
// means Present=false regardless of stdout.
func ParseToolExists(toolName, stdout string, exitCode int) Data {
	if exitCode != 0 {
		return ToolExists{ToolName: toolName, Present: false}
	}
	path := strings.TrimSpace(stdout)
	if path == "" {
		return Invalid{Reason: "tool_exists_zero_exit_empty_stdout", Snippet: ""}
	}
	return ToolExists{ToolName: toolName, Present: true, Path: path}
}
