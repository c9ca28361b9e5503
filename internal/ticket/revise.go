package ticket

import (
	"strings"

	"github.com/annassistant/annad/internal/probe"
)

// ApplyRevision is the default Reviser: a pure function from
// (answer, instruction, probe_results) to (new_answer, change_list).
// It never invents new facts - it only removes unsupported sentences,
// switches to a flat deterministic rendering, or appends evidence
// citations already present in probe_results.
func ApplyRevision(answer string, instruction RevisionInstruction, probeResults []probe.Result) (string, []string) {
	var changes []string

	if instruction.UseDeterministicTemplate {
		answer = deterministicFallbackText(probeResults)
		changes = append(changes, "switched to deterministic template")
	}

	for _, sentence := range instruction.DropSentences {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		if strings.Contains(answer, trimmed) {
			answer = strings.TrimSpace(strings.Replace(answer, trimmed, "", 1))
			changes = append(changes, "removed unsupported sentence: "+trimmed)
		}
	}

	if len(instruction.CiteProbes) > 0 {
		var ids []string
		for _, id := range instruction.CiteProbes {
			ids = append(ids, string(id))
		}
		citation := "Source: " + strings.Join(ids, ", ") + "."
		if !strings.Contains(answer, citation) {
			answer = strings.TrimSpace(answer) + " " + citation
			changes = append(changes, "added evidence citation")
		}
	}

	return answer, changes
}

// deterministicFallbackText renders a minimal, evidence-only summary
// when the candidate answer could not be salvaged by targeted edits.
// It never reads anything beyond the probe results it is given.
func deterministicFallbackText(probeResults []probe.Result) string {
	if len(probeResults) == 0 {
		return "I don't have enough verified evidence to answer that."
	}
	var ids []string
	for _, r := range probeResults {
		ids = append(ids, string(r.ID))
	}
	return "Based on " + strings.Join(ids, ", ") + ", I can't produce a fully verified answer; please rephrase or ask a narrower question."
}
