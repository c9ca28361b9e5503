package ticket

import (
	"context"
	"strings"

	"github.com/annassistant/annad/internal/claim"
	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/probe"
)

// forbiddenPhrases are sentences that suggest a manual workaround when
// the daemon already has evidence that could answer the question
// directly; their presence is itself a grounding failure.
var forbiddenPhrases = []string{
	"you can check manually with",
	"you could check manually with",
	"try running the command yourself",
}

// evidenceFromResults parses every probe result into its typed
// evidence. Holed probes (systemctl is-active/status, command -v)
// recover their hole value from the last non-flag argv token in
// Command (so a trailing "--no-pager" is skipped) since Result does
// not retain the original Task.
func evidenceFromResults(results []probe.Result) []evidence.Data {
	out := make([]evidence.Data, 0, len(results))
	for _, r := range results {
		unit := lastArg(r.Command)
		out = append(out, evidence.Parse(r.ID, r, unit))
	}
	return out
}

func lastArg(command string) string {
	fields := strings.Fields(command)
	for i := len(fields) - 1; i >= 0; i-- {
		if !strings.HasPrefix(fields[i], "-") {
			return strings.Trim(fields[i], "'\"")
		}
	}
	return ""
}

func containsForbiddenPhrase(answer string) bool {
	lower := strings.ToLower(answer)
	for _, p := range forbiddenPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// DeterministicJunior is the non-LLM junior reviewer: a pure function
// of the candidate answer and the evidence already gathered. It never
// calls out to anything; "LLM-backed" junior review, if ever added,
// would implement the same JuniorReviewer interface.
type DeterministicJunior struct {
	Threshold int
}

func (d DeterministicJunior) Review(_ context.Context, candidateAnswer string, t *Ticket, probeResults []probe.Result, _ string) (ReviewArtifact, error) {
	ev := evidenceFromResults(probeResults)
	claims := claim.Extract(candidateAnswer)

	var issues []Issue
	var ungrounded []string
	for _, c := range claims {
		if !claim.Ground(c, ev) {
			issues = append(issues, Issue{Severity: "major", Kind: "ungrounded_claim", Message: "claim does not match probed evidence"})
			ungrounded = append(ungrounded, rawOf(c))
		}
	}
	allGrounded := len(ungrounded) == 0

	forbidden := containsForbiddenPhrase(candidateAnswer)
	if forbidden {
		issues = append(issues, Issue{Severity: "major", Kind: "forbidden_phrase", Message: "answer suggests a manual workaround despite having evidence"})
	}

	requiresEvidence := len(t.EvidenceKinds) > 0
	citesEvidence := !requiresEvidence || len(probeResults) == 0 || len(claims) > 0 || strings.ContainsAny(candidateAnswer, "0123456789")
	if requiresEvidence && !citesEvidence {
		issues = append(issues, Issue{Severity: "minor", Kind: "no_citation", Message: "answer does not cite any probed evidence"})
	}

	score := 100
	if !allGrounded {
		score -= 30
	}
	if forbidden {
		score -= 20
	}
	if requiresEvidence && !citesEvidence {
		score -= 20
	}
	if score < 0 {
		score = 0
	}

	verified := allGrounded && !forbidden && (!requiresEvidence || citesEvidence) && score >= d.Threshold

	instruction := RevisionInstruction{}
	if !verified {
		instruction.DropSentences = ungrounded
		if forbidden {
			instruction.UseDeterministicTemplate = true
		}
		if requiresEvidence && !citesEvidence {
			instruction.CiteProbes = probeIDs(probeResults)
		}
	}

	return ReviewArtifact{Verified: verified, Score: score, Instruction: instruction, Issues: issues}, nil
}

func rawOf(c claim.Claim) string {
	switch v := c.(type) {
	case claim.Numeric:
		return v.Raw
	case claim.Percent:
		return v.Raw
	case claim.Status:
		return v.Raw
	default:
		return ""
	}
}

func probeIDs(results []probe.Result) []probe.ID {
	ids := make([]probe.ID, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

// DeterministicSenior is the non-LLM senior escalation path: it gives
// a ticket exactly one more chance by forcing the flat deterministic
// template, which by construction only states values already present
// in probe_results and therefore always grounds.
type DeterministicSenior struct{}

func (DeterministicSenior) Escalate(_ context.Context, _ string, _ *Ticket, juniorHistory []ReviewArtifact, _ []probe.Result) (SeniorResult, error) {
	if len(juniorHistory) == 0 {
		return SeniorResult{Successful: false, Reason: "no junior review history to escalate from"}, nil
	}
	return SeniorResult{
		Successful:  true,
		Instruction: RevisionInstruction{UseDeterministicTemplate: true},
	}, nil
}
