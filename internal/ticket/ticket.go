// Package ticket implements the Ticket Loop: the state machine that
// drives a candidate answer through verification and bounded revision
// to a terminal status, emitting transcript events at each transition.
package ticket

import (
	"context"

	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/router"
	"github.com/annassistant/annad/internal/transcript"
)

// Status is the Ticket's lifecycle state. Transitions are monotonic
// within a run: Drafted -> AnswerDrafted -> {Verified | Escalated},
// Escalated -> {Verified | Failed}. Verified and Failed are terminal.
type Status string

const (
	StatusDrafted       Status = "drafted"
	StatusAnswerDrafted Status = "answer_drafted"
	StatusVerified      Status = "verified"
	StatusEscalated     Status = "escalated"
	StatusFailed        Status = "failed"
)

// Ticket tracks one request's progress through the verification loop.
type Ticket struct {
	TicketID        string
	RequestID       string
	Domain          router.Domain
	Intent          router.Intent
	JuniorAttempt   int
	SeniorAttempt   int
	JuniorRoundsMax int
	SeniorRoundsMax int
	Status          Status
	EvidenceKinds   []string
}

// Issue is one problem a reviewer flagged with a candidate answer.
type Issue struct {
	Severity string
	Kind     string
	Message  string
}

// RevisionInstruction carries a reviewer's hints for the next draft.
// It never contains new facts, only guidance on how to use facts
// already present in probe_results.
type RevisionInstruction struct {
	DropSentences      []string
	UseDeterministicTemplate bool
	CiteProbes         []probe.ID
	RequestClarification string
}

// ReviewArtifact is the result of one junior review round.
type ReviewArtifact struct {
	Verified    bool
	Score       int
	Instruction RevisionInstruction
	Issues      []Issue
}

// SeniorResult is the result of one senior escalation round.
type SeniorResult struct {
	Successful  bool
	Instruction RevisionInstruction
	Reason      string
}

// JuniorReviewer verifies a candidate answer against probe evidence
// and the original query.
type JuniorReviewer interface {
	Review(ctx context.Context, candidateAnswer string, t *Ticket, probeResults []probe.Result, originalQuery string) (ReviewArtifact, error)
}

// SeniorReviewer escalates a ticket the junior reviewer could not
// verify within its rounds budget.
type SeniorReviewer interface {
	Escalate(ctx context.Context, candidateAnswer string, t *Ticket, juniorHistory []ReviewArtifact, probeResults []probe.Result) (SeniorResult, error)
}

// Reviser applies a RevisionInstruction to produce a new candidate
// answer. Implementations must never invent facts: only substituting
// grounded values, removing unsupported sentences, switching to a
// deterministic template, or adding evidence citations are allowed.
type Reviser func(answer string, instruction RevisionInstruction, probeResults []probe.Result) (newAnswer string, changes []string)

// Outcome is the terminal result of a ticket loop run.
type Outcome struct {
	FinalAnswer string
	Final       ReviewArtifact
	Status      Status
	History     []ReviewArtifact
}

// Run drives ticket from Drafted through verification and bounded
// revision to a terminal status. The returned Outcome always carries
// the latest candidate answer, even when Status is Failed - callers
// decide whether to surface it, per the failure semantics that
// exhausting all rounds never silently alters what the user sees.
func Run(
	ctx context.Context,
	t *Ticket,
	initialAnswer string,
	probeResults []probe.Result,
	originalQuery string,
	junior JuniorReviewer,
	senior SeniorReviewer,
	revise Reviser,
	tr *transcript.Transcript,
) Outcome {
	tr.TicketCreated()
	t.Status = StatusAnswerDrafted
	tr.StatusChange(string(StatusDrafted), string(StatusAnswerDrafted))

	answer := initialAnswer
	var history []ReviewArtifact

	for {
		review, err := junior.Review(ctx, answer, t, probeResults, originalQuery)
		if err != nil {
			review = ReviewArtifact{Verified: false, Score: 0, Issues: []Issue{{Severity: "error", Kind: "reviewer_error", Message: err.Error()}}}
		}
		history = append(history, review)
		tr.JuniorReview(t.JuniorAttempt, review.Verified, review.Score, issueMessages(review.Issues))

		if review.Verified {
			t.Status = StatusVerified
			tr.StatusChange(string(StatusAnswerDrafted), string(StatusVerified))
			tr.FinalAnswer(answer)
			return Outcome{FinalAnswer: answer, Final: review, Status: StatusVerified, History: history}
		}

		if t.JuniorAttempt >= t.JuniorRoundsMax {
			break
		}

		t.JuniorAttempt++
		newAnswer, changes := revise(answer, review.Instruction, probeResults)
		answer = newAnswer
		tr.Revision(changes)
	}

	t.Status = StatusEscalated
	tr.StatusChange(string(StatusAnswerDrafted), string(StatusEscalated))

	for t.SeniorAttempt < t.SeniorRoundsMax {
		t.SeniorAttempt++
		seniorResult, err := senior.Escalate(ctx, answer, t, history, probeResults)
		if err != nil {
			seniorResult = SeniorResult{Successful: false, Reason: err.Error()}
		}
		tr.SeniorEscalation(seniorResult.Successful, seniorResult.Reason)

		if !seniorResult.Successful {
			continue
		}

		newAnswer, changes := revise(answer, seniorResult.Instruction, probeResults)
		answer = newAnswer
		tr.Revision(changes)

		finalReview, err := junior.Review(ctx, answer, t, probeResults, originalQuery)
		if err != nil {
			finalReview = ReviewArtifact{Verified: false, Score: 0}
		}
		history = append(history, finalReview)
		tr.JuniorReview(t.JuniorAttempt, finalReview.Verified, finalReview.Score, issueMessages(finalReview.Issues))

		if finalReview.Verified {
			t.Status = StatusVerified
			tr.StatusChange(string(StatusEscalated), string(StatusVerified))
			tr.FinalAnswer(answer)
			return Outcome{FinalAnswer: answer, Final: finalReview, Status: StatusVerified, History: history}
		}
	}

	t.Status = StatusFailed
	tr.StatusChange(string(StatusEscalated), string(StatusFailed))
	tr.FinalAnswer(answer)

	final := ReviewArtifact{}
	if len(history) > 0 {
		final = history[len(history)-1]
	}
	return Outcome{FinalAnswer: answer, Final: final, Status: StatusFailed, History: history}
}

func issueMessages(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, len(issues))
	for i, iss := range issues {
		out[i] = iss.Message
	}
	return out
}
