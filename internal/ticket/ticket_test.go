package ticket

import (
	"context"
	"testing"

	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memResults() []probe.Result {
	return []probe.Result{
		{
			ID:      probe.FreeMem,
			Command: "free -h",
			Stdout: "              total        used        free      shared  buff/cache   available\n" +
				"Mem:            16Gi        8Gi        2Gi       200Mi        5Gi        8Gi\n",
			ExitCode: 0,
		},
	}
}

func TestRunVerifiesGroundedAnswerOnFirstAttempt(t *testing.T) {
	ticket := &Ticket{JuniorRoundsMax: 2, SeniorRoundsMax: 1, EvidenceKinds: []string{"memory"}}
	tr := transcript.New()

	outcome := Run(context.Background(), ticket, "Memory uses 8 GiB right now.", memResults(), "how much ram", DeterministicJunior{Threshold: 80}, DeterministicSenior{}, ApplyRevision, tr)

	assert.Equal(t, StatusVerified, outcome.Status)
	require.True(t, outcome.Final.Verified)
	assert.Equal(t, 0, ticket.JuniorAttempt)
}

// ApplyRevision drops the ungrounded sentence rather than substituting
// the probed value, so the revised answer cites no evidence and this
// run does not reach Verified; only the revision itself is checked.
func TestRunRevisesUngroundedClaim(t *testing.T) {
	ticket := &Ticket{JuniorRoundsMax: 2, SeniorRoundsMax: 1, EvidenceKinds: []string{"memory"}}
	tr := transcript.New()

	outcome := Run(context.Background(), ticket, "Memory uses 900 GiB right now.", memResults(), "how much ram", DeterministicJunior{Threshold: 80}, DeterministicSenior{}, ApplyRevision, tr)

	assert.GreaterOrEqual(t, ticket.JuniorAttempt, 1)
	events := tr.Events()
	var sawRevision bool
	for _, e := range events {
		if e.Kind == transcript.KindRevision {
			sawRevision = true
		}
	}
	assert.True(t, sawRevision)
	_ = outcome
}

func TestRunEscalatesAndCanFail(t *testing.T) {
	ticket := &Ticket{JuniorRoundsMax: 0, SeniorRoundsMax: 1, EvidenceKinds: []string{"memory"}}
	tr := transcript.New()

	outcome := Run(context.Background(), ticket, "The backup process uses 900 GiB of memory.", memResults(), "how much ram", DeterministicJunior{Threshold: 80}, DeterministicSenior{}, ApplyRevision, tr)

	assert.Contains(t, []Status{StatusVerified, StatusFailed}, outcome.Status)
	var sawEscalation bool
	for _, e := range tr.Events() {
		if e.Kind == transcript.KindSeniorEscalation {
			sawEscalation = true
		}
	}
	assert.True(t, sawEscalation)
}

func TestTicketStatusNeverMovesBackward(t *testing.T) {
	ticket := &Ticket{JuniorRoundsMax: 1, SeniorRoundsMax: 1, EvidenceKinds: nil}
	tr := transcript.New()

	Run(context.Background(), ticket, "hello", nil, "help", DeterministicJunior{Threshold: 80}, DeterministicSenior{}, ApplyRevision, tr)

	rank := map[Status]int{StatusDrafted: 0, StatusAnswerDrafted: 1, StatusEscalated: 2, StatusVerified: 3, StatusFailed: 3}
	seen := map[Status]bool{}
	order := []Status{}
	for _, e := range tr.Events() {
		if e.Kind == transcript.KindStatusChange {
			assert.Greater(t, rank[Status(e.NewStatus)], rank[Status(e.OldStatus)], "%s -> %s moves backward", e.OldStatus, e.NewStatus)
			s := Status(e.NewStatus)
			if !seen[s] {
				seen[s] = true
				order = append(order, s)
			}
		}
	}
	assert.NotEmpty(t, order)
}
