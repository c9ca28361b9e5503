package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptAppendOrder(t *testing.T) {
	tr := New()
	tr.TicketCreated()
	tr.StatusChange("drafted", "answer_drafted")
	tr.JuniorReview(1, false, 40, []string{"ungrounded claim"})
	tr.Revision([]string{"removed unsupported sentence"})
	tr.JuniorReview(2, true, 90, nil)
	tr.FinalAnswer("you have 16 GiB of RAM")

	events := tr.Events()
	require.Len(t, events, 6)
	assert.Equal(t, KindTicketCreated, events[0].Kind)
	assert.Equal(t, KindFinalAnswer, events[5].Kind)
	assert.Equal(t, "you have 16 GiB of RAM", events[5].Text)
}

func TestTranscriptSummaryRendersReadableLines(t *testing.T) {
	tr := New()
	tr.TicketCreated()
	tr.JuniorReview(1, true, 85, nil)

	summary := tr.Summary()
	assert.Contains(t, summary, "ticket created")
	assert.Contains(t, summary, "verified (score 85)")
}

func TestTranscriptEventsReturnsCopy(t *testing.T) {
	tr := New()
	tr.TicketCreated()
	events := tr.Events()
	events[0].Kind = KindFinalAnswer

	fresh := tr.Events()
	assert.Equal(t, KindTicketCreated, fresh[0].Kind, "mutating a returned copy must not affect the transcript")
}
