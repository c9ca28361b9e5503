// Package transcript implements the Transcript: an append-only,
// time-stamped event log kept per request. It is the single source of
// truth for the rendering layer and for audit correlation; nothing
// downstream of a request mutates or reorders it.
package transcript

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Kind discriminates the Event union.
type Kind string

const (
	KindMessage         Kind = "message"
	KindTicketCreated   Kind = "ticket_created"
	KindStatusChange    Kind = "status_change"
	KindJuniorReview    Kind = "junior_review"
	KindSeniorEscalation Kind = "senior_escalation"
	KindRevision        Kind = "revision"
	KindFinalAnswer     Kind = "final_answer"
)

// Event is one entry in the transcript. Only the fields relevant to
// Kind are populated; the rest are zero.
type Event struct {
	At   time.Time
	Kind Kind

	// Message
	From string
	Text string

	// StatusChange
	OldStatus string
	NewStatus string

	// JuniorReview
	Attempt  int
	Verified bool
	Score    int
	Issues   []string

	// SeniorEscalation
	Successful bool
	Reason     string

	// Revision
	Changes []string
}

// Transcript is an append-only sequence of Events for one request.
// Safe for concurrent append; a request's ticket loop runs on a single
// task but the transcript may also be read concurrently by a status
// endpoint.
type Transcript struct {
	mu     sync.Mutex
	events []Event
}

// New returns an empty Transcript.
func New() *Transcript {
	return &Transcript{}
}

func (t *Transcript) append(e Event) {
	e.At = now()
	t.mu.Lock()
	t.events = append(t.events, e)
	t.mu.Unlock()
}

// now is indirected so tests can freeze time without touching the
// transcript's exported surface.
var now = time.Now

func (t *Transcript) Message(from, text string) {
	t.append(Event{Kind: KindMessage, From: from, Text: text})
}

func (t *Transcript) TicketCreated() {
	t.append(Event{Kind: KindTicketCreated})
}

func (t *Transcript) StatusChange(old, new_ string) {
	t.append(Event{Kind: KindStatusChange, OldStatus: old, NewStatus: new_})
}

func (t *Transcript) JuniorReview(attempt int, verified bool, score int, issues []string) {
	t.append(Event{Kind: KindJuniorReview, Attempt: attempt, Verified: verified, Score: score, Issues: issues})
}

func (t *Transcript) SeniorEscalation(successful bool, reason string) {
	t.append(Event{Kind: KindSeniorEscalation, Successful: successful, Reason: reason})
}

func (t *Transcript) Revision(changes []string) {
	t.append(Event{Kind: KindRevision, Changes: changes})
}

func (t *Transcript) FinalAnswer(text string) {
	t.append(Event{Kind: KindFinalAnswer, Text: text})
}

// Events returns a copy of the recorded events in append order.
func (t *Transcript) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Summary renders a short, line-per-event human summary suitable for
// transcript_summary in a QueryResponse.
func (t *Transcript) Summary() string {
	t.mu.Lock()
	events := make([]Event, len(t.events))
	copy(events, t.events)
	t.mu.Unlock()

	var b strings.Builder
	for i, e := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(summaryLine(e))
	}
	return b.String()
}

func summaryLine(e Event) string {
	switch e.Kind {
	case KindMessage:
		return e.From + ": " + e.Text
	case KindTicketCreated:
		return "ticket created"
	case KindStatusChange:
		return e.OldStatus + " -> " + e.NewStatus
	case KindJuniorReview:
		status := "not verified"
		if e.Verified {
			status = "verified"
		}
		return "junior review " + strconv.Itoa(e.Attempt) + ": " + status + " (score " + strconv.Itoa(e.Score) + ")"
	case KindSeniorEscalation:
		if e.Successful {
			return "senior escalation: resolved"
		}
		return "senior escalation: unresolved (" + e.Reason + ")"
	case KindRevision:
		return "revision: " + strings.Join(e.Changes, "; ")
	case KindFinalAnswer:
		return "final answer: " + e.Text
	default:
		return "unknown event"
	}
}

