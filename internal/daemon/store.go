package daemon

import (
	"sync"
	"sync/atomic"

	"github.com/annassistant/annad/internal/httpapi"
	"github.com/annassistant/annad/internal/transcript"
)

// transcriptRetention bounds how many completed requests' transcripts
// stay resident for the debug endpoint; the daemon never persists
// transcripts itself - audit.Persister holds the durable record.
const transcriptRetention = 256

// transcriptStore retains the most recent transcripts in memory for
// httpapi's debug transcript endpoint and tracks coarse counters for
// the /status surface. Safe for concurrent use; each request owns its
// own Transcript while in flight and hands it off here on completion.
type transcriptStore struct {
	mu     sync.Mutex
	order  []string
	byID   map[string]*transcript.Transcript

	active    int64
	completed int64
	verified  int64
	failed    int64
	escalated int64
}

func newTranscriptStore() *transcriptStore {
	return &transcriptStore{byID: make(map[string]*transcript.Transcript)}
}

func (s *transcriptStore) begin() {
	atomic.AddInt64(&s.active, 1)
}

func (s *transcriptStore) finish(requestID string, tr *transcript.Transcript, status string, escalated bool) {
	atomic.AddInt64(&s.active, -1)
	atomic.AddInt64(&s.completed, 1)
	switch status {
	case "verified":
		atomic.AddInt64(&s.verified, 1)
	case "failed":
		atomic.AddInt64(&s.failed, 1)
	}
	if escalated {
		atomic.AddInt64(&s.escalated, 1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[requestID]; !exists {
		s.order = append(s.order, requestID)
	}
	s.byID[requestID] = tr
	for len(s.order) > transcriptRetention {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
}

// Lookup implements httpapi.TranscriptLookup.
func (s *transcriptStore) Lookup(requestID string) (*transcript.Transcript, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.byID[requestID]
	return tr, ok
}

// Snapshot implements httpapi.StatusSnapshot.
func (s *transcriptStore) Snapshot() httpapi.Status {
	return httpapi.Status{
		ActiveRequests: int(atomic.LoadInt64(&s.active)),
		CompletedTotal: atomic.LoadInt64(&s.completed),
		VerifiedTotal:  atomic.LoadInt64(&s.verified),
		FailedTotal:    atomic.LoadInt64(&s.failed),
		EscalatedTotal: atomic.LoadInt64(&s.escalated),
	}
}

var _ httpapi.TranscriptLookup = (*transcriptStore)(nil).Lookup
var _ httpapi.StatusSnapshot = (*transcriptStore)(nil).Snapshot
