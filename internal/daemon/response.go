package daemon

import (
	"github.com/annassistant/annad/internal/router"
	"github.com/annassistant/annad/internal/trace"
)

// Response is the QueryResponse wire shape: what the RPC query method
// returns for every request, success or failure. An empty answer is
// never returned - every path below resolves to a grounded answer, a
// deterministic fallback, or a clarification request.
type Response struct {
	RequestID         string        `json:"request_id"`
	Answer            string        `json:"answer"`
	ReliabilityScore  int           `json:"reliability_score"`
	ReliabilityLabel  string        `json:"reliability_label"`
	Domain            router.Domain `json:"domain"`
	Trace             trace.Trace   `json:"trace"`
	TranscriptSummary string        `json:"transcript_summary"`
	Clarification     string        `json:"clarification,omitempty"`
}
