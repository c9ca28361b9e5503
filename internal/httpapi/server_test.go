package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/transcript"
	"github.com/annassistant/annad/pkg/config"
)

func testServer(t *testing.T, lookup TranscriptLookup) *Server {
	t.Helper()
	cfg := config.Defaults()
	registry := probe.NewRegistry(nil)
	return NewServer(&cfg, registry, lookup, nil)
}

func TestHealthzReportsHealthyWithEmptyCatalog(t *testing.T) {
	s := testServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestDebugVarsReportsConfig(t *testing.T) {
	s := testServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"worker_pool"`)
}

func TestTranscriptHandlerMissingRequestIDReturns404(t *testing.T) {
	s := testServer(t, func(string) (*transcript.Transcript, bool) { return nil, false })
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/transcript/does-not-exist", nil)
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTranscriptHandlerReturnsSummary(t *testing.T) {
	tr := transcript.New()
	tr.TicketCreated()
	tr.FinalAnswer("16 GiB total")

	s := testServer(t, func(id string) (*transcript.Transcript, bool) {
		if id == "req-1" {
			return tr, true
		}
		return nil, false
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/transcript/req-1", nil)
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "16 GiB total")
}
