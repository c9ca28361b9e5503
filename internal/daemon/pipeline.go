package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/annassistant/annad/internal/audit"
	"github.com/annassistant/annad/internal/claim"
	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/reliability"
	"github.com/annassistant/annad/internal/router"
	"github.com/annassistant/annad/internal/ticket"
	"github.com/annassistant/annad/internal/trace"
	"github.com/annassistant/annad/internal/transcript"
	"github.com/annassistant/annad/pkg/config"
)

// Pipeline wires the Router, Executor, Evidence Parsers, Ticket Loop
// and Reliability Scorer into the single answer-path a query RPC call
// drives end to end. It holds only read-only or thread-safe
// collaborators; nothing here is mutated per request beyond the
// transcriptStore counters.
type Pipeline struct {
	cfg        *config.Config
	registry   *probe.Registry
	executor   *probe.Executor
	translator router.Translator
	junior     ticket.JuniorReviewer
	senior     ticket.SeniorReviewer
	store      *transcriptStore
	logger     *slog.Logger
	persister  *audit.Persister
}

// SetPersister wires an optional audit.Persister: every completed
// request's Summary is enqueued fire-and-forget after scoring, never
// blocking or affecting the in-flight answer. Called once at startup;
// nil disables durable audit persistence entirely.
func (p *Pipeline) SetPersister(persister *audit.Persister) {
	p.persister = persister
}

// NewPipeline constructs a Pipeline. translator may be nil, in which
// case the deterministic classifier is authoritative for every
// request - exactly the behavior spec.md §4.3 requires when no LLM
// translator is configured.
func NewPipeline(cfg *config.Config, registry *probe.Registry, translator router.Translator) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		registry:   registry,
		executor:   probe.NewExecutor(registry, cfg.WorkerPool),
		translator: translator,
		junior:     ticket.DeterministicJunior{Threshold: cfg.VerificationThreshold},
		senior:     ticket.DeterministicSenior{},
		store:      newTranscriptStore(),
		logger:     slog.Default().With(slog.String("component", "pipeline")),
	}
}

// Store exposes the transcript/status store for wiring into httpapi
// and the RPC server.
func (p *Pipeline) Store() *transcriptStore { return p.store }

// Query drives requestID/text through Router -> Executor -> Parsers ->
// Draft -> Ticket Loop -> Scorer and returns the QueryResponse. It
// never returns an error: every recoverable failure downgrades the
// reliability score and is recorded in the trace instead, per
// spec.md §7's propagation policy.
func (p *Pipeline) Query(ctx context.Context, requestID, text string, deadline time.Duration) Response {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if deadline <= 0 {
		deadline = p.cfg.QueryDeadline
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	p.store.begin()
	log := p.logger.With(slog.String("request_id", requestID))
	tr := transcript.New()
	tr.Message("user", text)

	translatorTimeout := deadline / 4
	if translatorTimeout <= 0 {
		translatorTimeout = 500 * time.Millisecond
	}
	plan, specialistOutcome := router.Resolve(ctx, text, "", p.translator, p.registry, translatorTimeout)

	tasks := make([]probe.Task, len(plan.ProbeIDs))
	for i, id := range plan.ProbeIDs {
		holes := map[string]string{}
		if len(plan.Entities) > 0 {
			holes["unit"] = plan.Entities[0]
			holes["tool"] = plan.Entities[0]
		}
		tasks[i] = probe.Task{ID: id, Holes: holes}
	}

	results := p.executor.Run(ctx, tasks)
	stats := trace.StatsFromResults(len(tasks), results)

	ev := make([]evidence.Data, 0, len(results))
	for _, r := range results {
		ev = append(ev, evidence.Parse(r.ID, r, lastHole(plan)))
	}

	if ctx.Err() == context.DeadlineExceeded {
		log.Warn("request deadline elapsed before draft", slog.String("route_class", string(plan.RouteClass)))
		return p.timeoutResponse(requestID, plan, stats, tr)
	}

	draftAnswer := Draft(plan, ev, text)

	t := &ticket.Ticket{
		TicketID:        uuid.NewString(),
		RequestID:       requestID,
		Domain:          plan.Domain,
		Intent:          plan.Intent,
		JuniorRoundsMax: p.cfg.JuniorRoundsMax,
		SeniorRoundsMax: p.cfg.SeniorRoundsMax,
		Status:          ticket.StatusDrafted,
		EvidenceKinds:   evidenceKindStrings(ev),
	}

	outcome := ticket.Run(ctx, t, draftAnswer, results, text, p.junior, p.senior, ticket.ApplyRevision, tr)

	claims := claim.Extract(outcome.FinalAnswer)
	allGrounded := true
	for _, c := range claims {
		if !claim.Ground(c, ev) {
			allGrounded = false
			break
		}
	}
	answerGrounded := allGrounded
	noInvention := outcome.Status == ticket.StatusVerified && allGrounded

	requiredTimedOut := stats.TimedOut > 0 && len(plan.ProbeIDs) > 0

	signals := reliability.Signals{
		TranslatorConfident:    specialistOutcome == trace.SpecialistOK || specialistOutcome == trace.SpecialistSkipped,
		ProbeCoverage:          stats.Planned == 0 || stats.Succeeded > 0,
		AnswerGrounded:         answerGrounded,
		NoInvention:            noInvention,
		ClarificationNotNeeded: plan.ClarificationHint == "",
	}
	penalties := reliability.Penalties{
		ProbeTimedOutOnRequiredEvidence: requiredTimedOut,
		DeterministicFallback:           specialistOutcome == trace.SpecialistTimeout || specialistOutcome == trace.SpecialistError,
		Truncated:                       anyTruncated(results),
		BudgetExceeded:                  ctx.Err() == context.DeadlineExceeded,
	}
	score := reliability.Score(signals, penalties)

	kinds := trace.EvidenceKindsFromRoute(string(plan.RouteClass))
	var tc trace.Trace
	switch specialistOutcome {
	case trace.SpecialistOK:
		tc = trace.OKTrace(stats)
		tc.EvidenceKinds = kinds
	case trace.SpecialistTimeout:
		tc = trace.SpecialistTimeoutWithFallback(string(plan.RouteClass), stats, kinds)
	case trace.SpecialistError:
		tc = trace.SpecialistErrorWithFallback(string(plan.RouteClass), stats, kinds)
	default:
		tc = trace.DeterministicRoute(stats, kinds)
	}

	finalAnswer := outcome.FinalAnswer
	if outcome.Status != ticket.StatusFailed {
		if hint := recipeHint(plan, ev); hint != "" {
			finalAnswer = finalAnswer + " " + hint
		}
	}

	status := string(outcome.Status)
	p.store.finish(requestID, tr, status, outcome.Status == ticket.StatusEscalated)
	if p.persister != nil {
		p.persister.Enqueue(audit.Summary{
			RequestID:         requestID,
			TicketID:          t.TicketID,
			Domain:            string(plan.Domain),
			Intent:            string(plan.Intent),
			Status:            status,
			ReliabilityScore:  score.Score,
			ReliabilityLabel:  string(score.Label),
			FinalAnswer:       finalAnswer,
			TranscriptSummary: tr.Summary(),
			CreatedAt:         time.Now(),
		})
	}

	resp := Response{
		RequestID:         requestID,
		Answer:            finalAnswer,
		ReliabilityScore:  score.Score,
		ReliabilityLabel:  string(score.Label),
		Domain:            plan.Domain,
		Trace:             tc,
		TranscriptSummary: tr.Summary(),
	}
	if outcome.Status == ticket.StatusFailed {
		resp.Clarification = "I couldn't verify this answer within my review budget; please rephrase or ask a narrower question."
	} else if plan.RouteClass == router.ClassUnknown {
		resp.Clarification = plan.ClarificationHint
	}
	return resp
}

func (p *Pipeline) timeoutResponse(requestID string, plan router.RoutePlan, stats trace.ProbeStats, tr *transcript.Transcript) Response {
	answer := "I couldn't collect evidence within the budget for that question."
	tr.FinalAnswer(answer)
	p.store.finish(requestID, tr, string(ticket.StatusVerified), false)

	score := reliability.Score(reliability.Signals{
		ClarificationNotNeeded: true,
	}, reliability.Penalties{
		ProbeTimedOutOnRequiredEvidence: stats.TimedOut > 0,
	})

	return Response{
		RequestID:         requestID,
		Answer:            answer,
		ReliabilityScore:  score.Score,
		ReliabilityLabel:  string(score.Label),
		Domain:            plan.Domain,
		Trace:             trace.SpecialistTimeoutNoFallback(stats),
		TranscriptSummary: tr.Summary(),
	}
}

func lastHole(plan router.RoutePlan) string {
	if len(plan.Entities) == 0 {
		return ""
	}
	return plan.Entities[0]
}

func anyTruncated(results []probe.Result) bool {
	for _, r := range results {
		if r.TruncatedStdout || r.TruncatedStderr {
			return true
		}
	}
	return false
}

func evidenceKindStrings(ev []evidence.Data) []string {
	out := make([]string, 0, len(ev))
	for _, d := range ev {
		if d.Kind() == evidence.KindEmpty || d.Kind() == evidence.KindInvalid {
			continue
		}
		out = append(out, string(d.Kind()))
	}
	return out
}
