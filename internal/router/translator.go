package router

import (
	"context"
	"time"

	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/trace"
)

// TranslatorResponse is the wire shape an LLM translator backend
// returns: the same fields a RoutePlan carries, expressed as JSON so
// a remote specialist can produce it without any Go-specific
// knowledge of the RoutePlan type.
type TranslatorResponse struct {
	Intent               string   `json:"intent"`
	Domain               string   `json:"domain"`
	Entities             []string `json:"entities"`
	NeedsProbes          []string `json:"needs_probes"`
	Confidence           float64  `json:"confidence"`
	ClarificationQuestion string  `json:"clarification_question,omitempty"`
}

// Translator is the optional LLM backend consulted before falling
// back to the deterministic classifier. Implementations are expected
// to enforce their own timeout internally; Resolve additionally
// bounds the call with ctx.
type Translator interface {
	Translate(ctx context.Context, query string, runtimeContext string) (TranslatorResponse, error)
}

// Resolve produces a RoutePlan for query, preferring translator when
// one is configured. The deterministic classifier result is always
// computed as groundwork for the fallback path. Probe ids returned by
// a translator are validated against registry, and unknown ones are
// discarded rather than causing a request-wide failure.
func Resolve(ctx context.Context, query, runtimeContext string, translator Translator, registry *probe.Registry, timeout time.Duration) (RoutePlan, trace.SpecialistOutcome) {
	deterministic := Classify(query)

	if translator == nil {
		return deterministic, trace.SpecialistSkipped
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := translator.Translate(tctx, query, runtimeContext)
	if err != nil {
		if tctx.Err() == context.DeadlineExceeded {
			return deterministic, trace.SpecialistTimeout
		}
		return deterministic, trace.SpecialistError
	}

	plan, ok := fromTranslatorResponse(resp, registry)
	if !ok {
		return deterministic, trace.SpecialistError
	}
	return plan, trace.SpecialistOK
}

// fromTranslatorResponse applies the robustness rules a translator
// reply must survive: missing optional fields default to empty/zero,
// unknown probe ids are silently discarded rather than rejecting the
// whole response, and confidence is clamped to [0,1]. Returns ok=false
// only when intent or domain fails basic schema validation.
func fromTranslatorResponse(resp TranslatorResponse, registry *probe.Registry) (RoutePlan, bool) {
	intent := Intent(resp.Intent)
	switch intent {
	case IntentQuestion, IntentInvestigate, IntentRequest, IntentOther:
	default:
		return RoutePlan{}, false
	}

	domain := Domain(resp.Domain)
	switch domain {
	case DomainSystem, DomainStorage, DomainNetwork, DomainServices, DomainHardware, DomainAudio, DomainLogs, DomainOther:
	default:
		return RoutePlan{}, false
	}

	var ids []probe.ID
	for _, raw := range resp.NeedsProbes {
		id := probe.ID(raw)
		if _, known := registry.Get(id); known {
			ids = append(ids, id)
		}
	}

	confidence := resp.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return RoutePlan{
		RouteClass:        ClassUnknown, // translator replies carry no route_class of their own
		Domain:             domain,
		ProbeIDs:           probe.Dedup(ids),
		Confidence:         confidence,
		Intent:             intent,
		ClarificationHint:  resp.ClarificationQuestion,
		Entities:           resp.Entities,
	}, true
}
