package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annassistant/annad/internal/probe"
	"github.com/annassistant/annad/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *probe.Registry {
	return probe.NewRegistry(probe.DefaultCatalog())
}

type stubTranslator struct {
	resp TranslatorResponse
	err  error
	wait time.Duration
}

func (s stubTranslator) Translate(ctx context.Context, query, runtimeContext string) (TranslatorResponse, error) {
	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return TranslatorResponse{}, ctx.Err()
		}
	}
	return s.resp, s.err
}

func TestResolveNoTranslatorUsesDeterministic(t *testing.T) {
	plan, outcome := Resolve(context.Background(), "how much ram do i have", "", nil, testRegistry(), time.Second)
	assert.Equal(t, trace.SpecialistSkipped, outcome)
	assert.Equal(t, ClassRAMInfo, plan.RouteClass)
}

func TestResolveTranslatorSuccessDiscardsUnknownProbes(t *testing.T) {
	tr := stubTranslator{resp: TranslatorResponse{
		Intent:      "question",
		Domain:      "hardware",
		NeedsProbes: []string{"free_mem", "not_a_real_probe"},
		Confidence:  1.5,
	}}
	plan, outcome := Resolve(context.Background(), "q", "", tr, testRegistry(), time.Second)
	require.Equal(t, trace.SpecialistOK, outcome)
	assert.Equal(t, []probe.ID{probe.FreeMem}, plan.ProbeIDs)
	assert.Equal(t, 1.0, plan.Confidence, "confidence must clamp to 1")
}

func TestResolveTranslatorSuccessPropagatesEntities(t *testing.T) {
	tr := stubTranslator{resp: TranslatorResponse{
		Intent:      "investigate",
		Domain:      "services",
		NeedsProbes: []string{"systemctl_is_active"},
		Entities:    []string{"nginx.service"},
		Confidence:  0.9,
	}}
	plan, outcome := Resolve(context.Background(), "is nginx running", "", tr, testRegistry(), time.Second)
	require.Equal(t, trace.SpecialistOK, outcome)
	assert.Equal(t, []string{"nginx.service"}, plan.Entities)
}

func TestResolveTranslatorTimeoutFallsBackToDeterministic(t *testing.T) {
	tr := stubTranslator{wait: 50 * time.Millisecond, err: errors.New("unused")}
	plan, outcome := Resolve(context.Background(), "how much ram do i have", "", tr, testRegistry(), 5*time.Millisecond)
	assert.Equal(t, trace.SpecialistTimeout, outcome)
	assert.Equal(t, ClassRAMInfo, plan.RouteClass)
}

func TestResolveTranslatorErrorFallsBackToDeterministic(t *testing.T) {
	tr := stubTranslator{err: errors.New("backend unavailable")}
	plan, outcome := Resolve(context.Background(), "how much ram do i have", "", tr, testRegistry(), time.Second)
	assert.Equal(t, trace.SpecialistError, outcome)
	assert.Equal(t, ClassRAMInfo, plan.RouteClass)
}

func TestResolveTranslatorInvalidSchemaFallsBack(t *testing.T) {
	tr := stubTranslator{resp: TranslatorResponse{Intent: "not-a-real-intent", Domain: "system"}}
	plan, outcome := Resolve(context.Background(), "how much ram do i have", "", tr, testRegistry(), time.Second)
	assert.Equal(t, trace.SpecialistError, outcome)
	assert.Equal(t, ClassRAMInfo, plan.RouteClass)
}
