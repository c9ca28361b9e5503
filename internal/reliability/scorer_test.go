package reliability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAllSignalsTrueNoPenalties(t *testing.T) {
	r := Score(Signals{true, true, true, true, true}, Penalties{})
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, LabelHigh, r.Label)
}

func TestScoreNoSignalsIsLow(t *testing.T) {
	r := Score(Signals{}, Penalties{})
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, LabelLow, r.Label)
}

func TestScoreNeverNegative(t *testing.T) {
	r := Score(Signals{}, Penalties{
		ProbeTimedOutOnRequiredEvidence: true,
		DeterministicFallback:          true,
		Truncated:                      true,
		BudgetExceeded:                 true,
	})
	assert.Equal(t, 0, r.Score)
}

func TestScoreMediumBand(t *testing.T) {
	r := Score(Signals{TranslatorConfident: true, ProbeCoverage: true, AnswerGrounded: true}, Penalties{})
	assert.Equal(t, 60, r.Score)
	assert.Equal(t, LabelMedium, r.Label)
}

func TestScoreHighThresholdBoundary(t *testing.T) {
	r := Score(Signals{TranslatorConfident: true, ProbeCoverage: true, AnswerGrounded: true, NoInvention: true}, Penalties{})
	assert.Equal(t, 80, r.Score)
	assert.Equal(t, LabelHigh, r.Label)
}
