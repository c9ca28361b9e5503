// Package reliability implements the Reliability Scorer: a pure
// function from a fixed set of boolean signals and penalty flags to
// an integer 0-100 score plus a textual label.
package reliability

// Signals are the five boolean contributors to the base score, each
// worth 20 points when true.
type Signals struct {
	TranslatorConfident     bool
	ProbeCoverage           bool
	AnswerGrounded          bool
	NoInvention             bool
	ClarificationNotNeeded  bool
}

// Penalties are applied after the base score and never push the
// result outside [0, 100].
type Penalties struct {
	// ProbeTimedOutOnRequiredEvidence is true when a probe the route
	// required for its evidence timed out.
	ProbeTimedOutOnRequiredEvidence bool
	// DeterministicFallback is true when the answer fell back to a
	// deterministic template because the specialist errored or timed out.
	DeterministicFallback bool
	// Truncated is true when the transcript or prompt was truncated.
	Truncated bool
	// BudgetExceeded is true when any stage exceeded its time budget.
	BudgetExceeded bool
}

// Label is the coarse textual reliability label a Score maps to.
type Label string

const (
	LabelHigh   Label = "high"
	LabelMedium Label = "medium"
	LabelLow    Label = "low"
)

// Result is the scorer's output, persisted verbatim in the
// ExecutionTrace.
type Result struct {
	Score     int
	Label     Label
	Signals   Signals
	Penalties Penalties
}

// Score computes the final 0-100 score and label from signals and
// penalties.
func Score(signals Signals, penalties Penalties) Result {
	base := 0
	for _, on := range []bool{
		signals.TranslatorConfident,
		signals.ProbeCoverage,
		signals.AnswerGrounded,
		signals.NoInvention,
		signals.ClarificationNotNeeded,
	} {
		if on {
			base += 20
		}
	}

	if penalties.ProbeTimedOutOnRequiredEvidence {
		base -= 20
	}
	if penalties.DeterministicFallback {
		base -= 10
	}
	if penalties.Truncated {
		base -= 10
	}
	if penalties.BudgetExceeded {
		base -= 5
	}

	if base > 100 {
		base = 100
	}
	if base < 0 {
		base = 0
	}

	return Result{Score: base, Label: labelFor(base), Signals: signals, Penalties: penalties}
}

func labelFor(score int) Label {
	switch {
	case score >= 80:
		return LabelHigh
	case score >= 50:
		return LabelMedium
	default:
		return LabelLow
	}
}
