package verification

import (
	"fmt"

	"refguard/internal/fraud"
)

// Score thresholds partitioning the decision space. Scores above
// BlockThreshold block, scores in [ReviewThreshold, BlockThreshold] park the
// record for manual review, anything below verifies.
const (
	BlockThreshold  = 70
	ReviewThreshold = 40
)

// Decision is the outcome of one finalization attempt.
type Decision string

const (
	DecisionVerify Decision = "verify"
	DecisionBlock  Decision = "block"
	DecisionFlag   Decision = "flag"
)

// Outcome is the decision plus everything the caller needs to apply it.
type Outcome struct {
	Decision Decision
	Score    int
	Flags    []string
	Reason   string
}

// Decide maps an authoritative fraud score to a transition outcome. It is a
// pure function of its inputs: no clock, no store, no side effects.
func Decide(result fraud.ScoreResult) Outcome {
	out := Outcome{Score: result.Total, Flags: result.Flags}
	switch {
	case result.Total > BlockThreshold:
		out.Decision = DecisionBlock
		out.Reason = fmt.Sprintf("fraud score %d exceeds block threshold %d", result.Total, BlockThreshold)
	case result.Total >= ReviewThreshold:
		out.Decision = DecisionFlag
		out.Reason = fmt.Sprintf("fraud score %d requires manual review", result.Total)
	default:
		out.Decision = DecisionVerify
	}
	return out
}
