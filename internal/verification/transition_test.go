package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"refguard/internal/fraud"
)

func TestDecidePartitionsScoreSpace(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  Decision
	}{
		{"zero score verifies", 0, DecisionVerify},
		{"just below review band verifies", ReviewThreshold - 1, DecisionVerify},
		{"review band lower edge flags", ReviewThreshold, DecisionFlag},
		{"mid review band flags", 55, DecisionFlag},
		{"block threshold itself flags", BlockThreshold, DecisionFlag},
		{"just above block threshold blocks", BlockThreshold + 1, DecisionBlock},
		{"maximum score blocks", fraud.MaxScore, DecisionBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Decide(fraud.ScoreResult{Total: tt.score})
			assert.Equal(t, tt.want, out.Decision)
			assert.Equal(t, tt.score, out.Score)
			if tt.want == DecisionVerify {
				assert.Empty(t, out.Reason)
			} else {
				assert.NotEmpty(t, out.Reason)
			}
		})
	}
}

func TestDecideCarriesFlagsThrough(t *testing.T) {
	out := Decide(fraud.ScoreResult{Total: 90, Flags: []string{fraud.FlagSameDevice, fraud.FlagThinContent}})
	assert.Equal(t, DecisionBlock, out.Decision)
	assert.Equal(t, []string{fraud.FlagSameDevice, fraud.FlagThinContent}, out.Flags)
}
