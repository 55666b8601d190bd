package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "casing variants collapse to one fingerprint",
			input:    []string{"DEV-AA11", "dev-aa11", "Dev-Aa11"},
			expected: []string{"dev-aa11"},
		},
		{
			name:     "trims whitespace and drops empties",
			input:    []string{"  dev-aa11 ", "", "   ", "dev-bb22  "},
			expected: []string{"dev-aa11", "dev-bb22"},
		},
		{
			name:     "first-seen order survives deduplication",
			input:    []string{"dev-cc33", "dev-aa11", "DEV-CC33", "dev-bb22", "dev-aa11"},
			expected: []string{"dev-cc33", "dev-aa11", "dev-bb22"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}
