package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  Level
	}{
		{"zero", 0, LevelLow},
		{"just below medium", 39, LevelLow},
		{"medium lower bound", 40, LevelMedium},
		{"just below high", 59, LevelMedium},
		{"high lower bound", 60, LevelHigh},
		{"just below very high", 79, LevelHigh},
		{"very high lower bound", 80, LevelVeryHigh},
		{"maximum", 100, LevelVeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.total))
		})
	}
}

func TestLevelForIsTotal(t *testing.T) {
	// Every score in range maps to exactly one of the four labels.
	for total := 0; total <= 100; total++ {
		level := LevelFor(total)
		assert.Contains(t, []Level{LevelLow, LevelMedium, LevelHigh, LevelVeryHigh}, level)
	}
}
