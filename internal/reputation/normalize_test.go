package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapLinear(t *testing.T) {
	tests := []struct {
		name string
		raw  int
		cap  int
		want int
	}{
		{name: "zero raw", raw: 0, cap: 200, want: 0},
		{name: "negative raw clamps to zero", raw: -5, cap: 200, want: 0},
		{name: "raw at cap saturates", raw: 200, cap: 200, want: 100},
		{name: "raw above cap saturates", raw: 5000, cap: 200, want: 100},
		{name: "midpoint", raw: 100, cap: 200, want: 50},
		{name: "quarter", raw: 50, cap: 200, want: 25},
		{name: "rounds to nearest", raw: 1, cap: 200, want: 1},
		{name: "journal activity scale", raw: 1000, cap: 2000, want: 50},
		{name: "zero cap yields zero", raw: 100, cap: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapLinear(tt.raw, tt.cap))
		})
	}
}

func TestCapLinearMonotonic(t *testing.T) {
	prev := 0
	for raw := 0; raw <= 250; raw++ {
		score := CapLinear(raw, 200)
		assert.GreaterOrEqual(t, score, prev, "raw=%d", raw)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}

func TestOpenAccessScoreIsBinary(t *testing.T) {
	assert.Equal(t, 100, OpenAccessScore(true))
	assert.Equal(t, 30, OpenAccessScore(false))
}

func TestRecencyScore(t *testing.T) {
	t.Run("unknown year is neutral midpoint", func(t *testing.T) {
		assert.Equal(t, 60, RecencyScore(0, 2025))
		assert.Equal(t, 60, RecencyScore(-1, 2025))
	})

	t.Run("publication in reference year scores full", func(t *testing.T) {
		assert.Equal(t, 100, RecencyScore(2025, 2025))
	})

	t.Run("decays ten points per year", func(t *testing.T) {
		assert.Equal(t, 90, RecencyScore(2024, 2025))
		assert.Equal(t, 50, RecencyScore(2020, 2025))
	})

	t.Run("floored for old records", func(t *testing.T) {
		assert.Equal(t, 10, RecencyScore(2016, 2025))
		assert.Equal(t, 10, RecencyScore(1990, 2025))
	})

	t.Run("future year clamps at full", func(t *testing.T) {
		assert.Equal(t, 100, RecencyScore(2030, 2025))
	})

	t.Run("non-increasing with age", func(t *testing.T) {
		prev := 101
		for age := 0; age <= 40; age++ {
			score := RecencyScore(2025-age, 2025)
			assert.LessOrEqual(t, score, prev, "age=%d", age)
			prev = score
		}
	})
}
