package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seriesMapOf(pairs ...interface{}) *SeriesMap {
	m := NewSeriesMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(Series))
	}
	return m
}

func TestRankWinnerAndLoser(t *testing.T) {
	m := seriesMapOf(
		"a", Series{{0, 100}, {1, 110}},
		"b", Series{{0, 100}, {1, 90}},
	)

	r := Rank(m)

	assert.Equal(t, "a", r.WinnerKey)
	assert.Equal(t, "b", r.LoserKey)
	assert.InDelta(t, 10, r.WinnerPct, 1e-9)
	assert.InDelta(t, -10, r.LoserPct, 1e-9)
}

func TestRankZeroStartYieldsZeroPct(t *testing.T) {
	s := Series{{0, 0}, {1, 50}}
	pct := PctChange(s)

	assert.Equal(t, 0.0, pct)
	assert.False(t, math.IsNaN(pct) || math.IsInf(pct, 0))

	r := Rank(seriesMapOf("zero", s))
	assert.Equal(t, "zero", r.WinnerKey)
	assert.Equal(t, "zero", r.LoserKey)
	assert.Equal(t, 0.0, r.WinnerPct)
}

func TestRankTiesFirstEncounteredWins(t *testing.T) {
	m := seriesMapOf(
		"first", Series{{0, 100}, {1, 120}},
		"second", Series{{0, 50}, {1, 60}},
		"third", Series{{0, 100}, {1, 80}},
		"fourth", Series{{0, 50}, {1, 40}},
	)

	r := Rank(m)

	assert.Equal(t, "first", r.WinnerKey)
	assert.Equal(t, "third", r.LoserKey)
}

func TestRankFallbacks(t *testing.T) {
	t.Run("empty map", func(t *testing.T) {
		r := Rank(NewSeriesMap())
		assert.Equal(t, Ranking{}, r)
	})

	t.Run("single point series use first two keys", func(t *testing.T) {
		r := Rank(seriesMapOf(
			"x", Series{{0, 100}},
			"y", Series{{0, 100}},
		))
		assert.Equal(t, "x", r.WinnerKey)
		assert.Equal(t, "y", r.LoserKey)
		assert.Equal(t, 0.0, r.WinnerPct)
		assert.Equal(t, 0.0, r.LoserPct)
	})

	t.Run("single key loser falls back to winner", func(t *testing.T) {
		r := Rank(seriesMapOf("only", Series{{0, 100}}))
		assert.Equal(t, "only", r.WinnerKey)
		assert.Equal(t, "only", r.LoserKey)
	})
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.34, "12%"},
		{-12.6, "-13%"},
		{3.14, "3.1%"},
		{-0.34, "-0.3%"},
		{0, "0.0%"},
		{math.Inf(1), "0%"},
		{math.NaN(), "0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPct(tt.in), "FormatPct(%v)", tt.in)
	}
}
