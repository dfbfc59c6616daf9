package market

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceStaysWithinBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	starts := []float64{MinValue, MaxValue, 100, 40.5, 199.5}
	for _, start := range starts {
		v := start
		for i := 0; i < 5000; i++ {
			v = Advance(v, rnd)
			require.GreaterOrEqual(t, v, MinValue, "start=%v step=%d", start, i)
			require.LessOrEqual(t, v, MaxValue, "start=%v step=%d", start, i)
		}
	}
}

func TestAdvanceRoundsToTwoDecimals(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	v := 100.0
	for i := 0; i < 500; i++ {
		v = Advance(v, rnd)
		scaled := v * 100
		assert.InDelta(t, math.Round(scaled), scaled, 1e-6, "value %v has more than two decimals", v)
	}
}

func TestAdvanceStepIsBounded(t *testing.T) {
	// |drift| <= 2.2, |noise| <= 0.65，再加上舍入误差
	rnd := rand.New(rand.NewSource(99))
	v := 120.0
	for i := 0; i < 2000; i++ {
		next := Advance(v, rnd)
		assert.LessOrEqual(t, math.Abs(next-v), 2.2+0.65+0.01)
		v = next
	}
}

func TestInitializeSeries(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := InitializeSeries(160, 100, rnd)

	require.Len(t, s, 160)
	for i, p := range s {
		assert.Equal(t, i, p.Index)
		assert.GreaterOrEqual(t, p.Value, MinValue)
		assert.LessOrEqual(t, p.Value, MaxValue)
	}
	// 第一个点已经走过一步
	assert.LessOrEqual(t, math.Abs(s[0].Value-100), 2.86)
}

func TestWindowInvariantAfterTicks(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	m := NewSeriesMap()
	m.Set("budgeting", InitializeSeries(20, 100, rnd))
	m.Set("credit", InitializeSeries(20, 120, rnd))
	m.Set("mortgage", InitializeSeries(20, 80, rnd))

	for tick := 0; tick < 250; tick++ {
		m.Tick(rnd)
	}

	for _, key := range m.Keys() {
		s, ok := m.Get(key)
		require.True(t, ok)
		require.Len(t, s, 20, key)
		for i := 1; i < len(s); i++ {
			assert.Equal(t, s[i-1].Index+1, s[i].Index, "%s has a gap at %d", key, i)
		}
		assert.Equal(t, 250+19, s.Last().Index)
	}
}

func TestStepDoesNotAliasPrevious(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	prev := InitializeSeries(5, 100, rnd)
	snapshot := make(Series, len(prev))
	copy(snapshot, prev)

	next := Step(prev, rnd)

	assert.Equal(t, snapshot, prev, "previous series must stay untouched")
	assert.Equal(t, prev[1:], next[:4])
	assert.Equal(t, prev.Last().Index+1, next.Last().Index)
}

func TestSeriesMapKeepsInsertionOrder(t *testing.T) {
	m := NewSeriesMap()
	m.Set("c", Series{{0, 1}})
	m.Set("a", Series{{0, 1}})
	m.Set("b", Series{{0, 1}})
	m.Set("a", Series{{0, 2}})

	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
	assert.Equal(t, 3, m.Len())
}

func TestSeriesMapClone(t *testing.T) {
	m := NewSeriesMap()
	m.Set("a", Series{{0, 100}, {1, 101}})

	clone := m.Clone()
	s, _ := clone.Get("a")
	s[0].Value = 1

	orig, _ := m.Get("a")
	assert.Equal(t, 100.0, orig[0].Value)
}
