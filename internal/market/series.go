package market

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

const (
	MinValue = 40.0
	MaxValue = 200.0

	driftScale = 2.2
	noiseScale = 1.3
)

// Point 是序列上的一个采样点，Index 在追加时分配，淘汰后不复用
type Point struct {
	Index int     `json:"x"`
	Value float64 `json:"y"`
}

type Series []Point

func (s Series) Last() Point {
	return s[len(s)-1]
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Advance 在 prev 基础上走一步有界随机游走，结果限制在 [40,200] 并保留两位小数
func Advance(prev float64, rnd *rand.Rand) float64 {
	drift := (rnd.Float64()*2 - 1) * driftScale
	noise := (rnd.Float64() - 0.5) * noiseScale
	next := clamp(prev+drift+noise, MinValue, MaxValue)
	v, _ := decimal.NewFromFloat(next).Round(2).Float64()
	return v
}

// InitializeSeries 从 seed 开始连续调用 Advance，生成索引为 0..length-1 的序列
func InitializeSeries(length int, seed float64, rnd *rand.Rand) Series {
	out := make(Series, length)
	val := seed
	for i := 0; i < length; i++ {
		val = Advance(val, rnd)
		out[i] = Point{Index: i, Value: val}
	}
	return out
}

// Step 淘汰最旧的点并追加一个新点，返回新切片，不修改 s
func Step(s Series, rnd *rand.Rand) Series {
	if len(s) == 0 {
		return s
	}
	last := s.Last()
	next := make(Series, len(s))
	copy(next, s[1:])
	next[len(s)-1] = Point{Index: last.Index + 1, Value: Advance(last.Value, rnd)}
	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SeriesMap 按插入顺序保存模块的序列，排名时的“先到先得”依赖该顺序
type SeriesMap struct {
	keys   []string
	series map[string]Series
}

func NewSeriesMap() *SeriesMap {
	return &SeriesMap{series: make(map[string]Series)}
}

func (m *SeriesMap) Set(key string, s Series) {
	if _, ok := m.series[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.series[key] = s
}

func (m *SeriesMap) Get(key string) (Series, bool) {
	s, ok := m.series[key]
	return s, ok
}

func (m *SeriesMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *SeriesMap) Len() int {
	return len(m.keys)
}

// Tick 对每个模块推进一步
func (m *SeriesMap) Tick(rnd *rand.Rand) {
	for _, key := range m.keys {
		m.series[key] = Step(m.series[key], rnd)
	}
}

// Clone 深拷贝，读者拿到的副本与写者互不影响
func (m *SeriesMap) Clone() *SeriesMap {
	out := &SeriesMap{
		keys:   m.Keys(),
		series: make(map[string]Series, len(m.series)),
	}
	for k, s := range m.series {
		cp := make(Series, len(s))
		copy(cp, s)
		out.series[k] = cp
	}
	return out
}
