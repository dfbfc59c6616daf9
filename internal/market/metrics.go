package market

import (
	"math"
	"strconv"
)

type Ranking struct {
	WinnerKey string  `json:"winnerKey"`
	LoserKey  string  `json:"loserKey"`
	WinnerPct float64 `json:"winnerPct"`
	LoserPct  float64 `json:"loserPct"`
}

// PctChange 计算窗口内首尾的百分比变化，首值为 0 时返回 0
func PctChange(s Series) float64 {
	first := s[0].Value
	last := s.Last().Value
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// Rank 找出涨幅最大和跌幅最大的模块。
// 严格比较，相同涨幅时先出现的模块胜出；没有模块满足条件时回退到前两个 key。
func Rank(m *SeriesMap) Ranking {
	var r Ranking
	max, min := math.Inf(-1), math.Inf(1)

	for _, key := range m.keys {
		s := m.series[key]
		if len(s) < 2 {
			continue
		}
		pct := PctChange(s)
		if pct > max {
			max = pct
			r.WinnerKey = key
		}
		if pct < min {
			min = pct
			r.LoserKey = key
		}
	}

	if r.WinnerKey == "" {
		if len(m.keys) > 0 {
			r.WinnerKey = m.keys[0]
		}
		max = 0
	}
	if r.LoserKey == "" {
		if len(m.keys) > 1 {
			r.LoserKey = m.keys[1]
		} else {
			r.LoserKey = r.WinnerKey
		}
		min = 0
	}

	r.WinnerPct = max
	r.LoserPct = min
	return r
}

// FormatPct 生成图表角标文本，例如 "12%"、"-3.4%"
func FormatPct(p float64) string {
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return "0%"
	}
	v := math.Abs(p)
	var str string
	if v >= 10 {
		str = strconv.FormatFloat(v, 'f', 0, 64)
	} else {
		str = strconv.FormatFloat(v, 'f', 1, 64)
	}
	if p < 0 {
		return "-" + str + "%"
	}
	return str + "%"
}
