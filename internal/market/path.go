package market

import (
	"math"
	"strconv"
	"strings"
)

// 上下留白，单位与 height 相同
const pathPad = 12.0

type PathResult struct {
	Path string  `json:"path"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// BuildPath 把序列映射为 SVG 折线命令，y 轴向下增长，输出与显示尺寸无关
func BuildPath(points Series, width, height float64) PathResult {
	if len(points) == 0 {
		return PathResult{}
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = math.Min(minY, p.Value)
		maxY = math.Max(maxY, p.Value)
	}

	yScale := func(v float64) float64 {
		if maxY == minY {
			return height / 2
		}
		t := (v - minY) / (maxY - minY)
		return height - (pathPad + t*(height-pathPad*2))
	}
	n := len(points) - 1
	xScale := func(i int) float64 {
		if n == 0 {
			return 0
		}
		return float64(i) / float64(n) * width
	}

	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatCoord(xScale(i)))
		b.WriteByte(' ')
		b.WriteString(formatCoord(yScale(p.Value)))
	}

	return PathResult{Path: b.String(), MinY: minY, MaxY: maxY}
}

// AreaPath 在折线基础上闭合到底边，用于渐变填充
func AreaPath(line string, width, height float64) string {
	if line == "" {
		return ""
	}
	w, h := formatCoord(width), formatCoord(height)
	return line + " L " + w + " " + h + " L 0 " + h + " Z"
}

type GuideLine struct {
	Label int     `json:"label"`
	Y     float64 `json:"y"`
}

// GuideLines 返回最小值、中值、最大值三条水平参考线
func GuideLines(minY, maxY, height float64) []GuideLine {
	values := []float64{minY, (minY + maxY) / 2, maxY}
	span := math.Max(1, maxY-minY)
	out := make([]GuideLine, 0, len(values))
	for _, v := range values {
		label := math.Round(v)
		out = append(out, GuideLine{
			Label: int(label),
			Y:     height - (label-minY)/span*height,
		})
	}
	return out
}

func formatCoord(v float64) string {
	if v == 0 {
		// 避免输出 -0
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
