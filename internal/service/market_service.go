package service

import (
	"context"
	"sync"
	"time"

	"invest_learn_backend/internal/config"
	"invest_learn_backend/internal/market"
	"invest_learn_backend/internal/model"
	"invest_learn_backend/pkg/monitoring"

	"github.com/samber/lo"
)

const (
	DefaultChartWidth  = 900.0
	DefaultChartHeight = 300.0
	MaxChartSide       = 4000.0
)

// Panel 是一张图表的渲染数据
type Panel struct {
	Key       string             `json:"key"`
	Title     string             `json:"title"`
	Color     string             `json:"color"`
	Last      float64            `json:"last"`
	LastDelta float64            `json:"lastDelta"`
	Up        bool               `json:"up"`
	Pct       float64            `json:"pct"`
	PctLabel  string             `json:"pctLabel"`
	Path      string             `json:"path"`
	Area      string             `json:"area"`
	MinY      float64            `json:"minY"`
	MaxY      float64            `json:"maxY"`
	Guides    []market.GuideLine `json:"guides"`
	Points    []market.Point     `json:"points,omitempty"`
}

type Frame struct {
	Tick        int64          `json:"tick"`
	At          time.Time      `json:"at"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Ranking     market.Ranking `json:"ranking"`
	WinnerLabel string         `json:"winnerLabel"`
	LoserLabel  string         `json:"loserLabel"`
	Panels      []Panel        `json:"panels"`
}

// MarketService 持有进程内共享的看板，并为每个流式连接创建独立看板
type MarketService struct {
	mu       sync.Mutex
	window   int
	interval time.Duration
	modules  []model.Module
	shared   *market.Dashboard
	streams  map[*market.Dashboard]struct{}
}

func NewMarketService(cfg config.MarketConfig) *MarketService {
	s := &MarketService{
		window:   cfg.Window,
		interval: cfg.TickInterval,
		modules:  model.Modules(),
		streams:  make(map[*market.Dashboard]struct{}),
	}
	s.shared = s.newDashboard()
	return s
}

func (s *MarketService) newDashboard() *market.Dashboard {
	seeds := lo.Map(s.modules, func(m model.Module, _ int) market.ModuleSeed {
		return market.ModuleSeed{Key: m.Key, Seed: m.Seed}
	})
	return market.NewDashboard(seeds, market.DashboardOptions{
		Window:   s.window,
		Interval: s.interval,
		OnTick:   monitoring.MarketTicks.Inc,
	})
}

func (s *MarketService) Start(ctx context.Context) {
	s.shared.Start(ctx)
}

// Stop 停止共享看板和所有仍在推送的连接
func (s *MarketService) Stop() {
	s.shared.Stop()

	s.mu.Lock()
	streams := lo.Keys(s.streams)
	s.streams = make(map[*market.Dashboard]struct{})
	s.mu.Unlock()

	for _, d := range streams {
		d.Stop()
	}
}

func (s *MarketService) Shared() *market.Dashboard {
	return s.shared
}

// OpenStream 每个连接独立模拟，返回的 close 必须在连接结束时调用
func (s *MarketService) OpenStream(ctx context.Context) (*market.Dashboard, func()) {
	d := s.newDashboard()

	s.mu.Lock()
	s.streams[d] = struct{}{}
	s.mu.Unlock()
	monitoring.MarketStreams.Inc()

	d.Start(ctx)

	var once sync.Once
	return d, func() {
		once.Do(func() {
			d.Stop()
			s.mu.Lock()
			delete(s.streams, d)
			s.mu.Unlock()
			monitoring.MarketStreams.Dec()
		})
	}
}

func (s *MarketService) ActiveStreams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams)
}

// SetInterval 热更新推进间隔，对共享看板和已打开的连接都生效
func (s *MarketService) SetInterval(iv time.Duration) {
	if iv <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = iv
	streams := lo.Keys(s.streams)
	s.mu.Unlock()

	s.shared.SetInterval(iv)
	for _, d := range streams {
		d.SetInterval(iv)
	}
}

func (s *MarketService) Snapshot(width, height float64, withPoints bool) Frame {
	return s.BuildFrame(s.shared.Snapshot(), width, height, withPoints)
}

// BuildFrame 把快照映射为给定尺寸下的图表数据
func (s *MarketService) BuildFrame(snap market.Snapshot, width, height float64, withPoints bool) Frame {
	width, height = ClampChartSize(width, height)

	f := Frame{
		Tick:        snap.Tick,
		At:          snap.At,
		Width:       width,
		Height:      height,
		Ranking:     snap.Ranking,
		WinnerLabel: market.FormatPct(snap.Ranking.WinnerPct),
		LoserLabel:  market.FormatPct(snap.Ranking.LoserPct),
	}

	for _, key := range snap.Keys {
		series := snap.Series[key]
		res := market.BuildPath(series, width, height)
		p := Panel{
			Key:    key,
			Path:   res.Path,
			Area:   market.AreaPath(res.Path, width, height),
			MinY:   res.MinY,
			MaxY:   res.MaxY,
			Guides: market.GuideLines(res.MinY, res.MaxY, height),
		}
		if m, ok := lo.Find(s.modules, func(m model.Module) bool { return m.Key == key }); ok {
			p.Title = m.Title
			p.Color = m.Color
		}
		if len(series) > 0 {
			p.Last = series.Last().Value
			p.Pct = market.PctChange(series)
			p.PctLabel = market.FormatPct(p.Pct)
		}
		if len(series) >= 2 {
			p.LastDelta = series[len(series)-1].Value - series[len(series)-2].Value
		}
		p.Up = p.LastDelta >= 0
		if withPoints {
			p.Points = series
		}
		f.Panels = append(f.Panels, p)
	}
	return f
}

// ClampChartSize 非法尺寸使用默认值
func ClampChartSize(width, height float64) (float64, float64) {
	if width <= 0 || width > MaxChartSide {
		width = DefaultChartWidth
	}
	if height <= 0 || height > MaxChartSide {
		height = DefaultChartHeight
	}
	return width, height
}
