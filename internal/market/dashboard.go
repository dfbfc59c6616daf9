package market

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type ModuleSeed struct {
	Key  string
	Seed float64
}

type DashboardOptions struct {
	Window   int
	Interval time.Duration
	Rand     *rand.Rand
	// OnTick 在每次推进后调用（持有写锁之外）
	OnTick func()
}

// Snapshot 是某一时刻所有序列的只读副本
type Snapshot struct {
	Tick    int64             `json:"tick"`
	At      time.Time         `json:"at"`
	Keys    []string          `json:"keys"`
	Series  map[string]Series `json:"series"`
	Ranking Ranking           `json:"ranking"`
}

// Dashboard 持有一组序列和推进它们的定时器。
// 只有 tick 协程写 series，其余调用方只读副本。
type Dashboard struct {
	mu       sync.RWMutex
	series   *SeriesMap
	rnd      *rand.Rand
	interval time.Duration
	tick     int64
	onTick   func()

	subMu sync.Mutex
	subs  map[chan Snapshot]struct{}

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	resetCh chan time.Duration
}

func NewDashboard(modules []ModuleSeed, opts DashboardOptions) *Dashboard {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Interval <= 0 {
		opts.Interval = 900 * time.Millisecond
	}
	if opts.Window < 2 {
		opts.Window = 160
	}

	m := NewSeriesMap()
	for _, mod := range modules {
		m.Set(mod.Key, InitializeSeries(opts.Window, mod.Seed, opts.Rand))
	}

	return &Dashboard{
		series:   m,
		rnd:      opts.Rand,
		interval: opts.Interval,
		onTick:   opts.OnTick,
		subs:     make(map[chan Snapshot]struct{}),
		resetCh:  make(chan time.Duration, 1),
	}
}

// Start 启动定时推进，重复调用无副作用
func (d *Dashboard) Start(ctx context.Context) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if d.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	d.mu.RLock()
	interval := d.interval
	d.mu.RUnlock()

	go d.run(ctx, interval, d.done)
}

func (d *Dashboard) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case iv := <-d.resetCh:
			ticker.Reset(iv)
		case <-ticker.C:
			d.TickOnce()
		}
	}
}

// Stop 清除定时器并等待 tick 协程退出
func (d *Dashboard) Stop() {
	d.runMu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	d.subMu.Lock()
	for ch := range d.subs {
		close(ch)
		delete(d.subs, ch)
	}
	d.subMu.Unlock()
}

func (d *Dashboard) Running() bool {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	return d.cancel != nil
}

// SetInterval 修改推进间隔，运行中的定时器在下一次 select 时生效
func (d *Dashboard) SetInterval(iv time.Duration) {
	if iv <= 0 {
		return
	}
	d.mu.Lock()
	d.interval = iv
	d.mu.Unlock()

	select {
	case d.resetCh <- iv:
	default:
		// 已有未处理的重置，替换为最新值
		select {
		case <-d.resetCh:
		default:
		}
		select {
		case d.resetCh <- iv:
		default:
		}
	}
}

// TickOnce 推进所有序列一步并通知订阅者
func (d *Dashboard) TickOnce() Snapshot {
	d.mu.Lock()
	d.series.Tick(d.rnd)
	d.tick++
	snap := d.snapshotLocked()
	d.mu.Unlock()

	if d.onTick != nil {
		d.onTick()
	}
	d.broadcast(snap)
	return snap
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

// Series 返回单个模块序列的副本
func (d *Dashboard) Series(key string) (Series, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.series.Get(key)
	if !ok {
		return nil, false
	}
	cp := make(Series, len(s))
	copy(cp, s)
	return cp, true
}

func (d *Dashboard) snapshotLocked() Snapshot {
	clone := d.series.Clone()
	return Snapshot{
		Tick:    d.tick,
		At:      time.Now(),
		Keys:    clone.Keys(),
		Series:  clone.series,
		Ranking: Rank(clone),
	}
}

// Subscribe 订阅每次推进后的快照。消费过慢时丢弃旧帧。
func (d *Dashboard) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	d.subMu.Lock()
	d.subs[ch] = struct{}{}
	d.subMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			d.subMu.Lock()
			if _, ok := d.subs[ch]; ok {
				delete(d.subs, ch)
				close(ch)
			}
			d.subMu.Unlock()
		})
	}
	return ch, unsubscribe
}

func (d *Dashboard) broadcast(snap Snapshot) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for ch := range d.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
