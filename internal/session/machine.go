package session

import (
	"sync"
	"time"
)

type Phase string

const (
	PhaseVideo     Phase = "video"
	PhaseChallenge Phase = "challenge"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

type Options struct {
	Scheduler   Scheduler
	RevealDelay time.Duration
	// OnComplete 在最后一个挑战完成后调用一次，调用时不持有会话锁
	OnComplete func(totalXP int)
}

// Machine 驱动一次学习会话：视频 → 挑战 0..n-1 → 完成。
// 创建时处于视频阶段并等待生成结果，所有方法可并发调用。
type Machine struct {
	mu sync.Mutex

	phase   Phase
	loading bool
	session *LearningSession
	index   int
	totalXP int
	active  runner
	errMsg  string
	closed  bool

	sched      Scheduler
	delay      time.Duration
	onComplete func(totalXP int)
}

func NewMachine(opts Options) *Machine {
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler()
	}
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	return &Machine{
		phase:      PhaseVideo,
		loading:    true,
		sched:      opts.Scheduler,
		delay:      opts.RevealDelay,
		onComplete: opts.OnComplete,
	}
}

// Resolve 应用生成结果。会话已关闭或结果已应用时忽略并返回 false。
func (m *Machine) Resolve(s *LearningSession) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.loading {
		return false
	}
	m.loading = false
	if s == nil || len(s.Challenges) == 0 {
		m.phase = PhaseFailed
		m.errMsg = "no challenges were generated"
		return true
	}
	m.session = s
	return true
}

// Fail 进入终止的错误状态，不会开始任何挑战
func (m *Machine) Fail(err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.loading {
		return false
	}
	m.loading = false
	m.phase = PhaseFailed
	m.errMsg = "could not generate session"
	if err != nil {
		m.errMsg = err.Error()
	}
	return true
}

// Ready 由用户在看完视频后触发，进入第一个挑战
func (m *Machine) Ready() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.phase != PhaseVideo {
		return ErrInvalidTransition
	}
	if m.loading {
		return ErrLoading
	}
	m.phase = PhaseChallenge
	m.index = 0
	m.active = newRunner(m.session.Challenges[0], m.after, m.delay)
	return nil
}

func (m *Machine) Handle(ev Event) error {
	if !ev.Action.Valid() {
		return invalidEvent("unknown action %q", ev.Action)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.phase == PhaseVideo && m.loading {
		m.mu.Unlock()
		return ErrLoading
	}
	if m.phase != PhaseChallenge {
		m.mu.Unlock()
		return ErrInvalidTransition
	}

	res, err := m.active.handle(ev)
	if err != nil || !res.done {
		m.mu.Unlock()
		return err
	}

	m.totalXP += res.xp
	m.active.stop()

	var notify func(int)
	if m.index == len(m.session.Challenges)-1 {
		m.phase = PhaseCompleted
		m.active = nil
		notify = m.onComplete
	} else {
		m.index++
		m.active = newRunner(m.session.Challenges[m.index], m.after, m.delay)
	}
	total := m.totalXP
	m.mu.Unlock()

	if notify != nil {
		notify(total)
	}
	return nil
}

// Close 取消挂起的定时器，之后到达的生成结果和定时回调都被丢弃
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.active != nil {
		m.active.stop()
	}
}

func (m *Machine) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Phase:   m.phase,
		Loading: m.loading,
		Index:   m.index,
		TotalXP: m.totalXP,
		Error:   m.errMsg,
	}
	if m.session != nil {
		v.Title = m.session.Title
		v.Total = len(m.session.Challenges)
	}
	switch m.phase {
	case PhaseChallenge:
		v.Progress = float64(m.index+1) / float64(v.Total) * 100
		cv := m.active.view()
		v.Challenge = &cv
	case PhaseCompleted:
		v.Progress = 100
	}
	return v
}

// after 包装定时回调：在会话锁内执行，会话关闭后不再执行
func (m *Machine) after(d time.Duration, fn func()) func() {
	return m.sched.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			return
		}
		fn()
	})
}
