package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completions struct {
	mu    sync.Mutex
	calls []int
}

func (c *completions) record(totalXP int) {
	c.mu.Lock()
	c.calls = append(c.calls, totalXP)
	c.mu.Unlock()
}

func (c *completions) get() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.calls...)
}

func newTestMachine(sched *manualScheduler, done *completions) *Machine {
	return NewMachine(Options{Scheduler: sched, OnComplete: done.record})
}

func threeChallengeSession() *LearningSession {
	return &LearningSession{
		Title:      "Budgeting basics",
		Challenges: []Challenge{sampleQuiz(2), sampleScenario(), sampleCalculator()},
	}
}

func mustHandle(t *testing.T, m *Machine, ev Event) {
	t.Helper()
	require.NoError(t, m.Handle(ev))
}

func TestMachineStartsInVideoWhileLoading(t *testing.T) {
	m := newTestMachine(&manualScheduler{}, &completions{})

	v := m.View()
	assert.Equal(t, PhaseVideo, v.Phase)
	assert.True(t, v.Loading)
	assert.ErrorIs(t, m.Ready(), ErrLoading)
	assert.ErrorIs(t, m.Handle(Event{Action: ActionContinue}), ErrLoading)
}

func TestMachineCompletesOnceWithSummedXP(t *testing.T) {
	sched := &manualScheduler{}
	done := &completions{}
	m := newTestMachine(sched, done)

	require.True(t, m.Resolve(threeChallengeSession()))
	assert.Equal(t, PhaseVideo, m.Phase(), "ready is an explicit action")
	require.NoError(t, m.Ready())

	v := m.View()
	assert.Equal(t, PhaseChallenge, v.Phase)
	assert.Equal(t, 0, v.Index)
	assert.InDelta(t, 100.0/3, v.Progress, 1e-9)
	assert.Equal(t, KindQuiz, v.Challenge.Kind)

	// quiz: 一对一错 → 25
	mustHandle(t, m, Event{Action: ActionSelect, Option: "50%"})
	mustHandle(t, m, Event{Action: ActionContinue})
	mustHandle(t, m, Event{Action: ActionSelect, Option: "70%"})
	mustHandle(t, m, Event{Action: ActionContinue})
	assert.Empty(t, done.get())

	v = m.View()
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, 25, v.TotalXP)
	assert.Equal(t, KindScenario, v.Challenge.Kind)

	// scenario: 答对 → 30
	mustHandle(t, m, Event{Action: ActionChoose, ChoiceID: "rent"})
	mustHandle(t, m, Event{Action: ActionAnswer, Option: "Rent"})
	sched.FireAll(false)
	mustHandle(t, m, Event{Action: ActionContinue})
	assert.Empty(t, done.get())

	// calculator: 固定 50
	assert.Equal(t, KindCalculator, m.View().Challenge.Kind)
	mustHandle(t, m, Event{Action: ActionInput, Values: map[string]float64{"wants": 1000}})
	mustHandle(t, m, Event{Action: ActionContinue})

	assert.Equal(t, []int{25 + 30 + 50}, done.get())
	v = m.View()
	assert.Equal(t, PhaseCompleted, v.Phase)
	assert.Equal(t, 105, v.TotalXP)
	assert.Equal(t, 100.0, v.Progress)
	assert.Nil(t, v.Challenge)

	assert.ErrorIs(t, m.Handle(Event{Action: ActionContinue}), ErrInvalidTransition)
	assert.Len(t, done.get(), 1)
}

func TestMachineFailureIsTerminal(t *testing.T) {
	done := &completions{}
	m := newTestMachine(&manualScheduler{}, done)

	require.True(t, m.Fail(errors.New("upstream timeout")))

	v := m.View()
	assert.Equal(t, PhaseFailed, v.Phase)
	assert.False(t, v.Loading)
	assert.Equal(t, "upstream timeout", v.Error)
	assert.ErrorIs(t, m.Ready(), ErrInvalidTransition)

	// 迟到的结果不会让会话复活
	assert.False(t, m.Resolve(threeChallengeSession()))
	assert.Equal(t, PhaseFailed, m.Phase())
	assert.Empty(t, done.get())
}

func TestMachineResolveEmptySessionFails(t *testing.T) {
	m := newTestMachine(&manualScheduler{}, &completions{})

	require.True(t, m.Resolve(&LearningSession{Title: "empty"}))
	assert.Equal(t, PhaseFailed, m.Phase())
}

func TestMachineCloseDiscardsLateResult(t *testing.T) {
	m := newTestMachine(&manualScheduler{}, &completions{})
	m.Close()
	m.Close()

	assert.True(t, m.Closed())
	assert.False(t, m.Resolve(threeChallengeSession()))
	assert.False(t, m.Fail(errors.New("late")))
	assert.ErrorIs(t, m.Ready(), ErrClosed)
	assert.ErrorIs(t, m.Handle(Event{Action: ActionContinue}), ErrClosed)
	assert.True(t, m.View().Loading)
}

func TestMachineCloseCancelsPendingReveal(t *testing.T) {
	sched := &manualScheduler{}
	m := newTestMachine(sched, &completions{})
	m.Resolve(&LearningSession{Title: "s", Challenges: []Challenge{sampleScenario()}})
	require.NoError(t, m.Ready())

	mustHandle(t, m, Event{Action: ActionChoose, ChoiceID: "buy"})
	mustHandle(t, m, Event{Action: ActionAnswer, Option: "Monthly fee"})
	require.Equal(t, 1, sched.Pending())

	m.Close()
	assert.Equal(t, 0, sched.Pending())

	sched.FireAll(true)
	assert.Equal(t, StepChallenging, m.View().Challenge.Scenario.Step)
}

func TestMachineUnavailableChallenge(t *testing.T) {
	done := &completions{}
	m := newTestMachine(&manualScheduler{}, done)
	m.Resolve(&LearningSession{Challenges: []Challenge{
		Unavailable{Declared: KindQuiz, Reason: "questions missing"},
		sampleCalculator(),
	}})
	require.NoError(t, m.Ready())

	v := m.View()
	assert.Equal(t, KindQuiz, v.Challenge.Kind)
	require.NotNil(t, v.Challenge.Unavailable)
	assert.ErrorIs(t, m.Handle(Event{Action: ActionSelect, Option: "x"}), ErrInvalidEvent)

	mustHandle(t, m, Event{Action: ActionContinue})
	mustHandle(t, m, Event{Action: ActionContinue})
	assert.Equal(t, []int{50}, done.get())
}

func TestMachineRejectsUnknownAction(t *testing.T) {
	m := newTestMachine(&manualScheduler{}, &completions{})
	m.Resolve(threeChallengeSession())
	require.NoError(t, m.Ready())

	assert.ErrorIs(t, m.Handle(Event{Action: "skip"}), ErrInvalidEvent)
	assert.ErrorIs(t, m.Ready(), ErrInvalidTransition)
}

func TestMachineConcurrentEvents(t *testing.T) {
	done := &completions{}
	m := newTestMachine(&manualScheduler{}, done)
	m.Resolve(&LearningSession{Challenges: []Challenge{sampleCalculator()}})
	require.NoError(t, m.Ready())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Handle(Event{Action: ActionContinue})
			_ = m.View()
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{CalculatorXP}, done.get())
}
