package session

import (
	"sync"
	"time"
)

// manualScheduler 记录定时任务，由测试手动触发
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		s.mu.Lock()
		t.cancelled = true
		s.mu.Unlock()
	}
}

// FireAll 执行所有未取消的任务，忽略取消标记时用 force
func (s *manualScheduler) FireAll(force bool) int {
	s.mu.Lock()
	var due []*manualTask
	for _, t := range s.tasks {
		if t.fired || (t.cancelled && !force) {
			continue
		}
		t.fired = true
		due = append(due, t)
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

func sampleQuiz(n int) Quiz {
	q := Quiz{}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, Question{
			Text:          "What share goes to needs?",
			Options:       []string{"20%", "30%", "50%", "70%"},
			CorrectAnswer: "50%",
		})
	}
	return q
}

func sampleScenario() Scenario {
	return Scenario{
		Title:       "Rent or buy",
		Description: "Your lease is up.",
		Choices: []Choice{
			{
				ID:   "rent",
				Text: "Keep renting",
				Challenge: ScenarioQuestion{
					Question:      "Which cost is fixed?",
					Options:       []string{"Rent", "Groceries"},
					CorrectAnswer: "Rent",
				},
				Outcomes: Outcomes{
					Correct:   Outcome{Text: "Nice", XP: 30},
					Incorrect: Outcome{Text: "Not quite", XP: 10},
				},
			},
			{
				ID:   "buy",
				Text: "Buy a condo",
				Challenge: ScenarioQuestion{
					Question:      "What is a down payment?",
					Options:       []string{"Upfront cash", "Monthly fee"},
					CorrectAnswer: "Upfront cash",
				},
				Outcomes: Outcomes{
					Correct:   Outcome{Text: "Right", XP: 40},
					Incorrect: Outcome{Text: "Wrong", XP: 5},
				},
			},
		},
	}
}

func sampleCalculator() Calculator {
	return Calculator{
		Title:       "50/30/20",
		Description: "Split your income.",
		Inputs: []CalculatorInput{
			{ID: "income", Label: "Income", Type: "slider", Value: 4000, Max: 10000},
			{ID: "needs", Label: "Needs", Type: "slider", Value: 2000, Max: 10000},
			{ID: "wants", Label: "Wants", Type: "slider", Value: 1200, Max: 10000},
		},
	}
}
