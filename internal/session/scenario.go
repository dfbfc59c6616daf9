package session

import "time"

// DefaultRevealDelay 回答后到揭晓结局之间的停顿
const DefaultRevealDelay = 1500 * time.Millisecond

type ScenarioStep string

const (
	StepChoosing    ScenarioStep = "choosing"
	StepChallenging ScenarioStep = "challenging"
	StepOutcome     ScenarioStep = "outcome"
)

type scenarioRunner struct {
	scenario Scenario
	step     ScenarioStep
	choice   *Choice
	selected string
	answered bool
	correct  bool

	after   afterFunc
	delay   time.Duration
	cancel  func()
	stopped bool
	done    bool
}

func newScenarioRunner(s Scenario, after afterFunc, delay time.Duration) *scenarioRunner {
	if delay <= 0 {
		delay = DefaultRevealDelay
	}
	return &scenarioRunner{scenario: s, step: StepChoosing, after: after, delay: delay}
}

func (r *scenarioRunner) handle(ev Event) (result, error) {
	if r.done || r.stopped {
		return result{}, ErrInvalidTransition
	}
	switch ev.Action {
	case ActionChoose:
		if r.step != StepChoosing {
			return result{}, ErrInvalidTransition
		}
		for i := range r.scenario.Choices {
			if r.scenario.Choices[i].ID == ev.ChoiceID {
				r.choice = &r.scenario.Choices[i]
				r.step = StepChallenging
				return result{}, nil
			}
		}
		return result{}, invalidEvent("unknown choice %q", ev.ChoiceID)

	case ActionAnswer:
		if r.step != StepChallenging || r.answered {
			return result{}, ErrInvalidTransition
		}
		if !containsOption(r.choice.Challenge.Options, ev.Option) {
			return result{}, invalidEvent("option %q is not offered", ev.Option)
		}
		r.selected = ev.Option
		r.answered = true
		r.correct = ev.Option == r.choice.Challenge.CorrectAnswer
		r.cancel = r.after(r.delay, r.reveal)
		return result{}, nil

	case ActionContinue:
		if r.step != StepOutcome {
			return result{}, ErrInvalidTransition
		}
		r.done = true
		return result{done: true, xp: r.outcome().XP}, nil

	default:
		return result{}, invalidEvent("%s not supported by a scenario", ev.Action)
	}
}

// reveal 由定时器在会话锁内调用
func (r *scenarioRunner) reveal() {
	if r.stopped || r.step != StepChallenging {
		return
	}
	r.step = StepOutcome
	r.cancel = nil
}

func (r *scenarioRunner) outcome() Outcome {
	if r.correct {
		return r.choice.Outcomes.Correct
	}
	return r.choice.Outcomes.Incorrect
}

func (r *scenarioRunner) stop() {
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *scenarioRunner) view() ChallengeView {
	v := &ScenarioView{
		Title:       r.scenario.Title,
		Description: r.scenario.Description,
		Step:        r.step,
	}
	for _, c := range r.scenario.Choices {
		v.Choices = append(v.Choices, ChoiceView{ID: c.ID, Text: c.Text})
	}
	if r.choice != nil {
		v.ChoiceID = r.choice.ID
		v.Question = r.choice.Challenge.Question
		v.Options = append([]string(nil), r.choice.Challenge.Options...)
	}
	if r.answered {
		correct := r.correct
		v.Selected = r.selected
		v.Correct = &correct
	}
	if r.step == StepOutcome {
		o := r.outcome()
		v.Outcome = &OutcomeView{Text: o.Text, XP: o.XP}
	}
	return ChallengeView{Kind: KindScenario, Scenario: v}
}
