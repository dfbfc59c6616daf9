package session

import "time"

type result struct {
	done bool
	xp   int
}

// runner 驱动单个挑战，完成时 handle 返回 done=true，之后不再被调用
type runner interface {
	handle(ev Event) (result, error)
	view() ChallengeView
	stop()
}

type afterFunc func(d time.Duration, fn func()) (cancel func())

func newRunner(c Challenge, after afterFunc, delay time.Duration) runner {
	switch ch := c.(type) {
	case Quiz:
		return newQuizRunner(ch)
	case Scenario:
		return newScenarioRunner(ch, after, delay)
	case Calculator:
		return newCalculatorRunner(ch)
	case Unavailable:
		return &unavailableRunner{u: ch}
	default:
		return &unavailableRunner{u: Unavailable{Declared: c.Kind(), Reason: "unsupported challenge"}}
	}
}

type unavailableRunner struct {
	u Unavailable
}

func (r *unavailableRunner) handle(ev Event) (result, error) {
	if ev.Action != ActionContinue {
		return result{}, invalidEvent("%s not supported by an unavailable challenge", ev.Action)
	}
	return result{done: true}, nil
}

func (r *unavailableRunner) view() ChallengeView {
	return ChallengeView{
		Kind:        r.u.Declared,
		Unavailable: &UnavailableView{Reason: r.u.Reason},
	}
}

func (r *unavailableRunner) stop() {}
