package session

import "github.com/shopspring/decimal"

// CalculatorXP 计算器没有对错，继续即获得固定奖励
const CalculatorXP = 50

type Band string

const (
	BandBalanced Band = "balanced"
	BandLow      Band = "low"
	BandHigh     Band = "high"
	BandAim      Band = "aim"
)

var bandFeedback = map[Band]string{
	BandBalanced: "Perfect balance!",
	BandLow:      "Good start! Trim some 'Wants' to boost savings.",
	BandHigh:     "Amazing saver!",
	BandAim:      "Aim for 20% savings.",
}

type Allocation struct {
	NeedsPct   int  `json:"needsPct"`
	WantsPct   int  `json:"wantsPct"`
	SavingsPct int  `json:"savingsPct"`
	Band       Band `json:"band"`
}

func (a Allocation) Feedback() string {
	return bandFeedback[a.Band]
}

// Allocate 按 income、needs、wants 三个输入计算占比，
// income 为 0 时按 1 处理，储蓄占比不低于 0
func Allocate(values map[string]float64) Allocation {
	income := decimal.NewFromFloat(values["income"])
	if income.IsZero() {
		income = decimal.NewFromInt(1)
	}
	hundred := decimal.NewFromInt(100)
	pct := func(key string) int {
		return int(decimal.NewFromFloat(values[key]).Div(income).Mul(hundred).Round(0).IntPart())
	}

	a := Allocation{NeedsPct: pct("needs"), WantsPct: pct("wants")}
	a.SavingsPct = 100 - a.NeedsPct - a.WantsPct
	if a.SavingsPct < 0 {
		a.SavingsPct = 0
	}
	a.Band = BandFor(a.SavingsPct)
	return a
}

func BandFor(savingsPct int) Band {
	switch {
	case savingsPct >= 18 && savingsPct <= 22:
		return BandBalanced
	case savingsPct < 10:
		return BandLow
	case savingsPct > 25:
		return BandHigh
	default:
		return BandAim
	}
}

type calculatorRunner struct {
	calc   Calculator
	values map[string]float64
	done   bool
}

func newCalculatorRunner(c Calculator) *calculatorRunner {
	values := make(map[string]float64, len(c.Inputs))
	for _, in := range c.Inputs {
		values[in.ID] = in.Value
	}
	return &calculatorRunner{calc: c, values: values}
}

func (r *calculatorRunner) input(id string) (CalculatorInput, bool) {
	for _, in := range r.calc.Inputs {
		if in.ID == id {
			return in, true
		}
	}
	return CalculatorInput{}, false
}

func (r *calculatorRunner) handle(ev Event) (result, error) {
	if r.done {
		return result{}, ErrInvalidTransition
	}
	switch ev.Action {
	case ActionInput:
		if len(ev.Values) == 0 {
			return result{}, invalidEvent("input requires values")
		}
		for id := range ev.Values {
			if _, ok := r.input(id); !ok {
				return result{}, invalidEvent("unknown input %q", id)
			}
		}
		for id, v := range ev.Values {
			in, _ := r.input(id)
			if v < 0 {
				v = 0
			}
			if in.Max > 0 && v > in.Max {
				v = in.Max
			}
			r.values[id] = v
		}
		return result{}, nil

	case ActionContinue:
		r.done = true
		return result{done: true, xp: CalculatorXP}, nil

	default:
		return result{}, invalidEvent("%s not supported by a calculator", ev.Action)
	}
}

func (r *calculatorRunner) view() ChallengeView {
	alloc := Allocate(r.values)
	v := &CalculatorView{
		Title:       r.calc.Title,
		Description: r.calc.Description,
		Allocation:  alloc,
		Feedback:    alloc.Feedback(),
	}
	for _, in := range r.calc.Inputs {
		v.Inputs = append(v.Inputs, InputView{
			ID:    in.ID,
			Label: in.Label,
			Type:  in.Type,
			Value: r.values[in.ID],
			Max:   in.Max,
		})
	}
	for _, out := range r.calc.Outputs {
		v.Outputs = append(v.Outputs, OutputView{ID: out.ID, Label: out.Label, Formula: out.Formula})
	}
	return ChallengeView{Kind: KindCalculator, Calculator: v}
}

func (r *calculatorRunner) stop() {}
