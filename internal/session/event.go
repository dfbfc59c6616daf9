package session

type Action string

const (
	ActionSelect   Action = "select"
	ActionContinue Action = "continue"
	ActionChoose   Action = "choose"
	ActionAnswer   Action = "answer"
	ActionInput    Action = "input"
)

// Event 是一次用户交互。
// select 和 answer 使用 Option，choose 使用 ChoiceID，input 使用 Values。
type Event struct {
	Action   Action             `json:"action" binding:"required"`
	Option   string             `json:"option,omitempty"`
	ChoiceID string             `json:"choiceId,omitempty"`
	Values   map[string]float64 `json:"values,omitempty"`
}

func (a Action) Valid() bool {
	switch a {
	case ActionSelect, ActionContinue, ActionChoose, ActionAnswer, ActionInput:
		return true
	}
	return false
}
