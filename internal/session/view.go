package session

// View 是会话当前状态的只读渲染数据
type View struct {
	Phase     Phase          `json:"phase"`
	Loading   bool           `json:"loading"`
	Title     string         `json:"title,omitempty"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Progress  float64        `json:"progress"`
	TotalXP   int            `json:"totalXp"`
	Error     string         `json:"error,omitempty"`
	Challenge *ChallengeView `json:"challenge,omitempty"`
}

type ChallengeView struct {
	Kind        Kind             `json:"kind"`
	Quiz        *QuizView        `json:"quiz,omitempty"`
	Scenario    *ScenarioView    `json:"scenario,omitempty"`
	Calculator  *CalculatorView  `json:"calculator,omitempty"`
	Unavailable *UnavailableView `json:"unavailable,omitempty"`
}

type QuizView struct {
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      string   `json:"selected,omitempty"`
	Answered      bool     `json:"answered"`
	Correct       *bool    `json:"correct,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	CorrectCount  int      `json:"correctCount"`
}

type ChoiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type OutcomeView struct {
	Text string `json:"text"`
	XP   int    `json:"xp"`
}

type ScenarioView struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Step        ScenarioStep `json:"step"`
	Choices     []ChoiceView `json:"choices"`
	ChoiceID    string       `json:"choiceId,omitempty"`
	Question    string       `json:"question,omitempty"`
	Options     []string     `json:"options,omitempty"`
	Selected    string       `json:"selected,omitempty"`
	Correct     *bool        `json:"correct,omitempty"`
	Outcome     *OutcomeView `json:"outcome,omitempty"`
}

type InputView struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Max   float64 `json:"max,omitempty"`
}

type OutputView struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Formula string `json:"formula"`
}

type CalculatorView struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Inputs      []InputView  `json:"inputs"`
	Outputs     []OutputView `json:"outputs,omitempty"`
	Allocation  Allocation   `json:"allocation"`
	Feedback    string       `json:"feedback"`
}

type UnavailableView struct {
	Reason string `json:"reason"`
}
