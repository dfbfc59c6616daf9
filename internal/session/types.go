package session

// Kind 对应生成数据中的 simulationType
type Kind string

const (
	KindQuiz       Kind = "quiz"
	KindScenario   Kind = "scenario"
	KindCalculator Kind = "calculator"
)

// LearningSession 生成后不再修改
type LearningSession struct {
	Title      string
	Challenges []Challenge
}

// Challenge 是 Quiz、Scenario、Calculator、Unavailable 的封闭联合，
// 包外无法实现新的变体
type Challenge interface {
	Kind() Kind
	sealed()
}

type Question struct {
	Text          string
	Options       []string
	CorrectAnswer string
}

type Quiz struct {
	Questions []Question
}

type ScenarioQuestion struct {
	Question      string
	Options       []string
	CorrectAnswer string
}

type Outcome struct {
	Text string
	XP   int
}

type Outcomes struct {
	Correct   Outcome
	Incorrect Outcome
}

type Choice struct {
	ID        string
	Text      string
	Challenge ScenarioQuestion
	Outcomes  Outcomes
}

type Scenario struct {
	Title       string
	Description string
	Choices     []Choice
}

type CalculatorInput struct {
	ID    string
	Label string
	Type  string
	Value float64
	// Max 为 0 表示不限
	Max float64
}

type CalculatorOutput struct {
	ID      string
	Label   string
	Formula string
}

type Calculator struct {
	Title       string
	Description string
	Inputs      []CalculatorInput
	Outputs     []CalculatorOutput
}

// Unavailable 替代结构不合法的单个挑战，会话其余部分照常进行
type Unavailable struct {
	Declared Kind
	Reason   string
}

func (Quiz) Kind() Kind { return KindQuiz }
func (Scenario) Kind() Kind { return KindScenario }
func (Calculator) Kind() Kind { return KindCalculator }
func (u Unavailable) Kind() Kind { return u.Declared }

func (Quiz) sealed() {}
func (Scenario) sealed() {}
func (Calculator) sealed() {}
func (Unavailable) sealed() {}
