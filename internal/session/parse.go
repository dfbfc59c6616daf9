package session

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const defaultSessionTitle = "Your Learning Session"

var validate = util.NewValidator()

type questionDTO struct {
	Text          string   `json:"text" validate:"required_without=Question"`
	Question      string   `json:"question"`
	Options       []string `json:"options" validate:"required,min=2,dive,notblank"`
	CorrectAnswer string   `json:"correctAnswer" validate:"notblank"`
}

type quizDTO struct {
	Questions []questionDTO `json:"questions" validate:"required,min=1,dive"`
}

type scenarioQuestionDTO struct {
	Question      string   `json:"question" validate:"notblank"`
	Options       []string `json:"options" validate:"required,min=2,dive,notblank"`
	CorrectAnswer string   `json:"correctAnswer" validate:"notblank"`
}

type outcomeDTO struct {
	Text string  `json:"text"`
	XP   float64 `json:"xp" validate:"gte=0"`
}

type choiceDTO struct {
	ID        string              `json:"id"`
	Text      string              `json:"text" validate:"notblank"`
	Challenge scenarioQuestionDTO `json:"challenge"`
	Outcomes  struct {
		Correct   outcomeDTO `json:"correct"`
		Incorrect outcomeDTO `json:"incorrect"`
	} `json:"outcomes"`
}

type scenarioDTO struct {
	Title       string      `json:"title" validate:"notblank"`
	Description string      `json:"description"`
	Choices     []choiceDTO `json:"choices" validate:"required,min=1,dive"`
}

type inputDTO struct {
	ID    string  `json:"id" validate:"notblank"`
	Label string  `json:"label" validate:"notblank"`
	Type  string  `json:"type"`
	Value float64 `json:"value" validate:"gte=0"`
	Max   float64 `json:"max" validate:"gte=0"`
}

type outputDTO struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Formula string `json:"formula"`
}

type calculatorDTO struct {
	Title       string      `json:"title" validate:"notblank"`
	Description string      `json:"description"`
	Inputs      []inputDTO  `json:"inputs" validate:"required,min=1,dive"`
	Outputs     []outputDTO `json:"outputs"`
}

// ExtractObject 截取文本中最外层的 JSON 对象，兼容模型在 JSON 前后输出的说明文字
func ExtractObject(raw []byte) ([]byte, bool) {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	return raw[start : end+1], true
}

// ParseSession 把生成的文本解析为 LearningSession。
// 会话级结构错误返回 *ValidationError；单个挑战不合法时替换为 Unavailable；
// 未知的 simulationType 被丢弃。
func ParseSession(raw []byte) (*LearningSession, error) {
	body, ok := ExtractObject(raw)
	if !ok {
		return nil, &ValidationError{Reason: "no JSON object found"}
	}
	if !gjson.ValidBytes(body) {
		return nil, &ValidationError{Reason: "malformed JSON"}
	}

	root := gjson.ParseBytes(body)
	items := root.Get("challenges")
	if !items.Exists() {
		return nil, &ValidationError{Field: "challenges", Reason: "missing"}
	}
	if !items.IsArray() {
		return nil, &ValidationError{Field: "challenges", Reason: "not an array"}
	}

	s := &LearningSession{Title: root.Get("sessionTitle").String()}
	if s.Title == "" {
		s.Title = defaultSessionTitle
	}

	usable := 0
	for i, item := range items.Array() {
		kind := Kind(item.Get("simulationType").String())
		c, err := parseChallenge(kind, []byte(item.Raw))
		if errors.Is(err, errUnknownKind) {
			logger.Log.Warn("丢弃未知类型的挑战",
				zap.Int("index", i),
				zap.String("simulationType", string(kind)))
			continue
		}
		if err != nil {
			logger.Log.Warn("挑战数据不合法",
				zap.Int("index", i),
				zap.String("simulationType", string(kind)),
				zap.Error(err))
			c = Unavailable{Declared: kind, Reason: err.Error()}
		} else {
			usable++
		}
		s.Challenges = append(s.Challenges, c)
	}

	if usable == 0 {
		return nil, &ValidationError{Field: "challenges", Reason: "no usable challenges"}
	}
	return s, nil
}

var errUnknownKind = errors.New("unknown simulationType")

func parseChallenge(kind Kind, raw []byte) (Challenge, error) {
	switch kind {
	case KindQuiz:
		var dto quizDTO
		if err := decode(raw, &dto); err != nil {
			return nil, err
		}
		q := Quiz{}
		for _, qd := range dto.Questions {
			text := qd.Text
			if text == "" {
				text = qd.Question
			}
			q.Questions = append(q.Questions, Question{
				Text:          text,
				Options:       qd.Options,
				CorrectAnswer: qd.CorrectAnswer,
			})
		}
		return q, nil

	case KindScenario:
		var dto scenarioDTO
		if err := decode(raw, &dto); err != nil {
			return nil, err
		}
		sc := Scenario{Title: dto.Title, Description: dto.Description}
		for i, cd := range dto.Choices {
			id := cd.ID
			if id == "" {
				id = "choice-" + strconv.Itoa(i+1)
			}
			sc.Choices = append(sc.Choices, Choice{
				ID:   id,
				Text: cd.Text,
				Challenge: ScenarioQuestion{
					Question:      cd.Challenge.Question,
					Options:       cd.Challenge.Options,
					CorrectAnswer: cd.Challenge.CorrectAnswer,
				},
				Outcomes: Outcomes{
					Correct:   Outcome{Text: cd.Outcomes.Correct.Text, XP: roundXP(cd.Outcomes.Correct.XP)},
					Incorrect: Outcome{Text: cd.Outcomes.Incorrect.Text, XP: roundXP(cd.Outcomes.Incorrect.XP)},
				},
			})
		}
		return sc, nil

	case KindCalculator:
		var dto calculatorDTO
		if err := decode(raw, &dto); err != nil {
			return nil, err
		}
		calc := Calculator{Title: dto.Title, Description: dto.Description}
		for _, in := range dto.Inputs {
			calc.Inputs = append(calc.Inputs, CalculatorInput{
				ID: in.ID, Label: in.Label, Type: in.Type, Value: in.Value, Max: in.Max,
			})
		}
		for _, out := range dto.Outputs {
			calc.Outputs = append(calc.Outputs, CalculatorOutput{ID: out.ID, Label: out.Label, Formula: out.Formula})
		}
		return calc, nil

	default:
		return nil, errUnknownKind
	}
}

func decode(raw []byte, dto interface{}) error {
	if err := json.Unmarshal(raw, dto); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(dto); err != nil {
		return fmt.Errorf("validate: %s", util.DescribeValidation(err))
	}
	return nil
}

func roundXP(v float64) int {
	return int(math.Round(v))
}
