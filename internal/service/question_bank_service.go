package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"
	"invest_learn_backend/pkg/monitoring"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// BankQuestion 是题库题目，Correct 为 Choices 的下标
type BankQuestion struct {
	Topic   string   `json:"topic" validate:"notblank"`
	Prompt  string   `json:"prompt" validate:"notblank"`
	Choices []string `json:"choices" validate:"len=4,dive,notblank"`
	Correct int      `json:"correct" validate:"gte=0,lte=3"`
	Explain string   `json:"explain"`
	Why     string   `json:"why"`
	Hints   []string `json:"hints"`
}

type bankTopic struct {
	Topic   string
	Context string
}

const defaultBankTopic = "budgeting"

// QuestionsPerRequest 每次生成的题目数
const QuestionsPerRequest = 2

var bankTopics = map[string]bankTopic{
	"budgeting": {
		Topic:   "The Art of Budgeting",
		Context: "Personal budgeting strategies, expense tracking, saving goals, emergency funds, and money management techniques",
	},
	"credit": {
		Topic:   "The Credit Score Game",
		Context: "Credit scores, credit reports, building credit history, credit utilization, payment history, and credit improvement strategies",
	},
	"stocks": {
		Topic:   "The Stock Market",
		Context: "Stock market basics, investing principles, market analysis, portfolio diversification, and long-term wealth building",
	},
}

var fallbackBank = map[string][]BankQuestion{
	"budgeting": {
		{
			Topic:   "Emergency Fund",
			Prompt:  "How much should you ideally save in an emergency fund?",
			Choices: []string{"1 month of expenses", "3-6 months of expenses", "1 year of expenses", "Only $1,000"},
			Correct: 1,
			Explain: "Financial experts recommend 3-6 months of living expenses for emergencies.",
			Why:     "This amount covers most unexpected situations without being excessive.",
			Hints:   []string{"Think about job loss scenarios.", "Not too little, not too much."},
		},
		{
			Topic:   "50/30/20 Rule",
			Prompt:  "In the 50/30/20 budgeting rule, what does the 20% represent?",
			Choices: []string{"Entertainment", "Housing costs", "Savings and debt repayment", "Food expenses"},
			Correct: 2,
			Explain: "The 20% goes toward savings and paying off debt.",
			Why:     "This ensures you're building wealth and reducing financial obligations.",
			Hints:   []string{"Think about your financial future.", "What helps you get ahead financially?"},
		},
	},
	"credit": {
		{
			Topic:   "Credit Utilization",
			Prompt:  "What's the ideal credit utilization ratio for a good credit score?",
			Choices: []string{"90% or higher", "50-70%", "Under 30%", "Exactly 100%"},
			Correct: 2,
			Explain: "Keeping credit utilization under 30% shows responsible credit management.",
			Why:     "Lower utilization demonstrates you're not maxing out your available credit.",
			Hints:   []string{"Lower is generally better.", "Think about what shows financial responsibility."},
		},
		{
			Topic:   "Payment History",
			Prompt:  "What percentage of your credit score is based on payment history?",
			Choices: []string{"15%", "35%", "30%", "10%"},
			Correct: 1,
			Explain: "Payment history is the most important factor, making up 35% of your score.",
			Why:     "Consistently paying on time shows lenders you're reliable.",
			Hints:   []string{"It's the biggest factor.", "Think about what lenders care about most."},
		},
	},
	"stocks": {
		{
			Topic:   "Diversification",
			Prompt:  "What is the main benefit of portfolio diversification?",
			Choices: []string{"Guaranteed profits", "Reducing overall risk", "Avoiding all losses", "Maximizing short-term gains"},
			Correct: 1,
			Explain: "Diversification spreads risk across different investments.",
			Why:     "When some investments decline, others may perform well, balancing your portfolio.",
			Hints:   []string{"Don't put all eggs in one basket.", "Think about risk management."},
		},
		{
			Topic:   "Dollar-Cost Averaging",
			Prompt:  "Dollar-cost averaging means:",
			Choices: []string{"Buying only cheap stocks", "Investing the same amount regularly", "Selling when prices drop", "Only investing large amounts"},
			Correct: 1,
			Explain: "Dollar-cost averaging involves investing a fixed amount at regular intervals.",
			Why:     "This strategy reduces the impact of market volatility over time.",
			Hints:   []string{"Think about consistency.", "Same amount, different intervals."},
		},
	},
}

const bankPromptTemplate = `You are an educational content generator. Generate exactly %d multiple choice questions about %s.

Context: %s

Return ONLY a valid JSON array with this exact structure:
[
  {
    "topic": "Short topic name",
    "prompt": "Question text?",
    "choices": ["Option A", "Option B", "Option C", "Option D"],
    "correct": 0,
    "explain": "Brief explanation of the answer",
    "why": "Why this answer is correct",
    "hints": ["Hint 1", "Hint 2"]
  }
]

Make questions practical and educational. Ensure the correct answer index (0-3) matches the right choice.`

// QuestionSet 标明题目是否来自内置题库
type QuestionSet struct {
	Topic     string         `json:"topic"`
	Fallback  bool           `json:"fallback"`
	Questions []BankQuestion `json:"questions"`
}

type QuestionBankService struct {
	ai       Chatter
	cache    *cache.Cache
	validate *validator.Validate
}

func NewQuestionBankService(ai Chatter, ttl time.Duration) *QuestionBankService {
	return &QuestionBankService{
		ai:       ai,
		cache:    cache.New(ttl, 2*ttl),
		validate: util.NewValidator(),
	}
}

// ResolveTopic 未知主题回退到 budgeting
func ResolveTopic(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := bankTopics[key]; ok {
		return key
	}
	return defaultBankTopic
}

// FallbackQuestions 返回内置题库的副本，永不为空
func FallbackQuestions(key string) []BankQuestion {
	return lo.Map(fallbackBank[ResolveTopic(key)], func(q BankQuestion, _ int) BankQuestion {
		q.Choices = append([]string(nil), q.Choices...)
		q.Hints = append([]string(nil), q.Hints...)
		return q
	})
}

// Questions 优先使用生成的题目，任何失败都回退到内置题库
func (s *QuestionBankService) Questions(ctx context.Context, key string) QuestionSet {
	topic := ResolveTopic(key)
	if cached, ok := s.cache.Get(topic); ok {
		return QuestionSet{Topic: topic, Questions: cached.([]BankQuestion)}
	}

	questions, err := s.generate(ctx, topic)
	if err != nil {
		monitoring.GenerationRequests.WithLabelValues("questions", "fallback").Inc()
		logger.Log.Warn("题目生成失败，使用内置题库", zap.String("topic", topic), zap.Error(err))
		return QuestionSet{Topic: topic, Fallback: true, Questions: FallbackQuestions(topic)}
	}

	monitoring.GenerationRequests.WithLabelValues("questions", "ok").Inc()
	s.cache.SetDefault(topic, questions)
	return QuestionSet{Topic: topic, Questions: questions}
}

func (s *QuestionBankService) generate(ctx context.Context, topic string) ([]BankQuestion, error) {
	if s.ai == nil {
		return nil, util.ErrAIUnavailable
	}
	cfg := bankTopics[topic]
	system := fmt.Sprintf(bankPromptTemplate, QuestionsPerRequest, cfg.Topic, cfg.Context)
	prompt := fmt.Sprintf("Generate %d multiple choice questions about %s for the %s.", QuestionsPerRequest, cfg.Topic, cfg.Context)

	raw, err := s.ai.Chat(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	body := extractArray(raw)
	var questions []BankQuestion
	if err := json.Unmarshal([]byte(body), &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions = lo.Filter(questions, func(q BankQuestion, i int) bool {
		if err := s.validate.Struct(q); err != nil {
			logger.Log.Debug("丢弃不合法的题目", zap.Int("index", i), zap.String("reason", util.DescribeValidation(err)))
			return false
		}
		return true
	})
	if len(questions) == 0 {
		return nil, fmt.Errorf("no valid questions generated")
	}
	if len(questions) > QuestionsPerRequest {
		questions = questions[:QuestionsPerRequest]
	}
	return questions, nil
}

func extractArray(raw string) string {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}
