package service

import (
	"context"
	"fmt"

	"invest_learn_backend/internal/session"
	"invest_learn_backend/pkg/logger"
	"invest_learn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// Chatter 是生成内容所需的最小能力，便于测试替换
type Chatter interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

const sessionSystemPrompt = "You are an expert instructional designer creating engaging, Duolingo-style learning sessions. Only return the raw JSON object. Do not include any text or markdown formatting."

const sessionPromptTemplate = `Based on the following module transcript, generate a JSON object for a full learning session.

TRANSCRIPT: """
%s
"""

The JSON object MUST have a "sessionTitle" (string) and a "challenges" key, which is an array of 2 to 4 varied simulation objects.
Each object in the "challenges" array MUST conform to one of the following schemas:

SCHEMA 'quiz':
- simulationType: "quiz"
- questions: an array of objects, where EACH question object MUST have:
  - "text": string (the question itself)
  - "options": an array of 4 strings
  - "correctAnswer": a string that exactly matches one of the options

SCHEMA 'scenario':
- simulationType: "scenario"
- title: string
- description: string
- choices: an array of objects with:
  - "id": string
  - "text": string
  - "challenge": { "question": string, "options": array of strings, "correctAnswer": string matching one option }
  - "outcomes": { "correct": { "text": string, "xp": number }, "incorrect": { "text": string, "xp": number } }

SCHEMA 'calculator':
- simulationType: "calculator"
- title: string
- description: string
- inputs: an array of objects with { "id", "label", "type", "value", "max" }; use the ids "income", "needs" and "wants"
- outputs: an array of objects with { "id", "label", "formula" }

Generate a variety of challenge types to test the user in different ways.`

type GenerationService struct {
	ai Chatter
}

func NewGenerationService(ai Chatter) *GenerationService {
	return &GenerationService{ai: ai}
}

// GenerateSession 失败即返回错误，不重试
func (s *GenerationService) GenerateSession(ctx context.Context, transcript string) (*session.LearningSession, error) {
	raw, err := s.ai.Chat(ctx, sessionSystemPrompt, fmt.Sprintf(sessionPromptTemplate, transcript))
	if err != nil {
		monitoring.GenerationRequests.WithLabelValues("session", "error").Inc()
		return nil, fmt.Errorf("generate session: %w", err)
	}

	ls, err := session.ParseSession([]byte(raw))
	if err != nil {
		monitoring.GenerationRequests.WithLabelValues("session", "invalid").Inc()
		logger.Log.Warn("生成的会话结构不合法", zap.Error(err))
		return nil, err
	}

	monitoring.GenerationRequests.WithLabelValues("session", "ok").Inc()
	return ls, nil
}
