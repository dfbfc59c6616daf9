package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedQuestions = "Sure!\n```json\n" + `[
  {"topic": "Saving", "prompt": "What is pay yourself first?", "choices": ["Save first", "Spend first", "Borrow", "Invest all"], "correct": 0, "explain": "Save before spending.", "why": "Builds habits.", "hints": ["First"]},
  {"topic": "Tracking", "prompt": "Why track spending?", "choices": ["Fun", "Awareness", "Taxes", "None"], "correct": 1, "explain": "You see leaks.", "why": "Control.", "hints": []},
  {"topic": "Extra", "prompt": "Third?", "choices": ["a", "b", "c", "d"], "correct": 2}
]` + "\n```"

func TestQuestionsUsesGeneratedAndCaches(t *testing.T) {
	ai := &fakeChatter{replies: []string{generatedQuestions}}
	svc := NewQuestionBankService(ai, time.Minute)

	set := svc.Questions(context.Background(), "budgeting")
	assert.False(t, set.Fallback)
	assert.Equal(t, "budgeting", set.Topic)
	require.Len(t, set.Questions, QuestionsPerRequest)
	assert.Equal(t, "What is pay yourself first?", set.Questions[0].Prompt)

	again := svc.Questions(context.Background(), "budgeting")
	assert.Equal(t, set.Questions, again.Questions)
	assert.Equal(t, 1, ai.Calls(), "second call is served from cache")
}

func TestQuestionsFallback(t *testing.T) {
	tests := []struct {
		name string
		ai   *fakeChatter
	}{
		{"ai error", &fakeChatter{err: errors.New("boom")}},
		{"not json", &fakeChatter{replies: []string{"I cannot help with that"}}},
		{"empty array", &fakeChatter{replies: []string{"[]"}}},
		{"all invalid", &fakeChatter{replies: []string{`[{"topic":"x","prompt":"y","choices":["a","b"],"correct":5}]`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQuestionBankService(tt.ai, time.Minute)

			set := svc.Questions(context.Background(), "credit")
			assert.True(t, set.Fallback)
			assert.Equal(t, "credit", set.Topic)
			assert.NotEmpty(t, set.Questions)
			assert.Equal(t, FallbackQuestions("credit"), set.Questions)
		})
	}
}

func TestQuestionsWithoutAI(t *testing.T) {
	svc := NewQuestionBankService(nil, time.Minute)

	set := svc.Questions(context.Background(), "stocks")
	assert.True(t, set.Fallback)
	assert.NotEmpty(t, set.Questions)
}

func TestResolveTopic(t *testing.T) {
	assert.Equal(t, "credit", ResolveTopic(" Credit "))
	assert.Equal(t, "stocks", ResolveTopic("stocks"))
	assert.Equal(t, "budgeting", ResolveTopic("mortgage"))
	assert.Equal(t, "budgeting", ResolveTopic(""))
}

func TestFallbackQuestionsAreCopies(t *testing.T) {
	first := FallbackQuestions("budgeting")
	require.NotEmpty(t, first)
	first[0].Choices[0] = "mutated"

	second := FallbackQuestions("budgeting")
	assert.NotEqual(t, "mutated", second[0].Choices[0])

	for _, topic := range []string{"budgeting", "credit", "stocks"} {
		for _, q := range FallbackQuestions(topic) {
			assert.Len(t, q.Choices, 4, topic)
			assert.True(t, q.Correct >= 0 && q.Correct < 4, topic)
		}
	}
}
