package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizScore(t *testing.T) {
	assert.Equal(t, 25, QuizScore(1, 2))
	assert.Equal(t, 50, QuizScore(3, 3))
	assert.Equal(t, 0, QuizScore(0, 4))
	assert.Equal(t, 17, QuizScore(1, 3))
	assert.Equal(t, 33, QuizScore(2, 3))
	assert.Equal(t, 0, QuizScore(0, 0))
}

func TestQuizOneRightOneWrong(t *testing.T) {
	r := newQuizRunner(sampleQuiz(2))

	res, err := r.handle(Event{Action: ActionSelect, Option: "50%"})
	require.NoError(t, err)
	assert.False(t, res.done)

	v := r.view().Quiz
	assert.True(t, v.Answered)
	require.NotNil(t, v.Correct)
	assert.True(t, *v.Correct)

	_, err = r.handle(Event{Action: ActionContinue})
	require.NoError(t, err)

	_, err = r.handle(Event{Action: ActionSelect, Option: "20%"})
	require.NoError(t, err)
	v = r.view().Quiz
	assert.False(t, *v.Correct)
	assert.Equal(t, "50%", v.CorrectAnswer)

	res, err = r.handle(Event{Action: ActionContinue})
	require.NoError(t, err)
	assert.True(t, res.done)
	assert.Equal(t, 25, res.xp)
}

func TestQuizSelectionIsLocked(t *testing.T) {
	r := newQuizRunner(sampleQuiz(1))

	_, err := r.handle(Event{Action: ActionSelect, Option: "20%"})
	require.NoError(t, err)

	_, err = r.handle(Event{Action: ActionSelect, Option: "50%"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "20%", r.view().Quiz.Selected)

	res, err := r.handle(Event{Action: ActionContinue})
	require.NoError(t, err)
	assert.Equal(t, 0, res.xp)
}

func TestQuizRejectsInvalidEvents(t *testing.T) {
	r := newQuizRunner(sampleQuiz(1))

	_, err := r.handle(Event{Action: ActionContinue})
	assert.ErrorIs(t, err, ErrInvalidTransition, "continue before answering")

	_, err = r.handle(Event{Action: ActionSelect, Option: "99%"})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = r.handle(Event{Action: ActionChoose, ChoiceID: "x"})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	assert.False(t, r.view().Quiz.Answered)
}

func TestQuizExactStringMatch(t *testing.T) {
	q := Quiz{Questions: []Question{{
		Text:          "Pick",
		Options:       []string{"Yes", "yes"},
		CorrectAnswer: "Yes",
	}}}
	r := newQuizRunner(q)

	_, err := r.handle(Event{Action: ActionSelect, Option: "yes"})
	require.NoError(t, err)
	assert.False(t, *r.view().Quiz.Correct)
}
