package session

import "math"

// QuizMaxXP 全部答对时的奖励
const QuizMaxXP = 50

// QuizScore 奖励为 round(correct/total*50)
func QuizScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * QuizMaxXP))
}

type quizRunner struct {
	quiz     Quiz
	index    int
	selected string
	answered bool
	correct  int
	done     bool
}

func newQuizRunner(q Quiz) *quizRunner {
	return &quizRunner{quiz: q}
}

func (r *quizRunner) current() Question {
	return r.quiz.Questions[r.index]
}

func (r *quizRunner) handle(ev Event) (result, error) {
	if r.done {
		return result{}, ErrInvalidTransition
	}
	switch ev.Action {
	case ActionSelect:
		// 选择一旦锁定不可更改
		if r.answered {
			return result{}, ErrInvalidTransition
		}
		q := r.current()
		if !containsOption(q.Options, ev.Option) {
			return result{}, invalidEvent("option %q is not offered", ev.Option)
		}
		r.selected = ev.Option
		r.answered = true
		if ev.Option == q.CorrectAnswer {
			r.correct++
		}
		return result{}, nil

	case ActionContinue:
		if !r.answered {
			return result{}, ErrInvalidTransition
		}
		if r.index < len(r.quiz.Questions)-1 {
			r.index++
			r.selected = ""
			r.answered = false
			return result{}, nil
		}
		r.done = true
		return result{done: true, xp: QuizScore(r.correct, len(r.quiz.Questions))}, nil

	default:
		return result{}, invalidEvent("%s not supported by a quiz", ev.Action)
	}
}

func (r *quizRunner) view() ChallengeView {
	q := r.current()
	v := &QuizView{
		Index:        r.index,
		Total:        len(r.quiz.Questions),
		Question:     q.Text,
		Options:      append([]string(nil), q.Options...),
		Selected:     r.selected,
		Answered:     r.answered,
		CorrectCount: r.correct,
	}
	if r.answered {
		correct := r.selected == q.CorrectAnswer
		v.Correct = &correct
		v.CorrectAnswer = q.CorrectAnswer
	}
	return ChallengeView{Kind: KindQuiz, Quiz: v}
}

func (r *quizRunner) stop() {}
