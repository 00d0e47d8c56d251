package scoring

import (
	"fmt"

	"quiz-analytics-service/internal/domain"
)

// Result is the single-response score sheet.
type Result struct {
	TotalScore  int                  `json:"totalScore"`
	MaxScore    int                  `json:"maxScore"`
	PerQuestion []domain.ScoreDetail `json:"perQuestion"`
}

// Percent returns the total as a rounded percentage of the maximum, 0 when
// nothing can be scored.
func (r Result) Percent() int {
	if r.MaxScore == 0 {
		return 0
	}
	return percent(float64(r.TotalScore) / float64(r.MaxScore))
}

// ScoreResponse evaluates every question in quiz order. Unscored questions
// are listed with zero awarded points and stay out of both totals.
func ScoreResponse(quiz domain.Quiz, answers domain.AnswerSet) Result {
	result := Result{PerQuestion: make([]domain.ScoreDetail, 0, len(quiz.Questions))}
	for _, q := range quiz.Questions {
		detail := Evaluate(q, answers[q.ID])
		if q.Scored() {
			result.MaxScore += q.Points
			result.TotalScore += detail.AwardedPoints
		} else {
			detail.AwardedPoints = 0
		}
		result.PerQuestion = append(result.PerQuestion, detail)
	}
	return result
}

// Streak walks questions in order and returns the run of consecutive passes
// ending at the last answered question along with the best run overall.
// Unscored questions pass. The walk stops at the first unanswered question.
func Streak(quiz domain.Quiz, answers domain.AnswerSet) (current, best int) {
	for _, q := range quiz.Questions {
		answer, ok := answers[q.ID]
		if !ok {
			break
		}
		if Check(q, answer) {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return current, best
}

// FormatDuration renders seconds as MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
