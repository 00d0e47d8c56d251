package cohort

import (
	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/scoring"
)

// sheet is one response evaluated against the quiz. result.PerQuestion is
// aligned with quiz.Questions.
type sheet struct {
	response  domain.Response
	result    scoring.Result
	composite int
}

func evaluate(quiz domain.Quiz, responses []domain.Response, basis Basis) []sheet {
	sheets := make([]sheet, 0, len(responses))
	for _, r := range responses {
		result := scoring.ScoreResponse(quiz, r.Answers)
		sheets = append(sheets, sheet{
			response:  r,
			result:    result,
			composite: composite(quiz, r, result, basis),
		})
	}
	return sheets
}

// Composite returns the number a response is ranked by under basis.
func Composite(quiz domain.Quiz, r domain.Response, basis Basis) int {
	return composite(quiz, r, scoring.ScoreResponse(quiz, r.Answers), basis)
}

func composite(quiz domain.Quiz, r domain.Response, result scoring.Result, basis Basis) int {
	if basis == BasisPoints {
		return result.Percent()
	}
	// Responses stored without a time log can only be ranked by the vector
	// computed when they were submitted.
	if len(r.Times) == 0 && len(r.Stats) > 0 {
		return r.Stats.Composite()
	}
	return scoring.ComputeSkills(quiz, r.Answers, r.Times).Composite()
}
