package cohort

import (
	"math"
	"sort"

	"quiz-analytics-service/internal/domain"
)

// QuestionError is one row of the error-rate ranking.
type QuestionError struct {
	QuestionID   string              `json:"questionId"`
	Type         domain.QuestionType `json:"type"`
	Prompt       string              `json:"prompt"`
	ErrorRate    int                 `json:"errorRate"`
	MeanAccuracy float64             `json:"meanAccuracy"`
}

// ErrorRanking ranks scored questions worth points by
// round(100 * (1 - mean accuracy)), hardest first. Ties keep quiz order. At
// most limit rows are returned; limit <= 0 uses the default of ten.
func ErrorRanking(quiz domain.Quiz, responses []domain.Response, limit int) []QuestionError {
	return errorRanking(quiz, evaluate(quiz, responses, BasisPoints), Options{RankingLimit: limit}.withDefaults().RankingLimit)
}

func errorRanking(quiz domain.Quiz, sheets []sheet, limit int) []QuestionError {
	ranking := []QuestionError{}
	if len(sheets) == 0 {
		return ranking
	}
	for i, q := range quiz.Questions {
		if !q.Scored() || q.Points <= 0 {
			continue
		}
		sum := 0.0
		for _, s := range sheets {
			sum += s.result.PerQuestion[i].Accuracy
		}
		mean := sum / float64(len(sheets))
		ranking = append(ranking, QuestionError{
			QuestionID:   q.ID,
			Type:         q.Type(),
			Prompt:       q.Prompt,
			ErrorRate:    int(math.Round(100 * (1 - mean))),
			MeanAccuracy: mean,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].ErrorRate > ranking[j].ErrorRate
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}
