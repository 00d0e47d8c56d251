package cohort

import "quiz-analytics-service/internal/domain"

// Report is everything the dashboard shows for one quiz.
type Report struct {
	QuizID        string             `json:"quizId"`
	Title         string             `json:"title"`
	Distributions []Distribution     `json:"distributions"`
	ErrorRanking  []QuestionError    `json:"errorRanking"`
	KPIs          KPIs               `json:"kpis"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
}

// Aggregate builds the full report, evaluating each response once.
func Aggregate(quiz domain.Quiz, responses []domain.Response, opts Options) Report {
	opts = opts.withDefaults()
	sheets := evaluate(quiz, responses, opts.Basis)
	return Report{
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		Distributions: distributions(quiz, sheets),
		ErrorRanking:  errorRanking(quiz, sheets, opts.RankingLimit),
		KPIs:          computeKPIs(sheets, opts),
		Leaderboard:   leaderboard(sheets, opts),
	}
}
