package cohort

import (
	"sort"
	"strings"

	"quiz-analytics-service/internal/domain"
)

// LeaderboardEntry is one podium slot.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	ResponseID string  `json:"responseId"`
	Nickname   string  `json:"nickname"`
	Score      int     `json:"score"`
	TotalTime  float64 `json:"totalTime"`
}

// Leaderboard returns up to opts.LeaderboardSize named respondents ordered by
// composite descending, then total time ascending. Anonymous respondents and
// those using the guest placeholder are left off.
func Leaderboard(quiz domain.Quiz, responses []domain.Response, opts Options) []LeaderboardEntry {
	opts = opts.withDefaults()
	return leaderboard(evaluate(quiz, responses, opts.Basis), opts)
}

func leaderboard(sheets []sheet, opts Options) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(sheets))
	for _, s := range sheets {
		name := s.response.DisplayName()
		if name == "" || strings.EqualFold(name, strings.TrimSpace(opts.GuestName)) {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			ResponseID: s.response.ID,
			Nickname:   name,
			Score:      s.composite,
			TotalTime:  s.response.TotalTime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TotalTime < entries[j].TotalTime
	})
	if len(entries) > opts.LeaderboardSize {
		entries = entries[:opts.LeaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
