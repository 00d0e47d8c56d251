package cli

import (
	"fmt"

	"quiz-analytics-service/internal/cohort"
	"quiz-analytics-service/internal/config"
)

// cohortOptions turns the scoring section into report options.
func cohortOptions(cfg config.ScoringConfig) (cohort.Options, error) {
	basis, err := cohort.ParseBasis(cfg.KPIBasis)
	if err != nil {
		return cohort.Options{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return cohort.Options{}, fmt.Errorf("scoring timezone: %w", err)
	}
	return cohort.Options{
		PassThreshold:   cfg.PassThreshold,
		LeaderboardSize: cfg.LeaderboardSize,
		RankingLimit:    cfg.ErrorRankingLimit,
		GuestName:       cfg.GuestName,
		Location:        loc,
		Basis:           basis,
	}, nil
}
