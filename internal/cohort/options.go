// Package cohort aggregates a quiz's responses into dashboard statistics:
// per-question distributions, an error-rate ranking, KPIs and a leaderboard.
// All functions are pure and tolerate an empty response list.
package cohort

import (
	"fmt"
	"time"
)

// Basis selects which per-response number the KPIs and leaderboard use.
type Basis string

const (
	// BasisSkills uses the rounded mean of the five skill axes.
	BasisSkills Basis = "skills"
	// BasisPoints uses the rounded points percentage of the scored questions.
	BasisPoints Basis = "points"
)

// ParseBasis maps a config value onto a Basis. Empty selects BasisSkills.
func ParseBasis(s string) (Basis, error) {
	switch Basis(s) {
	case "", BasisSkills:
		return BasisSkills, nil
	case BasisPoints:
		return BasisPoints, nil
	}
	return "", fmt.Errorf("unknown kpi basis %q", s)
}

// Options tunes the aggregation. The zero value selects DefaultOptions.
type Options struct {
	PassThreshold   int
	LeaderboardSize int
	RankingLimit    int
	GuestName       string
	Location        *time.Location
	Basis           Basis
}

// DefaultOptions mirrors the dashboard defaults: pass at 60, top three, top ten errors.
func DefaultOptions() Options {
	return Options{
		PassThreshold:   60,
		LeaderboardSize: 3,
		RankingLimit:    10,
		GuestName:       "Guest",
		Location:        time.UTC,
		Basis:           BasisSkills,
	}
}

// withDefaults turns the zero Options into DefaultOptions and fills unset
// fields otherwise. PassThreshold is taken as given, so 0 passes everyone;
// values outside 0..100 are clamped.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o == (Options{}) {
		return def
	}
	o.PassThreshold = clampPercent(o.PassThreshold)
	if o.LeaderboardSize <= 0 {
		o.LeaderboardSize = def.LeaderboardSize
	}
	if o.RankingLimit <= 0 {
		o.RankingLimit = def.RankingLimit
	}
	if o.GuestName == "" {
		o.GuestName = def.GuestName
	}
	if o.Location == nil {
		o.Location = def.Location
	}
	if o.Basis == "" {
		o.Basis = def.Basis
	}
	return o
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
