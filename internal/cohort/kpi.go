package cohort

import (
	"fmt"
	"math"
	"sort"

	"quiz-analytics-service/internal/domain"
)

var bucketLabels = [...]string{"0-20", "21-40", "41-60", "61-80", "81-100"}

// Bucket is one bar of the composite score histogram.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HourCount is the number of submissions made during one hour of the day.
type HourCount struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KPIs are the cohort headline numbers. Scores are composites under Basis.
type KPIs struct {
	Basis        Basis       `json:"basis"`
	Responses    int         `json:"responses"`
	AverageScore int         `json:"averageScore"`
	AverageTime  float64     `json:"averageTime"`
	PassRate     int         `json:"passRate"`
	ScoreBuckets []Bucket    `json:"scoreBuckets"`
	Submissions  []HourCount `json:"submissions"`
}

// ComputeKPIs summarises the cohort. An empty cohort yields zero values,
// empty buckets and no submission hours.
func ComputeKPIs(quiz domain.Quiz, responses []domain.Response, opts Options) KPIs {
	opts = opts.withDefaults()
	return computeKPIs(evaluate(quiz, responses, opts.Basis), opts)
}

func computeKPIs(sheets []sheet, opts Options) KPIs {
	kpis := KPIs{
		Basis:        opts.Basis,
		Responses:    len(sheets),
		ScoreBuckets: make([]Bucket, len(bucketLabels)),
		Submissions:  []HourCount{},
	}
	for i, label := range bucketLabels {
		kpis.ScoreBuckets[i].Label = label
	}
	if len(sheets) == 0 {
		return kpis
	}

	var sumScore, sumTime float64
	passed := 0
	hours := map[int]int{}
	for _, s := range sheets {
		sumScore += float64(s.composite)
		sumTime += s.response.TotalTime
		if s.composite >= opts.PassThreshold {
			passed++
		}
		kpis.ScoreBuckets[bucketIndex(s.composite)].Count++
		if !s.response.SubmittedAt.IsZero() {
			hours[s.response.SubmittedAt.In(opts.Location).Hour()]++
		}
	}

	n := float64(len(sheets))
	kpis.AverageScore = int(math.Round(sumScore / n))
	kpis.AverageTime = sumTime / n
	kpis.PassRate = int(math.Round(100 * float64(passed) / n))

	for hour, count := range hours {
		kpis.Submissions = append(kpis.Submissions, HourCount{Hour: hour, Label: fmt.Sprintf("%d:00", hour), Count: count})
	}
	sort.Slice(kpis.Submissions, func(i, j int) bool {
		return kpis.Submissions[i].Hour < kpis.Submissions[j].Hour
	})
	return kpis
}

func bucketIndex(score int) int {
	idx := score / 20
	if idx < 0 {
		return 0
	}
	if idx > len(bucketLabels)-1 {
		return len(bucketLabels) - 1
	}
	return idx
}
