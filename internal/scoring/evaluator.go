// Package scoring judges answers, builds per-response results and derives the
// five-axis skill profile. Every function is pure: same inputs, same outputs,
// no shared state.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/geometry"
)

const unanswered = "not answered"

// Evaluate judges answer against q. A nil or mismatched answer scores zero.
// Malformed question data panics with a *domain.ContractViolation.
func Evaluate(q domain.Question, answer domain.Answer) domain.ScoreDetail {
	q.MustValidate()

	detail := domain.ScoreDetail{
		QuestionID:  q.ID,
		Type:        q.Type(),
		Prompt:      q.Prompt,
		Scored:      q.Scored(),
		Answered:    domain.Answered(answer),
		Points:      q.Points,
		Explanation: q.Explanation,
	}

	switch body := q.Body.(type) {
	case *domain.ChoiceBody:
		evaluateChoice(&detail, body, answer)
	case *domain.HotspotBody:
		evaluateHotspot(&detail, body, answer)
	case *domain.SortingBody:
		evaluateSorting(&detail, body, answer)
	default:
		panic(&domain.ContractViolation{QuestionID: q.ID, Reason: fmt.Sprintf("unsupported question body %T", body)})
	}
	return detail
}

// Check reports whether the answer passes the in-flow check. Unscored
// questions always pass.
func Check(q domain.Question, answer domain.Answer) bool {
	if !q.Scored() {
		return true
	}
	return Evaluate(q, answer).IsCorrect
}

func evaluateChoice(d *domain.ScoreDetail, body *domain.ChoiceBody, answer domain.Answer) {
	expected := body.CorrectLabels()
	cd := &domain.ChoiceDetail{Multi: body.Multi, Expected: expected}
	d.Choice = cd

	if body.Multi {
		selected, _ := answer.(domain.Selections)
		cd.Selected = append([]string{}, selected...)
		d.IsCorrect = sameSelection(expected, selected)
		shown := unanswered
		if len(selected) > 0 {
			shown = strings.Join(selected, ", ")
		}
		d.Detail = fmt.Sprintf("selected: %s (correct: %s)", shown, strings.Join(expected, ", "))
	} else {
		selected, _ := answer.(domain.Selection)
		cd.Selected = []string{}
		if selected != "" {
			cd.Selected = []string{string(selected)}
		}
		// With no flagged option the question can never be answered correctly.
		d.IsCorrect = len(expected) > 0 && string(selected) == expected[0]
		shown, want := unanswered, "not set"
		if selected != "" {
			shown = string(selected)
		}
		if len(expected) > 0 {
			want = expected[0]
		}
		d.Detail = fmt.Sprintf("answer: %s (correct: %s)", shown, want)
	}

	if d.IsCorrect {
		d.Accuracy = 1
		d.AwardedPoints = d.Points
	}
}

// sameSelection holds when both sides have the same cardinality and every
// expected label was selected.
func sameSelection(expected []string, selected []string) bool {
	if len(expected) != len(selected) {
		return false
	}
	chosen := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		chosen[s] = struct{}{}
	}
	for _, e := range expected {
		if _, ok := chosen[e]; !ok {
			return false
		}
	}
	return true
}

func evaluateHotspot(d *domain.ScoreDetail, body *domain.HotspotBody, answer domain.Answer) {
	pins, _ := answer.(domain.Pins)
	hits := TargetHits(body, pins)
	hitCount := 0
	for _, h := range hits {
		if h {
			hitCount++
		}
	}
	total := len(body.Targets)

	d.Hotspot = &domain.HotspotDetail{Hits: hitCount, Targets: total, TargetHits: hits, Pins: len(pins)}
	d.IsCorrect = total > 0 && hitCount == total
	if total > 0 {
		d.Accuracy = float64(hitCount) / float64(total)
		d.AwardedPoints = roundPoints(d.Accuracy, d.Points)
	}
	d.Detail = fmt.Sprintf("hit %d/%d targets (%d%%)", hitCount, total, percent(d.Accuracy))
}

// TargetHits reports, per target, whether any pin lands inside it.
func TargetHits(body *domain.HotspotBody, pins domain.Pins) []bool {
	hits := make([]bool, len(body.Targets))
	for i, target := range body.Targets {
		for _, pin := range pins {
			if geometry.PointInPolygon(pin.Point(), target.Points) {
				hits[i] = true
				break
			}
		}
	}
	return hits
}

func evaluateSorting(d *domain.ScoreDetail, body *domain.SortingBody, answer domain.Answer) {
	placement, _ := answer.(domain.Placement)
	sd := &domain.SortingDetail{TotalItems: len(body.Items), Errors: []domain.SortingError{}}
	d.Sorting = sd

	for _, item := range body.Items {
		got := placement[item.ID]
		switch {
		case item.CorrectCategory == "":
			// Items without a category never score and never count as errors.
		case got == "":
			sd.Errors = append(sd.Errors, domain.SortingError{
				ItemID:          item.ID,
				ItemText:        item.Text,
				Type:            domain.SortingMissed,
				CorrectCategory: item.CorrectCategory,
			})
		case got == item.CorrectCategory:
			sd.CorrectItems++
		default:
			sd.Errors = append(sd.Errors, domain.SortingError{
				ItemID:          item.ID,
				ItemText:        item.Text,
				Type:            domain.SortingWrong,
				UserCategory:    got,
				CorrectCategory: item.CorrectCategory,
			})
		}
	}

	if sd.TotalItems > 0 {
		d.Accuracy = float64(sd.CorrectItems) / float64(sd.TotalItems)
		d.AwardedPoints = roundPoints(d.Accuracy, d.Points)
		d.IsCorrect = sd.CorrectItems == sd.TotalItems
	}
	d.Detail = fmt.Sprintf("sorted %d/%d items correctly", sd.CorrectItems, sd.TotalItems)
}

// roundPoints applies the accuracy ratio to the point value, rounding once.
func roundPoints(accuracy float64, points int) int {
	return int(math.Round(accuracy * float64(points)))
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
