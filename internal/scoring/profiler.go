package scoring

import (
	"fmt"
	"math"

	"quiz-analytics-service/internal/domain"
)

const (
	axisWeight       = 100.0
	focusWeight      = 20.0
	perfectSortBonus = 30.0
	reactionDecay    = 5.0 // points lost per second spent on a choice question
	neutralAxisScore = 50
	axisFloor        = 10
	axisCeiling      = domain.FullMark
)

// accumulator tracks one axis while the profile is built. For reaction, max
// counts questions instead of summing weights.
type accumulator struct {
	value float64
	max   float64
}

// ComputeSkills derives the skill vector from the answers and time log. Only
// scored questions contribute. It is safe to call after every answer for a
// live preview; the final submission recomputes it identically.
func ComputeSkills(quiz domain.Quiz, answers domain.AnswerSet, times domain.TimeLog) domain.SkillVector {
	acc := map[domain.Axis]*accumulator{}
	for _, axis := range domain.Axes() {
		acc[axis] = &accumulator{}
	}

	for _, q := range quiz.Questions {
		q.MustValidate()
		if !q.Scored() {
			continue
		}
		answer := answers[q.ID]
		answered := domain.Answered(answer)

		acc[domain.AxisFocus].max += focusWeight
		if answered {
			acc[domain.AxisFocus].value += focusWeight
		}

		switch q.Body.(type) {
		case *domain.ChoiceBody:
			acc[domain.AxisLogic].max += axisWeight
			acc[domain.AxisReaction].max++
			if answered {
				spent := times.Spent(q.ID)
				acc[domain.AxisReaction].value += math.Max(0, axisWeight-spent*reactionDecay)
				if Evaluate(q, answer).IsCorrect {
					acc[domain.AxisLogic].value += axisWeight
				}
			}
		case *domain.HotspotBody:
			acc[domain.AxisObservation].max += axisWeight
			if answered {
				acc[domain.AxisObservation].value += axisWeight * Evaluate(q, answer).Accuracy
			}
		case *domain.SortingBody:
			acc[domain.AxisDecision].max += axisWeight
			if answered {
				accuracy := Evaluate(q, answer).Accuracy
				acc[domain.AxisDecision].value += axisWeight * accuracy
				if accuracy == 1 {
					acc[domain.AxisLogic].max += perfectSortBonus
					acc[domain.AxisLogic].value += perfectSortBonus
				}
			}
		default:
			panic(&domain.ContractViolation{QuestionID: q.ID, Reason: fmt.Sprintf("unsupported question body %T", q.Body)})
		}
	}

	vector := make(domain.SkillVector, 0, len(acc))
	for _, axis := range domain.Axes() {
		vector = append(vector, domain.SkillScore{
			Subject:  axis,
			A:        clamp(finalScore(axis, acc[axis]), axisFloor, axisCeiling),
			FullMark: domain.FullMark,
		})
	}
	return vector
}

func finalScore(axis domain.Axis, a *accumulator) int {
	if axis == domain.AxisReaction {
		if a.max == 0 {
			return 0
		}
		return int(math.Round(a.value / a.max))
	}
	if a.max == 0 {
		return neutralAxisScore
	}
	return int(math.Round(axisWeight * a.value / a.max))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
