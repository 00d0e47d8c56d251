package domain

import "math"

// Axis names one dimension of the skill profile.
type Axis string

const (
	AxisObservation Axis = "observation"
	AxisDecision    Axis = "decision"
	AxisLogic       Axis = "logic"
	AxisReaction    Axis = "reaction"
	AxisFocus       Axis = "focus"
)

// FullMark is the top of every axis scale.
const FullMark = 100

// Axes returns the axes in display order.
func Axes() []Axis {
	return []Axis{AxisObservation, AxisDecision, AxisLogic, AxisReaction, AxisFocus}
}

// SkillScore is one radar-chart entry.
type SkillScore struct {
	Subject  Axis `json:"subject"`
	A        int  `json:"A"`
	FullMark int  `json:"fullMark"`
}

// SkillVector is the five-axis proficiency profile of a respondent.
type SkillVector []SkillScore

// Score returns the value recorded for axis.
func (v SkillVector) Score(axis Axis) (int, bool) {
	for _, s := range v {
		if s.Subject == axis {
			return s.A, true
		}
	}
	return 0, false
}

// Composite is the rounded mean of all axis values, 0 for an empty vector.
func (v SkillVector) Composite() int {
	if len(v) == 0 {
		return 0
	}
	sum := 0
	for _, s := range v {
		sum += s.A
	}
	return int(math.Round(float64(sum) / float64(len(v))))
}
