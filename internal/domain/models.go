package domain

import (
	"strings"
	"time"

	"quiz-analytics-service/internal/geometry"
)

// QuestionType is the wire tag for a question variant.
type QuestionType string

const (
	TypeChoice  QuestionType = "choice"
	TypeHotspot QuestionType = "hotspot"
	TypeSorting QuestionType = "sorting"
)

// Point is a normalized {x,y} coordinate in [0,100] percentage space.
type Point = geometry.Point

// Option is one choice of a choice question.
type Option struct {
	Label     string `json:"label"`
	IsCorrect bool   `json:"isCorrect"`
	Image     string `json:"image,omitempty"`
}

// Target is a polygonal region on a hotspot image.
type Target struct {
	ID     string  `json:"id,omitempty"`
	Points []Point `json:"points"`
}

// SortItem is a draggable item of a sorting question.
type SortItem struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	Image           string `json:"image,omitempty"`
	CorrectCategory string `json:"correctCategory,omitempty"`
}

// QuestionBody is the closed set of question payloads. Only the types in this
// package implement it.
type QuestionBody interface {
	Type() QuestionType
	isQuestionBody()
}

// ChoiceBody is a single- or multi-select question.
type ChoiceBody struct {
	Options []Option
	Multi   bool
}

// HotspotBody asks the respondent to pin regions on an image.
type HotspotBody struct {
	Image     string
	MaxClicks int
	Targets   []Target
}

// SortingBody asks the respondent to drop items into categories.
type SortingBody struct {
	Items      []SortItem
	Categories []string
}

func (*ChoiceBody) Type() QuestionType  { return TypeChoice }
func (*HotspotBody) Type() QuestionType { return TypeHotspot }
func (*SortingBody) Type() QuestionType { return TypeSorting }

func (*ChoiceBody) isQuestionBody()  {}
func (*HotspotBody) isQuestionBody() {}
func (*SortingBody) isQuestionBody() {}

// CorrectLabels returns the labels flagged correct, in option order.
func (b *ChoiceBody) CorrectLabels() []string {
	labels := make([]string, 0, len(b.Options))
	for _, opt := range b.Options {
		if opt.IsCorrect {
			labels = append(labels, opt.Label)
		}
	}
	return labels
}

// Pins returns the effective pin limit; an unset limit allows one pin.
func (b *HotspotBody) Pins() int {
	if b.MaxClicks <= 0 {
		return 1
	}
	return b.MaxClicks
}

// Question is one step of a quiz. Unscored questions appear in the flow but do
// not count toward score or skills.
type Question struct {
	ID          string
	Prompt      string
	Points      int
	Explanation string
	Unscored    bool
	Body        QuestionBody
}

// Scored reports whether the question counts toward score and skills.
func (q Question) Scored() bool {
	return !q.Unscored
}

// Type returns the variant tag, or "" when the body is missing.
func (q Question) Type() QuestionType {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// Quiz is a titled ordered sequence of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question looks up a question by ID.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// TimeLog maps question ID to cumulative seconds spent on it.
type TimeLog map[string]float64

// Add returns a copy of the log with seconds accumulated onto questionID.
func (t TimeLog) Add(questionID string, seconds float64) TimeLog {
	next := make(TimeLog, len(t)+1)
	for k, v := range t {
		next[k] = v
	}
	if seconds > 0 {
		next[questionID] += seconds
	}
	return next
}

// Spent returns the seconds logged for questionID, 0 if none.
func (t TimeLog) Spent(questionID string) float64 {
	return t[questionID]
}

// Response is one respondent's submission. It is immutable after creation.
type Response struct {
	ID          string      `json:"id"`
	QuizID      string      `json:"quizId"`
	Nickname    string      `json:"nickname"`
	Email       string      `json:"email,omitempty"`
	Answers     AnswerSet   `json:"answers"`
	Times       TimeLog     `json:"times,omitempty"`
	Stats       SkillVector `json:"stats"`
	TotalTime   float64     `json:"totalTime"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

// DisplayName returns the trimmed nickname.
func (r Response) DisplayName() string {
	return strings.TrimSpace(r.Nickname)
}
