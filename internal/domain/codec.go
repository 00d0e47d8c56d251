package domain

import (
	"encoding/json"
	"fmt"
)

// questionWire is the persisted document shape of a Question.
type questionWire struct {
	ID          json.RawMessage `json:"id"`
	Type        QuestionType    `json:"type"`
	Text        string          `json:"text"`
	Points      json.RawMessage `json:"points,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
	IsScored    *bool           `json:"isScored,omitempty"`

	Options []Option `json:"options,omitempty"`
	IsMulti bool     `json:"isMulti,omitempty"`

	Image     string   `json:"image,omitempty"`
	MaxClicks int      `json:"maxClicks,omitempty"`
	Targets   []Target `json:"targets,omitempty"`

	Items      []SortItem `json:"items,omitempty"`
	Categories []string   `json:"categories,omitempty"`
}

// UnmarshalJSON decodes the tagged document into the matching body variant.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := flexibleString(w.ID)
	if err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	points, err := flexibleInt(w.Points)
	if err != nil {
		return fmt.Errorf("question %s points: %w", id, err)
	}

	out := Question{
		ID:          id,
		Prompt:      w.Text,
		Points:      points,
		Explanation: w.Explanation,
		Unscored:    w.IsScored != nil && !*w.IsScored,
	}
	switch w.Type {
	case TypeChoice:
		out.Body = &ChoiceBody{Options: w.Options, Multi: w.IsMulti}
	case TypeHotspot:
		out.Body = &HotspotBody{Image: w.Image, MaxClicks: w.MaxClicks, Targets: w.Targets}
	case TypeSorting:
		out.Body = &SortingBody{Items: w.Items, Categories: w.Categories}
	default:
		return &ContractViolation{QuestionID: id, Reason: fmt.Sprintf("unknown question type %q", w.Type)}
	}
	*q = out
	return nil
}

// MarshalJSON writes the tagged document shape.
func (q Question) MarshalJSON() ([]byte, error) {
	id, _ := json.Marshal(q.ID)
	points, _ := json.Marshal(q.Points)
	w := questionWire{
		ID:          id,
		Type:        q.Type(),
		Text:        q.Prompt,
		Points:      points,
		Explanation: q.Explanation,
	}
	if q.Unscored {
		scored := false
		w.IsScored = &scored
	}
	switch body := q.Body.(type) {
	case *ChoiceBody:
		w.Options, w.IsMulti = body.Options, body.Multi
	case *HotspotBody:
		w.Image, w.MaxClicks, w.Targets = body.Image, body.MaxClicks, body.Targets
	case *SortingBody:
		w.Items, w.Categories = body.Items, body.Categories
	default:
		return nil, &ContractViolation{QuestionID: q.ID, Reason: "question has no body"}
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts legacy bare-string options ("A" becomes an incorrect option labelled "A").
func (o *Option) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*o = Option{Label: label}
		return nil
	}
	type plain Option
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Option(p)
	return nil
}

// UnmarshalJSON accepts legacy bare-string items and numeric IDs.
func (it *SortItem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*it = SortItem{ID: text, Text: text}
		return nil
	}
	var aux struct {
		ID              json.RawMessage `json:"id"`
		Text            string          `json:"text"`
		Image           string          `json:"image"`
		CorrectCategory string          `json:"correctCategory"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := flexibleString(aux.ID)
	if err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*it = SortItem{ID: id, Text: aux.Text, Image: aux.Image, CorrectCategory: aux.CorrectCategory}
	return nil
}

// UnmarshalJSON accepts numeric target IDs.
func (t *Target) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID     json.RawMessage `json:"id"`
		Points []Point         `json:"points"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := flexibleString(aux.ID)
	if err != nil {
		return fmt.Errorf("target id: %w", err)
	}
	*t = Target{ID: id, Points: aux.Points}
	return nil
}
