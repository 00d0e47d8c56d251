package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is the closed set of answer payloads. A nil Answer means the
// question was not answered.
type Answer interface {
	// Empty reports whether the answer carries no selection at all.
	Empty() bool
	isAnswer()
}

// Selection answers a single-select choice question with an option label.
type Selection string

// Selections answers a multi-select choice question.
type Selections []string

// Pin is a marker placed on a hotspot image.
type Pin struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Point returns the pin location.
func (p Pin) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// UnmarshalJSON accepts numeric pin IDs, which older clients generated from timestamps.
func (p *Pin) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID json.RawMessage `json:"id"`
		X  float64         `json:"x"`
		Y  float64         `json:"y"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := flexibleString(aux.ID)
	if err != nil {
		return fmt.Errorf("pin id: %w", err)
	}
	p.ID, p.X, p.Y = id, aux.X, aux.Y
	return nil
}

// Pins answers a hotspot question.
type Pins []Pin

// Placement answers a sorting question: item ID to category label. Items
// missing from the map are unsorted.
type Placement map[string]string

func (s Selection) Empty() bool  { return s == "" }
func (s Selections) Empty() bool { return len(s) == 0 }
func (p Pins) Empty() bool       { return len(p) == 0 }

func (p Placement) Empty() bool {
	for _, category := range p {
		if category != "" {
			return false
		}
	}
	return true
}

func (Selection) isAnswer()  {}
func (Selections) isAnswer() {}
func (Pins) isAnswer()       {}
func (Placement) isAnswer()  {}

// Answered reports whether a carries a non-empty selection.
func Answered(a Answer) bool {
	return a != nil && !a.Empty()
}

// PlacePin appends pin, evicting the oldest pins once maxClicks is exceeded.
// A non-positive maxClicks allows a single pin.
func PlacePin(pins Pins, pin Pin, maxClicks int) Pins {
	if maxClicks <= 0 {
		maxClicks = 1
	}
	next := make(Pins, 0, len(pins)+1)
	next = append(next, pins...)
	next = append(next, pin)
	if len(next) > maxClicks {
		next = next[len(next)-maxClicks:]
	}
	return next
}

// RemovePin drops the pin with the given ID.
func RemovePin(pins Pins, id string) Pins {
	next := make(Pins, 0, len(pins))
	for _, p := range pins {
		if p.ID != id {
			next = append(next, p)
		}
	}
	return next
}

// Assign returns a copy of the placement with itemID dropped into category.
func (p Placement) Assign(itemID, category string) Placement {
	next := make(Placement, len(p)+1)
	for k, v := range p {
		next[k] = v
	}
	if category == "" {
		delete(next, itemID)
		return next
	}
	next[itemID] = category
	return next
}

// Unassign returns a copy of the placement with itemID moved back to the unsorted pool.
func (p Placement) Unassign(itemID string) Placement {
	return p.Assign(itemID, "")
}

// AnswerSet maps question ID to the respondent's answer.
type AnswerSet map[string]Answer

// UnmarshalJSON decodes each answer by its JSON shape.
func (s *AnswerSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	set := make(AnswerSet, len(raw))
	for questionID, value := range raw {
		answer, err := DecodeAnswer(value)
		if err != nil {
			return fmt.Errorf("question %s: %w", questionID, err)
		}
		if answer != nil {
			set[questionID] = answer
		}
	}
	*s = set
	return nil
}

// DecodeAnswer maps a raw JSON answer onto its variant: a string is a
// Selection, an array of strings is Selections, an array of objects is Pins and
// an object is a Placement. null decodes to a nil Answer.
func DecodeAnswer(raw json.RawMessage) (Answer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		return Selection(s), nil
	case '{':
		var p Placement
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		return p, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		if len(elems) == 0 {
			return Selections{}, nil
		}
		if first := bytes.TrimSpace(elems[0]); len(first) > 0 && first[0] == '{' {
			var pins Pins
			if err := json.Unmarshal(trimmed, &pins); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
			}
			return pins, nil
		}
		var labels Selections
		if err := json.Unmarshal(trimmed, &labels); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
		return labels, nil
	default:
		return nil, fmt.Errorf("%w: unsupported shape %q", ErrInvalidAnswer, string(trimmed))
	}
}

// flexibleString decodes a JSON string or number into a string.
func flexibleString(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		err := json.Unmarshal(trimmed, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// flexibleInt decodes a JSON number or numeric string, rounding fractions.
func flexibleInt(raw json.RawMessage) (int, error) {
	s, err := flexibleString(raw)
	if err != nil || s == "" {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return int(f - 0.5), nil
	}
	return int(f + 0.5), nil
}
