package domain

// SortingErrorKind distinguishes misplaced items from unsorted ones.
type SortingErrorKind string

const (
	SortingWrong  SortingErrorKind = "wrong"
	SortingMissed SortingErrorKind = "missed"
)

// SortingError describes one item the respondent did not sort correctly.
type SortingError struct {
	ItemID          string           `json:"itemId"`
	ItemText        string           `json:"itemText"`
	Type            SortingErrorKind `json:"type"`
	UserCategory    string           `json:"userCategory,omitempty"`
	CorrectCategory string           `json:"correctCategory"`
}

// ChoiceDetail compares the selection with the expected labels.
type ChoiceDetail struct {
	Multi    bool     `json:"multi"`
	Selected []string `json:"selected"`
	Expected []string `json:"expected"`
}

// HotspotDetail reports which targets were hit.
type HotspotDetail struct {
	Hits       int    `json:"hits"`
	Targets    int    `json:"targets"`
	TargetHits []bool `json:"targetHits"`
	Pins       int    `json:"pins"`
}

// SortingDetail reports per-item sorting results.
type SortingDetail struct {
	CorrectItems int            `json:"correctItems"`
	TotalItems   int            `json:"totalItems"`
	Errors       []SortingError `json:"errors"`
}

// ScoreDetail is the derived, never persisted, evaluation of one answer.
// Accuracy is the fraction of the question answered correctly: 0 or 1 for
// choice questions, the hit ratio for hotspots, the correct-item ratio for sorting.
type ScoreDetail struct {
	QuestionID    string         `json:"questionId"`
	Type          QuestionType   `json:"type"`
	Prompt        string         `json:"prompt"`
	Scored        bool           `json:"scored"`
	Answered      bool           `json:"answered"`
	IsCorrect     bool           `json:"isCorrect"`
	AwardedPoints int            `json:"awardedPoints"`
	Points        int            `json:"points"`
	Accuracy      float64        `json:"accuracy"`
	Detail        string         `json:"detail"`
	Explanation   string         `json:"explanation,omitempty"`
	Choice        *ChoiceDetail  `json:"choice,omitempty"`
	Hotspot       *HotspotDetail `json:"hotspot,omitempty"`
	Sorting       *SortingDetail `json:"sorting,omitempty"`
}

// SortingErrors returns the sorting error list, nil for other question types.
func (d ScoreDetail) SortingErrors() []SortingError {
	if d.Sorting == nil {
		return nil
	}
	return d.Sorting.Errors
}
