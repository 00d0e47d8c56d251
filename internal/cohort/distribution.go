package cohort

import (
	"fmt"

	"quiz-analytics-service/internal/domain"
)

// OptionCount is how many respondents picked one option label.
type OptionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ItemTally is the per-item outcome of a sorting question across the cohort.
type ItemTally struct {
	ItemID   string `json:"itemId"`
	ItemText string `json:"itemText"`
	Correct  int    `json:"correct"`
	Wrong    int    `json:"wrong"`
	Missed   int    `json:"missed"`
}

// Distribution summarises the answers given to one question.
type Distribution struct {
	QuestionID string              `json:"questionId"`
	Type       domain.QuestionType `json:"type"`
	Prompt     string              `json:"prompt"`
	Scored     bool                `json:"scored"`
	Answered   int                 `json:"answered"`
	Options    []OptionCount       `json:"options,omitempty"`
	Pass       int                 `json:"pass"`
	Fail       int                 `json:"fail"`
	Items      []ItemTally         `json:"items,omitempty"`
}

// Distributions tallies every question, in quiz order. Choice questions count
// each selected label (labels not in the option list are appended in the
// order first seen), hotspots count pass/fail, and sorting questions count
// correct, wrong and missed placements per item.
func Distributions(quiz domain.Quiz, responses []domain.Response) []Distribution {
	return distributions(quiz, evaluate(quiz, responses, BasisPoints))
}

func distributions(quiz domain.Quiz, sheets []sheet) []Distribution {
	out := make([]Distribution, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.MustValidate()
		d := Distribution{QuestionID: q.ID, Type: q.Type(), Prompt: q.Prompt, Scored: q.Scored()}

		switch body := q.Body.(type) {
		case *domain.ChoiceBody:
			d.Options = tallyChoice(body, sheets, i)
		case *domain.HotspotBody:
			for _, s := range sheets {
				if s.result.PerQuestion[i].IsCorrect {
					d.Pass++
				} else {
					d.Fail++
				}
			}
		case *domain.SortingBody:
			d.Items = tallySorting(body, sheets, i)
		default:
			panic(&domain.ContractViolation{QuizID: quiz.ID, QuestionID: q.ID, Reason: fmt.Sprintf("unsupported question body %T", body)})
		}

		for _, s := range sheets {
			if s.result.PerQuestion[i].Answered {
				d.Answered++
			}
		}
		out = append(out, d)
	}
	return out
}

func tallyChoice(body *domain.ChoiceBody, sheets []sheet, idx int) []OptionCount {
	counts := make([]OptionCount, 0, len(body.Options))
	index := make(map[string]int, len(body.Options))
	for _, opt := range body.Options {
		if _, dup := index[opt.Label]; dup {
			continue
		}
		index[opt.Label] = len(counts)
		counts = append(counts, OptionCount{Label: opt.Label})
	}
	for _, s := range sheets {
		choice := s.result.PerQuestion[idx].Choice
		if choice == nil {
			continue
		}
		for _, label := range choice.Selected {
			pos, ok := index[label]
			if !ok {
				pos = len(counts)
				index[label] = pos
				counts = append(counts, OptionCount{Label: label})
			}
			counts[pos].Count++
		}
	}
	return counts
}

func tallySorting(body *domain.SortingBody, sheets []sheet, idx int) []ItemTally {
	tallies := make([]ItemTally, len(body.Items))
	position := make(map[string]int, len(body.Items))
	for i, item := range body.Items {
		tallies[i] = ItemTally{ItemID: item.ID, ItemText: item.Text}
		position[item.ID] = i
	}
	for _, s := range sheets {
		detail := s.result.PerQuestion[idx]
		failed := make(map[string]domain.SortingErrorKind)
		for _, e := range detail.SortingErrors() {
			failed[e.ItemID] = e.Type
		}
		placement, _ := s.response.Answers[detail.QuestionID].(domain.Placement)
		for _, item := range body.Items {
			t := &tallies[position[item.ID]]
			switch kind, ok := failed[item.ID]; {
			case ok && kind == domain.SortingMissed:
				t.Missed++
			case ok:
				t.Wrong++
			case item.CorrectCategory == "" && placement[item.ID] == "":
				t.Missed++
			case item.CorrectCategory == "":
				// Placed, but the item has no right answer.
				t.Wrong++
			default:
				t.Correct++
			}
		}
	}
	return tallies
}
