package domain

import "fmt"

// Validate checks the quiz and every question against the authoring invariants.
func (q Quiz) Validate() error {
	seen := make(map[string]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			if cv, ok := err.(*ContractViolation); ok {
				cv.QuizID = q.ID
			}
			return err
		}
		if _, dup := seen[question.ID]; dup {
			return &ContractViolation{QuizID: q.ID, QuestionID: question.ID, Reason: "duplicate question id"}
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}

// Validate checks a single question against its variant's invariants.
func (q Question) Validate() error {
	violation := func(format string, args ...any) error {
		return &ContractViolation{QuestionID: q.ID, Reason: fmt.Sprintf(format, args...)}
	}
	if q.ID == "" {
		return violation("missing id")
	}
	if q.Points < 0 {
		return violation("negative point value %d", q.Points)
	}

	switch body := q.Body.(type) {
	case *ChoiceBody:
		if len(body.Options) == 0 {
			return violation("choice question has no options")
		}
		if correct := len(body.CorrectLabels()); !body.Multi && correct > 1 {
			return violation("single-select question flags %d correct options", correct)
		}
	case *HotspotBody:
		if body.MaxClicks < 0 {
			return violation("negative maxClicks %d", body.MaxClicks)
		}
		for i, target := range body.Targets {
			if len(target.Points) < 3 {
				return violation("target %d has %d vertices, need at least 3", i, len(target.Points))
			}
		}
	case *SortingBody:
		categories := make(map[string]struct{}, len(body.Categories))
		for _, c := range body.Categories {
			categories[c] = struct{}{}
		}
		items := make(map[string]struct{}, len(body.Items))
		for _, item := range body.Items {
			if item.ID == "" {
				return violation("sorting item %q has no id", item.Text)
			}
			if _, dup := items[item.ID]; dup {
				return violation("duplicate sorting item id %q", item.ID)
			}
			items[item.ID] = struct{}{}
			if item.CorrectCategory == "" {
				continue
			}
			if _, ok := categories[item.CorrectCategory]; !ok {
				return violation("item %q references undeclared category %q", item.ID, item.CorrectCategory)
			}
		}
	case nil:
		return violation("missing question body")
	default:
		return violation("unsupported question body %T", body)
	}
	return nil
}

// MustValidate panics with the ContractViolation when q is malformed.
func (q Question) MustValidate() {
	if err := q.Validate(); err != nil {
		panic(err)
	}
}
