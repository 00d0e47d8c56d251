package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound is returned when a question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrResponseNotFound is returned when a response ID is unknown for a quiz.
	ErrResponseNotFound = errors.New("response not found")
	// ErrNicknameRequired is returned when a submission carries no nickname.
	ErrNicknameRequired = errors.New("nickname is required")
	// ErrInvalidAnswer indicates an answer payload has an unsupported shape.
	ErrInvalidAnswer = errors.New("invalid answer payload")
	// ErrContractViolation marks quiz data that breaks its own invariants.
	ErrContractViolation = errors.New("quiz contract violation")
)

// ContractViolation describes corrupted quiz authoring data. The scoring
// functions panic with it; loaders and decoders return it as an error.
type ContractViolation struct {
	QuizID     string
	QuestionID string
	Reason     string
}

func (e *ContractViolation) Error() string {
	switch {
	case e.QuizID != "" && e.QuestionID != "":
		return fmt.Sprintf("%v: quiz %s question %s: %s", ErrContractViolation, e.QuizID, e.QuestionID, e.Reason)
	case e.QuestionID != "":
		return fmt.Sprintf("%v: question %s: %s", ErrContractViolation, e.QuestionID, e.Reason)
	case e.QuizID != "":
		return fmt.Sprintf("%v: quiz %s: %s", ErrContractViolation, e.QuizID, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrContractViolation, e.Reason)
}

func (e *ContractViolation) Unwrap() error {
	return ErrContractViolation
}
