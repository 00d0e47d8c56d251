// Package file reads quiz definitions and response exports from disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"quiz-analytics-service/internal/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// QuizLoader serves quizzes from <dir>/<quizID>.yaml, .yml or .json.
type QuizLoader struct {
	dir string
}

func NewQuizLoader(dir string) *QuizLoader {
	return &QuizLoader{dir: dir}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quizID == "" || strings.ContainsAny(quizID, `/\`) || strings.HasPrefix(quizID, ".") {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	for _, ext := range extensions {
		quiz, err := ReadQuiz(filepath.Join(l.dir, quizID+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Quiz{}, err
		}
		if quiz.ID == "" {
			quiz.ID = quizID
		}
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// ReadQuiz decodes one quiz definition. YAML and JSON share the document shape.
func ReadQuiz(path string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := decodeFile(path, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// ReadResponses decodes a response export: a list of response documents.
func ReadResponses(path string) ([]domain.Response, error) {
	var responses []domain.Response
	if err := decodeFile(path, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// ReadAnswers decodes a questionID -> answer document.
func ReadAnswers(path string) (domain.AnswerSet, error) {
	var answers domain.AnswerSet
	if err := decodeFile(path, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// decodeFile reads YAML or JSON into v. YAML is converted to JSON first so
// the domain's JSON decoders handle legacy shapes in both formats.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("convert %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
