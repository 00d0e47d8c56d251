package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quiz-analytics-service/internal/cohort"
	"quiz-analytics-service/internal/config"
	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/infra/file"
	"quiz-analytics-service/internal/scoring"
)

// NewReportCmd aggregates an exported set of responses offline.
func NewReportCmd(configPath *string) *cobra.Command {
	var quizPath, responsesPath, basis string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the cohort report for a quiz file and a responses file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if basis != "" {
				cfg.Scoring.KPIBasis = basis
			}
			opts, err := cohortOptions(cfg.Scoring)
			if err != nil {
				return err
			}
			quiz, err := file.ReadQuiz(quizPath)
			if err != nil {
				return err
			}
			if err := quiz.Validate(); err != nil {
				return err
			}
			responses, err := file.ReadResponses(responsesPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cohort.Aggregate(quiz, responses, opts))
		},
	}
	cmd.Flags().StringVar(&quizPath, "quiz", "", "quiz definition (YAML or JSON)")
	cmd.Flags().StringVar(&responsesPath, "responses", "", "list of responses (YAML or JSON)")
	cmd.Flags().StringVar(&basis, "basis", "", "KPI basis: skills or points")
	_ = cmd.MarkFlagRequired("quiz")
	_ = cmd.MarkFlagRequired("responses")
	return cmd
}

// ScoreOutput is the offline score sheet of one answer set.
type ScoreOutput struct {
	Result     scoring.Result     `json:"result"`
	Percent    int                `json:"percent"`
	Stats      domain.SkillVector `json:"stats"`
	Composite  int                `json:"composite"`
	Streak     int                `json:"streak"`
	BestStreak int                `json:"bestStreak"`
}

// NewScoreCmd scores a single answer set against a quiz file.
func NewScoreCmd() *cobra.Command {
	var quizPath, answersPath string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one answer set against a quiz file",
		RunE: func(cmd *cobra.Command, args []string) error {
			quiz, err := file.ReadQuiz(quizPath)
			if err != nil {
				return err
			}
			if err := quiz.Validate(); err != nil {
				return err
			}
			answers, err := file.ReadAnswers(answersPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), scoreAnswers(quiz, answers))
		},
	}
	cmd.Flags().StringVar(&quizPath, "quiz", "", "quiz definition (YAML or JSON)")
	cmd.Flags().StringVar(&answersPath, "answers", "", "answers keyed by question id (YAML or JSON)")
	_ = cmd.MarkFlagRequired("quiz")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func scoreAnswers(quiz domain.Quiz, answers domain.AnswerSet) ScoreOutput {
	result := scoring.ScoreResponse(quiz, answers)
	stats := scoring.ComputeSkills(quiz, answers, nil)
	current, best := scoring.Streak(quiz, answers)
	return ScoreOutput{
		Result:     result,
		Percent:    result.Percent(),
		Stats:      stats,
		Composite:  stats.Composite(),
		Streak:     current,
		BestStreak: best,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
