package cli

import (
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-analytics-service/internal/config"
	"quiz-analytics-service/internal/infra/file"
	"quiz-analytics-service/internal/infra/postgres"
	"quiz-analytics-service/internal/logging"
)

// NewImportCmd stores quiz definitions from YAML or JSON files in Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <quiz-file>...",
		Short: "Validate quiz files and upsert them into Postgres",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			if err := runMigrations(ctx, cfg, logger); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			defer pool.Close()

			store := postgres.NewQuizLoader(pool)
			for _, path := range args {
				quiz, err := file.ReadQuiz(path)
				if err != nil {
					return err
				}
				if err := store.SaveQuiz(ctx, quiz); err != nil {
					return fmt.Errorf("importing %s: %w", path, err)
				}
				logger.Info("quiz imported",
					zap.String("quiz_id", quiz.ID),
					zap.Int("questions", len(quiz.Questions)),
					zap.String("path", path),
				)
			}
			return nil
		},
	}
}
