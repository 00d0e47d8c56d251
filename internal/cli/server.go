package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quiz-analytics-service/internal/app"
	"quiz-analytics-service/internal/config"
	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/infra/file"
	"quiz-analytics-service/internal/infra/memory"
	"quiz-analytics-service/internal/infra/postgres"
	redisstore "quiz-analytics-service/internal/infra/redis"
	"quiz-analytics-service/internal/logging"
	transport "quiz-analytics-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the analytics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServer(ctx, *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides server.port)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cohortOpts, err := cohortOptions(cfg.Scoring)
	if err != nil {
		return err
	}

	port := portFlag
	if port == "" {
		port = cfg.Server.Port
	}
	checks := map[string]transport.Checker{}

	// --- Postgres ---
	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()
		checks["postgres"] = transport.CheckerFunc(pool.Ping)
		logger.Info("connected to postgres")
	}

	// --- Redis ---
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		checks["redis"] = transport.CheckerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	quizzes, responses, hubs := buildStores(cfg, pool, rdb, logger)
	service := app.NewAnalyticsService(quizzes, responses, hubs, logger, app.Options{Cohort: cohortOpts})

	srv := transport.NewServer(":"+port, logger,
		config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second),
		transport.Routes(service, logger, checks))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", zap.String("port", port))
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// buildStores picks backing stores: Postgres for quizzes and responses when
// configured, Redis for the quiz cache and hub liveness, memory otherwise.
func buildStores(cfg config.Config, pool *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) (app.QuizRepository, app.ResponseRepository, app.HubRepository) {
	var loader memory.QuizLoader
	switch {
	case pool != nil:
		loader = postgres.NewQuizLoader(pool)
	case cfg.Quiz.Dir != "":
		loader = file.NewQuizLoader(cfg.Quiz.Dir)
	default:
		logger.Warn("no quiz source configured, serving the built-in demo quiz")
		loader = memory.NewStaticQuizLoader(demoQuizzes())
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var quizzes app.QuizRepository
	var hubs app.HubRepository
	if rdb != nil {
		quizzes = redisstore.NewQuizRepository(rdb, loader, quizTTL)
		hubs = redisstore.NewHubStore(rdb, redisTTL)
	} else {
		quizzes = memory.NewQuizRepository(loader, quizTTL)
		hubs = memory.NewHubStore()
	}

	var responses app.ResponseRepository
	switch {
	case pool != nil:
		responses = postgres.NewResponseStore(pool)
	case rdb != nil:
		responses = redisstore.NewResponseStore(rdb, redisTTL)
	default:
		responses = memory.NewResponseStore()
	}
	return quizzes, responses, hubs
}

// demoQuizzes is served when neither a database nor a quiz directory is set.
func demoQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"demo": {
			ID:    "demo",
			Title: "Workshop safety walk",
			Questions: []domain.Question{
				{
					ID:     "q1",
					Prompt: "Which extinguisher is used on electrical fires?",
					Points: 10,
					Body: &domain.ChoiceBody{Options: []domain.Option{
						{Label: "Water"},
						{Label: "CO2", IsCorrect: true},
						{Label: "Foam"},
					}},
				},
				{
					ID:     "q2",
					Prompt: "Mark both trip hazards on the floor plan.",
					Points: 10,
					Body: &domain.HotspotBody{
						MaxClicks: 2,
						Targets: []domain.Target{
							{ID: "cable", Points: []domain.Point{{X: 10, Y: 60}, {X: 30, Y: 60}, {X: 30, Y: 75}, {X: 10, Y: 75}}},
							{ID: "box", Points: []domain.Point{{X: 65, Y: 20}, {X: 85, Y: 20}, {X: 85, Y: 40}, {X: 65, Y: 40}}},
						},
					},
				},
				{
					ID:     "q3",
					Prompt: "Sort the items into the right bin.",
					Points: 10,
					Body: &domain.SortingBody{
						Categories: []string{"Recycle", "Hazardous"},
						Items: []domain.SortItem{
							{ID: "i1", Text: "Cardboard", CorrectCategory: "Recycle"},
							{ID: "i2", Text: "Solvent rag", CorrectCategory: "Hazardous"},
							{ID: "i3", Text: "Aluminium can", CorrectCategory: "Recycle"},
						},
					},
				},
				{
					ID:       "q4",
					Prompt:   "How confident do you feel about the evacuation route?",
					Unscored: true,
					Body: &domain.ChoiceBody{Options: []domain.Option{
						{Label: "Very"},
						{Label: "Somewhat"},
						{Label: "Not at all"},
					}},
				},
			},
		},
	}
}
