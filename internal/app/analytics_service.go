package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz-analytics-service/internal/cohort"
	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/scoring"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ResponseRepository stores submitted responses. List returns them in
// submission order.
type ResponseRepository interface {
	Save(ctx context.Context, response domain.Response) error
	Get(ctx context.Context, quizID, responseID string) (domain.Response, error)
	List(ctx context.Context, quizID string) ([]domain.Response, error)
	Delete(ctx context.Context, quizID, responseID string) error
}

// HubRepository abstracts where live report hubs are kept (in-memory, Redis, etc).
// Subscribe finds or creates the hub and registers the listener in one step;
// its cancel unregisters the listener and drops the hub once it is idle, under
// the same lock, so a listener is never left on a hub Get cannot find.
type HubRepository interface {
	Subscribe(quizID string) (*Hub, <-chan ReportUpdate, func())
	Get(quizID string) (*Hub, bool)
}

// Submission is a respondent's finished quiz as sent by the client.
type Submission struct {
	Nickname  string           `json:"nickname"`
	Email     string           `json:"email,omitempty"`
	Answers   domain.AnswerSet `json:"answers"`
	Times     domain.TimeLog   `json:"times,omitempty"`
	TotalTime float64          `json:"totalTime,omitempty"`
}

// Options configures AnalyticsService. Zero fields fall back to defaults.
type Options struct {
	Cohort cohort.Options
	Now    func() time.Time
	NewID  func() string
}

// AnalyticsService contains the scoring and reporting use cases.
type AnalyticsService struct {
	quizzes   QuizRepository
	responses ResponseRepository
	hubs      HubRepository
	logger    *zap.Logger
	cohort    cohort.Options
	now       func() time.Time
	newID     func() string
}

func NewAnalyticsService(quizzes QuizRepository, responses ResponseRepository, hubs HubRepository, logger *zap.Logger, opts Options) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &AnalyticsService{
		quizzes:   quizzes,
		responses: responses,
		hubs:      hubs,
		logger:    logger,
		cohort:    opts.Cohort,
		now:       opts.Now,
		newID:     opts.NewID,
	}
}

// Quiz returns validated quiz content.
func (s *AnalyticsService) Quiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := quiz.Validate(); err != nil {
		s.logger.Error("quiz failed validation", zap.String("quiz_id", quizID), zap.Error(err))
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// SubmitResponse scores and stores a finished quiz. The skill vector is
// recomputed here; whatever the client computed is ignored.
func (s *AnalyticsService) SubmitResponse(ctx context.Context, quizID string, sub Submission) (domain.Response, scoring.Result, error) {
	nickname := strings.TrimSpace(sub.Nickname)
	if nickname == "" {
		return domain.Response{}, scoring.Result{}, domain.ErrNicknameRequired
	}
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return domain.Response{}, scoring.Result{}, err
	}

	answers := make(domain.AnswerSet, len(sub.Answers))
	times := make(domain.TimeLog, len(sub.Times))
	for _, q := range quiz.Questions {
		if a, ok := sub.Answers[q.ID]; ok && a != nil {
			answers[q.ID] = a
		}
		if spent, ok := sub.Times[q.ID]; ok && spent > 0 {
			times[q.ID] = spent
		}
	}
	totalTime := sub.TotalTime
	if totalTime <= 0 {
		for _, spent := range times {
			totalTime += spent
		}
	}

	response := domain.Response{
		ID:          s.newID(),
		QuizID:      quiz.ID,
		Nickname:    nickname,
		Email:       strings.TrimSpace(sub.Email),
		Answers:     answers,
		Times:       times,
		Stats:       scoring.ComputeSkills(quiz, answers, times),
		TotalTime:   totalTime,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.responses.Save(ctx, response); err != nil {
		return domain.Response{}, scoring.Result{}, fmt.Errorf("save response: %w", err)
	}
	result := scoring.ScoreResponse(quiz, answers)
	s.logger.Info("response submitted",
		zap.String("quiz_id", quiz.ID),
		zap.String("response_id", response.ID),
		zap.Int("score", result.TotalScore),
		zap.Int("max_score", result.MaxScore),
	)

	s.refresh(ctx, quiz)
	return response, result, nil
}

// Preview computes the live skill vector for an in-progress quiz.
func (s *AnalyticsService) Preview(ctx context.Context, quizID string, answers domain.AnswerSet, times domain.TimeLog) (domain.SkillVector, error) {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return scoring.ComputeSkills(quiz, answers, times), nil
}

// Evaluate judges a single answer, as the in-flow check button does.
func (s *AnalyticsService) Evaluate(ctx context.Context, quizID, questionID string, answer domain.Answer) (domain.ScoreDetail, error) {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return domain.ScoreDetail{}, err
	}
	q, ok := quiz.Question(questionID)
	if !ok {
		return domain.ScoreDetail{}, domain.ErrQuestionNotFound
	}
	return scoring.Evaluate(q, answer), nil
}

// ScoreResponse rebuilds the score sheet of a stored response.
func (s *AnalyticsService) ScoreResponse(ctx context.Context, quizID, responseID string) (scoring.Result, error) {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return scoring.Result{}, err
	}
	response, err := s.responses.Get(ctx, quizID, responseID)
	if err != nil {
		return scoring.Result{}, err
	}
	return scoring.ScoreResponse(quiz, response.Answers), nil
}

// Report aggregates the current snapshot of responses.
func (s *AnalyticsService) Report(ctx context.Context, quizID string) (cohort.Report, error) {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return cohort.Report{}, err
	}
	return s.report(ctx, quiz)
}

func (s *AnalyticsService) report(ctx context.Context, quiz domain.Quiz) (cohort.Report, error) {
	responses, err := s.responses.List(ctx, quiz.ID)
	if err != nil {
		return cohort.Report{}, fmt.Errorf("list responses: %w", err)
	}
	return cohort.Aggregate(quiz, responses, s.cohort), nil
}

// DeleteResponse removes a response and refreshes live reports.
func (s *AnalyticsService) DeleteResponse(ctx context.Context, quizID, responseID string) error {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := s.responses.Delete(ctx, quizID, responseID); err != nil {
		return err
	}
	s.logger.Info("response deleted", zap.String("quiz_id", quizID), zap.String("response_id", responseID))
	s.refresh(ctx, quiz)
	return nil
}

// Subscribe returns a channel that receives report updates for a quiz,
// starting with the current report. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *AnalyticsService) Subscribe(ctx context.Context, quizID string) (<-chan ReportUpdate, func(), error) {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	hub, ch, cancel := s.hubs.Subscribe(quiz.ID)
	if !hub.hasSnapshot() {
		report, err := s.report(ctx, quiz)
		if err != nil {
			cancel()
			return nil, nil, err
		}
		// Skipped when a submission refreshed the hub while we were listing.
		hub.publishIfEmpty(report)
	}
	return ch, cancel, nil
}

// refresh pushes a recomputed report to live subscribers, if any.
func (s *AnalyticsService) refresh(ctx context.Context, quiz domain.Quiz) {
	hub, ok := s.hubs.Get(quiz.ID)
	if !ok {
		return
	}
	report, err := s.report(ctx, quiz)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("report refresh failed", zap.String("quiz_id", quiz.ID), zap.Error(err))
		}
		return
	}
	hub.publish(report)
}
