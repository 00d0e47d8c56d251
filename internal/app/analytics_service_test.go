package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"quiz-analytics-service/internal/app"
	"quiz-analytics-service/internal/cohort"
	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/infra/memory"
)

var submittedAt = time.Date(2024, 11, 22, 9, 15, 0, 0, time.UTC)

func TestSubmitScoresAndStores(t *testing.T) {
	ctx := context.Background()
	service, responses := newTestService()

	response, result, err := service.SubmitResponse(ctx, "quiz-1", app.Submission{
		Nickname: "  Alice ",
		Answers: domain.AnswerSet{
			"q1":    domain.Selection("Right"),
			"ghost": domain.Selection("x"),
		},
		Times: domain.TimeLog{"q1": 2, "ghost": 9},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if response.Nickname != "Alice" || response.ID != "r1" || !response.SubmittedAt.Equal(submittedAt) {
		t.Fatalf("unexpected response %+v", response)
	}
	if _, ok := response.Answers["ghost"]; ok {
		t.Fatalf("expected answers to unknown questions to be dropped")
	}
	if response.TotalTime != 2 {
		t.Fatalf("expected total time summed from the time log, got %v", response.TotalTime)
	}
	if result.TotalScore != 10 || result.MaxScore != 10 {
		t.Fatalf("expected 10/10, got %d/%d", result.TotalScore, result.MaxScore)
	}
	if v, _ := response.Stats.Score(domain.AxisLogic); v != 100 {
		t.Fatalf("expected server-side logic 100, got %d", v)
	}

	stored, err := responses.Get(ctx, "quiz-1", "r1")
	if err != nil {
		t.Fatalf("stored response: %v", err)
	}
	if stored.Nickname != "Alice" {
		t.Fatalf("expected stored response, got %+v", stored)
	}
}

func TestSubmitRequiresNickname(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, _, err := service.SubmitResponse(ctx, "quiz-1", app.Submission{Nickname: "   "})
	if !errors.Is(err, domain.ErrNicknameRequired) {
		t.Fatalf("expected nickname error, got %v", err)
	}
	_, _, err = service.SubmitResponse(ctx, "quiz-unknown", app.Submission{Nickname: "Alice"})
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestSubmitKeepsClientTotalTime(t *testing.T) {
	service, _ := newTestService()
	response, _, err := service.SubmitResponse(context.Background(), "quiz-1", app.Submission{
		Nickname:  "Alice",
		Answers:   domain.AnswerSet{"q1": domain.Selection("Wrong")},
		Times:     domain.TimeLog{"q1": 2},
		TotalTime: 41.5,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if response.TotalTime != 41.5 {
		t.Fatalf("expected client total time, got %v", response.TotalTime)
	}
}

func TestReportAndDelete(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	for _, sub := range []app.Submission{
		{Nickname: "Alice", Answers: domain.AnswerSet{"q1": domain.Selection("Right")}},
		{Nickname: "Bob", Answers: domain.AnswerSet{"q1": domain.Selection("Wrong")}},
	} {
		if _, _, err := service.SubmitResponse(ctx, "quiz-1", sub); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	report, err := service.Report(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.KPIs.Responses != 2 || len(report.Leaderboard) != 2 || report.Leaderboard[0].Nickname != "Alice" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.ErrorRanking[0].ErrorRate != 50 {
		t.Fatalf("expected 50%% error rate, got %+v", report.ErrorRanking)
	}

	if err := service.DeleteResponse(ctx, "quiz-1", "r2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := service.DeleteResponse(ctx, "quiz-1", "r2"); !errors.Is(err, domain.ErrResponseNotFound) {
		t.Fatalf("expected response not found, got %v", err)
	}
	report, _ = service.Report(ctx, "quiz-1")
	if report.KPIs.Responses != 1 {
		t.Fatalf("expected one response after delete, got %d", report.KPIs.Responses)
	}
}

func TestScoreStoredResponse(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, _, err := service.SubmitResponse(ctx, "quiz-1", app.Submission{
		Nickname: "Alice",
		Answers:  domain.AnswerSet{"q1": domain.Selection("Right")},
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	result, err := service.ScoreResponse(ctx, "quiz-1", "r1")
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if result.TotalScore != 10 || len(result.PerQuestion) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := service.ScoreResponse(ctx, "quiz-1", "missing"); !errors.Is(err, domain.ErrResponseNotFound) {
		t.Fatalf("expected response not found, got %v", err)
	}
}

func TestPreviewAndEvaluate(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	stats, err := service.Preview(ctx, "quiz-1", domain.AnswerSet{"q1": domain.Selection("Right")}, domain.TimeLog{"q1": 4})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if v, _ := stats.Score(domain.AxisReaction); v != 80 {
		t.Fatalf("expected reaction 80, got %d", v)
	}

	detail, err := service.Evaluate(ctx, "quiz-1", "q1", domain.Selection("Wrong"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if detail.IsCorrect || detail.AwardedPoints != 0 {
		t.Fatalf("expected wrong answer, got %+v", detail)
	}
	if _, err := service.Evaluate(ctx, "quiz-1", "q9", domain.Selection("Right")); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	ch, cancel, err := service.Subscribe(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	initial := <-ch
	if initial.QuizID != "quiz-1" || initial.Report.KPIs.Responses != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}

	if _, _, err := service.SubmitResponse(ctx, "quiz-1", app.Submission{
		Nickname: "Alice",
		Answers:  domain.AnswerSet{"q1": domain.Selection("Right")},
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	update := <-ch
	if update.Report.KPIs.Responses != 1 || len(update.Report.Leaderboard) != 1 {
		t.Fatalf("expected one response in update, got %+v", update.Report)
	}
}

func TestSubscribeUnknownQuiz(t *testing.T) {
	service, _ := newTestService()
	if _, _, err := service.Subscribe(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func newTestService() (*app.AnalyticsService, *memory.ResponseStore) {
	responses := memory.NewResponseStore()
	return newTestServiceWith(responses, memory.NewHubStore()), responses
}

func newTestServiceWith(responses app.ResponseRepository, hubs app.HubRepository) *app.AnalyticsService {
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Questions: []domain.Question{
				{
					ID:     "q1",
					Prompt: "Select the right option",
					Points: 10,
					Body: &domain.ChoiceBody{Options: []domain.Option{
						{Label: "Wrong"},
						{Label: "Right", IsCorrect: true},
					}},
				},
			},
		},
	}), 5*time.Minute)

	ids := 0
	return app.NewAnalyticsService(quizRepo, responses, hubs, nil, app.Options{
		Cohort: cohort.DefaultOptions(),
		Now:    func() time.Time { return submittedAt },
		NewID: func() string {
			ids++
			return fmt.Sprintf("r%d", ids)
		},
	})
}

// leavingHubStore runs onSubscribe right after a listener has been registered.
type leavingHubStore struct {
	*memory.HubStore
	onSubscribe func()
}

func (s *leavingHubStore) Subscribe(quizID string) (*app.Hub, <-chan app.ReportUpdate, func()) {
	hub, ch, cancel := s.HubStore.Subscribe(quizID)
	if s.onSubscribe != nil {
		s.onSubscribe()
		s.onSubscribe = nil
	}
	return hub, ch, cancel
}

func TestSubscribeSurvivesConcurrentLeave(t *testing.T) {
	ctx := context.Background()
	hubs := &leavingHubStore{HubStore: memory.NewHubStore()}
	service := newTestServiceWith(memory.NewResponseStore(), hubs)

	first, cancelFirst, err := service.Subscribe(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	<-first

	hubs.onSubscribe = cancelFirst
	second, cancelSecond, err := service.Subscribe(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancelSecond()
	<-second

	if _, ok := hubs.Get("quiz-1"); !ok {
		t.Fatalf("expected hub to stay registered for the remaining listener")
	}
	if _, _, err := service.SubmitResponse(ctx, "quiz-1", app.Submission{
		Nickname: "Alice",
		Answers:  domain.AnswerSet{"q1": domain.Selection("Right")},
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case update := <-second:
		if update.Report.KPIs.Responses != 1 {
			t.Fatalf("expected one response in update, got %d", update.Report.KPIs.Responses)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected the remaining listener to receive the update")
	}
}

// racingResponseStore submits a response while the first List is in flight
// and then returns the list as it was before the submission.
type racingResponseStore struct {
	*memory.ResponseStore
	submit func()
	done   bool
}

func (s *racingResponseStore) List(ctx context.Context, quizID string) ([]domain.Response, error) {
	if s.done || s.submit == nil {
		return s.ResponseStore.List(ctx, quizID)
	}
	s.done = true
	before, err := s.ResponseStore.List(ctx, quizID)
	if err != nil {
		return nil, err
	}
	s.submit()
	return before, nil
}

func TestSubscribeKeepsReportRefreshedDuringInitialList(t *testing.T) {
	ctx := context.Background()
	responses := &racingResponseStore{ResponseStore: memory.NewResponseStore()}
	service := newTestServiceWith(responses, memory.NewHubStore())
	responses.submit = func() {
		if _, _, err := service.SubmitResponse(ctx, "quiz-1", app.Submission{
			Nickname: "Alice",
			Answers:  domain.AnswerSet{"q1": domain.Selection("Right")},
		}); err != nil {
			t.Errorf("submit failed: %v", err)
		}
	}

	ch, cancel, err := service.Subscribe(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	initial := <-ch
	if initial.Report.KPIs.Responses != 1 {
		t.Fatalf("expected the refreshed report to win, got %d responses", initial.Report.KPIs.Responses)
	}
	select {
	case stale := <-ch:
		t.Fatalf("expected no stale snapshot after the refresh, got %+v", stale.Report.KPIs)
	default:
	}

	stored, err := responses.ResponseStore.List(ctx, "quiz-1")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected one stored response, got %d (%v)", len(stored), err)
	}
}
