package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quiz-analytics-service/internal/app"
	"quiz-analytics-service/internal/domain"
	"quiz-analytics-service/internal/scoring"
)

// SubmitResponse is returned after a response is stored.
type SubmitResponse struct {
	Response domain.Response `json:"response"`
	Result   scoring.Result  `json:"result"`
	Percent  int             `json:"percent"`
}

// PreviewRequest carries an in-progress answer sheet.
type PreviewRequest struct {
	Answers domain.AnswerSet `json:"answers"`
	Times   domain.TimeLog   `json:"times,omitempty"`
}

// PreviewResponse is the live skill vector.
type PreviewResponse struct {
	Stats     domain.SkillVector `json:"stats"`
	Composite int                `json:"composite"`
}

// EvaluateRequest asks for the judgement of a single answer.
type EvaluateRequest struct {
	QuestionID string          `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
}

// EvaluateResponse is the judgement plus whether the in-flow check passes.
type EvaluateResponse struct {
	Detail domain.ScoreDetail `json:"detail"`
	Passed bool               `json:"passed"`
}

type handlers struct {
	service *app.AnalyticsService
	logger  *zap.Logger
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("quiz_id", chi.URLParam(r, "quizID")),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}

func (h *handlers) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.Quiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *handlers) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handlers) postResponse(w http.ResponseWriter, r *http.Request) {
	var sub app.Submission
	if err := readJSON(r, &sub); err != nil {
		h.badBody(w, err)
		return
	}
	response, result, err := h.service.SubmitResponse(r.Context(), chi.URLParam(r, "quizID"), sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{Response: response, Result: result, Percent: result.Percent()})
}

func (h *handlers) getScore(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ScoreResponse(r.Context(), chi.URLParam(r, "quizID"), chi.URLParam(r, "responseID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) deleteResponse(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteResponse(r.Context(), chi.URLParam(r, "quizID"), chi.URLParam(r, "responseID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) postPreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := readJSON(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	stats, err := h.service.Preview(r.Context(), chi.URLParam(r, "quizID"), req.Answers, req.Times)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Stats: stats, Composite: stats.Composite()})
}

func (h *handlers) postEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := readJSON(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	answer, err := domain.DecodeAnswer(req.Answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	quizID := chi.URLParam(r, "quizID")
	detail, err := h.service.Evaluate(r.Context(), quizID, req.QuestionID, answer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{Detail: detail, Passed: !detail.Scored || detail.IsCorrect})
}

// badBody distinguishes malformed JSON from well-formed JSON carrying an
// answer of unsupported shape.
func (h *handlers) badBody(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidAnswer) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
}
