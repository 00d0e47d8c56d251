package http

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"quiz-analytics-service/internal/app"
	"quiz-analytics-service/internal/cohort"
	"quiz-analytics-service/internal/scoring"
)

type quizPath struct {
	QuizID string `path:"quizID"`
}

type responsePath struct {
	QuizID     string `path:"quizID"`
	ResponseID string `path:"responseID"`
}

type submitRequest struct {
	quizPath
	app.Submission
}

type previewRequest struct {
	quizPath
	PreviewRequest
}

type evaluateRequest struct {
	quizPath
	EvaluateRequest
}

type wsRequest struct {
	QuizID string `query:"quizId" required:"true"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Quiz Analytics API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Scores quiz responses and aggregates cohort statistics.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Live report stream")
	getWS.SetDescription("Upgrades to a WebSocket that pushes the cohort report on every change and answers preview messages.")
	getWS.AddReqStructure(wsRequest{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/quizzes/{quizID}/report
	getReport, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizID}/report")
	getReport.SetSummary("Cohort report")
	getReport.SetDescription("Distributions, error ranking, KPIs and leaderboard over all responses.")
	getReport.AddReqStructure(quizPath{})
	getReport.AddRespStructure(cohort.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getReport)

	// POST /api/quizzes/{quizID}/responses
	postResponse, _ := r.NewOperationContext(http.MethodPost, "/api/quizzes/{quizID}/responses")
	postResponse.SetSummary("Submit response")
	postResponse.SetDescription("Stores a finished quiz. The skill vector is recomputed server-side.")
	postResponse.AddReqStructure(submitRequest{})
	postResponse.AddRespStructure(SubmitResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postResponse.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	postResponse.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postResponse)

	// GET /api/quizzes/{quizID}/responses/{responseID}/score
	getScore, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizID}/responses/{responseID}/score")
	getScore.SetSummary("Score sheet")
	getScore.AddReqStructure(responsePath{})
	getScore.AddRespStructure(scoring.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getScore)

	// DELETE /api/quizzes/{quizID}/responses/{responseID}
	deleteResponse, _ := r.NewOperationContext(http.MethodDelete, "/api/quizzes/{quizID}/responses/{responseID}")
	deleteResponse.SetSummary("Delete response")
	deleteResponse.AddReqStructure(responsePath{})
	deleteResponse.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteResponse.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteResponse)

	// POST /api/quizzes/{quizID}/preview
	postPreview, _ := r.NewOperationContext(http.MethodPost, "/api/quizzes/{quizID}/preview")
	postPreview.SetSummary("Live skill preview")
	postPreview.AddReqStructure(previewRequest{})
	postPreview.AddRespStructure(PreviewResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postPreview)

	// POST /api/quizzes/{quizID}/evaluate
	postEvaluate, _ := r.NewOperationContext(http.MethodPost, "/api/quizzes/{quizID}/evaluate")
	postEvaluate.SetSummary("Check one answer")
	postEvaluate.AddReqStructure(evaluateRequest{})
	postEvaluate.AddRespStructure(EvaluateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEvaluate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postEvaluate)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
