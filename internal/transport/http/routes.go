package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
	"go.uber.org/zap"

	"quiz-analytics-service/internal/app"
)

// Routes registers every endpoint of the service on r.
func Routes(service *app.AnalyticsService, logger *zap.Logger, checks map[string]Checker) func(r chi.Router) {
	h := &handlers{service: service, logger: logger}
	ws := NewWSHandler(service, logger)

	return func(r chi.Router) {
		r.Get("/openapi.json", handleOpenAPI())
		r.Mount("/docs", v5emb.New("Quiz Analytics API", "/openapi.json", "/docs"))
		r.Get("/healthz", handleHealth(logger, checks))
		r.Get("/ws", ws.ServeWS)

		r.Route("/api/quizzes/{quizID}", func(r chi.Router) {
			r.Get("/", h.getQuiz)
			r.Get("/report", h.getReport)
			r.Post("/responses", h.postResponse)
			r.Get("/responses/{responseID}/score", h.getScore)
			r.Delete("/responses/{responseID}", h.deleteResponse)
			r.Post("/preview", h.postPreview)
			r.Post("/evaluate", h.postEvaluate)
		})
	}
}
