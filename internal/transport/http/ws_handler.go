package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quiz-analytics-service/internal/app"
	"quiz-analytics-service/internal/domain"
)

type WSHandler struct {
	service  *app.AnalyticsService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AnalyticsService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS streams the cohort report of ?quizId= and answers preview and
// evaluate requests from a respondent in progress.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		writeError(w, http.StatusBadRequest, "missing quizId")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write failed", zap.String("quiz_id", quizID), zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "report", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		send <- h.handle(r, quizID, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(r *http.Request, quizID string, inbound inboundMessage) outboundMessage[any] {
	fail := func(msg string) outboundMessage[any] {
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
	}

	switch inbound.Type {
	case "preview":
		var payload PreviewRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return fail("invalid preview payload")
		}
		stats, err := h.service.Preview(r.Context(), quizID, payload.Answers, payload.Times)
		if err != nil {
			return fail(err.Error())
		}
		return outboundMessage[any]{Type: "skills", Payload: PreviewResponse{Stats: stats, Composite: stats.Composite()}}
	case "evaluate":
		var payload EvaluateRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return fail("invalid evaluate payload")
		}
		answer, err := domain.DecodeAnswer(payload.Answer)
		if err != nil {
			return fail(err.Error())
		}
		detail, err := h.service.Evaluate(r.Context(), quizID, payload.QuestionID, answer)
		if err != nil {
			return fail(err.Error())
		}
		return outboundMessage[any]{Type: "evaluation", Payload: EvaluateResponse{Detail: detail, Passed: !detail.Scored || detail.IsCorrect}}
	default:
		return fail("unsupported message type")
	}
}
