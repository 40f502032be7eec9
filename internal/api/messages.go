package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/intakeworks/storygate/internal/session"
	"github.com/intakeworks/storygate/pkg/handlers"
	"github.com/intakeworks/storygate/pkg/routes"
)

// decisionTimeout bounds the detached issuance decision once a message
// enters the pipeline.
const decisionTimeout = 15 * time.Second

type messageRequest struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

// MessageHandler adapts inbound chat messages to the session orchestrator.
type MessageHandler struct {
	orchestrator *session.Orchestrator
	logger       *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(orchestrator *session.Orchestrator, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		orchestrator: orchestrator,
		logger:       logger.With("system", "messages"),
	}
}

// Routes returns the handler's route group.
func (h *MessageHandler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/messages",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "", Handler: h.Post},
		},
	}
}

// Post handles one inbound message and returns the orchestrator's reply.
func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("decode message: %w", err))
		return
	}
	if req.SenderID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("sender_id required"))
		return
	}

	reply := h.orchestrator.Handle(r.Context(), req.SenderID, req.Text)
	handlers.RespondJSON(w, http.StatusOK, messageResponse{Reply: reply})
}
