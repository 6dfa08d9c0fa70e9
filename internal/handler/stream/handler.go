package stream

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/mindwell-ai/mindwell/backend/internal/handler/chat"
	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
	chatService "github.com/mindwell-ai/mindwell/backend/internal/service/chat"
	"github.com/mindwell-ai/mindwell/backend/pkg/utils"
)

// Handler streams chat replies via Server-Sent Events.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a stream handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes registers the streaming chat route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
}

// Event payloads.
type deltaEvent struct {
	Content string `json:"content"`
}

type endEvent struct {
	Response     string `json:"response"`
	MoodAnalysis string `json:"mood_analysis"`
	Finished     bool   `json:"finished"`
}

type startEvent struct {
	UserID string `json:"user_id"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var req chat.Request
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Reject before switching to an event stream so callers get a plain status code.
	if !h.chatSvc.Available() {
		status, body := chatHandler.ErrorStatus(chatService.ErrUnavailable)
		utils.RespondJSON(w, status, body)
		return
	}
	if err := chatService.Validate(&req); err != nil {
		status, body := chatHandler.ErrorStatus(err)
		utils.RespondJSON(w, status, body)
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	utils.SendSSEEvent(w, flusher, "start", startEvent{UserID: req.UserID})

	resp, err := h.chatSvc.ReplyStream(r.Context(), req, func(delta string) {
		utils.SendSSEEvent(w, flusher, "delta", deltaEvent{Content: delta})
	})
	if err != nil {
		log.Printf("[stream] error handling request for user=%s: %v", req.UserID, err)
		_, body := chatHandler.ErrorStatus(err)
		utils.SendSSEEvent(w, flusher, "error", body)
		return
	}

	utils.SendSSEEvent(w, flusher, "message", deltaEvent{Content: resp.Response})
	utils.SendSSEEvent(w, flusher, "end", endEvent{
		Response:     resp.Response,
		MoodAnalysis: resp.MoodAnalysis,
		Finished:     true,
	})

	log.Printf("[stream] completed response for user=%s", req.UserID)
}
