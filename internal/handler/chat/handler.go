package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
	chatService "github.com/mindwell-ai/mindwell/backend/internal/service/chat"
	"github.com/mindwell-ai/mindwell/backend/pkg/utils"
)

// Handler serves the blocking chat endpoint and history reads.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes registers chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/history/{userID}", h.handleHistory)
}

// ErrorBody is returned when a chat turn fails.
type ErrorBody struct {
	Error    string `json:"error"`
	Fallback string `json:"fallback,omitempty"`
}

// ErrorStatus maps a chat service error to an HTTP status and body.
func ErrorStatus(err error) (int, ErrorBody) {
	var upstream *chatService.UpstreamError
	switch {
	case errors.Is(err, chatService.ErrUnavailable):
		return http.StatusInternalServerError, ErrorBody{
			Error:    "AI service is not available. Please check your Groq API key.",
			Fallback: chatService.FallbackMessage,
		}
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, ErrorBody{Error: upstream.Error(), Fallback: chatService.FallbackMessage}
	case errors.Is(err, chatService.ErrMessageRequired), errors.Is(err, chatService.ErrMoodRequired):
		return http.StatusBadRequest, ErrorBody{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: err.Error()}
	}
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.chatSvc.Reply(r.Context(), req)
	if err != nil {
		status, body := ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[chat] error in chat endpoint: %v", err)
		}
		utils.RespondJSON(w, status, body)
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	history, err := h.chatSvc.History(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"exchanges": history,
	})
}
