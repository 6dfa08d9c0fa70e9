package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindwell-ai/mindwell/backend/pkg/utils"
)

// Version is reported by the readiness endpoint.
const Version = "1.0.0"

// Handler serves liveness and readiness payloads.
type Handler struct {
	aiAvailable func() bool
}

// New creates a health handler. aiAvailable reports whether the upstream
// client was initialized.
func New(aiAvailable func() bool) *Handler {
	return &Handler{aiAvailable: aiAvailable}
}

// RegisterRoutes registers health routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "MindWell AI Backend is running!",
		"status":  "healthy",
		"ai":      h.upstreamState(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"groq_api": h.upstreamState(),
		"version":  Version,
	})
}

func (h *Handler) upstreamState() string {
	if h.aiAvailable != nil && h.aiAvailable() {
		return "connected"
	}
	return "disconnected"
}
