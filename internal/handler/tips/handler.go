package tips

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mindwell-ai/mindwell/backend/internal/model/tips"
	"github.com/mindwell-ai/mindwell/backend/pkg/utils"
)

// Handler serves the mood tips lookup.
type Handler struct {
	tips tips.Store
}

// New creates a tips handler.
func New(store tips.Store) *Handler {
	return &Handler{tips: store}
}

// RegisterRoutes registers tips routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/mood-tips/{moodLevel}", h.handleMoodTips)
}

func (h *Handler) handleMoodTips(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "moodLevel"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "mood_level must be an integer")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"mood_level": level,
		"tips":       h.tips.For(level),
	})
}
