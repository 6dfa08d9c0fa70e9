package wellness

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	wellnessService "github.com/mindwell-ai/mindwell/backend/internal/service/wellness"
	"github.com/mindwell-ai/mindwell/backend/pkg/utils"
)

// Handler serves mood, journal, anxiety and habit endpoints.
type Handler struct {
	svc *wellnessService.Service
}

// New creates a wellness handler.
func New(svc *wellnessService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers wellness routes at the router root.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mood/add", h.handleAddMood)
	r.Get("/mood/history/{userID}", h.handleMoodHistory)

	r.Post("/journal/add", h.handleAddJournal)
	r.Get("/journal/{userID}", h.handleJournal)

	r.Post("/anxiety_test", h.handleAnxietyTest)

	r.Post("/habit/add", h.handleAddHabit)
	r.Post("/habit/complete", h.handleCompleteHabit)
	r.Get("/habit/{userID}", h.handleHabits)
}

type moodRequest struct {
	UserID *int    `json:"user_id"`
	Mood   *string `json:"mood"`
	Note   string  `json:"note"`
}

type journalRequest struct {
	UserID *int    `json:"user_id"`
	Text   *string `json:"text"`
}

type anxietyRequest struct {
	UserID  *int  `json:"user_id"`
	Answers []int `json:"answers"`
}

type habitRequest struct {
	UserID    *int    `json:"user_id"`
	Habit     *string `json:"habit"`
	Completed bool    `json:"completed"`
}

type savedResponse struct {
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func (h *Handler) handleAddMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == nil || req.Mood == nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id and mood are required")
		return
	}

	entry, err := h.svc.AddMood(r.Context(), *req.UserID, *req.Mood, req.Note)
	if err != nil {
		respondStoreError(w, "save mood", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, savedResponse{Msg: "Mood saved!", Data: entry})
}

func (h *Handler) handleMoodHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.MoodHistory(r.Context(), userID)
	if err != nil {
		respondStoreError(w, "load mood history", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleAddJournal(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == nil || req.Text == nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id and text are required")
		return
	}

	entry, err := h.svc.AddJournal(r.Context(), *req.UserID, *req.Text)
	if err != nil {
		respondStoreError(w, "save journal entry", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, savedResponse{Msg: "Journal saved", Data: entry})
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.Journal(r.Context(), userID)
	if err != nil {
		respondStoreError(w, "load journal", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleAnxietyTest(w http.ResponseWriter, r *http.Request) {
	var req anxietyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == nil || req.Answers == nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id and answers are required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.svc.AnxietyTest(r.Context(), *req.UserID, req.Answers))
}

func (h *Handler) handleAddHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == nil || req.Habit == nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id and habit are required")
		return
	}

	habit, err := h.svc.AddHabit(r.Context(), *req.UserID, *req.Habit, req.Completed)
	if err != nil {
		if errors.Is(err, wellnessService.ErrHabitRequired) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondStoreError(w, "save habit", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, savedResponse{Msg: "Habit added", Data: habit})
}

func (h *Handler) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, err := strconv.Atoi(query.Get("user_id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id query parameter must be an integer")
		return
	}
	name := query.Get("habit")
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "habit query parameter is required")
		return
	}

	updated, err := h.svc.CompleteHabit(r.Context(), userID, name)
	if err != nil {
		respondStoreError(w, "update habit", err)
		return
	}
	if updated == 0 {
		log.Printf("[wellness] complete habit: no habit %q for user=%d", name, userID)
	}
	utils.RespondJSON(w, http.StatusOK, savedResponse{Msg: "Habit updated!"})
}

func (h *Handler) handleHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	habits, err := h.svc.Habits(r.Context(), userID)
	if err != nil {
		respondStoreError(w, "load habits", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, habits)
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id must be an integer")
		return 0, false
	}
	return userID, true
}

func respondStoreError(w http.ResponseWriter, op string, err error) {
	log.Printf("[wellness] %s failed: %v", op, err)
	utils.RespondError(w, http.StatusInternalServerError, "failed to "+op)
}
