package wellness

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindwell-ai/mindwell/backend/internal/analysis/anxiety"
	"github.com/mindwell-ai/mindwell/backend/internal/model/wellness"
)

var ErrHabitRequired = errors.New("habit name is required")

// Store persists wellness records. Reads return records in insertion order.
type Store interface {
	AddMood(ctx context.Context, entry wellness.MoodEntry) error
	MoodHistory(ctx context.Context, userID int) ([]wellness.MoodEntry, error)
	AddJournal(ctx context.Context, entry wellness.JournalEntry) error
	Journal(ctx context.Context, userID int) ([]wellness.JournalEntry, error)
	AddHabit(ctx context.Context, habit wellness.Habit) error
	CompleteHabit(ctx context.Context, userID int, habit string) (int, error)
	Habits(ctx context.Context, userID int) ([]wellness.Habit, error)
}

// Service stamps and stores mood, journal and habit records.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wraps a record store.
func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// AddMood records a mood check-in.
func (s *Service) AddMood(ctx context.Context, userID int, mood, note string) (wellness.MoodEntry, error) {
	entry := wellness.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      mood,
		Note:      note,
		Timestamp: s.now(),
	}
	if err := s.store.AddMood(ctx, entry); err != nil {
		return wellness.MoodEntry{}, err
	}
	return entry, nil
}

// MoodHistory lists a user's mood entries.
func (s *Service) MoodHistory(ctx context.Context, userID int) ([]wellness.MoodEntry, error) {
	return s.store.MoodHistory(ctx, userID)
}

// AddJournal records a journal entry.
func (s *Service) AddJournal(ctx context.Context, userID int, text string) (wellness.JournalEntry, error) {
	entry := wellness.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Timestamp: s.now(),
	}
	if err := s.store.AddJournal(ctx, entry); err != nil {
		return wellness.JournalEntry{}, err
	}
	return entry, nil
}

// Journal lists a user's journal entries.
func (s *Service) Journal(ctx context.Context, userID int) ([]wellness.JournalEntry, error) {
	return s.store.Journal(ctx, userID)
}

// AddHabit starts tracking a habit.
func (s *Service) AddHabit(ctx context.Context, userID int, name string, completed bool) (wellness.Habit, error) {
	if strings.TrimSpace(name) == "" {
		return wellness.Habit{}, ErrHabitRequired
	}

	habit := wellness.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Habit:     name,
		Completed: completed,
		CreatedAt: s.now(),
	}
	if err := s.store.AddHabit(ctx, habit); err != nil {
		return wellness.Habit{}, err
	}
	return habit, nil
}

// CompleteHabit marks every habit of the user with the given name as completed
// and returns how many were updated. No match is not an error.
func (s *Service) CompleteHabit(ctx context.Context, userID int, name string) (int, error) {
	return s.store.CompleteHabit(ctx, userID, name)
}

// Habits lists a user's habits.
func (s *Service) Habits(ctx context.Context, userID int) ([]wellness.Habit, error) {
	return s.store.Habits(ctx, userID)
}

// AnxietyTest scores a questionnaire. Results are not stored.
func (s *Service) AnxietyTest(_ context.Context, _ int, answers []int) anxiety.Result {
	return anxiety.Evaluate(answers)
}
