package wellness

import (
	"context"
	"sync"

	"github.com/mindwell-ai/mindwell/backend/internal/model/wellness"
)

// MemoryStore keeps records in process-local slices.
type MemoryStore struct {
	mu       sync.RWMutex
	moods    []wellness.MoodEntry
	journals []wellness.JournalEntry
	habits   []wellness.Habit
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AddMood(_ context.Context, entry wellness.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moods = append(s.moods, entry)
	return nil
}

func (s *MemoryStore) MoodHistory(_ context.Context, userID int) ([]wellness.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByUser(s.moods, userID, func(e wellness.MoodEntry) int { return e.UserID }), nil
}

func (s *MemoryStore) AddJournal(_ context.Context, entry wellness.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals = append(s.journals, entry)
	return nil
}

func (s *MemoryStore) Journal(_ context.Context, userID int) ([]wellness.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByUser(s.journals, userID, func(e wellness.JournalEntry) int { return e.UserID }), nil
}

func (s *MemoryStore) AddHabit(_ context.Context, habit wellness.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = append(s.habits, habit)
	return nil
}

func (s *MemoryStore) CompleteHabit(_ context.Context, userID int, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.habits {
		if s.habits[i].UserID == userID && s.habits[i].Habit == name {
			s.habits[i].Completed = true
			updated++
		}
	}
	return updated, nil
}

func (s *MemoryStore) Habits(_ context.Context, userID int) ([]wellness.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByUser(s.habits, userID, func(h wellness.Habit) int { return h.UserID }), nil
}

func filterByUser[T any](items []T, userID int, owner func(T) int) []T {
	out := make([]T, 0)
	for _, item := range items {
		if owner(item) == userID {
			out = append(out, item)
		}
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
