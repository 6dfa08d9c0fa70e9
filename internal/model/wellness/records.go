package wellness

import "time"

// MoodEntry is a single self-reported mood check-in.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// JournalEntry is free-form journal text.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Habit tracks whether a named habit has been completed.
type Habit struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Habit     string    `json:"habit"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
