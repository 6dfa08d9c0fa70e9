package wellness

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mindwell-ai/mindwell/backend/internal/model/wellness"
)

const schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	mood       TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mood_entries_user ON mood_entries(user_id);

CREATE TABLE IF NOT EXISTS journal_entries (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	body       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_journal_entries_user ON journal_entries(user_id);

CREATE TABLE IF NOT EXISTS habits (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	name       TEXT NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_habits_user_name ON habits(user_id, name);
`

// SQLiteStore persists records in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddMood(ctx context.Context, entry wellness.MoodEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO mood_entries (id, user_id, mood, note, created_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, entry.Mood, entry.Note, entry.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("insert mood entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MoodHistory(ctx context.Context, userID int) ([]wellness.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, mood, note, created_at FROM mood_entries WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("query mood entries: %w", err)
	}
	defer rows.Close()

	entries := make([]wellness.MoodEntry, 0)
	for rows.Next() {
		var entry wellness.MoodEntry
		var created int64
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Mood, &entry.Note, &created); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		entry.Timestamp = fromUnixNano(created)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) AddJournal(ctx context.Context, entry wellness.JournalEntry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO journal_entries (id, user_id, body, created_at) VALUES (?, ?, ?, ?)",
		entry.ID, entry.UserID, entry.Text, entry.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Journal(ctx context.Context, userID int) ([]wellness.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, body, created_at FROM journal_entries WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]wellness.JournalEntry, 0)
	for rows.Next() {
		var entry wellness.JournalEntry
		var created int64
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Text, &created); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Timestamp = fromUnixNano(created)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) AddHabit(ctx context.Context, habit wellness.Habit) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO habits (id, user_id, name, completed, created_at) VALUES (?, ?, ?, ?, ?)",
		habit.ID, habit.UserID, habit.Habit, habit.Completed, habit.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CompleteHabit(ctx context.Context, userID int, name string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE habits SET completed = 1 WHERE user_id = ? AND name = ?", userID, name)
	if err != nil {
		return 0, fmt.Errorf("complete habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("complete habit: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Habits(ctx context.Context, userID int) ([]wellness.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, completed, created_at FROM habits WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := make([]wellness.Habit, 0)
	for rows.Next() {
		var habit wellness.Habit
		var created int64
		if err := rows.Scan(&habit.ID, &habit.UserID, &habit.Habit, &habit.Completed, &created); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habit.CreatedAt = fromUnixNano(created)
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return habits, nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

var _ Store = (*SQLiteStore)(nil)
