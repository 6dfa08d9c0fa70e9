package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
)

// ErrUserRequired is returned when a store operation is called without a user id.
var ErrUserRequired = errors.New("user id is required")

// Store keeps the ordered exchange history of each user.
type Store interface {
	// History returns up to limit of the most recent exchanges, oldest first.
	// A limit <= 0 returns the whole history.
	History(ctx context.Context, userID string, limit int) ([]chat.Exchange, error)
	// Snapshot returns the whole history without registering unknown users.
	Snapshot(ctx context.Context, userID string) ([]chat.Exchange, error)
	// Append adds an exchange to the end of the user's history.
	Append(ctx context.Context, userID string, exchange chat.Exchange) error
}

// MemoryStore implements Store with a process-local map. Data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]chat.Exchange
	retention int
}

// NewMemoryStore creates an empty store. A positive retention keeps only the
// newest exchanges per user; zero keeps everything.
func NewMemoryStore(retention int) *MemoryStore {
	if retention < 0 {
		retention = 0
	}
	return &MemoryStore{
		histories: make(map[string][]chat.Exchange),
		retention: retention,
	}
}

// History returns a copy of the tail of the user's history, creating an empty
// entry on first access.
func (s *MemoryStore) History(_ context.Context, userID string, limit int) ([]chat.Exchange, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exchanges, ok := s.histories[userID]
	if !ok {
		s.histories[userID] = make([]chat.Exchange, 0, 8)
		return []chat.Exchange{}, nil
	}

	return copyTail(exchanges, limit), nil
}

// Snapshot returns a copy of the user's whole history. Unknown users read as
// empty and are not added to the map.
func (s *MemoryStore) Snapshot(_ context.Context, userID string) ([]chat.Exchange, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTail(s.histories[userID], 0), nil
}

// Append adds exchange to the user's history.
func (s *MemoryStore) Append(_ context.Context, userID string, exchange chat.Exchange) error {
	if userID == "" {
		return ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exchanges := append(s.histories[userID], exchange)
	if s.retention > 0 && len(exchanges) > s.retention {
		exchanges = append([]chat.Exchange(nil), exchanges[len(exchanges)-s.retention:]...)
	}
	s.histories[userID] = exchanges
	return nil
}

// Users returns the number of users with a history entry.
func (s *MemoryStore) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories)
}

func copyTail(exchanges []chat.Exchange, limit int) []chat.Exchange {
	start := 0
	if limit > 0 && len(exchanges) > limit {
		start = len(exchanges) - limit
	}

	copied := make([]chat.Exchange, len(exchanges)-start)
	copy(copied, exchanges[start:])
	return copied
}

var _ Store = (*MemoryStore)(nil)
