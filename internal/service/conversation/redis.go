package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
)

// RedisStore implements Store with one Redis list per user, keyed
// "{prefix}:conversation:{userID}". Entries are JSON-encoded exchanges.
type RedisStore struct {
	client    redis.UniversalClient
	prefix    string
	retention int
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Prefix    string // key prefix, default "mindwell"
	Retention int    // max exchanges kept per user, 0 = unbounded
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) *RedisStore {
	if cfg.Prefix == "" {
		cfg.Prefix = "mindwell"
	}
	if cfg.Retention < 0 {
		cfg.Retention = 0
	}
	return &RedisStore{client: client, prefix: cfg.Prefix, retention: cfg.Retention}
}

// DialRedis parses a redis:// URL and verifies the connection.
func DialRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) key(userID string) string {
	return fmt.Sprintf("%s:conversation:%s", r.prefix, userID)
}

// History reads the tail of the user's list. Missing keys read as empty.
func (r *RedisStore) History(ctx context.Context, userID string, limit int) ([]chat.Exchange, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	items, err := r.client.LRange(ctx, r.key(userID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", userID, err)
	}

	exchanges := make([]chat.Exchange, 0, len(items))
	for _, item := range items {
		var exchange chat.Exchange
		if err := json.Unmarshal([]byte(item), &exchange); err != nil {
			return nil, fmt.Errorf("decode history entry for %s: %w", userID, err)
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}

// Snapshot reads the whole list. Redis never materializes empty lists, so this
// is History without a limit.
func (r *RedisStore) Snapshot(ctx context.Context, userID string) ([]chat.Exchange, error) {
	return r.History(ctx, userID, 0)
}

// Append pushes the exchange and trims to the retention bound in one transaction.
func (r *RedisStore) Append(ctx context.Context, userID string, exchange chat.Exchange) error {
	if userID == "" {
		return ErrUserRequired
	}

	payload, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("encode exchange: %w", err)
	}

	key := r.key(userID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		if r.retention > 0 {
			pipe.LTrim(ctx, key, int64(-r.retention), -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history for %s: %w", userID, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)
