package indexer

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// FingerprintStore persists the URL -> fingerprint map between runs. Apply
// must be atomic: a crash mid-run may lose the current batch but never the
// previously recorded history.
type FingerprintStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Apply(ctx context.Context, set map[string]string, remove []string) error
}

// RedisFingerprintStore keeps the fingerprint map in one redis hash. Each
// Apply runs as a single MULTI/EXEC transaction.
type RedisFingerprintStore struct {
	rdb *redis.Client
	key string
}

// NewRedisFingerprintStore builds a store over the given hash key.
func NewRedisFingerprintStore(rdb *redis.Client, key string) *RedisFingerprintStore {
	if key == "" {
		key = "indexer:fingerprints"
	}
	return &RedisFingerprintStore{rdb: rdb, key: key}
}

// Load reads the full fingerprint map.
func (s *RedisFingerprintStore) Load(ctx context.Context) (map[string]string, error) {
	m, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprints: %w", err)
	}
	return m, nil
}

// Apply writes updated fingerprints and removes stale ones atomically.
func (s *RedisFingerprintStore) Apply(ctx context.Context, set map[string]string, remove []string) error {
	if len(set) == 0 && len(remove) == 0 {
		return nil
	}

	pipe := s.rdb.TxPipeline()
	if len(set) > 0 {
		flat := make([]interface{}, 0, len(set)*2)
		for url, fp := range set {
			flat = append(flat, url, fp)
		}
		pipe.HSet(ctx, s.key, flat...)
	}
	if len(remove) > 0 {
		pipe.HDel(ctx, s.key, remove...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to apply fingerprints: %w", err)
	}
	return nil
}
