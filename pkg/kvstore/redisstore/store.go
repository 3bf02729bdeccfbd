package redisstore

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
)

// Store implements kvstore.Store on top of a Redis client.
type Store struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

var _ kvstore.Store = (*Store)(nil)

// New wraps an established Redis client.
func New(client redis.UniversalClient, cfg Config) *Store {
	batch := cfg.ScanBatchSize
	if batch <= 0 {
		batch = 1000
	}
	return &Store{
		db:            client,
		prefix:        cfg.KeyPrefix,
		scanBatchSize: batch,
	}
}

// Open connects to Redis and returns a ready store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(client, cfg), nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", kvstore.ErrEmptyKey
	}
	val, err := s.db.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", kvstore.ErrNotFound
	}
	return val, err
}

// Set stores the value without expiration.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	return s.db.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	return s.db.Del(ctx, s.key(key)).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx).Err()
}

// Clear removes every record. Without a key prefix this is FLUSHDB and affects
// the entire Redis database; with a prefix only matching keys are deleted.
func (s *Store) Clear(ctx context.Context) error {
	if s.prefix == "" {
		return s.db.FlushDB(ctx).Err()
	}

	var cursor uint64
	for {
		batch, next, err := s.db.Scan(ctx, cursor, escapeGlob(s.prefix)+"*", s.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := s.db.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Conn returns the underlying Redis client.
func (s *Store) Conn() redis.UniversalClient {
	return s.db
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '*', '?', '[', ']':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
