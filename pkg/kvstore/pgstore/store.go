package pgstore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
)

const (
	getQuery    = `SELECT value FROM kv_records WHERE key = $1`
	setQuery    = `INSERT INTO kv_records (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteQuery = `DELETE FROM kv_records WHERE key = $1`
	clearQuery  = `TRUNCATE kv_records`
)

// Store implements kvstore.Store on a single PostgreSQL table.
type Store struct {
	pool *pgxpool.Pool
}

var _ kvstore.Store = (*Store)(nil)

// New wraps an established pool. The kv_records table must exist; see Migrate.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects, applies migrations and returns a ready store.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool, cfg, log); err != nil {
		pool.Close()
		return nil, err
	}
	return New(pool), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", kvstore.ErrEmptyKey
	}
	var value string
	err := s.pool.QueryRow(ctx, getQuery, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", kvstore.ErrNotFound
	}
	return value, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	_, err := s.pool.Exec(ctx, setQuery, key, value)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	_, err := s.pool.Exec(ctx, deleteQuery, key)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, clearQuery)
	return err
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
