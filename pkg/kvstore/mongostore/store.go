package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/wavesync/pkg/kvstore"
)

type record struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Store implements kvstore.Store with one document per record.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ kvstore.Store = (*Store)(nil)

// New wraps an established client.
func New(client *mongo.Client, cfg Config) *Store {
	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}
}

// Open connects to MongoDB and returns a ready store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(client, cfg), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", kvstore.ErrEmptyKey
	}
	var rec record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", kvstore.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		record{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kvstore.ErrEmptyKey
	}
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.D{})
	return err
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
