package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions locates the collection that holds cache entries.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// entryStore is the persistence MongoCache needs from a collection.
type entryStore interface {
	load(ctx context.Context, key string) (mongoEntry, bool, error)
	save(ctx context.Context, e mongoEntry) error
	remove(ctx context.Context, key string) error
}

// MongoCache stores one document per entry. A TTL index on expires_at lets
// the server reap expired entries; reads also check expiry, since the
// reaper runs only periodically.
type MongoCache struct {
	store      entryStore
	now        func() time.Time
	disconnect func(context.Context) error
}

// NewMongoCache connects to MongoDB and ensures the TTL index exists.
func NewMongoCache(ctx context.Context, opts MongoOptions) (*MongoCache, error) {
	if opts.Database == "" {
		opts.Database = "quilt"
	}
	if opts.Collection == "" {
		opts.Collection = "cache"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return Retryable(backendError("mongo", "ping", err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ttl index: %w", err)
	}

	return &MongoCache{
		store:      collectionStore{coll: coll},
		now:        time.Now,
		disconnect: client.Disconnect,
	}, nil
}

func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok, err := c.store.load(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if e.ExpiresAt != nil && c.now().After(*e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		at := c.now().Add(ttl).UTC()
		e.ExpiresAt = &at
	}
	return c.store.save(ctx, e)
}

func (c *MongoCache) Delete(ctx context.Context, key string) error {
	return c.store.remove(ctx, key)
}

func (c *MongoCache) Close() error {
	if c.disconnect == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.disconnect(ctx)
}

type collectionStore struct{ coll *mongo.Collection }

func (s collectionStore) load(ctx context.Context, key string) (mongoEntry, bool, error) {
	var e mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return mongoEntry{}, false, nil
	}
	if err != nil {
		return mongoEntry{}, false, backendError("mongo", "find", err)
	}
	return e, true, nil
}

func (s collectionStore) save(ctx context.Context, e mongoEntry) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.Key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return backendError("mongo", "replace", err)
	}
	return nil
}

func (s collectionStore) remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return backendError("mongo", "delete", err)
	}
	return nil
}

var _ Cache = (*MongoCache)(nil)
