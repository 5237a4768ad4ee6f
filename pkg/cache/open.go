package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string `toml:"backend"`

	// Dir is the FileCache directory.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Open builds the backend described by cfg. An empty backend means a file
// cache when Dir is set and no cache otherwise.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendNone
		if cfg.Dir != "" {
			backend = BackendFile
		}
	}

	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: dir is required")
		}
		return asCache(NewFileCache(cfg.Dir))
	case BackendRedis:
		if cfg.RedisAddr == "" {
			cfg.RedisAddr = "localhost:6379"
		}
		return asCache(NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}))
	case BackendMongo:
		if cfg.MongoURI == "" {
			cfg.MongoURI = "mongodb://localhost:27017"
		}
		return asCache(NewMongoCache(ctx, MongoOptions{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection}))
	}
	return nil, fmt.Errorf("%w: %q (want none, file, redis or mongo)", ErrUnknownBackend, cfg.Backend)
}

// asCache keeps a failed constructor from yielding a non-nil Cache that
// holds a nil pointer.
func asCache[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
