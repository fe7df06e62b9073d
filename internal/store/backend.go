// Package store owns the habit collection and persists it as one JSON blob
// through a pluggable key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/habits/internal/config"
)

// ErrUnknownBackend is returned by OpenBackend for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend reads and overwrites a single serialized value. Read returns
// (nil, nil) when nothing has been stored yet.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// stampedBackend is implemented by backends that track when the value was
// last written.
type stampedBackend interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}

// Backends lists the names accepted by OpenBackend.
var Backends = []string{"file", "sqlite", "redis", "memory"}

// OpenBackend opens the backend selected by cfg.Storage.Backend.
func OpenBackend(ctx context.Context, cfg config.Config) (Backend, error) {
	key := cfg.Storage.Key
	if key == "" {
		key = config.DefaultKey
	}

	switch strings.ToLower(cfg.Storage.Backend) {
	case "", "file":
		return NewFileBackend(cfg.StoragePath()), nil
	case "sqlite":
		return OpenSQLite(cfg.StoragePath(), key)
	case "redis":
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      key,
		})
	case "memory":
		return NewMemoryBackend(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBackend, cfg.Storage.Backend, strings.Join(Backends, ", "))
	}
}
