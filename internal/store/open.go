package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string
	Redis   RedisOptions
}

// Open returns the configured backend. An empty backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(opts.Path)
	case BackendSQLite:
		return OpenSQLite(opts.Path)
	case BackendRedis:
		return NewRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
