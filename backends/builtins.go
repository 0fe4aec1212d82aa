package backends

import (
	"context"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
)

type BuiltInBackendType = string

const (
	MemoryBackendType BuiltInBackendType = "memory"
	BoltBackendType   BuiltInBackendType = "bolt"
	SQLiteBackendType BuiltInBackendType = "sqlite"
)

// RegisterBuiltins registers all built-in backends by default
// or only the specific ones if keys are provided
func RegisterBuiltins(backends ...BuiltInBackendType) {
	registerBuiltins(defaultRegistry, backends...)
}

func registerBuiltins(r *Registry, backends ...BuiltInBackendType) {
	if len(backends) == 0 {
		backends = append(backends, MemoryBackendType, BoltBackendType, SQLiteBackendType)
	}

	for _, key := range backends {
		switch key {
		case MemoryBackendType:
			r.Register(key, func(context.Context, *config.Config) (memfs.Backend, error) {
				return NewMemory(), nil
			})
		case BoltBackendType:
			r.Register(key, func(_ context.Context, cfg *config.Config) (memfs.Backend, error) {
				return OpenBolt(cfg.StorePath)
			})
		case SQLiteBackendType:
			r.Register(key, func(ctx context.Context, cfg *config.Config) (memfs.Backend, error) {
				return OpenSQLite(ctx, cfg.StorePath)
			})
		}
	}
}
