package backends

import (
	"bytes"
	"context"

	"github.com/brettbedarf/memfs"
	"github.com/puzpuzpuz/xsync/v4"
)

// Memory keeps values in process memory; nothing survives a restart
type Memory struct {
	data *xsync.Map[string, []byte]
}

func NewMemory() *Memory {
	return &Memory{data: xsync.NewMap[string, []byte]()}
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := m.data.Load(key)
	if !ok {
		return nil, memfs.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Store(key, bytes.Clone(data))
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ memfs.Backend = (*Memory)(nil)
