// Package session ties a persisted tree and a navigation history together for
// a single interactive consumer.
package session

import (
	"context"
	"fmt"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/backends"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/history"
	"github.com/brettbedarf/memfs/internal/util"
)

// Session contains the tree and the visit history of one consumer.
// Tree operations are available directly through the embedded FileSystem.
type Session struct {
	*filesystem.FileSystem
	cfg     *config.Config
	backend memfs.Backend
	history *history.History
}

// New opens the configured backend and builds a session from it.
// The built-in backends must have been registered with [backends.RegisterBuiltins].
func New(ctx context.Context, cfg *config.Config) (*Session, error) {
	backend, err := backends.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	return NewWithBackend(ctx, cfg, backend), nil
}

// NewWithBackend builds a session over an already opened backend. The root is
// recorded as the first visit.
func NewWithBackend(ctx context.Context, cfg *config.Config, backend memfs.Backend) *Session {
	s := &Session{
		FileSystem: filesystem.NewFS(ctx, backend, cfg.StoreKey),
		cfg:        cfg,
		backend:    backend,
		history:    history.New(cfg.HistoryLimit),
	}
	s.history.Add(s.Root().ID())
	return s
}

// History exposes the underlying visit log
func (s *Session) History() *history.History {
	return s.history
}

// Visit records a visit to id and returns the item
func (s *Session) Visit(id int) (filesystem.Item, error) {
	it := s.GetItemByID(id)
	if it == nil {
		return nil, fmt.Errorf("%w: %d", filesystem.ErrNotFound, id)
	}
	s.history.Add(id)
	return it, nil
}

// VisitPath resolves path and records a visit to it
func (s *Session) VisitPath(path string) (filesystem.Item, error) {
	it := s.GetItemByPath(path)
	if it == nil {
		return nil, fmt.Errorf("%w: %q", filesystem.ErrNotFound, path)
	}
	s.history.Add(it.ID())
	return it, nil
}

// Current returns the item at the history cursor. Falls back to the root when
// the history is empty or the current entry has been deleted.
func (s *Session) Current() filesystem.Item {
	if id, ok := s.history.Current(); ok {
		if it := s.GetItemByID(id); it != nil {
			return it
		}
	}
	return s.Root()
}

// Back steps back through the history, dropping entries whose item has been
// deleted, until a live item is reached.
// Returns [history.ErrNoBack] once the history is exhausted.
func (s *Session) Back() (filesystem.Item, error) {
	return s.step(true)
}

// Forward is the mirror of [Session.Back]; see there.
func (s *Session) Forward() (filesystem.Item, error) {
	return s.step(false)
}

func (s *Session) step(goesBack bool) (filesystem.Item, error) {
	logger := util.GetLogger("Session.step")

	move, exhausted := s.history.Forward, history.ErrNoForward
	if goesBack {
		move, exhausted = s.history.Back, history.ErrNoBack
	}
	id, err := move()
	if err != nil {
		return nil, err
	}
	for {
		if it := s.GetItemByID(id); it != nil {
			return it, nil
		}
		logger.Warn().Int("id", id).Bool("goesBack", goesBack).Msg("Skipping deleted item in history")

		// after the delete the cursor rests on the next entry in the direction
		// of travel, unless the stale entry was the last one that way
		idx := s.history.Cursor()
		s.history.DeleteCurrent(goesBack)
		if (goesBack && idx == 0) || (!goesBack && idx == s.history.Len()) {
			return nil, exhausted
		}
		id, _ = s.history.Current()
	}
}

// Delete removes id from the tree. When that leaves the history pointing at a
// deleted item the session steps back, or lands on the deleted item's parent
// when there is nothing to step back to.
//
// The returned item is what the consumer should display next; it is set even
// when a persistence error is returned.
func (s *Session) Delete(ctx context.Context, id int) (filesystem.Item, error) {
	parent := s.ParentOf(id)
	err := s.DeleteItem(ctx, id)

	if cur, ok := s.history.Current(); ok && s.GetItemByID(cur) == nil {
		if _, backErr := s.Back(); backErr != nil {
			if cur, ok := s.history.Current(); ok && s.GetItemByID(cur) == nil {
				s.history.DeleteCurrent(true)
			}
			landing := filesystem.Item(s.Root())
			if parent != nil {
				landing = parent
			}
			s.history.Add(landing.ID())
		}
	}
	return s.Current(), err
}

// CancelEdit abandons the view of the current item and returns to the item
// visited before it, recording that as a new visit. Stays put when there is no
// live previous item.
func (s *Session) CancelEdit() filesystem.Item {
	if prev, ok := s.history.Previous(); ok {
		if it := s.GetItemByID(prev); it != nil {
			s.history.Add(prev)
			return it
		}
	}
	return s.Current()
}

// Close releases the backend
func (s *Session) Close() error {
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close %s backend: %w", s.cfg.Backend, err)
	}
	return nil
}
