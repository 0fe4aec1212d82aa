// Package history implements a cursor based back/forward log of visited item ids.
//
// The log never dereferences ids. When the tree deletes an item the log may
// still point at it; callers detect such stale entries on navigation and drop
// them with [History.DeleteCurrent].
package history

import "errors"

var (
	// ErrNoBack is returned by [History.Back] when the cursor is at the oldest entry
	ErrNoBack = errors.New("no previous entry in history")
	// ErrNoForward is returned by [History.Forward] when the cursor is at the newest entry
	ErrNoForward = errors.New("no next entry in history")
)

// History is an ordered visit log plus a cursor into it.
// While the log is non-empty 0 <= cursor < len(visits) holds.
type History struct {
	visits []int
	cursor int
	limit  int // max entries kept; 0 = unbounded
}

// New creates an empty history keeping at most limit entries; limit <= 0 means unbounded
func New(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Add records a visit to id. Visiting the current entry again is a no-op;
// otherwise every entry after the cursor is discarded.
// When the limit is exceeded the oldest entries are dropped.
func (h *History) Add(id int) {
	if cur, ok := h.Current(); ok && cur == id {
		return
	}
	if len(h.visits) > 0 {
		h.visits = h.visits[:h.cursor+1]
	}
	h.visits = append(h.visits, id)
	if h.limit > 0 && len(h.visits) > h.limit {
		h.visits = append(h.visits[:0], h.visits[len(h.visits)-h.limit:]...)
	}
	h.cursor = len(h.visits) - 1
}

func (h *History) HasBack() bool {
	return h.cursor > 0
}

func (h *History) HasForward() bool {
	return h.cursor < len(h.visits)-1
}

// Back moves the cursor one entry back and returns the id there
func (h *History) Back() (int, error) {
	if !h.HasBack() {
		return 0, ErrNoBack
	}
	h.cursor--
	return h.visits[h.cursor], nil
}

// Forward moves the cursor one entry forward and returns the id there
func (h *History) Forward() (int, error) {
	if !h.HasForward() {
		return 0, ErrNoForward
	}
	h.cursor++
	return h.visits[h.cursor], nil
}

// Current returns the id at the cursor; ok is false for an empty log
func (h *History) Current() (id int, ok bool) {
	if len(h.visits) == 0 {
		return 0, false
	}
	return h.visits[h.cursor], true
}

// Previous returns the id just before the cursor; ok is false at the oldest entry
func (h *History) Previous() (id int, ok bool) {
	if h.cursor == 0 {
		return 0, false
	}
	return h.visits[h.cursor-1], true
}

// DeleteCurrent removes the entry at the cursor. With goesBack the cursor
// lands on the entry before it; otherwise it stays at the same index, which
// now holds the entry that followed.
// The cursor is clamped so it stays inside a non-empty log.
func (h *History) DeleteCurrent(goesBack bool) {
	if len(h.visits) == 0 {
		return
	}
	h.visits = append(h.visits[:h.cursor], h.visits[h.cursor+1:]...)
	if goesBack {
		h.cursor--
	}
	h.cursor = max(0, min(h.cursor, len(h.visits)-1))
}

// Cursor returns the index of the current entry
func (h *History) Cursor() int {
	return h.cursor
}

// Len returns the number of entries in the log
func (h *History) Len() int {
	return len(h.visits)
}

// Entries returns a copy of the log and the cursor position
func (h *History) Entries() (visits []int, cursor int) {
	visits = make([]int, len(h.visits))
	copy(visits, h.visits)
	return visits, h.cursor
}
