package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHistory builds an unbounded history by visiting ids in order
func newHistory(ids ...int) *History {
	h := New(0)
	for _, id := range ids {
		h.Add(id)
	}
	return h
}

func assertState(t *testing.T, h *History, visits []int, cursor int) {
	t.Helper()
	gotVisits, gotCursor := h.Entries()
	assert.Equal(t, visits, gotVisits, "visits")
	assert.Equal(t, cursor, gotCursor, "cursor")
}

func TestHistory_Empty(t *testing.T) {
	t.Parallel()

	h := New(0)

	_, ok := h.Current()
	assert.False(t, ok)
	_, ok = h.Previous()
	assert.False(t, ok)
	assert.False(t, h.HasBack())
	assert.False(t, h.HasForward())
	assert.Equal(t, 0, h.Len())

	_, err := h.Back()
	assert.ErrorIs(t, err, ErrNoBack)
	_, err = h.Forward()
	assert.ErrorIs(t, err, ErrNoForward)

	h.DeleteCurrent(true)
	assert.Equal(t, 0, h.Len())
}

func TestHistory_Add(t *testing.T) {
	t.Parallel()

	t.Run("first entry", func(t *testing.T) {
		t.Parallel()
		h := newHistory(5)
		assertState(t, h, []int{5}, 0)
		cur, ok := h.Current()
		require.True(t, ok)
		assert.Equal(t, 5, cur)
	})

	t.Run("same as current is a no-op", func(t *testing.T) {
		t.Parallel()
		h := newHistory(5, 7, 7)
		assertState(t, h, []int{5, 7}, 1)
	})

	t.Run("revisit of non-current entry is appended", func(t *testing.T) {
		t.Parallel()
		h := newHistory(5, 7, 5)
		assertState(t, h, []int{5, 7, 5}, 2)
	})
}

// TestHistory_BackThenVisitDiscardsForward walks the [5] -> [5,7] -> back -> [5,9] sequence
func TestHistory_BackThenVisitDiscardsForward(t *testing.T) {
	t.Parallel()

	h := newHistory(5)
	assertState(t, h, []int{5}, 0)

	h.Add(7)
	assertState(t, h, []int{5, 7}, 1)

	id, err := h.Back()
	require.NoError(t, err)
	assert.Equal(t, 5, id)
	assertState(t, h, []int{5, 7}, 0)
	assert.True(t, h.HasForward())

	h.Add(9)
	assertState(t, h, []int{5, 9}, 1)
	assert.False(t, h.HasForward())
}

func TestHistory_BackForward(t *testing.T) {
	t.Parallel()

	h := newHistory(1, 2, 3)
	assert.True(t, h.HasBack())
	assert.False(t, h.HasForward())

	id, err := h.Back()
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	id, err = h.Back()
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.False(t, h.HasBack())

	_, err = h.Back()
	assert.ErrorIs(t, err, ErrNoBack)
	assertState(t, h, []int{1, 2, 3}, 0)

	id, err = h.Forward()
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	id, err = h.Forward()
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = h.Forward()
	assert.ErrorIs(t, err, ErrNoForward)
	assertState(t, h, []int{1, 2, 3}, 2)
}

func TestHistory_Previous(t *testing.T) {
	t.Parallel()

	h := newHistory(4, 8)
	prev, ok := h.Previous()
	require.True(t, ok)
	assert.Equal(t, 4, prev)

	_, err := h.Back()
	require.NoError(t, err)
	_, ok = h.Previous()
	assert.False(t, ok)
}

func TestHistory_DeleteCurrent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		visits     []int
		backSteps  int
		goesBack   bool
		wantVisits []int
		wantCursor int
	}{
		{"goes back from last", []int{5, 7, 9}, 0, true, []int{5, 7}, 1},
		{"goes back from middle", []int{5, 7, 9}, 1, true, []int{5, 9}, 0},
		{"goes back from first clamps", []int{5, 7, 9}, 2, true, []int{7, 9}, 0},
		{"forward from middle takes following", []int{5, 7, 9}, 1, false, []int{5, 9}, 1},
		{"forward from first", []int{5, 7, 9}, 2, false, []int{7, 9}, 0},
		{"forward from last clamps", []int{5, 7, 9}, 0, false, []int{5, 7}, 1},
		{"only entry", []int{5}, 0, true, []int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHistory(tt.visits...)
			for range tt.backSteps {
				_, err := h.Back()
				require.NoError(t, err)
			}

			h.DeleteCurrent(tt.goesBack)

			assertState(t, h, tt.wantVisits, tt.wantCursor)
		})
	}
}

func TestHistory_Limit(t *testing.T) {
	t.Parallel()

	h := New(3)
	for _, id := range []int{1, 2, 3, 4, 5} {
		h.Add(id)
	}
	assertState(t, h, []int{3, 4, 5}, 2)

	id, err := h.Back()
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	h.Add(6)
	assertState(t, h, []int{3, 4, 6}, 2)
}

func TestHistory_NegativeLimitIsUnbounded(t *testing.T) {
	t.Parallel()

	h := New(-1)
	for i := range 500 {
		h.Add(i)
	}
	assert.Equal(t, 500, h.Len())
}
