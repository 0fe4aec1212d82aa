package filesystem

import "errors"

// Validation errors. Returned before any structural change is made.
var (
	// ErrInvalidName indicates an empty name or one containing the path separator.
	ErrInvalidName = errors.New("invalid name")

	// ErrNameCollision indicates a sibling already carries the requested name.
	ErrNameCollision = errors.New("an item with this name already exists")

	// ErrInvalidChildType indicates a nil or foreign [Item] implementation was
	// passed to [Folder.AddChild].
	ErrInvalidChildType = errors.New("invalid child type")
)

// Lookup errors for operations that need an existing target.
var (
	ErrNotFound       = errors.New("item not found")
	ErrParentNotFound = errors.New("parent folder not found")
	ErrNotAFolder     = errors.New("item is not a folder")
	ErrNotAFile       = errors.New("item is not a file")
)

// ErrPersistence wraps backend write failures. The in-memory mutation that
// triggered the write has already been applied when this is returned.
var ErrPersistence = errors.New("failed to persist tree")

// ErrInvalidRecords indicates a persisted record list that cannot be rebuilt into a tree.
var ErrInvalidRecords = errors.New("invalid record list")
