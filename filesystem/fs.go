package filesystem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/internal/util"
)

const (
	// RootID is the id of the root folder
	RootID = 0
	// RootName is the name a fresh root folder is created with
	RootName = "root"
	// Separator delimits names in a path
	Separator = "/"

	DefaultFolderName = "new folder"
	DefaultFileName   = "new file.txt"
)

// FileSystem owns the folder/file tree and writes it through a [memfs.Backend]
// after every successful mutation.
//
// NOTE: not safe for concurrent use; a single caller drives it.
type FileSystem struct {
	backend     memfs.Backend
	key         string
	root        *Folder
	lastAddedID int // Highest id handed out so far; ids are never reused
}

// NewFS builds the tree from whatever is persisted at key. Any load or decode
// failure falls back to a fresh tree holding only the root.
func NewFS(ctx context.Context, backend memfs.Backend, key string) *FileSystem {
	logger := util.GetLogger("NewFS")

	fs := &FileSystem{backend: backend, key: key}
	if err := fs.load(ctx); err != nil {
		if errors.Is(err, memfs.ErrKeyNotFound) {
			logger.Info().Str("key", key).Msg("No persisted tree found, starting fresh")
		} else {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to load persisted tree, starting fresh")
		}
		fs.reset()
	}
	return fs
}

func (fs *FileSystem) load(ctx context.Context) error {
	data, err := fs.backend.Load(ctx, fs.key)
	if err != nil {
		return err
	}
	root, maxID, err := Decode(data)
	if err != nil {
		return err
	}
	fs.root = root
	fs.lastAddedID = maxID
	util.GetLogger("FS.load").Debug().Int("lastAddedID", maxID).Msg("Loaded persisted tree")
	return nil
}

func (fs *FileSystem) reset() {
	fs.root = NewFolder(RootID, RootName)
	fs.lastAddedID = RootID
}

// Root returns the root folder
func (fs *FileSystem) Root() *Folder {
	return fs.root
}

// LastAddedID returns the highest id allocated so far
func (fs *FileSystem) LastAddedID() int {
	return fs.lastAddedID
}

// AddFolder creates a folder under parentID. An empty name picks the first free
// "new folder", "new folder(1)", ... name.
//
// On [ErrPersistence] the folder has still been added and is returned.
func (fs *FileSystem) AddFolder(ctx context.Context, name string, parentID int) (*Folder, error) {
	parent, name, err := fs.prepareAdd(name, parentID, DefaultFolderName)
	if err != nil {
		return nil, err
	}
	folder := NewFolder(fs.nextID(), name)
	if err := parent.AddChild(folder); err != nil {
		return nil, err
	}
	util.GetLogger("AddFolder").Debug().Int("id", folder.ID()).Int("parentID", parentID).Str("name", name).Msg("Added folder")
	return folder, fs.persist(ctx)
}

// AddFile creates a file under parentID. An empty name picks the first free
// "new file.txt", "new file.txt(1)", ... name. A nil content leaves the file
// without content.
//
// On [ErrPersistence] the file has still been added and is returned.
func (fs *FileSystem) AddFile(ctx context.Context, name string, parentID int, content *string) (*File, error) {
	parent, name, err := fs.prepareAdd(name, parentID, DefaultFileName)
	if err != nil {
		return nil, err
	}
	file := NewFile(fs.nextID(), name, content)
	if err := parent.AddChild(file); err != nil {
		return nil, err
	}
	util.GetLogger("AddFile").Debug().Int("id", file.ID()).Int("parentID", parentID).Str("name", name).Msg("Added file")
	return file, fs.persist(ctx)
}

// prepareAdd validates an add request and resolves the parent and final name
func (fs *FileSystem) prepareAdd(name string, parentID int, defaultName string) (*Folder, string, error) {
	it := fs.GetItemByID(parentID)
	if it == nil {
		return nil, "", fmt.Errorf("%w: %d", ErrParentNotFound, parentID)
	}
	parent, ok := it.(*Folder)
	if !ok {
		return nil, "", fmt.Errorf("%w: %d", ErrNotAFolder, parentID)
	}

	if name == "" {
		return parent, uniqueName(parent, defaultName), nil
	}
	if err := validateName(name); err != nil {
		return nil, "", err
	}
	if parent.FindChildByName(name) != nil {
		return nil, "", fmt.Errorf("%w: %q", ErrNameCollision, name)
	}
	return parent, name, nil
}

func (fs *FileSystem) nextID() int {
	fs.lastAddedID++
	return fs.lastAddedID
}

// uniqueName returns base, or base with the smallest "(n)" suffix free in parent
func uniqueName(parent *Folder, base string) string {
	name := base
	for n := 1; parent.FindChildByName(name) != nil; n++ {
		name = fmt.Sprintf("%s(%d)", base, n)
	}
	return name
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.Contains(name, Separator) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, Separator)
	}
	return nil
}

// RenameItem renames the item with id. The root has no siblings and is renamed
// without a collision check.
func (fs *FileSystem) RenameItem(ctx context.Context, id int, newName string) error {
	logger := util.GetLogger("RenameItem")

	if err := validateName(newName); err != nil {
		return err
	}
	if id == RootID {
		fs.root.Rename(newName)
	} else {
		parent := fs.ParentOf(id)
		if parent == nil {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		if err := parent.RenameChild(newName, id); err != nil {
			logger.Debug().Err(err).Int("id", id).Str("name", newName).Msg("Rename rejected")
			return fmt.Errorf("%w: %q", err, newName)
		}
	}
	logger.Debug().Int("id", id).Str("name", newName).Msg("Renamed item")
	return fs.persist(ctx)
}

// SetFileContent replaces the content of the file with id
func (fs *FileSystem) SetFileContent(ctx context.Context, id int, content string) error {
	it := fs.GetItemByID(id)
	if it == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	file, ok := it.(*File)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotAFile, id)
	}
	file.SetContent(content)
	return fs.persist(ctx)
}

// DeleteItem removes the item with id and its whole subtree.
// Deleting the root or an unknown id is a no-op.
func (fs *FileSystem) DeleteItem(ctx context.Context, id int) error {
	parent := fs.ParentOf(id)
	if parent == nil {
		util.GetLogger("DeleteItem").Debug().Int("id", id).Msg("Nothing to delete")
		return nil
	}
	parent.DeleteChild(id)
	util.GetLogger("DeleteItem").Debug().Int("id", id).Int("parentID", parent.ID()).Msg("Deleted item")
	return fs.persist(ctx)
}

// GetItem resolves param the way path bar style callers expect:
// nil is the root, an int is an id and a string is a path.
// Any other type, or a miss, returns nil.
func (fs *FileSystem) GetItem(param any) Item {
	switch p := param.(type) {
	case nil:
		return fs.root
	case int:
		return fs.GetItemByID(p)
	case string:
		return fs.GetItemByPath(p)
	default:
		return nil
	}
}

// GetItemByID searches the tree depth-first, parents before children.
// Returns nil when no item has id.
func (fs *FileSystem) GetItemByID(id int) Item {
	trail := fs.trail(id)
	if trail == nil {
		return nil
	}
	return trail[len(trail)-1]
}

// GetItemByPath resolves a "root/a/b" path by exact name match segment by
// segment. A single trailing separator is ignored. Returns nil on any miss.
func (fs *FileSystem) GetItemByPath(path string) Item {
	segments := strings.Split(path, Separator)
	if len(segments) > 1 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	if segments[0] != fs.root.Name() {
		return nil
	}

	var cur Item = fs.root
	for _, name := range segments[1:] {
		folder, ok := cur.(*Folder)
		if !ok {
			return nil
		}
		if cur = folder.FindChildByName(name); cur == nil {
			return nil
		}
	}
	return cur
}

// GetPath returns the "root/a/b" path of the item with id.
// ok is false when id does not exist.
func (fs *FileSystem) GetPath(id int) (path string, ok bool) {
	trail := fs.trail(id)
	if trail == nil {
		return "", false
	}
	var b strings.Builder
	for _, it := range trail {
		b.WriteString(Separator)
		b.WriteString(it.Name())
	}
	return strings.TrimPrefix(b.String(), Separator), true
}

// ParentOf returns the folder directly containing id, or nil for the root and
// unknown ids
func (fs *FileSystem) ParentOf(id int) *Folder {
	trail := fs.trail(id)
	if len(trail) < 2 {
		return nil
	}
	return trail[len(trail)-2].(*Folder)
}

// trail returns the chain of items from the root down to id, or nil
func (fs *FileSystem) trail(id int) []Item {
	var walk func(folder *Folder, trail []Item) []Item
	walk = func(folder *Folder, trail []Item) []Item {
		trail = append(trail, folder)
		if folder.ID() == id {
			return trail
		}
		for _, child := range folder.children {
			if sub, ok := child.(*Folder); ok {
				if found := walk(sub, trail); found != nil {
					return found
				}
			} else if child.ID() == id {
				return append(trail, child)
			}
		}
		return nil
	}
	return walk(fs.root, make([]Item, 0, 8))
}

// persist writes the whole tree through the backend
func (fs *FileSystem) persist(ctx context.Context) error {
	logger := util.GetLogger("FS.persist")

	data, err := Encode(fs.root)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode tree")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := fs.backend.Store(ctx, fs.key, data); err != nil {
		logger.Error().Err(err).Str("key", fs.key).Msg("Failed to store tree; in-memory changes are kept")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	logger.Trace().Str("key", fs.key).Int("bytes", len(data)).Msg("Stored tree")
	return nil
}
