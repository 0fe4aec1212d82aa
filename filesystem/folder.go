package filesystem

import (
	"sort"

	"github.com/brettbedarf/memfs"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Folder is an item holding an ordered list of children.
//
// Children are kept sorted with folders before files and names ordered by
// locale-aware collation; no two children share a name.
type Folder struct {
	item
	children []Item
}

// NewFolder creates a detached, empty folder
func NewFolder(id int, name string) *Folder {
	return &Folder{item: item{id: id, name: name}}
}

func (f *Folder) Type() memfs.ItemType {
	return memfs.FolderType
}

// Children returns the sorted children in a new slice
func (f *Folder) Children() []Item {
	children := make([]Item, len(f.children))
	copy(children, f.children)
	return children
}

// AddChild appends child and re-sorts.
// Name uniqueness is the caller's concern; see [FileSystem.AddFolder].
func (f *Folder) AddChild(child Item) error {
	if !isValidChild(child) {
		return ErrInvalidChildType
	}
	f.children = append(f.children, child)
	f.sortChildren()
	return nil
}

// attach appends child as is. Only used when rebuilding already validated records.
func (f *Folder) attach(child Item) {
	f.children = append(f.children, child)
}

// DeleteChild removes the child with id; no-op when there is none
func (f *Folder) DeleteChild(id int) {
	if i := f.indexOf(id); i != -1 {
		f.children = append(f.children[:i], f.children[i+1:]...)
	}
}

// FindChild returns the direct child with id or nil
func (f *Folder) FindChild(id int) Item {
	if i := f.indexOf(id); i != -1 {
		return f.children[i]
	}
	return nil
}

// FindChildByName returns the direct child with exactly name or nil
func (f *Folder) FindChildByName(name string) Item {
	for _, child := range f.children {
		if child.Name() == name {
			return child
		}
	}
	return nil
}

// RenameChild renames the child with childID and re-sorts.
// Fails with [ErrNameCollision] if a different child already has newName.
// Unknown child ids are ignored.
func (f *Folder) RenameChild(newName string, childID int) error {
	if existing := f.FindChildByName(newName); existing != nil && existing.ID() != childID {
		return ErrNameCollision
	}
	child := f.FindChild(childID)
	if child == nil {
		return nil
	}
	child.Rename(newName)
	f.sortChildren()
	return nil
}

// HasSubfolders reports whether any direct child is a folder
func (f *Folder) HasSubfolders() bool {
	for _, child := range f.children {
		if child.Type() == memfs.FolderType {
			return true
		}
	}
	return false
}

func (f *Folder) indexOf(id int) int {
	for i, child := range f.children {
		if child.ID() == id {
			return i
		}
	}
	return -1
}

func (f *Folder) sortChildren() {
	col := newCollator()
	sort.SliceStable(f.children, func(i, j int) bool {
		return lessItem(col, f.children[i], f.children[j])
	})
}

// newCollator returns a root locale collator. Collators keep internal buffers
// and must not be shared between goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

func lessItem(col *collate.Collator, a, b Item) bool {
	if a.Type() != b.Type() {
		return a.Type() == memfs.FolderType
	}
	if c := col.CompareString(a.Name(), b.Name()); c != 0 {
		return c < 0
	}
	return a.Name() < b.Name()
}

func isValidChild(child Item) bool {
	switch c := child.(type) {
	case *Folder:
		return c != nil
	case *File:
		return c != nil
	default:
		return false
	}
}
