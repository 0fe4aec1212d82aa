package filesystem

import "github.com/brettbedarf/memfs"

// Item is the capability set shared by folders and files.
// Concrete variants are [*Folder] and [*File]; use a type switch for
// type-specific behavior.
type Item interface {
	ID() int
	Name() string
	Type() memfs.ItemType
	Rename(newName string)
}

// item holds the fields common to all variants
type item struct {
	id   int
	name string
}

// ID returns the item's immutable id
func (i *item) ID() int {
	return i.id
}

func (i *item) Name() string {
	return i.name
}

// Rename sets the name without any validation; sibling uniqueness is
// enforced by the parent folder.
func (i *item) Rename(newName string) {
	i.name = newName
}

// File is a leaf item with optional opaque text content.
type File struct {
	item
	content    string
	hasContent bool
}

// NewFile creates a detached file. A nil content leaves the file without content.
func NewFile(id int, name string, content *string) *File {
	f := &File{item: item{id: id, name: name}}
	if content != nil {
		f.SetContent(*content)
	}
	return f
}

func (f *File) Type() memfs.ItemType {
	return memfs.FileType
}

// Content returns the file content and whether any content was ever set
func (f *File) Content() (string, bool) {
	return f.content, f.hasContent
}

func (f *File) SetContent(content string) {
	f.content = content
	f.hasContent = true
}

// ClearContent returns the file to its no-content state
func (f *File) ClearContent() {
	f.content = ""
	f.hasContent = false
}

// contentPtr is the persisted form of the content
func (f *File) contentPtr() *string {
	if !f.hasContent {
		return nil
	}
	c := f.content
	return &c
}
