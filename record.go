package memfs

// ItemType is the persisted discriminator of tree items.
type ItemType int

const (
	FolderType ItemType = 0
	FileType   ItemType = 1
)

func (t ItemType) String() string {
	switch t {
	case FolderType:
		return "folder"
	case FileType:
		return "file"
	default:
		return "unknown"
	}
}

// Record is the flat persisted form of one tree item.
// Records are written parent-before-child; the root is first and has a nil Parent.
type Record struct {
	ID      int      `json:"id"`
	Parent  *int     `json:"parent"`
	Name    string   `json:"name"`
	Type    ItemType `json:"type"`
	Content *string  `json:"content,omitempty"` // files only; nil when the file has no content
}
