package filesystem

import (
	"encoding/json"
	"fmt"

	"github.com/brettbedarf/memfs"
)

// Serialize flattens the tree under root into records in pre-order, so every
// record's parent precedes it.
func Serialize(root *Folder) []memfs.Record {
	records := make([]memfs.Record, 0, 1)
	var walk func(it Item, parent *Folder)
	walk = func(it Item, parent *Folder) {
		records = append(records, toRecord(it, parent))
		if folder, ok := it.(*Folder); ok {
			for _, child := range folder.children {
				walk(child, folder)
			}
		}
	}
	walk(root, nil)
	return records
}

func toRecord(it Item, parent *Folder) memfs.Record {
	rec := memfs.Record{ID: it.ID(), Name: it.Name(), Type: it.Type()}
	if parent != nil {
		pid := parent.ID()
		rec.Parent = &pid
	}
	if file, ok := it.(*File); ok {
		rec.Content = file.contentPtr()
	}
	return rec
}

// Deserialize rebuilds a tree from records produced by [Serialize].
// It returns the root and the highest id seen.
//
// Records are trusted to be previously validated: children are attached in
// the stored order without sorting or name checks. Structural problems
// (non-root first record, root id other than [RootID], unknown parent,
// unknown type, duplicate id) fail
// the whole load with [ErrInvalidRecords].
func Deserialize(records []memfs.Record) (*Folder, int, error) {
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("%w: no records", ErrInvalidRecords)
	}
	first := records[0]
	if first.Parent != nil || first.Type != memfs.FolderType {
		return nil, 0, fmt.Errorf("%w: first record %d is not a root folder", ErrInvalidRecords, first.ID)
	}
	if first.ID != RootID {
		return nil, 0, fmt.Errorf("%w: root has id %d, want %d", ErrInvalidRecords, first.ID, RootID)
	}

	root := NewFolder(first.ID, first.Name)
	folders := map[int]*Folder{root.ID(): root}
	seen := map[int]struct{}{root.ID(): {}}
	maxID := root.ID()

	for _, rec := range records[1:] {
		if rec.Parent == nil {
			return nil, 0, fmt.Errorf("%w: record %d has no parent", ErrInvalidRecords, rec.ID)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, 0, fmt.Errorf("%w: duplicate id %d", ErrInvalidRecords, rec.ID)
		}
		parent, ok := folders[*rec.Parent]
		if !ok {
			return nil, 0, fmt.Errorf("%w: parent %d of record %d not found", ErrInvalidRecords, *rec.Parent, rec.ID)
		}

		switch rec.Type {
		case memfs.FolderType:
			folder := NewFolder(rec.ID, rec.Name)
			folders[rec.ID] = folder
			parent.attach(folder)
		case memfs.FileType:
			parent.attach(NewFile(rec.ID, rec.Name, rec.Content))
		default:
			return nil, 0, fmt.Errorf("%w: record %d has unknown type %d", ErrInvalidRecords, rec.ID, rec.Type)
		}

		seen[rec.ID] = struct{}{}
		maxID = max(maxID, rec.ID)
	}
	return root, maxID, nil
}

// Encode serializes the tree to its JSON array form
func Encode(root *Folder) ([]byte, error) {
	return json.Marshal(Serialize(root))
}

// wireRecord detects a missing "type" key, which would otherwise decode as
// [memfs.FolderType]
type wireRecord struct {
	memfs.Record
	Type *memfs.ItemType `json:"type"`
}

// Decode parses the JSON array form and rebuilds the tree; see [Deserialize]
func Decode(data []byte) (*Folder, int, error) {
	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidRecords, err)
	}
	records := make([]memfs.Record, 0, len(wire))
	for _, w := range wire {
		if w.Type == nil {
			return nil, 0, fmt.Errorf("%w: record %d has no type", ErrInvalidRecords, w.ID)
		}
		rec := w.Record
		rec.Type = *w.Type
		records = append(records, rec)
	}
	return Deserialize(records)
}
