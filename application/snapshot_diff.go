package application

import (
	"time"

	"spws/domain/sharepoint"
)

// SnapshotDiff lists the item changes between a snapshot and the live list.
type SnapshotDiff struct {
	SnapshotID string                `json:"snapshot_id"`
	SnapshotAt time.Time             `json:"snapshot_at"`
	Added      []sharepoint.ListItem `json:"added"`
	Removed    []sharepoint.ListItem `json:"removed"`
	Changed    []ItemChange          `json:"changed"`
}

// ItemChange describes the field changes of one item.
type ItemChange struct {
	ID     string        `json:"id"`
	Fields []FieldChange `json:"fields"`
}

// FieldChange is one field whose value differs. A missing field reads as "".
type FieldChange struct {
	Name string `json:"name"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// DiffItems compares two item sets by ows_ID. Items without an ID cannot be
// matched and are ignored. Output order follows the input order.
func DiffItems(before, after []sharepoint.ListItem) *SnapshotDiff {
	diff := &SnapshotDiff{
		Added:   []sharepoint.ListItem{},
		Removed: []sharepoint.ListItem{},
		Changed: []ItemChange{},
	}

	previous := make(map[string]sharepoint.ListItem, len(before))
	for _, item := range before {
		if id := item.ID(); id != "" {
			previous[id] = item
		}
	}

	seen := make(map[string]bool, len(after))
	for _, item := range after {
		id := item.ID()
		if id == "" {
			continue
		}
		seen[id] = true

		old, ok := previous[id]
		if !ok {
			diff.Added = append(diff.Added, item)
			continue
		}
		if fields := diffFields(old.Fields, item.Fields); len(fields) > 0 {
			diff.Changed = append(diff.Changed, ItemChange{ID: id, Fields: fields})
		}
	}

	for _, item := range before {
		if id := item.ID(); id != "" && !seen[id] {
			diff.Removed = append(diff.Removed, item)
		}
	}
	return diff
}

func diffFields(old, current sharepoint.FieldSet) []FieldChange {
	var changes []FieldChange
	for _, f := range current {
		if prev := old.Value(f.Name); prev != f.Value {
			changes = append(changes, FieldChange{Name: f.Name, Old: prev, New: f.Value})
		}
	}
	for _, f := range old {
		if _, ok := current.Get(f.Name); !ok && f.Value != "" {
			changes = append(changes, FieldChange{Name: f.Name, Old: f.Value})
		}
	}
	return changes
}
