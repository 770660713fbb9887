package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Added and Updated carry full step bodies; Removed carries ids only.
	Added   []Step   `json:"added,omitempty"`
	Updated []Step   `json:"updated,omitempty"`
	Removed []string `json:"removed,omitempty"`

	// Order is set when the step order changed (template load, removal).
	Order []string `json:"order,omitempty"`

	// Selection and Dragging are pointers so "cleared" (empty string) differs from "unchanged" (nil).
	Selection *string `json:"selection,omitempty"`
	Dragging  *string `json:"dragging,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	oldSteps := make(map[string]Step)
	var oldOrder []string
	if oldSnap != nil {
		for _, s := range oldSnap.Steps {
			oldSteps[s.ID] = s
			oldOrder = append(oldOrder, s.ID)
		}
	}

	newOrder := make([]string, 0, len(newSnap.Steps))
	seen := make(map[string]bool, len(newSnap.Steps))
	for _, s := range newSnap.Steps {
		newOrder = append(newOrder, s.ID)
		seen[s.ID] = true
		prev, existed := oldSteps[s.ID]
		switch {
		case !existed:
			diff.Added = append(diff.Added, s)
		case !reflect.DeepEqual(prev, s):
			diff.Updated = append(diff.Updated, s)
		}
	}
	for _, id := range oldOrder {
		if !seen[id] {
			diff.Removed = append(diff.Removed, id)
		}
	}

	// Appends keep the old order as a prefix; anything else is a reorder worth sending.
	if len(diff.Removed) > 0 || !isPrefix(oldOrder, newOrder) {
		diff.Order = newOrder
	}

	if oldSnap == nil || oldSnap.SelectedID != newSnap.SelectedID {
		if oldSnap != nil || newSnap.SelectedID != "" {
			sel := newSnap.SelectedID
			diff.Selection = &sel
		}
	}
	if oldSnap == nil || oldSnap.DraggingID != newSnap.DraggingID {
		if oldSnap != nil || newSnap.DraggingID != "" {
			drag := newSnap.DraggingID
			diff.Dragging = &drag
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func isPrefix(prefix, full []string) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Updated) == 0 &&
		len(d.Removed) == 0 &&
		d.Order == nil &&
		d.Selection == nil &&
		d.Dragging == nil
}
