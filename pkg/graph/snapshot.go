package graph

import (
	"github.com/aretw0/missionkit/pkg/domain"
)

// Snapshot captures steps and selection for persistence.
// The drag marker is owned by the drag engine and left empty here.
func (s *Store) Snapshot(sessionID string) *domain.Snapshot {
	snap := domain.NewSnapshot(sessionID)
	snap.Steps = s.Steps()
	snap.SelectedID = s.selected
	return snap
}

// Restore replaces the graph with the snapshot's steps and selection.
// A selection that points at a missing step is dropped. No change is emitted.
func (s *Store) Restore(snap *domain.Snapshot) {
	s.steps = make(map[string]*domain.Step, len(snap.Steps))
	s.order = make([]string, 0, len(snap.Steps))
	for _, src := range snap.Steps {
		if _, dup := s.steps[src.ID]; dup || src.ID == "" {
			continue
		}
		step := src.Clone()
		s.insert(&step)
	}
	s.selected = ""
	if _, ok := s.steps[snap.SelectedID]; ok {
		s.selected = snap.SelectedID
	}
}
