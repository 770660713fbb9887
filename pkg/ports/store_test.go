package ports_test

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/ports"
)

// jsonStore keeps snapshots as JSON to exercise the contract the way serializing adapters see it.
type jsonStore struct {
	data map[string][]byte
}

func (m *jsonStore) Save(_ context.Context, sessionID string, snap *domain.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.data[sessionID] = b
	return nil
}

func (m *jsonStore) Load(_ context.Context, sessionID string) (*domain.Snapshot, error) {
	b, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *jsonStore) Delete(_ context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *jsonStore) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestSnapshotStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, &jsonStore{data: make(map[string][]byte)})
}
