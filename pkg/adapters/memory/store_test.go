package memory_test

import (
	"testing"

	"github.com/aretw0/missionkit/pkg/adapters/memory"
	"github.com/aretw0/missionkit/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}
