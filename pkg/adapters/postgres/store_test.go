package postgres_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/missionkit/pkg/adapters/postgres"
	"github.com/aretw0/missionkit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dsnEnv = "MISSIONKIT_TEST_POSTGRES_DSN"

func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	table := "missionkit_test_" + strings.ToLower(time.Now().Format("20060102150405"))
	store, err := postgres.Open(ctx, dsn, postgres.WithTable(table))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunSnapshotStoreContract(t, store)
}

func TestPostgresStore_RejectsBadTableName(t *testing.T) {
	_, err := postgres.NewFromDB(context.Background(), nil, postgres.WithTable("x; DROP TABLE y"))
	assert.ErrorContains(t, err, "invalid table name")
}
