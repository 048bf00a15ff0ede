package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupKVRepository(t *testing.T) *KVRepository {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewKVRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `DELETE FROM ledger_kv`)
	require.NoError(t, err)
	return repo
}

func TestKVRepository_RoundTrip(t *testing.T) {
	repo := setupKVRepository(t)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetMany(ctx, map[string][]byte{
		"transactions": []byte(`[]`),
		"savingsGoal":  []byte(`"5000000"`),
	}))

	value, ok, err := repo.Get(ctx, "savingsGoal")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `"5000000"`, string(value))

	require.NoError(t, repo.Set(ctx, "savingsGoal", []byte(`"7500000"`)))
	value, _, err = repo.Get(ctx, "savingsGoal")
	require.NoError(t, err)
	assert.JSONEq(t, `"7500000"`, string(value))

	require.NoError(t, repo.Delete(ctx, "transactions"))
	_, ok, err = repo.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.False(t, ok)
}
