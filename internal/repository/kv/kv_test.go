package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/serialpro/internal/config"
)

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set(ctx, "sms_products", `[{"id":"p1"}]`))
	v, err := repo.Get(ctx, "sms_products")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p1"}]`, v)

	require.NoError(t, repo.Set(ctx, "sms_products", `[]`))
	v, err = repo.Get(ctx, "sms_products")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "kv.db")
	repo, err := NewSQLiteRepository(context.Background(), path)
	require.NoError(t, err)
	exerciseRepository(t, repo)
	require.NoError(t, repo.Close(context.Background()))

	reopened, err := NewSQLiteRepository(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close(context.Background()) }()
	v, err := reopened.Get(context.Background(), "sms_products")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestOpen(t *testing.T) {
	repo, err := Open(context.Background(), config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, repo)

	_, err = Open(context.Background(), config.Config{Store: config.StoreConfig{Driver: "tape"}}, nil)
	assert.Error(t, err)
}
