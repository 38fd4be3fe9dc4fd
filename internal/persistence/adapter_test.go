package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/metrics"
	"github.com/mamadbah2/serialpro/internal/repository/kv"
	"github.com/mamadbah2/serialpro/internal/store"
)

type failingRepo struct {
	*kv.MemoryRepository
}

func (failingRepo) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestLoadFallsBackToSeedWhenEmpty(t *testing.T) {
	a := NewAdapter(kv.NewMemoryRepository(), nil, nil)
	snap := a.Load(context.Background())

	assert.Equal(t, models.SeedProducts(), snap.Products)
	assert.Equal(t, models.SeedRecords(), snap.Records)
}

func TestLoadFallsBackPerCollection(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, ProductsKey, "{corrupt"))
	require.NoError(t, repo.Set(ctx, RecordsKey, `[{"id":7,"serial":"SN-7","productId":"gone","customer":"c","shipDate":"2024-02-01"}]`))

	snap := NewAdapter(repo, nil, nil).Load(ctx)

	assert.Equal(t, models.SeedProducts(), snap.Products)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, int64(7), snap.Records[0].ID)
	assert.Equal(t, "gone", snap.Records[0].ProductID)
}

func TestLoadTreatsNullAsCorrupt(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, ProductsKey, "null"))
	require.NoError(t, repo.Set(ctx, RecordsKey, "[]"))

	snap := NewAdapter(repo, nil, nil).Load(ctx)

	assert.Equal(t, models.SeedProducts(), snap.Products)
	assert.Empty(t, snap.Records)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	a := NewAdapter(repo, nil, nil)

	want := store.Snapshot{
		Products: []models.Product{{ID: "p9", Name: "Router"}},
		Records:  []models.ShipmentRecord{{ID: 3, Serial: "SN-3", Memo: "a\nb"}},
	}
	a.Save(ctx, want)

	assert.Equal(t, want, a.Load(ctx))
}

func TestSaveEmptyCollectionsWritesArrays(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	NewAdapter(repo, nil, nil).Save(ctx, store.Snapshot{})

	v, err := repo.Get(ctx, ProductsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	m := metrics.New()
	a := NewAdapter(failingRepo{kv.NewMemoryRepository()}, m, nil)

	assert.NotPanics(t, func() {
		a.Save(context.Background(), store.Snapshot{Products: models.SeedProducts()})
	})

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var failures float64
	for _, f := range families {
		if f.GetName() == "serialpro_persistence_write_failures_total" {
			failures = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), failures)
}
