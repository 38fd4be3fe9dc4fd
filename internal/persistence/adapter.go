// Package persistence mirrors the entity store into the durable key-value medium.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/metrics"
	"github.com/mamadbah2/serialpro/internal/repository/kv"
	"github.com/mamadbah2/serialpro/internal/store"
)

// Durable entry names.
const (
	ProductsKey = "sms_products"
	RecordsKey  = "sms_records"
)

// Adapter loads the store on startup and writes it back after each mutation.
type Adapter struct {
	repo    kv.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAdapter wires an adapter over repo. m may be nil.
func NewAdapter(repo kv.Repository, m *metrics.Metrics, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{repo: repo, metrics: m, logger: logger}
}

// Load reads both entries. Each collection independently falls back to the
// seed dataset when its entry is missing or unreadable.
func (a *Adapter) Load(ctx context.Context) store.Snapshot {
	products, err := loadEntry[models.Product](ctx, a.repo, ProductsKey)
	if err != nil {
		a.logFallback(ProductsKey, err)
		products = models.SeedProducts()
	}

	records, err := loadEntry[models.ShipmentRecord](ctx, a.repo, RecordsKey)
	if err != nil {
		a.logFallback(RecordsKey, err)
		records = models.SeedRecords()
	}

	return store.Snapshot{Products: products, Records: records}
}

// Save overwrites both entries. Failures are logged and counted, never returned.
func (a *Adapter) Save(ctx context.Context, snap store.Snapshot) {
	if err := saveEntry(ctx, a.repo, ProductsKey, snap.Products); err != nil {
		a.logger.Warn("persist products failed", zap.Error(err))
		a.metrics.PersistFailure()
	}
	if err := saveEntry(ctx, a.repo, RecordsKey, snap.Records); err != nil {
		a.logger.Warn("persist records failed", zap.Error(err))
		a.metrics.PersistFailure()
	}
}

func (a *Adapter) logFallback(key string, err error) {
	if errors.Is(err, kv.ErrNotFound) {
		a.logger.Info("no persisted entry, using seed data", zap.String("key", key))
		return
	}
	a.logger.Warn("unreadable persisted entry, using seed data", zap.String("key", key), zap.Error(err))
}

func loadEntry[T any](ctx context.Context, repo kv.Repository, key string) ([]T, error) {
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		return nil, fmt.Errorf("decode %s: not an array", key)
	}
	return items, nil
}

func saveEntry[T any](ctx context.Context, repo kv.Repository, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return repo.Set(ctx, key, string(payload))
}
