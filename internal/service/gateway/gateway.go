// Package gateway is the only path through which callers mutate the entity store.
package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/metrics"
	"github.com/mamadbah2/serialpro/internal/query"
	"github.com/mamadbah2/serialpro/internal/store"
)

var (
	// ErrValidation indicates a required field was empty; nothing was created.
	ErrValidation = errors.New("required field missing")
	// ErrNothingPending indicates a confirm without a staged request.
	ErrNothingPending = errors.New("no pending action to confirm")
)

const (
	opCreateRecord  = "create_record"
	opCreateProduct = "create_product"
	opDeleteProduct = "delete_product"
	opRestore       = "restore"
)

// Persister mirrors committed state to durable storage.
type Persister interface {
	Save(ctx context.Context, snap store.Snapshot)
}

// Service validates and commits mutations. Each mutation and the persistence
// write that follows it run under one lock.
type Service struct {
	mu        sync.Mutex
	store     *store.Store
	persister Persister
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	pendingDelete  *string
	pendingRestore *models.RestoreCandidate
}

// NewService wires a gateway over st. m may be nil.
func NewService(st *store.Store, persister Persister, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     st,
		persister: persister,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Snapshot returns the current store contents.
func (s *Service) Snapshot() store.Snapshot {
	return s.store.Snapshot()
}

// CreateRecord validates in, assigns a fresh id and places the record first.
func (s *Service) CreateRecord(ctx context.Context, in models.RecordInput) (models.ShipmentRecord, error) {
	if in.Serial == "" || in.Customer == "" {
		s.metrics.Rejection(opCreateRecord)
		return models.ShipmentRecord{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record := models.ShipmentRecord{
		ID:        nextRecordID(s.store.Snapshot().Records, now),
		Serial:    in.Serial,
		ProductID: in.ProductID,
		Customer:  in.Customer,
		ShipDate:  in.ShipDate,
		Memo:      in.Memo,
		Status:    in.Status,
	}
	if record.ShipDate == "" {
		record.ShipDate = now.UTC().Format(query.ShipDateLayout)
	}
	if record.Status == "" {
		record.Status = models.DefaultStatus
	}

	s.store.AppendRecord(record)
	s.commit(ctx, opCreateRecord)
	s.logger.Info("record created", zap.Int64("id", record.ID), zap.String("serial", record.Serial))
	return record, nil
}

// CreateProduct validates in, assigns a fresh id and appends the product.
func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if in.Name == "" {
		s.metrics.Rejection(opCreateProduct)
		return models.Product{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := models.Product{
		ID:       s.uniqueProductID(s.store.Snapshot().Products),
		Code:     in.Code,
		Name:     in.Name,
		Category: in.Category,
	}

	s.store.AppendProduct(product)
	s.commit(ctx, opCreateProduct)
	s.logger.Info("product created", zap.String("id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// RequestDeleteProduct stages id for deletion. A later request replaces it.
func (s *Service) RequestDeleteProduct(id string) error {
	if id == "" {
		return ErrValidation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = &id
	return nil
}

// PendingDelete returns the staged product id, if any.
func (s *Service) PendingDelete() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete == nil {
		return "", false
	}
	return *s.pendingDelete, true
}

// CancelDeleteProduct drops the staged deletion. It reports whether one existed.
func (s *Service) CancelDeleteProduct() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.pendingDelete != nil
	s.pendingDelete = nil
	return had
}

// ConfirmDeleteProduct removes the staged product. Records referencing it are kept.
func (s *Service) ConfirmDeleteProduct(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete == nil {
		return "", ErrNothingPending
	}
	id := *s.pendingDelete
	s.pendingDelete = nil

	removed := s.store.RemoveProduct(id)
	s.commit(ctx, opDeleteProduct)
	s.logger.Info("product deleted", zap.String("id", id), zap.Bool("existed", removed))
	return id, nil
}

// RequestRestore stages a parsed backup. A later request replaces it.
func (s *Service) RequestRestore(candidate models.RestoreCandidate) models.RestorePreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingRestore = &candidate
	return candidate.Preview()
}

// PendingRestore summarizes the staged backup, if any.
func (s *Service) PendingRestore() (models.RestorePreview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingRestore == nil {
		return models.RestorePreview{}, false
	}
	return s.pendingRestore.Preview(), true
}

// CancelRestore drops the staged backup. It reports whether one existed.
func (s *Service) CancelRestore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.pendingRestore != nil
	s.pendingRestore = nil
	return had
}

// ConfirmRestore replaces whichever collections the staged backup carried.
func (s *Service) ConfirmRestore(ctx context.Context) (models.RestorePreview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingRestore == nil {
		return models.RestorePreview{}, ErrNothingPending
	}
	candidate := *s.pendingRestore
	s.pendingRestore = nil

	current := s.store.Snapshot()
	products, records := current.Products, current.Records
	if candidate.HasProducts {
		products = candidate.Products
	}
	if candidate.HasRecords {
		records = candidate.Records
	}
	s.store.ReplaceAll(products, records)
	s.commit(ctx, opRestore)

	s.logger.Info("store restored",
		zap.Bool("products", candidate.HasProducts),
		zap.Bool("records", candidate.HasRecords),
		zap.String("exported_at", candidate.ExportedAt))
	return candidate.Preview(), nil
}

// commit must be called with s.mu held. The write ignores caller cancellation.
func (s *Service) commit(ctx context.Context, op string) {
	s.metrics.Mutation(op)
	if s.persister != nil {
		s.persister.Save(context.WithoutCancel(ctx), s.store.Snapshot())
	}
}

func (s *Service) uniqueProductID(existing []models.Product) string {
	taken := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		taken[p.ID] = struct{}{}
	}
	for {
		id := s.newID()
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}

// nextRecordID derives an id from the creation time in milliseconds and bumps
// it past every existing id, so ids stay unique and grow with creation order.
func nextRecordID(existing []models.ShipmentRecord, now time.Time) int64 {
	id := now.UnixMilli()
	for _, r := range existing {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	return id
}
