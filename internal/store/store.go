// Package store holds the in-memory catalog and shipment list of the running session.
package store

import (
	"sync"

	"github.com/mamadbah2/serialpro/internal/domain/models"
)

// Snapshot is a read-only copy of the store contents.
type Snapshot struct {
	Products []models.Product
	Records  []models.ShipmentRecord
}

// Store keeps products in catalog order and records newest-first.
type Store struct {
	mu       sync.RWMutex
	products []models.Product
	records  []models.ShipmentRecord
}

// New returns a store holding copies of the given collections.
func New(products []models.Product, records []models.ShipmentRecord) *Store {
	s := &Store{}
	s.ReplaceAll(products, records)
	return s
}

// Snapshot copies both collections so callers cannot mutate the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Products: cloneProducts(s.products),
		Records:  cloneRecords(s.records),
	}
}

// ReplaceAll swaps both collections at once.
func (s *Store) ReplaceAll(products []models.Product, records []models.ShipmentRecord) {
	p := cloneProducts(products)
	r := cloneRecords(records)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = p
	s.records = r
}

// AppendRecord inserts r at index 0.
func (s *Store) AppendRecord(r models.ShipmentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.ShipmentRecord, 0, len(s.records)+1)
	next = append(next, r)
	s.records = append(next, s.records...)
}

// AppendProduct adds p at the end of the catalog.
func (s *Store) AppendProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// RemoveProduct drops the product with the given id. Records are untouched.
// It reports whether a product was removed.
func (s *Store) RemoveProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(kept) != len(s.products)
	s.products = kept
	return removed
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	copy(out, in)
	return out
}

func cloneRecords(in []models.ShipmentRecord) []models.ShipmentRecord {
	out := make([]models.ShipmentRecord, len(in))
	copy(out, in)
	return out
}
