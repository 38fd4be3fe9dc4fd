package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/codec"
	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/query"
	repo "github.com/mamadbah2/serialpro/internal/repository/sheets"
	"github.com/mamadbah2/serialpro/internal/store"
)

const recentActivityLimit = 5

// ErrSheetsDisabled is returned by SyncSheet when no spreadsheet is wired.
var ErrSheetsDisabled = errors.New("sheets sync is not configured")

// Source exposes the current store contents.
type Source interface {
	Snapshot() store.Snapshot
}

// Service computes dashboard statistics and mirrors the report to a spreadsheet.
type Service struct {
	source     Source
	repo       repo.Repository
	sheetRange string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance. repository may be nil
// when the Sheets sync is disabled.
func NewService(source Source, repository repo.Repository, sheetRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, repo: repository, sheetRange: sheetRange, logger: logger, now: time.Now}
}

// Dashboard aggregates totals, the 30-day count, the top-5 ranking and recent activity.
func (s *Service) Dashboard() models.Dashboard {
	snap := s.source.Snapshot()
	return models.Dashboard{
		TotalRecords:  len(snap.Records),
		RecentRecords: query.RecentRecords(snap.Records, query.DefaultWindowDays, s.now()),
		ProductCount:  len(snap.Products),
		TopProducts:   query.TopProductsByShipmentCount(snap.Products, snap.Records, query.DefaultTopN),
		Recent:        query.Latest(snap.Products, snap.Records, recentActivityLimit),
	}
}

// RecentActivity returns the newest limit records with product names resolved.
func (s *Service) RecentActivity(limit int) []models.Activity {
	snap := s.source.Snapshot()
	return query.Latest(snap.Products, snap.Records, limit)
}

// SyncSheet replaces the configured range with the CSV report rows.
func (s *Service) SyncSheet(ctx context.Context) error {
	if s.repo == nil {
		return ErrSheetsDisabled
	}

	snap := s.source.Snapshot()
	rows := make([][]interface{}, 0, len(snap.Records)+1)
	rows = append(rows, toCells(codec.CSVHeader))
	for _, row := range codec.ReportRows(snap) {
		rows = append(rows, toCells(row))
	}

	if err := s.repo.ReplaceRange(ctx, s.sheetRange, rows); err != nil {
		return fmt.Errorf("sync report sheet: %w", err)
	}
	s.logger.Info("report sheet synced", zap.Int("records", len(snap.Records)))
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
