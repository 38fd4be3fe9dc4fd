package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/codec"
	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/metrics"
	"github.com/mamadbah2/serialpro/internal/notice"
	"github.com/mamadbah2/serialpro/internal/store"
)

// Artifact is a downloadable file.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ImportResult is delivered once an import attempt finishes.
type ImportResult struct {
	Preview models.RestorePreview
	Err     error
}

// Source exposes the current store contents.
type Source interface {
	Snapshot() store.Snapshot
}

// Restorer stages a parsed backup for confirmation.
type Restorer interface {
	RequestRestore(candidate models.RestoreCandidate) models.RestorePreview
	CancelRestore() bool
}

// Service produces export artifacts and turns uploaded files into pending restores.
type Service struct {
	source   Source
	restorer Restorer
	notices  *notice.Board
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the backup service. notices and m may be nil.
func NewService(source Source, restorer Restorer, notices *notice.Board, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:   source,
		restorer: restorer,
		notices:  notices,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ExportJSON renders the full backup document.
func (s *Service) ExportJSON() (Artifact, error) {
	now := s.now()
	body, err := codec.EncodeBackup(s.source.Snapshot(), now)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{FileName: codec.BackupFileName(now), ContentType: codec.JSONContentType, Body: body}, nil
}

// ExportCSV renders the shipment report.
func (s *Service) ExportCSV() Artifact {
	return Artifact{
		FileName:    codec.ReportFileName(s.now()),
		ContentType: codec.CSVContentType,
		Body:        codec.EncodeReport(s.source.Snapshot()),
	}
}

// Import validates the file name, then reads and parses r in the background.
// The returned channel yields exactly one result. A rejected name is reported
// without reading r. Failures are posted to the notice board.
func (s *Service) Import(name string, r io.Reader) <-chan ImportResult {
	done := make(chan ImportResult, 1)

	if err := codec.CheckImportName(name); err != nil {
		s.fail("rejected", name, err)
		done <- ImportResult{Err: err}
		close(done)
		return done
	}

	go func() {
		defer close(done)
		done <- s.read(name, r)
	}()
	return done
}

// ImportAndWait runs Import and waits for its result or ctx cancellation.
// Cancellation stops the wait only; the read itself runs to completion.
func (s *Service) ImportAndWait(ctx context.Context, name string, r io.Reader) (models.RestorePreview, error) {
	select {
	case res := <-s.Import(name, r):
		return res.Preview, res.Err
	case <-ctx.Done():
		return models.RestorePreview{}, ctx.Err()
	}
}

func (s *Service) read(name string, r io.Reader) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		err = fmt.Errorf("%w: %v", codec.ErrInvalidBackup, err)
		s.discardPending(name)
		s.fail("invalid", name, err)
		return ImportResult{Err: err}
	}

	candidate, err := codec.DecodeBackup(data)
	if err != nil {
		s.discardPending(name)
		s.fail("invalid", name, err)
		return ImportResult{Err: err}
	}

	preview := s.restorer.RequestRestore(candidate)
	s.metrics.Import("staged")
	s.logger.Info("restore staged",
		zap.String("file", name),
		zap.Int("products", preview.ProductCount),
		zap.Int("records", preview.RecordCount))
	return ImportResult{Preview: preview}
}

// discardPending drops a restore staged by an earlier import; a failed read
// leaves nothing pending.
func (s *Service) discardPending(name string) {
	if s.restorer.CancelRestore() {
		s.logger.Info("pending restore cleared after failed import", zap.String("file", name))
	}
}

func (s *Service) fail(outcome, name string, err error) {
	s.metrics.Import(outcome)
	s.logger.Warn("import failed", zap.String("file", name), zap.String("outcome", outcome), zap.Error(err))
	if s.notices == nil {
		return
	}
	if errors.Is(err, codec.ErrUnsupportedExtension) {
		s.notices.Post(codec.ErrUnsupportedExtension.Error())
		return
	}
	s.notices.Post(codec.ErrInvalidBackup.Error())
}

// WriteSnapshot stores the JSON backup under dir and returns its path.
func (s *Service) WriteSnapshot(dir string) (string, error) {
	artifact, err := s.ExportJSON()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, artifact.FileName)
	if err := os.WriteFile(path, artifact.Body, 0o640); err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	return path, nil
}
