package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/config"
)

// SnapshotWriter writes a JSON backup into a directory.
type SnapshotWriter interface {
	WriteSnapshot(dir string) (string, error)
}

// SheetSyncer mirrors the report into a spreadsheet.
type SheetSyncer interface {
	SyncSheet(ctx context.Context) error
}

// Scheduler manages scheduled tasks. Jobs only read the store.
type Scheduler struct {
	cron    *cron.Cron
	backups SnapshotWriter
	sheets  SheetSyncer
	cfg     config.Config
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.Config, backups SnapshotWriter, sheets SheetSyncer, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Backup.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Backup.Timezone, err)
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:    c,
		backups: backups,
		sheets:  sheets,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.cfg.Backup.CronSchedule != "" && s.backups != nil {
		if _, err := s.cron.AddFunc(s.cfg.Backup.CronSchedule, s.writeBackup); err != nil {
			return fmt.Errorf("schedule backup %q: %w", s.cfg.Backup.CronSchedule, err)
		}
		s.logger.Info("backup job scheduled", zap.String("schedule", s.cfg.Backup.CronSchedule))
	}

	if s.cfg.Sheets.Enabled() && s.sheets != nil {
		if _, err := s.cron.AddFunc(s.cfg.Sheets.CronSchedule, s.syncSheet); err != nil {
			return fmt.Errorf("schedule sheets sync %q: %w", s.cfg.Sheets.CronSchedule, err)
		}
		s.logger.Info("sheets sync scheduled", zap.String("schedule", s.cfg.Sheets.CronSchedule))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) writeBackup() {
	path, err := s.backups.WriteSnapshot(s.cfg.Backup.Dir)
	if err != nil {
		s.logger.Error("scheduled backup failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled backup written", zap.String("path", path))
}

func (s *Scheduler) syncSheet() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.sheets.SyncSheet(ctx); err != nil {
		s.logger.Error("scheduled sheets sync failed", zap.Error(err))
	}
}
