package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"adriastay/internal/config"
)

// BackupService copies the sqlite file to a snapshot directory on a fixed
// interval and prunes snapshots older than the retention window.
type BackupService struct {
	dbPath string
	cfg    config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Run blocks until ctx is cancelled. The first snapshot is taken immediately.
func (s *BackupService) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("database backups disabled")
		return
	}

	interval := time.Duration(s.cfg.IntervalHours) * time.Hour
	s.logger.Info().
		Str("dir", s.cfg.Dir).
		Dur("interval", interval).
		Msg("database backup service started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.Snapshot(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.prune()
		}
	}
}

// Snapshot writes a timestamped copy of the database file. The WAL is
// checkpointed by sqlite on its own schedule, so the copy may lag the very
// latest writes by a checkpoint interval.
func (s *BackupService) Snapshot() error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("adriastay_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(s.cfg.Dir, name)

	src, err := os.Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("open database for backup: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}

	s.logger.Info().Str("path", dst).Msg("database snapshot written")
	return nil
}

func (s *BackupService) prune() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", entry.Name()).Msg("removing expired snapshot")
			_ = os.Remove(filepath.Join(s.cfg.Dir, entry.Name()))
		}
	}
}
