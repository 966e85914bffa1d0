package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resto/internal/config"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

const (
	snapshotPrefix     = "resto_"
	snapshotTimeLayout = "20060102_150405"
)

// BackupService takes periodic snapshots of the SQLite file and prunes
// snapshots older than the retention window. Only files it created itself
// are ever deleted.
type BackupService struct {
	dbPath string
	cfg    config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Start runs the snapshot loop until the context is cancelled. The first
// snapshot is taken immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("backups disabled")
		return
	}

	interval := s.interval()
	s.logger.Info().Dur("interval", interval).Str("dir", s.cfg.StoragePath).Msg("backup loop started")

	if _, err := s.Backup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Backup(ctx); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.Prune()
		}
	}
}

func (s *BackupService) interval() time.Duration {
	if s.cfg.Schedule == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(s.cfg.Schedule)
	if err != nil {
		s.logger.Warn().Err(err).Str("schedule", s.cfg.Schedule).Msg("bad backup schedule, using 24h")
		return 24 * time.Hour
	}
	return d
}

// Backup writes one snapshot and returns its path.
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := snapshotPrefix + time.Now().Format(snapshotTimeLayout) + ".db"
	target := filepath.Join(s.cfg.StoragePath, name)

	src, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	// VACUUM INTO produces a consistent snapshot even while writers are
	// active.
	if _, err := src.ExecContext(ctx, `VACUUM INTO ?`, target); err != nil {
		s.logger.Warn().Err(err).Msg("VACUUM INTO failed, copying the raw file")
		if copyErr := s.copySnapshot(target); copyErr != nil {
			return "", copyErr
		}
	}

	s.logger.Info().Str("path", target).Msg("backup written")
	return target, nil
}

// copySnapshot is the fallback for VACUUM failures. A raw copy taken
// mid-write can be inconsistent; restoring one needs a manual integrity
// check.
func (s *BackupService) copySnapshot(target string) error {
	src, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Prune removes snapshots whose embedded timestamp is past the retention
// window and returns how many were removed. Files this service did not
// name are left alone.
func (s *BackupService) Prune() int {
	if s.cfg.RetentionDays <= 0 {
		return 0
	}

	entries, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list backup directory")
		return 0
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	removed := 0
	for _, entry := range entries {
		taken, ok := snapshotTime(entry.Name())
		if !ok || !taken.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.StoragePath, entry.Name())); err != nil {
			s.logger.Error().Err(err).Str("file", entry.Name()).Msg("failed to remove expired backup")
			continue
		}
		s.logger.Info().Str("file", entry.Name()).Msg("expired backup removed")
		removed++
	}
	return removed
}

func snapshotTime(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, ".db") {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), ".db")
	taken, err := time.ParseInLocation(snapshotTimeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return taken, true
}
