package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls periodic snapshots of the journal database.
type BackupConfig struct {
	Enabled       bool
	StoragePath   string
	RetentionDays int
	IntervalHours int
}

// BackupService periodically copies the journal database file aside and
// prunes snapshots past the retention window.
type BackupService struct {
	dbPath string
	cfg    BackupConfig
	logger zerolog.Logger
}

// NewBackupService creates a backup service for the journal at dbPath.
func NewBackupService(dbPath string, cfg BackupConfig, logger zerolog.Logger) *BackupService {
	if cfg.IntervalHours <= 0 {
		cfg.IntervalHours = 24
	}
	return &BackupService{
		dbPath: dbPath,
		cfg:    cfg,
		logger: logger.With().Str("component", "audit_backup").Logger(),
	}
}

// Run takes a snapshot immediately, then on every interval tick until the
// context is cancelled.
func (s *BackupService) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("journal backups disabled")
		return
	}
	s.logger.Info().Int("interval_hours", s.cfg.IntervalHours).Msg("journal backup service started")

	ticker := time.NewTicker(time.Duration(s.cfg.IntervalHours) * time.Hour)
	defer ticker.Stop()

	if _, err := s.BackupOnce(); err != nil {
		s.logger.Error().Err(err).Msg("initial journal backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.BackupOnce(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled journal backup failed")
			}
			s.cleanup()
		}
	}
}

// BackupOnce copies the journal database into the storage path and returns
// the snapshot file name.
func (s *BackupService) BackupOnce() (string, error) {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("audit_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(s.cfg.StoragePath, name)

	source, err := os.Open(s.dbPath)
	if err != nil {
		return "", fmt.Errorf("open journal db: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return "", fmt.Errorf("copy journal db: %w", err)
	}

	s.logger.Info().Str("path", dst).Msg("journal backup written")
	return dst, nil
}

func (s *BackupService) cleanup() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("read backup directory failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("removing expired journal backup")
			os.Remove(filepath.Join(s.cfg.StoragePath, file.Name()))
		}
	}
}
