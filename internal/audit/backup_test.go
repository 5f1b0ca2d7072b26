package audit

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("journal bytes"), 0o644))
	storage := filepath.Join(t.TempDir(), "backups")

	svc := NewBackupService(dbPath, BackupConfig{Enabled: true, StoragePath: storage}, zerolog.New(io.Discard))

	snapshot, err := svc.BackupOnce()
	require.NoError(t, err)

	copied, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assert.Equal(t, []byte("journal bytes"), copied)
}

func TestBackupOnceMissingSource(t *testing.T) {
	svc := NewBackupService(
		filepath.Join(t.TempDir(), "missing.db"),
		BackupConfig{Enabled: true, StoragePath: t.TempDir()},
		zerolog.New(io.Discard))

	_, err := svc.BackupOnce()
	assert.Error(t, err)
}
