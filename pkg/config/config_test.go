package config

import (
	"testing"
	"time"

	tassert "github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/domain"
)

func setBackupEnv(t *testing.T) {
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("BACKUP_TAG_KEY", "Backup")
	t.Setenv("BACKUP_TAG_VALUE", "true")
	t.Setenv("DR_REGION", "us-west-2")
	t.Setenv("DR_KMS_KEY_ARN", "arn:aws:kms:us-west-2:123456789012:key/abc")
	t.Setenv("AWS_REGION", "us-east-1")
}

func TestLoadBackup(t *testing.T) {
	setBackupEnv(t)

	cfg, err := LoadBackup()
	tassert.NoError(t, err)
	tassert.Equal(t, 7, cfg.RetentionDays)
	tassert.Equal(t, "Backup", cfg.BackupTagKey)
	tassert.Equal(t, "us-west-2", cfg.DRRegion)
	tassert.Equal(t, 15*time.Second, cfg.WaitInterval)
	tassert.Equal(t, 40, cfg.WaitMaxAttempts)
}

func TestLoadBackup_MissingRequired(t *testing.T) {
	setBackupEnv(t)
	t.Setenv("DR_KMS_KEY_ARN", "")

	_, err := LoadBackup()
	tassert.Error(t, err)
	tassert.True(t, domain.IsConfig(err))
}

func TestLoadBackup_BadRetention(t *testing.T) {
	setBackupEnv(t)
	t.Setenv("RETENTION_DAYS", "seven")

	_, err := LoadBackup()
	tassert.Error(t, err)
	tassert.True(t, domain.IsConfig(err))
}

func TestLoadFrontDoor_Defaults(t *testing.T) {
	cfg := LoadFrontDoor()
	tassert.Equal(t, ":8080", cfg.ListenAddr)
	tassert.Equal(t, "smartvault:restore", cfg.RestoreQueueKey)
}

func TestLoadWorker_RequiresRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	_, err := LoadWorker()
	tassert.Error(t, err)
	tassert.True(t, domain.IsConfig(err))
}
