package config

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birkheadc/transcript-chopper/internal/archive"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/chopper", cfg.TempDir)
	assert.Equal(t, ".", cfg.OutDir)
	assert.Equal(t, 4096, cfg.Stride)
	assert.Equal(t, 50, cfg.Sensitivity)
	assert.Equal(t, 50, cfg.TargetLength)
	assert.Equal(t, "index", cfg.NamingScheme)
	assert.Equal(t, "card-with-separator", cfg.Format)
	assert.Equal(t, ";", cfg.Separator)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("CHOPPER_TEMP_DIR", "/custom/tmp")
	t.Setenv("CHOPPER_OUT_DIR", "/custom/out")
	t.Setenv("CHOPPER_STRIDE", "1024")
	t.Setenv("CHOPPER_SENSITIVITY", "75")
	t.Setenv("CHOPPER_TARGET_LENGTH", "10")
	t.Setenv("CHOPPER_NAMING_SCHEME", "uuid")
	t.Setenv("CHOPPER_FORMAT", "flat-dump")
	t.Setenv("CHOPPER_SEPARATOR", "|")
	t.Setenv("CHOPPER_LOG_FORMAT", "json")
	t.Setenv("CHOPPER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/custom/tmp", cfg.TempDir)
	assert.Equal(t, "/custom/out", cfg.OutDir)
	assert.Equal(t, 1024, cfg.Stride)
	assert.Equal(t, 75, cfg.Sensitivity)
	assert.Equal(t, 10, cfg.TargetLength)
	assert.Equal(t, "uuid", cfg.NamingScheme)
	assert.Equal(t, "flat-dump", cfg.Format)
	assert.Equal(t, "|", cfg.Separator)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown naming scheme", func(t *testing.T) {
		t.Setenv("CHOPPER_NAMING_SCHEME", "hash")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Setenv("CHOPPER_FORMAT", "tarball")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive stride", func(t *testing.T) {
		t.Setenv("CHOPPER_STRIDE", "0")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_Accessors(t *testing.T) {
	t.Setenv("CHOPPER_NAMING_SCHEME", "timestamp-index")
	t.Setenv("CHOPPER_FORMAT", "per-unit-folder")
	t.Setenv("CHOPPER_SENSITIVITY", "30")
	t.Setenv("CHOPPER_TARGET_LENGTH", "80")

	cfg, err := Load()
	require.NoError(t, err)

	scheme, err := cfg.Scheme()
	require.NoError(t, err)
	assert.Equal(t, archive.SchemeTimestampIndex, scheme)

	format, err := cfg.ArchiveFormat()
	require.NoError(t, err)
	assert.Equal(t, archive.FormatPerUnitFolder, format)

	opts := cfg.SegmentOpts()
	assert.Equal(t, 30, opts.Sensitivity)
	assert.Equal(t, 80, opts.TargetLength)
}

func TestConfig_NewLogger(t *testing.T) {
	ctx := context.Background()

	cfg := &Config{LogFormat: "json", LogLevel: "debug"}
	logger := cfg.NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))

	cfg = &Config{LogFormat: "text", LogLevel: "warn"}
	logger = cfg.NewLogger()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
}

func TestConfig_String(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.String(), "Stride: 4096")
	assert.Contains(t, cfg.String(), `Separator: ";"`)
}
