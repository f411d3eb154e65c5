package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.EqualValues(t, 10_000_000, cfg.Execution.MaxTicksPerSession)
	require.EqualValues(t, 10000, cfg.Execution.MaxArchiveScenes)
	require.Equal(t, "0", cfg.Execution.DefaultEntrypoint)
	require.False(t, cfg.Execution.EnableTrace)

	require.Equal(t, 2000, cfg.Memory.IntBankInitialSize)
	require.Equal(t, 200, cfg.Memory.StrBankInitialSize)
	require.Equal(t, 40, cfg.Memory.StackIntInitialSize)
	require.Equal(t, 40, cfg.Memory.StackStrInitialSize)
	require.Equal(t, 1<<20, cfg.Memory.MaxBankSize)

	require.Equal(t, 16, cfg.Kidoku.InitialWords)
	require.Equal(t, 1<<16, cfg.Kidoku.MaxWords)

	require.EqualValues(t, 16, cfg.Effect.DefaultTickDurationMs)

	require.False(t, cfg.Inspector.Enabled)
	require.Equal(t, "127.0.0.1:18881", cfg.Inspector.ListenAddr)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	require.NotEmpty(t, path)
	require.Equal(t, "config.toml", filepath.Base(path))

	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		if path != "config.toml" {
			require.Equal(t, "rlvm", filepath.Base(filepath.Dir(path)))
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()
	require.NotEmpty(t, path)

	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		if path != "logs" {
			require.Equal(t, "logs", filepath.Base(path))
		}
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxTicksPerSession = 5_000_000
	cfg.Execution.EnableTrace = true
	cfg.Memory.IntBankInitialSize = 4000
	cfg.Inspector.Enabled = true
	cfg.Inspector.ListenAddr = "0.0.0.0:9000"
	cfg.Archive.TitleKeyName = "CLANNAD"

	require.NoError(t, cfg.SaveTo(configPath))
	require.FileExists(t, configPath)

	loaded, err := LoadFrom(configPath)
	require.NoError(t, err)

	require.EqualValues(t, 5_000_000, loaded.Execution.MaxTicksPerSession)
	require.True(t, loaded.Execution.EnableTrace)
	require.Equal(t, 4000, loaded.Memory.IntBankInitialSize)
	require.True(t, loaded.Inspector.Enabled)
	require.Equal(t, "0.0.0.0:9000", loaded.Inspector.ListenAddr)
	require.Equal(t, "CLANNAD", loaded.Archive.TitleKeyName)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	require.NoError(t, err)
	require.EqualValues(t, 10_000_000, cfg.Execution.MaxTicksPerSession)
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_ticks_per_session = "not a number"
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidTOML), 0o644))

	_, err := LoadFrom(configPath)
	require.Error(t, err)
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SaveTo(configPath))
	require.FileExists(t, configPath)
}
