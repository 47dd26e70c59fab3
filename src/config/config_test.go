package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("HOTKEY", "Ctrl+Shift+T")
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("CAPTURE_BACKEND", "display")
	t.Setenv("DECODE_DEADLINE", "3s")
	t.Setenv("COPIED_FEEDBACK", "250ms")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	require.Equal(t, "Ctrl+Shift+T", cfg.Hotkey)
	require.True(t, cfg.EnableFileLogging)
	require.Equal(t, CaptureBackendDisplay, cfg.CaptureBackend)
	require.Equal(t, 3*time.Second, cfg.DecodeDeadline)
	require.Equal(t, 250*time.Millisecond, cfg.CopiedFeedback)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HOTKEY", "CAPTURE_BACKEND", "CAPTURE_COMMAND", "TEMP_FILE_NAME", "DECODE_DEADLINE", "COPIED_FEEDBACK", "DISPLAY_INDEX"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	require.Equal(t, "Cmd+Shift+X", cfg.Hotkey)
	require.Equal(t, "/usr/sbin/screencapture", cfg.CaptureCommand)
	require.Equal(t, -1, cfg.DisplayIndex)
	require.Equal(t, 10*time.Second, cfg.DecodeDeadline)
	require.Equal(t, 1500*time.Millisecond, cfg.CopiedFeedback)
	require.Equal(t, filepath.Join(os.TempDir(), "temp_qr_scan.png"), cfg.TempPath())
}

func TestLoadWithOptionsOverrides(t *testing.T) {
	t.Setenv("HOTKEY", "Ctrl+Alt+Q")
	t.Setenv("CAPTURE_BACKEND", "display")

	cfg, err := LoadWithOptions(LoadOptions{
		HotkeyOverride:         "Cmd+Shift+Q",
		CaptureBackendOverride: "screencapture",
	})
	require.NoError(t, err)

	require.Equal(t, "Cmd+Shift+Q", cfg.Hotkey)
	require.Equal(t, CaptureBackendScreencapture, cfg.CaptureBackend)
}

func TestLoadFromConfigPathEnvVar(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "scanner.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TEMP_FILE_NAME=custom_scan.png\n"), 0o600))

	t.Setenv(ConfigPathEnvVar, envFile)
	t.Setenv("TEMP_FILE_NAME", "")
	require.NoError(t, os.Unsetenv("TEMP_FILE_NAME"))
	t.Cleanup(func() { _ = os.Unsetenv("TEMP_FILE_NAME") })

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, "custom_scan.png", cfg.TempFileName)
}

func TestResolveCaptureBackend(t *testing.T) {
	auto := CaptureBackendDisplay
	if runtime.GOOS == "darwin" {
		auto = CaptureBackendScreencapture
	}

	tests := []struct {
		in   string
		want string
	}{
		{"screencapture", CaptureBackendScreencapture},
		{"Interactive", CaptureBackendScreencapture},
		{"display", CaptureBackendDisplay},
		{" SCREEN ", CaptureBackendDisplay},
		{"", auto},
		{"bogus", auto},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, resolveCaptureBackend(tt.in))
		})
	}
}
