package runtimeinit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"screen-qr-scanner/src/config"
)

func TestBootstrapAppliesOverrides(t *testing.T) {
	t.Setenv("HOTKEY", "Ctrl+Alt+Q")

	var logged *config.Config
	cfg, err := Bootstrap(Options{
		LoadOptions:  config.LoadOptions{HotkeyOverride: "Cmd+Shift+S"},
		SetupLogging: func(c *config.Config) { logged = c },
	})
	require.NoError(t, err)
	require.Equal(t, "Cmd+Shift+S", cfg.Hotkey)
	require.Same(t, cfg, logged)
}
