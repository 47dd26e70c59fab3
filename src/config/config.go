package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// ConfigPathEnvVar names a .env file used when none sits next to the executable.
	ConfigPathEnvVar = "SCREEN_QR_SCANNER"

	CaptureBackendAuto          = ""
	CaptureBackendScreencapture = "screencapture"
	CaptureBackendDisplay       = "display"
)

type LoadOptions struct {
	HotkeyOverride         string
	CaptureBackendOverride string
}

type Config struct {
	Hotkey            string        `env:"HOTKEY" env-default:"Cmd+Shift+X"`
	EnableFileLogging bool          `env:"ENABLE_FILE_LOGGING" env-default:"false"`
	LogEnvironment    string        `env:"LOG_ENVIRONMENT" env-default:"production"`
	LogDir            string        `env:"LOG_DIR" env-default:"."`
	CaptureBackend    string        `env:"CAPTURE_BACKEND"`
	CaptureCommand    string        `env:"CAPTURE_COMMAND" env-default:"/usr/sbin/screencapture"`
	DisplayIndex      int           `env:"DISPLAY_INDEX" env-default:"-1"`
	TempFileName      string        `env:"TEMP_FILE_NAME" env-default:"temp_qr_scan.png"`
	DecodeDeadline    time.Duration `env:"DECODE_DEADLINE" env-default:"10s"`
	CopiedFeedback    time.Duration `env:"COPIED_FEEDBACK" env-default:"1.5s"`
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, the file named by SCREEN_QR_SCANNER
	// Process environment always wins over .env values.
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}

	if override := strings.TrimSpace(opts.HotkeyOverride); override != "" {
		cfg.Hotkey = override
	}
	backend := cfg.CaptureBackend
	if override := strings.TrimSpace(opts.CaptureBackendOverride); override != "" {
		backend = override
	}
	cfg.CaptureBackend = resolveCaptureBackend(backend)

	if cfg.DecodeDeadline <= 0 {
		cfg.DecodeDeadline = 10 * time.Second
	}
	if cfg.CopiedFeedback <= 0 {
		cfg.CopiedFeedback = 1500 * time.Millisecond
	}
	if strings.TrimSpace(cfg.TempFileName) == "" {
		cfg.TempFileName = "temp_qr_scan.png"
	}

	return &cfg, nil
}

// TempPath is the single capture file, overwritten on every scan.
func (c *Config) TempPath() string {
	return filepath.Join(os.TempDir(), filepath.Base(c.TempFileName))
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveCaptureBackend(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case CaptureBackendScreencapture, "interactive":
		return CaptureBackendScreencapture
	case CaptureBackendDisplay, "screen":
		return CaptureBackendDisplay
	default:
		if runtime.GOOS == "darwin" {
			return CaptureBackendScreencapture
		}
		return CaptureBackendDisplay
	}
}
