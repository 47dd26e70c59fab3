package logutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName = "screen_qr_scanner.log"
	maxSizeMB   = 10
	maxArchives = 3

	DevelopmentEnvironment = "development"
	ProductionEnvironment  = "production"
)

type Options struct {
	EnableFileLogging bool
	Environment       string
	// Dir holds the log file and its archives. Defaults to the working directory.
	Dir string
}

// Setup builds the process logger and redirects the standard library logger into it.
// With file logging disabled, production output is discarded to keep stdout clean;
// the development environment always writes to stderr.
func Setup(opts Options) *zap.Logger {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	var sink io.Writer = io.Discard
	if opts.Environment == DevelopmentEnvironment {
		sink = os.Stderr
	}
	if opts.EnableFileLogging {
		sink = fileSink(dir)
	}

	logger := zap.New(zapcore.NewCore(encoder(opts.Environment), zapcore.AddSync(sink), level(opts.Environment)))
	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)
	return logger
}

func encoder(environment string) zapcore.Encoder {
	if environment == DevelopmentEnvironment {
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
}

func level(environment string) zapcore.Level {
	if environment == DevelopmentEnvironment {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// fileSink rotates at maxSizeMB and keeps maxArchives old files next to the log.
func fileSink(dir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxArchives,
	}
}

// Sanitize prepares decoded payloads for logging: long text is truncated and
// control characters are escaped so a payload cannot forge log lines.
func Sanitize(text string) string {
	const maxLogLength = 100
	if len(text) > maxLogLength {
		cut := maxLogLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}

	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteString("\\n")
		case r == '\t':
			b.WriteString("\\t")
		case r < 32 || r == 127:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
