package runtimeinit

import (
	"log"

	"github.com/go-faster/errors"

	"screen-qr-scanner/src/clipboard"
	"screen-qr-scanner/src/config"
	"screen-qr-scanner/src/logutil"
	"screen-qr-scanner/src/notification"
)

type Options struct {
	LoadOptions config.LoadOptions
	// SetupLogging overrides the default logutil setup.
	SetupLogging func(cfg *config.Config)
	// RequireClipboard turns a clipboard initialization failure into an error.
	RequireClipboard bool
	// ShowBlockingErrors reports failures in a dialog as well as the returned error.
	ShowBlockingErrors bool
}

// Bootstrap loads configuration, sets up logging and initializes the clipboard.
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		err = errors.Wrap(err, "failed to load configuration")
		if opts.ShowBlockingErrors {
			notification.ShowBlockingError("Screen QR Scanner", err.Error())
		}
		return nil, err
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg)
	} else {
		logutil.Setup(logutil.Options{
			EnableFileLogging: cfg.EnableFileLogging,
			Environment:       cfg.LogEnvironment,
			Dir:               cfg.LogDir,
		})
	}

	if err := clipboard.Init(); err != nil {
		if opts.RequireClipboard {
			return nil, errors.Wrap(err, "failed to initialize clipboard")
		}
		log.Printf("Clipboard unavailable, copy will fail: %v", err)
	}

	return cfg, nil
}
