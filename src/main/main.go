package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"screen-qr-scanner/src/clipboard"
	"screen-qr-scanner/src/config"
	"screen-qr-scanner/src/decode"
	"screen-qr-scanner/src/eventloop"
	"screen-qr-scanner/src/notification"
	"screen-qr-scanner/src/popup"
	"screen-qr-scanner/src/runtimeinit"
	"screen-qr-scanner/src/screenshot"
	"screen-qr-scanner/src/session"
	"screen-qr-scanner/src/singleinstance"
	"screen-qr-scanner/src/tray"
)

const (
	appID       = "com.screenqrscanner.app"
	appName     = "Screen QR Scanner"
	busyTooltip = "Screen QR Scanner: scanning..."
)

type mainOptions struct {
	runOnce        bool
	copy           bool
	hotkey         string
	captureBackend string
}

func (o mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		HotkeyOverride:         o.hotkey,
		CaptureBackendOverride: o.captureBackend,
	}
}

func main() {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeLegacyArgs(os.Args)[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-qr-scanner",
		Short:         "Scan QR codes from a screen region",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.runOnce {
				return runOnce(cmd.Context(), *opts)
			}
			return runResident(*opts)
		},
	}

	cmd.Flags().BoolVar(&opts.runOnce, "run-once", false, "Scan once, print the payload to stdout and exit")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "With --run-once, copy the payload to the clipboard instead of printing it")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Hotkey combination, e.g. Cmd+Shift+X (overrides HOTKEY)")
	cmd.Flags().StringVar(&opts.captureBackend, "capture-backend", "", "Capture backend: screencapture or display (overrides CAPTURE_BACKEND)")

	return cmd
}

// normalizeLegacyArgs maps single-dash long flags (-run-once) to their GNU form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"screen-qr-scanner"}
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"run-once", "copy", "hotkey", "capture-backend"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func runResident(opts mainOptions) error {
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:        opts.loadOptions(),
		ShowBlockingErrors: true,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	srv := singleinstance.NewServer()
	if err := srv.Start(ctx); err != nil {
		start, _ := singleinstance.PortRange()
		fmt.Printf("one is already running on port %d\n", start)
		return err
	}
	defer srv.Close()

	log.Printf("Screen QR Scanner initialized")
	log.Printf("Hotkey: %s", cfg.Hotkey)
	log.Printf("Capture backend: %s", cfg.CaptureBackend)
	log.Printf("Decode deadline: %s", cfg.DecodeDeadline)

	a := app.NewWithID(appID)
	a.SetIcon(fyne.NewStaticResource("AppIcon.png", tray.AppIcon()))

	presenter := popup.NewFyne(a, popup.FyneOptions{
		Copy:     clipboard.Write,
		Feedback: cfg.CopiedFeedback,
	})

	idleTooltip := fmt.Sprintf("%s - Press %s to scan", appName, cfg.Hotkey)
	tray.SetAboutHotkey(cfg.Hotkey)
	tray.SetAboutExtra(fmt.Sprintf("Resident TCP port: %d", srv.Port()))

	loop := eventloop.New(eventloop.Options{
		Capturer:  screenshot.New(cfg.CaptureBackend, cfg.CaptureCommand, cfg.DisplayIndex),
		Decoder:   decode.QR{},
		Presenter: presenter,
		Server:    srv,
		TempPath:  cfg.TempPath(),
		Deadline:  cfg.DecodeDeadline,
		OnBusy: func(busy bool) {
			if busy {
				tray.UpdateTooltip(busyTooltip)
			} else {
				tray.UpdateTooltip(idleTooltip)
			}
		},
	})

	trayIcon, err := tray.New(tray.Config{
		Tooltip: idleTooltip,
		OnScan:  loop.Trigger,
		OnAbout: presenter.ShowAbout,
		OnExit:  cancel,
	})
	if err != nil {
		return errors.Wrap(err, "create tray")
	}
	defer trayIcon.Destroy()
	a.Lifecycle().SetOnStarted(trayIcon.Start)

	// Fyne quits when its last window closes; this one is never shown.
	keepAlive := a.NewWindow(appName)
	keepAlive.SetCloseIntercept(func() {})

	stopHotkey, err := loop.StartHotkey(cfg.Hotkey)
	if err != nil {
		log.Printf("Hotkey registration failed, continuing without it: %v", err)
	} else {
		defer stopHotkey()
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
		fyne.Do(a.Quit)
	}()

	a.Run()
	cancel()
	<-loopDone
	return nil
}

func runOnce(parent context.Context, opts mainOptions) error {
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:      opts.loadOptions(),
		RequireClipboard: opts.copy,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(parent)
	defer cancel()

	var target session.ResultTarget = session.StdoutTarget{}
	if opts.copy {
		target = session.ClipboardTarget{}
	}

	return handleRunOnceWithDelegation(ctx, singleinstance.NewClient(), target, func() error {
		_, err := session.Execute(ctx, session.Options{
			Capturer: screenshot.New(cfg.CaptureBackend, cfg.CaptureCommand, cfg.DisplayIndex),
			Decoder:  decode.QR{},
			Target:   target,
			TempPath: cfg.TempPath(),
			Deadline: cfg.DecodeDeadline,
		})
		if err != nil && !errors.Is(err, session.ErrSelectionCancelled) && !errors.Is(err, session.ErrNotFound) {
			notification.ShowBlockingError(appName, err.Error())
		}
		return err
	})
}

// handleRunOnceWithDelegation asks a resident to scan and falls back to a
// standalone scan when none answers. A failure reported by the resident is final.
func handleRunOnceWithDelegation(ctx context.Context, client singleinstance.Client, target session.ResultTarget, fallback func() error) error {
	delegated, payload, err := client.TryScan(ctx)
	if err != nil {
		var residentErr *singleinstance.ResidentError
		if errors.As(err, &residentErr) {
			return err
		}
		log.Printf("Delegation error: %v; falling back to standalone", err)
		return fallback()
	}
	if !delegated {
		log.Printf("No resident detected, running standalone")
		return fallback()
	}
	log.Printf("Delegated to resident")
	return target.OnSuccess(payload)
}
