package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-faster/errors"

	"screen-qr-scanner/src/clipboard"
	"screen-qr-scanner/src/decode"
	"screen-qr-scanner/src/logutil"
	"screen-qr-scanner/src/screenshot"
)

var (
	ErrSelectionCancelled = errors.New("selection cancelled")
	ErrNotFound           = errors.New("no QR code found")
)

type ResultTarget interface {
	OnSuccess(payload string) error
	OnFailure(err error) error
}

type Options struct {
	Capturer screenshot.Capturer
	Decoder  decode.Decoder
	Target   ResultTarget
	// TempPath receives the capture and is removed before returning.
	TempPath string
	Deadline time.Duration
}

type Result struct {
	Payload string
}

// Execute runs one capture and decode cycle without any UI.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.Capturer == nil {
		return Result{}, errors.New("Capturer is required")
	}
	if opts.Decoder == nil {
		return Result{}, errors.New("Decoder is required")
	}
	if opts.Target == nil {
		return Result{}, errors.New("Target is required")
	}
	if opts.TempPath == "" {
		return Result{}, errors.New("TempPath is required")
	}

	fail := func(err error) (Result, error) {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}

	screenshot.Discard(opts.TempPath)
	defer screenshot.Discard(opts.TempPath)

	if err := opts.Capturer.Capture(ctx, opts.TempPath); err != nil {
		log.Printf("session: capture reported: %v", err)
	}
	if !screenshot.Exists(opts.TempPath) {
		return fail(ErrSelectionCancelled)
	}

	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 10 * time.Second
	}
	jobCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	payload, found, err := opts.Decoder.Decode(jobCtx, opts.TempPath)
	if err != nil {
		return fail(errors.Wrap(err, "decode"))
	}
	if !found {
		return fail(ErrNotFound)
	}
	log.Printf("session: decoded %q", logutil.Sanitize(payload))

	if err := opts.Target.OnSuccess(payload); err != nil {
		return fail(err)
	}
	return Result{Payload: payload}, nil
}

type ClipboardTarget struct{}

func (ClipboardTarget) OnSuccess(payload string) error {
	if err := clipboard.Write(payload); err != nil {
		return errors.Wrap(err, "clipboard")
	}
	return nil
}

func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(payload string) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprint(w, payload)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}
