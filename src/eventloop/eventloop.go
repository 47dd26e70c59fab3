package eventloop

import (
	"context"
	"log"
	"time"

	"github.com/go-faster/errors"

	"screen-qr-scanner/src/decode"
	"screen-qr-scanner/src/hotkey"
	"screen-qr-scanner/src/logutil"
	"screen-qr-scanner/src/popup"
	"screen-qr-scanner/src/screenshot"
	"screen-qr-scanner/src/session"
	"screen-qr-scanner/src/singleinstance"
	"screen-qr-scanner/src/worker"
)

var (
	// ErrSuperseded answers a delegated request whose scan was replaced by a newer trigger.
	ErrSuperseded = errors.New("scan superseded by a newer request")
	// ErrBusy answers a delegated request that arrived while a selection was on screen.
	ErrBusy = errors.New("busy, please retry")
)

const defaultDeadline = 10 * time.Second

type Options struct {
	Capturer  screenshot.Capturer
	Decoder   decode.Decoder
	Presenter popup.Presenter
	// Server is optional. When set, its connections are handled as delegated scans.
	Server   singleinstance.Server
	TempPath string
	Deadline time.Duration
	// Workers sizes the decode pool; zero means NumCPU.
	Workers int
	// OnBusy observes busy/idle transitions. It runs on the loop goroutine.
	OnBusy func(busy bool)
}

// Loop is the single-threaded coordinator for hotkey, tray and run-once scans.
// All scan state below is owned by the goroutine running Run.
type Loop struct {
	capturer  screenshot.Capturer
	presenter popup.Presenter
	pool      *worker.Pool
	srv       singleinstance.Server
	tempPath  string
	deadline  time.Duration
	onBusy    func(bool)

	triggers chan struct{}
	captures chan captured
	results  chan result

	generation uint64
	capturing  bool
	busy       bool
	current    resultTarget
}

type captured struct {
	generation uint64
	err        error
}

type result struct {
	generation uint64
	payload    string
	found      bool
	err        error
	cancel     context.CancelFunc
}

func New(opts Options) *Loop {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = defaultDeadline
	}
	return &Loop{
		capturer:  opts.Capturer,
		presenter: opts.Presenter,
		pool:      worker.New(opts.Workers, opts.Decoder),
		srv:       opts.Server,
		tempPath:  opts.TempPath,
		deadline:  deadline,
		onBusy:    opts.OnBusy,
		triggers:  make(chan struct{}, 4),
		captures:  make(chan captured, 1),
		results:   make(chan result, 1),
	}
}

// Trigger requests a scan. It never blocks; triggers beyond the buffer are dropped.
func (l *Loop) Trigger() {
	select {
	case l.triggers <- struct{}{}:
	default:
		log.Printf("Trigger: buffer full, dropping")
	}
}

// StartHotkey registers a global hotkey that triggers scans.
func (l *Loop) StartHotkey(combo string) (func(), error) {
	if combo == "" {
		return func() {}, nil
	}
	return hotkey.Listen(combo, l.Trigger)
}

func (l *Loop) setBusy(b bool) {
	if l.busy == b {
		return
	}
	l.busy = b
	if l.onBusy != nil {
		l.onBusy(b)
	}
}

// Run processes triggers, delegated requests and scan completions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	defer l.abandon(ctx)

	var reqCh chan singleinstance.Conn
	if l.srv != nil {
		reqCh = make(chan singleinstance.Conn, 4)
		go func() {
			for {
				conn, err := l.srv.Next(ctx)
				if err != nil {
					close(reqCh)
					return
				}
				select {
				case reqCh <- conn:
				case <-ctx.Done():
					_ = conn.Close()
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.triggers:
			l.startScan(ctx, screenTarget{presenter: l.presenter})
		case conn, ok := <-reqCh:
			if !ok {
				reqCh = nil
				continue
			}
			l.startScan(ctx, newDelegatedTarget(l.presenter, conn))
		case c := <-l.captures:
			l.handleCapture(ctx, c)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) startScan(ctx context.Context, target resultTarget) {
	if l.capturing {
		log.Printf("startScan: selection already on screen, ignoring trigger")
		target.OnProcessError(ErrBusy)
		target.Close()
		return
	}

	l.presenter.Close()
	if l.current != nil {
		l.current.OnProcessError(ErrSuperseded)
		l.current.Close()
	}

	l.generation++
	l.current = target
	l.capturing = true
	l.setBusy(true)
	screenshot.Discard(l.tempPath)

	gen := l.generation
	log.Printf("startScan: capture %d into %s", gen, l.tempPath)
	go func() {
		err := l.capturer.Capture(ctx, l.tempPath)
		select {
		case l.captures <- captured{generation: gen, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (l *Loop) handleCapture(ctx context.Context, c captured) {
	l.capturing = false
	if c.generation != l.generation {
		return
	}
	if c.err != nil {
		log.Printf("handleCapture: capture %d reported: %v", c.generation, c.err)
	}
	if !screenshot.Exists(l.tempPath) {
		log.Printf("handleCapture: no capture file, selection cancelled")
		l.finish(func(t resultTarget) { t.OnProcessError(session.ErrSelectionCancelled) })
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, l.deadline)
	gen := c.generation
	submitted := l.pool.Submit(jobCtx, l.tempPath, func(payload string, found bool, err error) {
		select {
		case l.results <- result{generation: gen, payload: payload, found: found, err: err, cancel: cancel}:
		case <-ctx.Done():
			cancel()
		}
	})
	if !submitted {
		cancel()
		log.Printf("handleCapture: decode queue full")
		screenshot.Discard(l.tempPath)
		l.finish(func(t resultTarget) { t.OnProcessError(ErrBusy) })
	}
}

func (l *Loop) handleResult(res result) {
	if res.cancel != nil {
		res.cancel()
	}
	if res.generation != l.generation || l.current == nil {
		log.Printf("handleResult: dropping stale result from scan %d", res.generation)
		return
	}
	screenshot.Discard(l.tempPath)

	switch {
	case res.err != nil:
		log.Printf("handleResult: decode error: %v", res.err)
		l.finish(func(t resultTarget) { t.OnProcessError(res.err) })
	case !res.found:
		log.Printf("handleResult: no QR code found")
		l.finish(func(t resultTarget) { t.OnNotFound() })
	default:
		log.Printf("handleResult: decoded %q", logutil.Sanitize(res.payload))
		l.finish(func(t resultTarget) { t.OnFound(res.payload) })
	}
}

// finish delivers the outcome of the current scan and returns the loop to idle.
func (l *Loop) finish(deliver func(resultTarget)) {
	target := l.current
	l.current = nil
	if target != nil {
		deliver(target)
		target.Close()
	}
	l.setBusy(false)
}

func (l *Loop) abandon(ctx context.Context) {
	if l.current == nil {
		return
	}
	err := ctx.Err()
	if err == nil {
		err = errors.New("scanner stopped")
	}
	l.current.OnProcessError(err)
	l.current.Close()
	l.current = nil
}
