package worker

import (
	"context"
	"log"
	"runtime"
	"sync"

	"screen-qr-scanner/src/decode"
)

// ResultCallback is invoked on decode completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(payload string, found bool, err error)

// Pool is a fixed-size decode worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	dec  decode.Decoder
	jobs chan job
	wg   sync.WaitGroup
	once sync.Once
}

type job struct {
	ctx  context.Context
	path string
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int, dec decode.Decoder) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{dec: dec, jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: decoding %s", j.path)
				payload, found, err := p.decodeWithContext(j.ctx, j.path)
				log.Printf("Worker: decode completed, found=%v, payload length=%d, err=%v", found, len(payload), err)
				j.cb(payload, found, err)
			}
		}()
	}
}

// Submit enqueues a decode job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, path string, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, path: path, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work. Safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// decodeWithContext runs the decoder but gives up when ctx is done.
// The decoder keeps running in the background; its result is dropped.
func (p *Pool) decodeWithContext(ctx context.Context, path string) (string, bool, error) {
	if _, ok := ctx.Deadline(); !ok {
		return p.dec.Decode(ctx, path)
	}
	type outcome struct {
		payload string
		found   bool
		err     error
	}
	resCh := make(chan outcome, 1)
	go func() {
		payload, found, err := p.dec.Decode(ctx, path)
		resCh <- outcome{payload, found, err}
	}()
	select {
	case r := <-resCh:
		return r.payload, r.found, r.err
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
