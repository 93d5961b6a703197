package stage

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// Driver runs the stage on a fixed timer, one frame per tick.
type Driver struct {
	stage    *Stage
	logger   *log.Logger
	interval time.Duration
	onFrame  func(Frame)

	startMu sync.Mutex // Serializes Drive so a restart never races another
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithFrameHook registers a callback run after every frame with the
// frame's snapshot. It runs on the driver goroutine.
func WithFrameHook(fn func(Frame)) DriverOption {
	return func(d *Driver) { d.onFrame = fn }
}

// WithInterval overrides the frame interval derived from the tick rate.
func WithInterval(iv time.Duration) DriverOption {
	return func(d *Driver) {
		if iv > 0 {
			d.interval = iv
		}
	}
}

// WithDriverLogger sets the driver logger.
func WithDriverLogger(l *log.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver creates a stopped driver for st.
func NewDriver(st *Stage, opts ...DriverOption) *Driver {
	d := &Driver{
		stage:    st,
		logger:   log.New(io.Discard),
		interval: st.Runtime().FrameInterval(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Drive starts the frame loop drawing into dst; a nil dst steps without
// drawing. It returns immediately. Calling Drive while running restarts
// the loop on the new surface.
func (d *Driver) Drive(ctx context.Context, dst core.Surface) {
	d.startMu.Lock()
	defer d.startMu.Unlock()

	d.Stop()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true
	go d.run(ctx, dst, d.done)

	d.logger.Debug("driver started", "interval", d.interval)
}

// Stop halts the loop and waits for the current frame to finish.
// Stopping a stopped driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Driver) run(ctx context.Context, dst core.Surface, done chan struct{}) {
	defer func() {
		d.mu.Lock()
		if d.done == done || d.done == nil {
			d.running = false
		}
		d.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.stage.Frame(dst)
			if d.onFrame != nil {
				d.onFrame(d.stage.Snapshot())
			}
		case <-ctx.Done():
			d.logger.Debug("driver stopped", "tick", d.stage.Tick())
			return
		}
	}
}
