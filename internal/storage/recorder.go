package storage

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stream-orbs/internal/registry"
)

// ResultSaver persists a single result.
type ResultSaver interface {
	SaveResult(r registry.Result) (int64, error)
}

// Recorder writes results on its own goroutine so the frame loop never
// waits on the database. Record never blocks; when the buffer is full the
// oldest pending result is dropped.
type Recorder struct {
	saver   ResultSaver
	logger  *log.Logger
	pending chan registry.Result
	done    chan struct{}

	closeOnce sync.Once
}

// NewRecorder starts a recorder with the given buffer size.
func NewRecorder(saver ResultSaver, logger *log.Logger, buffer int) *Recorder {
	if buffer < 1 {
		buffer = 64
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Recorder{
		saver:   saver,
		logger:  logger,
		pending: make(chan registry.Result, buffer),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record queues a result for saving.
func (r *Recorder) Record(res registry.Result) {
	select {
	case r.pending <- res:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case old := <-r.pending:
		r.logger.Warn("result dropped", "mode", old.Mode, "id", old.SpriteID)
	default:
	}
	select {
	case r.pending <- res:
	default:
	}
}

func (r *Recorder) loop() {
	defer close(r.done)
	for res := range r.pending {
		if _, err := r.saver.SaveResult(res); err != nil {
			r.logger.Error("cannot save result", "mode", res.Mode, "id", res.SpriteID, "err", err)
		}
	}
}

// Close flushes pending results and stops the writer. Record must not be
// called after Close.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.pending)
	})
	<-r.done
}
