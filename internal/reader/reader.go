// Package reader supervises a set of tailers keyed by path, polling all
// of them once per tick and delivering each new line to a sink along
// with the log source it came from.
package reader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hostwatch/seclogd/internal/logging"
	"github.com/hostwatch/seclogd/internal/model"
	"github.com/hostwatch/seclogd/internal/tailer"
)

// DefaultPollInterval is used when the orchestrator doesn't override it.
const DefaultPollInterval = 500 * time.Millisecond

// Sink receives each line read from a tailer along with its log source.
// Sinks MUST NOT panic; an error is logged and the next line proceeds.
type Sink func(line string, source model.LogSource) error

// TailerStatus summarizes one enrolled file for Reader.Status.
type TailerStatus struct {
	Path      string
	LogSource model.LogSource
}

type entry struct {
	path   string
	source model.LogSource
	tail   *tailer.Tailer
}

// Reader aggregates many tailers. All mutation and iteration of the
// tailer set goes through mu, matching the single-mutex-over-the-whole-set
// shape the concurrency model requires.
type Reader struct {
	mu           sync.Mutex
	entries      map[string]*entry
	sink         Sink
	pollInterval time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Reader that delivers lines to sink, polling every
// pollInterval (DefaultPollInterval if zero).
func New(sink Sink, pollInterval time.Duration) *Reader {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Reader{
		entries:      make(map[string]*entry),
		sink:         sink,
		pollInterval: pollInterval,
		logger:       logging.WithComponent(logging.Default(), "reader"),
	}
}

// Add opens a tailer for path at its current end and enrolls it under
// source. It returns false if the file cannot be opened (permission
// denied, doesn't exist), a permanent failure the orchestrator reports
// once and does not retry.
func (r *Reader) Add(path string, source model.LogSource) bool {
	t := tailer.New(path)
	if err := t.Open(true); err != nil {
		r.logger.Warn("could not enroll log path", "path", path, "error", err)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[path] = &entry{path: path, source: source, tail: t}
	return true
}

// Remove stops following path, closing its tailer.
func (r *Reader) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[path]; ok {
		e.tail.Close()
		delete(r.entries, path)
	}
}

// Status reports the currently enrolled paths.
func (r *Reader) Status() map[string]TailerStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]TailerStatus, len(r.entries))
	for path, e := range r.entries {
		out[path] = TailerStatus{Path: path, LogSource: e.source}
	}
	return out
}

// Start launches the single polling worker. It returns immediately; the
// worker runs until Stop is called or ctx is cancelled.
func (r *Reader) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx)
}

func (r *Reader) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce()
		}
	}
}

// pollOnce iterates every enrolled tailer once, draining all lines each
// has available before moving to the next. The sink is invoked
// synchronously, so a slow sink delays the remaining files in this pass,
// the documented back-pressure behavior.
func (r *Reader) pollOnce() {
	r.mu.Lock()
	snapshot := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mu.Unlock()

	for _, e := range snapshot {
		lines := e.tail.ReadNewLines()
		for _, line := range lines {
			if err := r.sink(line, e.source); err != nil {
				r.logger.Error("sink failed", "path", e.path, "error", err)
			}
		}
	}
}

// Stop cooperatively cancels the polling worker and waits up to 2s for
// it to exit.
func (r *Reader) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		r.logger.Warn("reader did not stop within 2s")
	}
}
