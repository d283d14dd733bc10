// Package orchestrator wires the tailer, reader, parser, store, and rule
// engine together into one runnable daemon: discovering readable log
// paths at startup, routing each parsed line into the store, and
// stopping every component in reverse start order on signal.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/logging"
	"github.com/hostwatch/seclogd/internal/model"
	"github.com/hostwatch/seclogd/internal/parsing"
	"github.com/hostwatch/seclogd/internal/reader"
	"github.com/hostwatch/seclogd/internal/rules"
	"github.com/hostwatch/seclogd/internal/store"
)

// WellKnownPaths maps the log files this daemon knows how to follow on a
// stock Linux host to the parser family that understands them.
var WellKnownPaths = map[string]model.LogSource{
	"/var/log/auth.log":        model.LogSourceAuth,
	"/var/log/secure":          model.LogSourceAuth,
	"/var/log/syslog":          model.LogSourceSyslog,
	"/var/log/messages":        model.LogSourceSyslog,
	"/var/log/kern.log":        model.LogSourceKernel,
	"/var/log/ufw.log":         model.LogSourceFirewall,
	"/var/log/audit/audit.log": model.LogSourceAudit,
}

// Orchestrator owns one Reader, one Store, and one rule Engine, started
// and stopped together.
type Orchestrator struct {
	cfg    *config.Config
	logger *slog.Logger

	store  *store.Store
	reader *reader.Reader
	engine *rules.Engine

	mockFeed *mockFeed
}

// New opens the store at cfg.Database.Path and builds the reader and
// rule engine over it. The returned Orchestrator is not yet running;
// call Run to discover paths and start everything.
func New(cfg *config.Config) (*Orchestrator, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: opening store: %w", err)
	}

	o := &Orchestrator{
		cfg:    cfg,
		logger: logging.WithComponent(logging.Default(), "orchestrator"),
		store:  st,
	}
	o.reader = reader.New(o.handleLine, reader.DefaultPollInterval)
	o.engine = rules.NewEngine(st, rules.Catalog(cfg), time.Duration(cfg.Analysis.IntervalSeconds)*time.Second)
	return o, nil
}

// handleLine parses line with the parser registered for source and, on
// a non-null event, inserts it into the store. Sinks must not panic or
// return errors that abort the poll loop, so every failure here is
// logged and swallowed.
func (o *Orchestrator) handleLine(line string, source model.LogSource) error {
	event, ok := parsing.ParseLine(line, source, time.Now())
	if !ok {
		return nil
	}
	if _, err := o.store.InsertEvent(event); err != nil {
		o.logger.Error("failed to insert event", "log_source", source, "error", err)
	}
	return nil
}

// discover enrolls every well-known path that exists and is readable.
// An unreadable path is reported once via a warning log and never
// retried; a missing path is silently skipped (most hosts don't have
// every family of log present).
func (o *Orchestrator) discover() int {
	enrolled := 0
	for path, source := range WellKnownPaths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		if f, err := os.Open(path); err != nil {
			o.logger.Warn("log path exists but is not readable", "path", path, "error", err)
			continue
		} else {
			f.Close()
		}

		if o.reader.Add(path, source) {
			o.logger.Info("enrolled log path", "path", path, "log_source", source)
			enrolled++
		}
	}
	return enrolled
}

// Run discovers log paths, starts the reader and rule engine, and
// blocks until ctx is cancelled or a SIGINT/SIGTERM arrives. On return,
// every component has been stopped in reverse start order and the store
// is closed.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	enrolled := o.discover()
	if enrolled == 0 {
		o.logger.Warn("no log paths are readable; running against an empty store")
		if o.cfg.UseMockData {
			o.mockFeed = newMockFeed(o.handleLine)
			o.mockFeed.Start(ctx)
			o.logger.Info("mock data feed enabled in place of real log paths")
		}
	}

	o.reader.Start(ctx)
	o.engine.Start()
	o.logger.Info("orchestrator running", "enrolled_paths", enrolled)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		o.logger.Info("shutdown signal received", "signal", sig.String())
	}

	o.stop()
	return nil
}

// stop tears down components in reverse start order: rule engine, then
// reader, then the mock feed if running, then the store.
func (o *Orchestrator) stop() {
	o.engine.Stop()
	o.reader.Stop()
	if o.mockFeed != nil {
		o.mockFeed.Stop()
	}
	if err := o.store.Close(); err != nil {
		o.logger.Error("failed to close store", "error", err)
	}
}
