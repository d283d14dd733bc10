package rules

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hostwatch/seclogd/internal/logging"
	"github.com/hostwatch/seclogd/internal/model"
	"github.com/hostwatch/seclogd/internal/store"
)

// DefaultIntervalSeconds is the rule engine's wake-up interval when the
// config file doesn't override it.
const DefaultIntervalSeconds = 60

// windowMinutes and rowLimit bound every evaluation pass: the last 15
// minutes of events, capped at 1000 rows, regardless of the configured
// rule-engine interval.
const (
	windowMinutes   = 15
	rowLimit        = 1000
	dedupeLookback  = 15
	dedupeRowsCheck = 100
)

// Engine wakes every interval, pulls the recent event slice, evaluates
// every enabled rule in catalog order, and inserts any candidate alert
// not already present in the store within the last 15 minutes.
type Engine struct {
	store    *store.Store
	catalog  []Rule
	interval time.Duration
	logger   *slog.Logger

	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// NewEngine builds an Engine over catalog, evaluating every interval
// (DefaultIntervalSeconds if zero).
func NewEngine(st *store.Store, catalog []Rule, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultIntervalSeconds * time.Second
	}
	return &Engine{
		store:    st,
		catalog:  catalog,
		interval: interval,
		logger:   logging.WithComponent(logging.Default(), "rules"),
	}
}

// Start launches the background worker. Calling Start while already
// running is a no-op.
func (e *Engine) Start() {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Warn("rule engine already running, ignoring Start")
		return
	}
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.loop()
}

func (e *Engine) loop() {
	defer close(e.done)

	for e.running.Load() {
		e.evaluateOnce()

		for i := 0; i < int(e.interval/time.Second); i++ {
			if !e.running.Load() {
				return
			}
			time.Sleep(time.Second)
		}
	}
}

// Stop cooperatively cancels the worker and waits up to 5s for it to
// exit. Checking the running flag happens in 1s slices inside loop, so
// the worker observes the stop request within 1s.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	select {
	case <-e.done:
	case <-time.After(5 * time.Second):
		e.logger.Warn("rule engine did not stop within 5s")
	}
}

func (e *Engine) evaluateOnce() {
	correlationID := uuid.NewString()
	log := logging.WithCorrelationID(e.logger, correlationID)

	events, err := e.store.RecentEventsForAnalysis(windowMinutes, rowLimit)
	if err != nil {
		log.Error("failed to pull recent events", "error", err)
		return
	}

	for _, rule := range e.catalog {
		if !rule.Enabled() {
			continue
		}
		e.evaluateRule(log, rule, events)
	}
}

// evaluateRule isolates one rule's failure from the rest of the catalog:
// a panicking rule is recovered, logged with its name, and the loop
// continues rather than aborting the whole evaluation pass.
func (e *Engine) evaluateRule(log *slog.Logger, rule Rule, events []*model.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("rule evaluation panicked", "rule", rule.Name(), "panic", r)
		}
	}()

	candidates := rule.Evaluate(events)
	for _, c := range candidates {
		e.insertIfNotDuplicate(logging.WithRule(log, rule.Name()), c)
	}
}

// insertIfNotDuplicate checks the last 15 minutes of stored alerts for
// an identical (alert_type, description) pair before inserting. This is
// deliberately coarse, since the description already encodes the
// distinguishing dimension (user, ip, count).
func (e *Engine) insertIfNotDuplicate(log *slog.Logger, c CandidateAlert) {
	existing, _, err := e.store.QueryAlerts(store.AlertFilter{
		AlertType:    c.AlertType,
		SinceMinutes: dedupeLookback,
	}, dedupeRowsCheck, 0)
	if err != nil {
		log.Error("failed to check for duplicate alert", "error", err)
		return
	}
	for _, a := range existing {
		if a.Description == c.Description {
			return
		}
	}

	alert := &model.Alert{
		AlertType:       c.AlertType,
		Severity:        c.Severity,
		Description:     c.Description,
		RelatedEventIDs: c.RelatedEventIDs,
		Status:          model.AlertStatusActive,
	}
	if _, err := e.store.InsertAlert(alert); err != nil {
		log.Error("failed to insert alert", "error", err)
	}
}
