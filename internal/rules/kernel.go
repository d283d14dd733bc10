package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultMaxErrors is the kernel-class event count that triggers this rule.
const DefaultMaxErrors = 10

var kernelClassEvents = map[string]struct{}{
	"KERNEL_ERROR":    {},
	"KERNEL_WARNING":  {},
	"KERNEL_SEGFAULT": {},
	"KERNEL_OOM":      {},
	"SYSTEM_ERROR":    {},
}

// SystemInstabilityRule counts kernel-class events across the whole
// pulled slice; crossing MaxErrors fires SYSTEM_INSTABILITY, escalated
// to critical if any segfault or OOM is present among them.
type SystemInstabilityRule struct {
	enabled   bool
	maxErrors int
}

func NewSystemInstabilityRule(s config.RuleSettings) *SystemInstabilityRule {
	return &SystemInstabilityRule{
		enabled:   s.EnabledOr(true),
		maxErrors: config.IntOr(s.MaxErrors, DefaultMaxErrors),
	}
}

func (r *SystemInstabilityRule) Name() string  { return "system_instability" }
func (r *SystemInstabilityRule) Enabled() bool { return r.enabled }

func (r *SystemInstabilityRule) Evaluate(events []*model.Event) []CandidateAlert {
	var group []*model.Event
	severe := false

	for _, e := range events {
		if _, ok := kernelClassEvents[e.EventType]; !ok {
			continue
		}
		group = append(group, e)
		if e.EventType == "KERNEL_SEGFAULT" || e.EventType == "KERNEL_OOM" {
			severe = true
		}
	}

	if len(group) < r.maxErrors {
		return nil
	}

	severity := model.SeverityHigh
	if severe {
		severity = model.SeverityCritical
	}

	return []CandidateAlert{{
		AlertType:       "SYSTEM_INSTABILITY",
		Severity:        severity,
		Description:     fmt.Sprintf("%d kernel-class errors/warnings in the last evaluation window", len(group)),
		RelatedEventIDs: eventIDs(group),
	}}
}
