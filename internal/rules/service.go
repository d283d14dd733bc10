package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultMaxFailures is the SERVICE_FAILURE count that triggers this rule.
const DefaultMaxFailures = 3

// ServiceFailureRule fires when too many systemd units fail to start
// within the evaluation window.
type ServiceFailureRule struct {
	enabled     bool
	maxFailures int
}

func NewServiceFailureRule(s config.RuleSettings) *ServiceFailureRule {
	return &ServiceFailureRule{
		enabled:     s.EnabledOr(true),
		maxFailures: config.IntOr(s.MaxFailures, DefaultMaxFailures),
	}
}

func (r *ServiceFailureRule) Name() string  { return "service_failure" }
func (r *ServiceFailureRule) Enabled() bool { return r.enabled }

func (r *ServiceFailureRule) Evaluate(events []*model.Event) []CandidateAlert {
	var group []*model.Event
	for _, e := range events {
		if e.EventType == "SERVICE_FAILURE" {
			group = append(group, e)
		}
	}
	if len(group) < r.maxFailures {
		return nil
	}

	return []CandidateAlert{{
		AlertType:       "SERVICE_FAILURES",
		Severity:        model.SeverityHigh,
		Description:     fmt.Sprintf("%d service start failures in the last evaluation window", len(group)),
		RelatedEventIDs: eventIDs(group),
	}}
}
