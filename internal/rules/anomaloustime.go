package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultStartHour and DefaultEndHour bound the "unusual" login window,
// midnight to 5am local time on the host.
const (
	DefaultStartHour = 0
	DefaultEndHour   = 5
)

// AnomalousLoginTimeRule flags successful logins inside an off-hours
// window. Disabled by default: a legitimate shift worker or cron-driven
// automation account makes this noisy on most hosts.
type AnomalousLoginTimeRule struct {
	enabled   bool
	startHour int
	endHour   int
}

func NewAnomalousLoginTimeRule(s config.RuleSettings) *AnomalousLoginTimeRule {
	return &AnomalousLoginTimeRule{
		enabled:   s.EnabledOr(false),
		startHour: config.IntOr(s.StartHour, DefaultStartHour),
		endHour:   config.IntOr(s.EndHour, DefaultEndHour),
	}
}

func (r *AnomalousLoginTimeRule) Name() string  { return "anomalous_login_time" }
func (r *AnomalousLoginTimeRule) Enabled() bool { return r.enabled }

func (r *AnomalousLoginTimeRule) Evaluate(events []*model.Event) []CandidateAlert {
	var out []CandidateAlert
	for _, e := range events {
		if e.EventType != "AUTH_SUCCESS" {
			continue
		}
		hour := e.EventTime.Hour()
		if hour >= r.startHour && hour < r.endHour {
			out = append(out, CandidateAlert{
				AlertType:       "ANOMALOUS_LOGIN",
				Severity:        model.SeverityMedium,
				Description:     fmt.Sprintf("Login for %q at %02d:00 falls outside normal hours", e.User, hour),
				RelatedEventIDs: []int64{e.ID},
			})
		}
	}
	return out
}
