package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultMaxLogins is the per-user login count that triggers this rule,
// provided the logins also span at least two distinct source IPs.
const DefaultMaxLogins = 5

// RapidLoginRule flags a user who successfully authenticates many times
// from more than one address within the evaluation window, consistent
// with a shared/compromised credential rather than one person working.
type RapidLoginRule struct {
	enabled   bool
	maxLogins int
}

func NewRapidLoginRule(s config.RuleSettings) *RapidLoginRule {
	return &RapidLoginRule{
		enabled:   s.EnabledOr(true),
		maxLogins: config.IntOr(s.MaxLogins, DefaultMaxLogins),
	}
}

func (r *RapidLoginRule) Name() string  { return "rapid_login" }
func (r *RapidLoginRule) Enabled() bool { return r.enabled }

func (r *RapidLoginRule) Evaluate(events []*model.Event) []CandidateAlert {
	byUser := map[string][]*model.Event{}
	for _, e := range events {
		if e.EventType == "AUTH_SUCCESS" && e.User != "" {
			byUser[e.User] = append(byUser[e.User], e)
		}
	}

	var out []CandidateAlert
	for user, group := range byUser {
		if len(group) < r.maxLogins {
			continue
		}
		ips := map[string]struct{}{}
		for _, e := range group {
			if e.SrcIP != "" {
				ips[e.SrcIP] = struct{}{}
			}
		}
		if len(ips) >= 2 {
			out = append(out, CandidateAlert{
				AlertType:       "RAPID_LOGIN",
				Severity:        model.SeverityHigh,
				Description:     fmt.Sprintf("User %q logged in %d times from %d distinct IPs", user, len(group), len(ips)),
				RelatedEventIDs: eventIDs(group),
			})
		}
	}
	return out
}
