package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultMaxAttempts is the brute-force threshold used when the config
// file doesn't override it.
const DefaultMaxAttempts = 5

// BruteForceRule groups failed auth events by user and separately by
// src_ip; any group at or above MaxAttempts becomes a BRUTE_FORCE alert.
// The rule does not slice by its own window; it relies entirely on the
// rule engine's 15-minute pull, which is wider than this rule's own
// notional 10-minute window in the original detector. That imprecision
// is preserved rather than papered over with extra filtering.
type BruteForceRule struct {
	enabled     bool
	maxAttempts int
}

func NewBruteForceRule(s config.RuleSettings) *BruteForceRule {
	return &BruteForceRule{
		enabled:     s.EnabledOr(true),
		maxAttempts: config.IntOr(s.MaxAttempts, DefaultMaxAttempts),
	}
}

func (r *BruteForceRule) Name() string  { return "brute_force" }
func (r *BruteForceRule) Enabled() bool { return r.enabled }

func (r *BruteForceRule) Evaluate(events []*model.Event) []CandidateAlert {
	byUser := map[string][]*model.Event{}
	byIP := map[string][]*model.Event{}

	for _, e := range events {
		if !isAuthFailure(e.EventType) {
			continue
		}
		if e.User != "" {
			byUser[e.User] = append(byUser[e.User], e)
		}
		if e.SrcIP != "" {
			byIP[e.SrcIP] = append(byIP[e.SrcIP], e)
		}
	}

	var out []CandidateAlert
	for user, group := range byUser {
		if len(group) >= r.maxAttempts {
			out = append(out, CandidateAlert{
				AlertType:       "BRUTE_FORCE",
				Severity:        model.SeverityCritical,
				Description:     fmt.Sprintf("Brute force suspected: user %q had %d failed login attempts", user, len(group)),
				RelatedEventIDs: eventIDs(group),
			})
		}
	}
	for ip, group := range byIP {
		if len(group) >= r.maxAttempts {
			out = append(out, CandidateAlert{
				AlertType:       "BRUTE_FORCE",
				Severity:        model.SeverityCritical,
				Description:     fmt.Sprintf("Brute force suspected: src_ip %q had %d failed login attempts", ip, len(group)),
				RelatedEventIDs: eventIDs(group),
			})
		}
	}
	return out
}
