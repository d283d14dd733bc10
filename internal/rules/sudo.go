package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultSudoFailures is the threshold for the sudo-abuse half of this rule.
const DefaultSudoFailures = 3

// SuspiciousSudoRule has two independent triggers sharing one watchlist
// of service accounts that should never legitimately invoke sudo:
// any sudo activity at all from a watchlisted user is SUSPICIOUS_SUDO,
// and three or more sudo failures from any single user is SUDO_ABUSE.
type SuspiciousSudoRule struct {
	enabled      bool
	watchlist    map[string]struct{}
	sudoFailures int
}

func NewSuspiciousSudoRule(s config.RuleSettings) *SuspiciousSudoRule {
	return &SuspiciousSudoRule{
		enabled:      s.EnabledOr(true),
		watchlist:    watchlistOf("www-data", "nobody", "guest"),
		sudoFailures: config.IntOr(s.SudoFailures, DefaultSudoFailures),
	}
}

func (r *SuspiciousSudoRule) Name() string  { return "suspicious_sudo" }
func (r *SuspiciousSudoRule) Enabled() bool { return r.enabled }

func (r *SuspiciousSudoRule) Evaluate(events []*model.Event) []CandidateAlert {
	var out []CandidateAlert
	failuresByUser := map[string][]*model.Event{}

	for _, e := range events {
		switch e.EventType {
		case "SUDO_SUCCESS", "SUDO_COMMAND", "SUDO_FAILURE":
		default:
			continue
		}

		if inWatchlist(e.User, r.watchlist) {
			out = append(out, CandidateAlert{
				AlertType:       "SUSPICIOUS_SUDO",
				Severity:        model.SeverityCritical,
				Description:     fmt.Sprintf("Sudo activity from watchlisted account %q: %s", e.User, e.EventType),
				RelatedEventIDs: []int64{e.ID},
			})
		}

		if e.EventType == "SUDO_FAILURE" && e.User != "" {
			failuresByUser[e.User] = append(failuresByUser[e.User], e)
		}
	}

	for user, group := range failuresByUser {
		if len(group) >= r.sudoFailures {
			out = append(out, CandidateAlert{
				AlertType:       "SUDO_ABUSE",
				Severity:        model.SeverityHigh,
				Description:     fmt.Sprintf("User %q had %d failed sudo attempts", user, len(group)),
				RelatedEventIDs: eventIDs(group),
			})
		}
	}

	return out
}
