package rules

import (
	"fmt"
	"strings"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// PrivilegeEscalationRule fires on two independent signals: sudo
// activity from an account that should never hold sudo rights, and any
// user/group change whose raw line mentions "sudo" or "wheel", the two
// group names admins grant escalated access through on most
// distributions.
type PrivilegeEscalationRule struct {
	enabled   bool
	watchlist map[string]struct{}
}

func NewPrivilegeEscalationRule(s config.RuleSettings) *PrivilegeEscalationRule {
	return &PrivilegeEscalationRule{
		enabled: s.EnabledOr(true),
		watchlist: watchlistOf(
			"www-data", "nobody", "guest", "daemon", "apache", "nginx", "mysql", "postgres",
		),
	}
}

func (r *PrivilegeEscalationRule) Name() string  { return "privilege_escalation" }
func (r *PrivilegeEscalationRule) Enabled() bool { return r.enabled }

func (r *PrivilegeEscalationRule) Evaluate(events []*model.Event) []CandidateAlert {
	var out []CandidateAlert

	for _, e := range events {
		switch e.EventType {
		case "SUDO_SUCCESS", "SUDO_COMMAND":
			if inWatchlist(e.User, r.watchlist) {
				out = append(out, CandidateAlert{
					AlertType:       "PRIVILEGE_ESCALATION",
					Severity:        model.SeverityCritical,
					Description:     fmt.Sprintf("Sudo activity from non-interactive account %q", e.User),
					RelatedEventIDs: []int64{e.ID},
				})
			}
		case "USER_CREATED", "GROUP_MEMBERSHIP_CHANGE":
			lower := strings.ToLower(e.RawMessage)
			if strings.Contains(lower, "sudo") || strings.Contains(lower, "wheel") {
				out = append(out, CandidateAlert{
					AlertType:       "PRIVILEGE_ESCALATION",
					Severity:        model.SeverityCritical,
					Description:     fmt.Sprintf("Account change referencing an admin group: %s", e.RawMessage),
					RelatedEventIDs: []int64{e.ID},
				})
			}
		}
	}

	return out
}
