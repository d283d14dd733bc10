package rules

import (
	"fmt"
	"regexp"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultMaxBlocks is the per-src_ip block-count threshold before this
// rule fires at all.
const DefaultMaxBlocks = 20

// dptPattern extracts the destination port field UFW-family lines carry.
var dptPattern = regexp.MustCompile(`DPT=(\d+)`)

// FirewallAttackRule groups FIREWALL_BLOCK events by src_ip; once an IP
// crosses MaxBlocks, it escalates to PORT_SCAN if the blocked traffic
// touched more than 10 distinct destination ports, otherwise
// FIREWALL_ATTACK.
type FirewallAttackRule struct {
	enabled   bool
	maxBlocks int
}

func NewFirewallAttackRule(s config.RuleSettings) *FirewallAttackRule {
	return &FirewallAttackRule{
		enabled:   s.EnabledOr(true),
		maxBlocks: config.IntOr(s.MaxBlocks, DefaultMaxBlocks),
	}
}

func (r *FirewallAttackRule) Name() string  { return "firewall_attack" }
func (r *FirewallAttackRule) Enabled() bool { return r.enabled }

func (r *FirewallAttackRule) Evaluate(events []*model.Event) []CandidateAlert {
	byIP := map[string][]*model.Event{}
	for _, e := range events {
		if e.EventType == "FIREWALL_BLOCK" && e.SrcIP != "" {
			byIP[e.SrcIP] = append(byIP[e.SrcIP], e)
		}
	}

	var out []CandidateAlert
	for ip, group := range byIP {
		if len(group) < r.maxBlocks {
			continue
		}

		ports := map[string]struct{}{}
		for _, e := range group {
			if m := dptPattern.FindStringSubmatch(e.RawMessage); m != nil {
				ports[m[1]] = struct{}{}
			}
		}

		if len(ports) > 10 {
			out = append(out, CandidateAlert{
				AlertType:       "PORT_SCAN",
				Severity:        model.SeverityCritical,
				Description:     fmt.Sprintf("src_ip %q blocked %d times across %d ports", ip, len(group), len(ports)),
				RelatedEventIDs: eventIDs(group),
			})
		} else {
			out = append(out, CandidateAlert{
				AlertType:       "FIREWALL_ATTACK",
				Severity:        model.SeverityHigh,
				Description:     fmt.Sprintf("src_ip %q blocked %d times", ip, len(group)),
				RelatedEventIDs: eventIDs(group),
			})
		}
	}
	return out
}
