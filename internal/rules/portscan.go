package rules

import (
	"fmt"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// DefaultMinPorts is the distinct-port threshold for the standalone
// port-scan detector, independent of FirewallAttackRule's own
// (higher-volume) escalation path.
const DefaultMinPorts = 10

// PortScanRule scans FIREWALL_BLOCK and FIREWALL_EVENT events for
// distinct destination ports touched per src_ip, firing on its own
// (lower) threshold regardless of total block volume.
type PortScanRule struct {
	enabled  bool
	minPorts int
}

func NewPortScanRule(s config.RuleSettings) *PortScanRule {
	return &PortScanRule{
		enabled:  s.EnabledOr(true),
		minPorts: config.IntOr(s.MinPorts, DefaultMinPorts),
	}
}

func (r *PortScanRule) Name() string  { return "port_scan" }
func (r *PortScanRule) Enabled() bool { return r.enabled }

func (r *PortScanRule) Evaluate(events []*model.Event) []CandidateAlert {
	type portHit struct {
		event *model.Event
		port  string
	}
	byIP := map[string][]portHit{}

	for _, e := range events {
		if e.EventType != "FIREWALL_BLOCK" && e.EventType != "FIREWALL_EVENT" {
			continue
		}
		if e.SrcIP == "" {
			continue
		}
		m := dptPattern.FindStringSubmatch(e.RawMessage)
		if m == nil {
			continue
		}
		byIP[e.SrcIP] = append(byIP[e.SrcIP], portHit{event: e, port: m[1]})
	}

	var out []CandidateAlert
	for ip, hits := range byIP {
		ports := map[string]struct{}{}
		var related []*model.Event
		for _, h := range hits {
			ports[h.port] = struct{}{}
			related = append(related, h.event)
		}
		if len(ports) >= r.minPorts {
			out = append(out, CandidateAlert{
				AlertType:       "PORT_SCAN",
				Severity:        model.SeverityCritical,
				Description:     fmt.Sprintf("src_ip %q touched %d distinct ports", ip, len(ports)),
				RelatedEventIDs: eventIDs(related),
			})
		}
	}
	return out
}
