// Package rules implements the detection catalog and the periodic
// engine that evaluates it against recent events. Each rule is a pure
// function over an event slice, a finite set of Go values implementing
// a common interface, in place of a class hierarchy with method lookup.
// Declaration order in Catalog is significant: privilege-escalation and
// suspicious-sudo share the service-account predicate, so this order is
// kept stable.
package rules

import (
	"strings"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/model"
)

// CandidateAlert is what a Rule proposes; the engine decides whether it
// actually gets inserted, after deduplicating against recent alerts.
type CandidateAlert struct {
	AlertType       string
	Severity        model.Severity
	Description     string
	RelatedEventIDs []int64
}

// Rule is a pure detector over a slice of recent events.
type Rule interface {
	Name() string
	Enabled() bool
	Evaluate(events []*model.Event) []CandidateAlert
}

// Catalog returns the full rule set in declaration order, each
// constructed from cfg's per-rule overrides where present and the
// catalog defaults otherwise.
func Catalog(cfg *config.Config) []Rule {
	return []Rule{
		NewBruteForceRule(cfg.RuleConfig("brute_force")),
		NewSuspiciousSudoRule(cfg.RuleConfig("suspicious_sudo")),
		NewFirewallAttackRule(cfg.RuleConfig("firewall_attack")),
		NewPortScanRule(cfg.RuleConfig("port_scan")),
		NewSystemInstabilityRule(cfg.RuleConfig("system_instability")),
		NewServiceFailureRule(cfg.RuleConfig("service_failure")),
		NewPrivilegeEscalationRule(cfg.RuleConfig("privilege_escalation")),
		NewAnomalousLoginTimeRule(cfg.RuleConfig("anomalous_login_time")),
		NewRapidLoginRule(cfg.RuleConfig("rapid_login")),
	}
}

// isAuthFailure treats AUTH_FAILURE and the legacy FAILED_LOGIN tag as
// synonyms for rule input. The parsers only ever emit AUTH_FAILURE, but
// the synonym check costs nothing and guards against a future parser or
// external event source still using the older tag.
func isAuthFailure(eventType string) bool {
	return eventType == "AUTH_FAILURE" || eventType == "FAILED_LOGIN"
}

func inWatchlist(user string, watchlist map[string]struct{}) bool {
	_, ok := watchlist[strings.ToLower(user)]
	return ok
}

func watchlistOf(users ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(users))
	for _, u := range users {
		m[strings.ToLower(u)] = struct{}{}
	}
	return m
}

func eventIDs(events []*model.Event) []int64 {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
