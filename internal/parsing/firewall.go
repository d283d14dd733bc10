package parsing

import (
	"regexp"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

var (
	reUFWAction   = regexp.MustCompile(`\[UFW\s+(\w+)\]`)
	reIPFieldSrc  = regexp.MustCompile(`\bSRC=(\S+)`)
	reIPFieldDst  = regexp.MustCompile(`\bDST=(\S+)`)
	reGenericDeny = regexp.MustCompile(`\b(BLOCK|DROP|REJECT)\b`)
	reGenericAllow = regexp.MustCompile(`\b(ALLOW|ACCEPT)\b`)
)

// ParseFirewall recognizes the structured "[UFW ACTION] ... SRC=.. DST=.."
// shape and a generic BLOCK/DROP/REJECT/ALLOW/ACCEPT fallback used by
// other packet-filter loggers that share the common syslog prefix.
func ParseFirewall(line string, now time.Time) (*model.Event, bool) {
	prefix, ok := parseSyslogPrefix(line, now)
	if !ok {
		return nil, false
	}
	msg := prefix.Message

	base := model.Event{
		EventTime:  prefix.Time,
		Host:       prefix.Host,
		Process:    prefix.Tag,
		PID:        prefix.PID,
		LogSource:  model.LogSourceFirewall,
		Platform:   model.PlatformLinux,
		RawMessage: line,
	}

	if m := reUFWAction.FindStringSubmatch(msg); m != nil {
		switch m[1] {
		case "BLOCK":
			base.EventType, base.Severity = "FIREWALL_BLOCK", model.SeverityWarning
		case "ALLOW":
			base.EventType, base.Severity = "FIREWALL_ALLOW", model.SeverityInfo
		case "AUDIT":
			base.EventType, base.Severity = "FIREWALL_AUDIT", model.SeverityInfo
		default:
			base.EventType, base.Severity = "FIREWALL_EVENT", model.SeverityInfo
		}
	} else if reGenericDeny.MatchString(msg) {
		base.EventType, base.Severity = "FIREWALL_BLOCK", model.SeverityWarning
	} else if reGenericAllow.MatchString(msg) {
		base.EventType, base.Severity = "FIREWALL_ALLOW", model.SeverityInfo
	} else {
		return nil, false
	}

	if m := reIPFieldSrc.FindStringSubmatch(msg); m != nil {
		base.SrcIP = m[1]
	}
	if m := reIPFieldDst.FindStringSubmatch(msg); m != nil {
		base.DstIP = m[1]
	}

	return &base, true
}
