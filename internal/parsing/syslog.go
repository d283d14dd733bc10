package parsing

import (
	"regexp"
	"strings"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

var (
	reServiceFailed = regexp.MustCompile(`^Failed to start (.+)\.`)
	reServiceStart  = regexp.MustCompile(`^Started (.+)\.`)
	reServiceStop   = regexp.MustCompile(`^Stopped (.+)\.`)
)

// ParseSyslog recognizes /var/log/syslog and /var/log/messages lines:
// systemd unit lifecycle first, then a lowercase keyword scan for
// generic error/warning chatter.
func ParseSyslog(line string, now time.Time) (*model.Event, bool) {
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
		LogSource:  model.LogSourceSyslog,
		Platform:   model.PlatformLinux,
		RawMessage: line,
	}

	switch {
	case reServiceFailed.MatchString(msg):
		base.EventType, base.Severity = "SERVICE_FAILURE", model.SeverityError
	case reServiceStart.MatchString(msg):
		base.EventType, base.Severity = "SERVICE_START", model.SeverityInfo
	case reServiceStop.MatchString(msg):
		base.EventType, base.Severity = "SERVICE_STOP", model.SeverityInfo
	default:
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "error") || strings.Contains(lower, "failed"):
			base.EventType, base.Severity = "SYSTEM_ERROR", model.SeverityError
		case strings.Contains(lower, "warning") || strings.Contains(lower, "warn"):
			base.EventType, base.Severity = "SYSTEM_WARNING", model.SeverityWarning
		default:
			return nil, false
		}
	}

	return &base, true
}
