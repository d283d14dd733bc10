package parsing

import (
	"regexp"
	"strconv"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

// auditSentinelID is the "no id" marker the Linux audit subsystem uses
// for uid/auid when the actual value is unknown.
const auditSentinelID = "4294967295"

var (
	reAuditLine    = regexp.MustCompile(`^type=(\S+)\s+msg=audit\((\d+)\.(\d+):(\d+)\):\s*(.*)$`)
	reAuditUID     = regexp.MustCompile(`\buid=(\d+)`)
	reAuditAUID    = regexp.MustCompile(`\bauid=(\d+)`)
	reAuditSuccess = regexp.MustCompile(`\bres=success\b`)
)

// ParseAudit recognizes /var/log/audit/audit.log lines of the form
// "type=TYPE msg=audit(SECONDS.MILLIS:ID): DETAILS". event_time is taken
// from the embedded unix-epoch seconds, not wall clock.
func ParseAudit(line string, now time.Time) (*model.Event, bool) {
	m := reAuditLine.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	auditType := m[1]
	seconds, _ := strconv.ParseInt(m[2], 10, 64)
	details := m[5]

	base := model.Event{
		EventTime:  time.Unix(seconds, 0),
		LogSource:  model.LogSourceAudit,
		Platform:   model.PlatformLinux,
		RawMessage: line,
	}

	if uid := reAuditUID.FindStringSubmatch(details); uid != nil && uid[1] != auditSentinelID {
		base.User = uid[1]
	} else if auid := reAuditAUID.FindStringSubmatch(details); auid != nil && auid[1] != auditSentinelID {
		base.User = auid[1]
	}

	switch auditType {
	case "USER_AUTH":
		if reAuditSuccess.MatchString(details) {
			base.EventType, base.Severity = "AUDIT_AUTH_SUCCESS", model.SeverityInfo
		} else {
			base.EventType, base.Severity = "AUDIT_AUTH_FAILURE", model.SeverityWarning
		}
	case "USER_LOGIN":
		base.EventType, base.Severity = "AUDIT_LOGIN", model.SeverityInfo
	case "USER_CMD":
		base.EventType, base.Severity = "AUDIT_COMMAND", model.SeverityInfo
	case "EXECVE":
		base.EventType, base.Severity = "AUDIT_EXEC", model.SeverityInfo
	case "ADD_USER", "DEL_USER":
		base.EventType, base.Severity = "USER_CREATED", model.SeverityWarning
	case "ADD_GROUP", "DEL_GROUP":
		base.EventType, base.Severity = "GROUP_MEMBERSHIP_CHANGE", model.SeverityWarning
	case "ANOM_ABEND":
		base.EventType, base.Severity = "AUDIT_CRASH", model.SeverityError
	case "AVC":
		base.EventType, base.Severity = "AUDIT_SELINUX_DENIAL", model.SeverityWarning
	default:
		return nil, false
	}

	return &base, true
}
