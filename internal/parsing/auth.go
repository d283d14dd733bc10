package parsing

import (
	"regexp"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

var (
	reFailedPassword = regexp.MustCompile(`^Failed password for (?:invalid user )?(\S+) from (\S+)`)
	reAcceptedPwd    = regexp.MustCompile(`^Accepted password for (\S+) from (\S+)`)
	reAcceptedKey    = regexp.MustCompile(`^Accepted publickey for (\S+) from (\S+)`)
	reInvalidUser    = regexp.MustCompile(`^Invalid user (\S+) from (\S+)`)
	reSudoCommand    = regexp.MustCompile(`^(\S+)\s*:.*TTY=.*;\s*USER=\S+\s*;\s*COMMAND=`)
	reSudoIncorrect  = regexp.MustCompile(`^(\S+)\s*:\s*\d+\s+incorrect password attempts`)
	reSudoAuthFail   = regexp.MustCompile(`pam_unix\(sudo:auth\):\s*authentication failure.*\buser=(\S+)`)
	reSessionOpened  = regexp.MustCompile(`pam_unix\([^)]*:session\):\s*session opened for user (\S+)`)
	reSessionClosed  = regexp.MustCompile(`pam_unix\([^)]*:session\):\s*session closed for user (\S+)`)
	reNewUser        = regexp.MustCompile(`^new user:\s*name=(\S+)`)
	rePasswordChange = regexp.MustCompile(`^password changed for (\S+)`)
	reAddToGroup     = regexp.MustCompile(`^add '([^']+)' to group '([^']+)'`)
	reConnClosed     = regexp.MustCompile(`(?:Disconnected from|Connection closed by|Received disconnect from)\s+(?:authenticating user \S+\s+)?(\S+)`)
)

// ParseAuth recognizes /var/log/auth.log and /var/log/secure lines:
// password/publickey auth attempts, sudo invocations, pam session
// lifecycle, and account changes. The first matching pattern wins.
func ParseAuth(line string, now time.Time) (*model.Event, bool) {
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
		LogSource:  model.LogSourceAuth,
		Platform:   model.PlatformLinux,
		RawMessage: line,
	}

	switch {
	case reFailedPassword.MatchString(msg):
		m := reFailedPassword.FindStringSubmatch(msg)
		base.EventType, base.Severity = "AUTH_FAILURE", model.SeverityWarning
		base.User, base.SrcIP = m[1], m[2]
	case reAcceptedPwd.MatchString(msg):
		m := reAcceptedPwd.FindStringSubmatch(msg)
		base.EventType, base.Severity = "AUTH_SUCCESS", model.SeverityInfo
		base.User, base.SrcIP = m[1], m[2]
	case reAcceptedKey.MatchString(msg):
		m := reAcceptedKey.FindStringSubmatch(msg)
		base.EventType, base.Severity = "AUTH_SUCCESS", model.SeverityInfo
		base.User, base.SrcIP = m[1], m[2]
	case reInvalidUser.MatchString(msg):
		m := reInvalidUser.FindStringSubmatch(msg)
		base.EventType, base.Severity = "AUTH_FAILURE", model.SeverityWarning
		base.User, base.SrcIP = m[1], m[2]
	case reSudoCommand.MatchString(msg):
		m := reSudoCommand.FindStringSubmatch(msg)
		base.EventType, base.Severity = "SUDO_SUCCESS", model.SeverityInfo
		base.User = m[1]
	case reSudoIncorrect.MatchString(msg):
		m := reSudoIncorrect.FindStringSubmatch(msg)
		base.EventType, base.Severity = "SUDO_FAILURE", model.SeverityWarning
		base.User = m[1]
	case reSudoAuthFail.MatchString(msg):
		m := reSudoAuthFail.FindStringSubmatch(msg)
		base.EventType, base.Severity = "SUDO_FAILURE", model.SeverityWarning
		base.User = m[1]
	case reSessionOpened.MatchString(msg):
		m := reSessionOpened.FindStringSubmatch(msg)
		base.EventType, base.Severity = "SESSION_START", model.SeverityInfo
		base.User = m[1]
	case reSessionClosed.MatchString(msg):
		m := reSessionClosed.FindStringSubmatch(msg)
		base.EventType, base.Severity = "SESSION_END", model.SeverityInfo
		base.User = m[1]
	case reNewUser.MatchString(msg):
		m := reNewUser.FindStringSubmatch(msg)
		base.EventType, base.Severity = "USER_CREATED", model.SeverityWarning
		base.User = m[1]
	case rePasswordChange.MatchString(msg):
		m := rePasswordChange.FindStringSubmatch(msg)
		base.EventType, base.Severity = "PASSWORD_CHANGE", model.SeverityInfo
		base.User = m[1]
	case reAddToGroup.MatchString(msg):
		m := reAddToGroup.FindStringSubmatch(msg)
		base.EventType, base.Severity = "GROUP_MEMBERSHIP_CHANGE", model.SeverityWarning
		base.User = m[1]
	case reConnClosed.MatchString(msg):
		m := reConnClosed.FindStringSubmatch(msg)
		base.EventType, base.Severity = "CONNECTION_CLOSED", model.SeverityInfo
		base.SrcIP = m[1]
	default:
		return nil, false
	}

	return &base, true
}
