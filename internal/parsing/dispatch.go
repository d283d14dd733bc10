package parsing

import (
	"strings"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

// ParserFunc is the shape every log family parser implements: a line in,
// an event and a match flag out. No parser ever returns an error;
// failing to match is the normal "not of interest" outcome.
type ParserFunc func(line string, now time.Time) (*model.Event, bool)

// Dispatch maps a log source tag to the parser that understands it, in
// place of a class hierarchy with virtual dispatch.
var Dispatch = map[model.LogSource]ParserFunc{
	model.LogSourceAuth:     ParseAuth,
	model.LogSourceSyslog:   ParseSyslog,
	model.LogSourceKernel:   ParseKernel,
	model.LogSourceFirewall: ParseFirewall,
	model.LogSourceAudit:    ParseAudit,
}

// ParseLine parses line using the parser registered for source.
func ParseLine(line string, source model.LogSource, now time.Time) (*model.Event, bool) {
	fn, ok := Dispatch[source]
	if !ok {
		return nil, false
	}
	return fn(line, now)
}

// Detect routes a line to a log source by the first matching token, for
// callers that don't already know which file family a line came from.
func Detect(line string) model.LogSource {
	switch {
	case strings.Contains(line, "[UFW"):
		return model.LogSourceFirewall
	case strings.Contains(line, "type=") && strings.Contains(line, "msg=audit"):
		return model.LogSourceAudit
	case strings.Contains(line, "kernel:"):
		return model.LogSourceKernel
	case containsAny(line, "sshd", "sudo", "pam_unix", "passwd", "useradd"):
		return model.LogSourceAuth
	default:
		return model.LogSourceSyslog
	}
}

// ParseAutoDetect detects the log source and parses with the matching
// parser in one step.
func ParseAutoDetect(line string, now time.Time) (*model.Event, bool) {
	return ParseLine(line, Detect(line), now)
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
