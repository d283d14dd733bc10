package parsing

import (
	"regexp"
	"strings"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

var (
	reKernelTimestamp = regexp.MustCompile(`^\[\s*\d+\.\d+\]\s*`)
	reSegfault        = regexp.MustCompile(`segfault`)
	reOOMKill         = regexp.MustCompile(`Out of memory:\s*Kill(?:ed)? process (\d+)`)
	reUSBDevice       = regexp.MustCompile(`usb.*new.*USB device`)
)

// ParseKernel recognizes /var/log/kern.log lines, which carry the common
// syslog prefix with tag "kernel" and an optional bracketed kernel
// uptime timestamp ahead of the message.
func ParseKernel(line string, now time.Time) (*model.Event, bool) {
	prefix, ok := parseSyslogPrefix(line, now)
	if !ok {
		return nil, false
	}
	msg := reKernelTimestamp.ReplaceAllString(prefix.Message, "")

	base := model.Event{
		EventTime:  prefix.Time,
		Host:       prefix.Host,
		Process:    prefix.Tag,
		PID:        prefix.PID,
		LogSource:  model.LogSourceKernel,
		Platform:   model.PlatformLinux,
		RawMessage: line,
	}

	switch {
	case reSegfault.MatchString(msg):
		base.EventType, base.Severity = "KERNEL_SEGFAULT", model.SeverityError
	case reOOMKill.MatchString(msg):
		base.EventType, base.Severity = "KERNEL_OOM", model.SeverityCritical
	case reUSBDevice.MatchString(msg):
		base.EventType, base.Severity = "USB_DEVICE_CONNECTED", model.SeverityInfo
	default:
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "error"):
			base.EventType, base.Severity = "KERNEL_ERROR", model.SeverityError
		case strings.Contains(lower, "warning") || strings.Contains(lower, "warn"):
			base.EventType, base.Severity = "KERNEL_WARNING", model.SeverityWarning
		default:
			return nil, false
		}
	}

	return &base, true
}
