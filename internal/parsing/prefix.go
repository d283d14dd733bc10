// Package parsing turns raw log lines into normalized model.Events. Each
// log family (auth, syslog, kernel, firewall, audit) is a pure function
// from a line to either an event or "no match"; there is no parser
// object hierarchy, just a dispatch table keyed by model.LogSource.
package parsing

import (
	"regexp"
	"strconv"
	"time"
)

// syslogPrefixPattern matches the common "MMM D HH:MM:SS HOST TAG[PID]: MESSAGE"
// prefix shared by auth, syslog, kernel, and firewall lines. The [PID]
// segment is optional.
var syslogPrefixPattern = regexp.MustCompile(
	`^([A-Z][a-z]{2})\s+(\d{1,2})\s(\d{2}):(\d{2}):(\d{2})\s(\S+)\s([\w.\-/]+?)(?:\[(\d+)\])?:\s(.*)$`,
)

var monthByAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// syslogPrefix is the decoded common prefix of a syslog-family line.
type syslogPrefix struct {
	Time    time.Time
	Host    string
	Tag     string
	PID     int
	Message string
}

// parseSyslogPrefix decodes the common prefix, reconstructing the year
// from the clock given (normally time.Now): attach the current year, and
// if the resulting timestamp is in the future, decrement the year by one,
// since syslog timestamps omit the year entirely.
func parseSyslogPrefix(line string, now time.Time) (syslogPrefix, bool) {
	m := syslogPrefixPattern.FindStringSubmatch(line)
	if m == nil {
		return syslogPrefix{}, false
	}

	month, ok := monthByAbbrev[m[1]]
	if !ok {
		return syslogPrefix{}, false
	}
	day, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	second, _ := strconv.Atoi(m[5])

	t := time.Date(now.Year(), month, day, hour, minute, second, 0, now.Location())
	if t.After(now) {
		t = time.Date(now.Year()-1, month, day, hour, minute, second, 0, now.Location())
	}

	pid := 0
	if m[8] != "" {
		pid, _ = strconv.Atoi(m[8])
	}

	return syslogPrefix{
		Time:    t,
		Host:    m[6],
		Tag:     m[7],
		PID:     pid,
		Message: m[9],
	}, true
}
