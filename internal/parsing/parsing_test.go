package parsing

import (
	"testing"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestParseAuth_TableRows(t *testing.T) {
	cases := []struct {
		name      string
		line      string
		eventType string
		severity  model.Severity
		user      string
		srcIP     string
	}{
		{
			"failed password",
			"Mar 15 03:14:07 host sshd[1234]: Failed password for admin from 10.0.0.1 port 4444 ssh2",
			"AUTH_FAILURE", model.SeverityWarning, "admin", "10.0.0.1",
		},
		{
			"failed password invalid user",
			"Mar 15 03:14:07 host sshd[1234]: Failed password for invalid user bob from 10.0.0.2 port 4444 ssh2",
			"AUTH_FAILURE", model.SeverityWarning, "bob", "10.0.0.2",
		},
		{
			"accepted password",
			"Mar 15 03:14:07 host sshd[1234]: Accepted password for alice from 10.0.0.3 port 22 ssh2",
			"AUTH_SUCCESS", model.SeverityInfo, "alice", "10.0.0.3",
		},
		{
			"accepted publickey",
			"Mar 15 03:14:07 host sshd[1234]: Accepted publickey for alice from 10.0.0.4 port 22 ssh2",
			"AUTH_SUCCESS", model.SeverityInfo, "alice", "10.0.0.4",
		},
		{
			"invalid user",
			"Mar 15 03:14:07 host sshd[1234]: Invalid user test from 10.0.0.5",
			"AUTH_FAILURE", model.SeverityWarning, "test", "10.0.0.5",
		},
		{
			"sudo command",
			"Mar 15 03:14:07 host sudo[555]: alice : TTY=pts/0 ; PWD=/home/alice ; USER=root ; COMMAND=/bin/bash",
			"SUDO_SUCCESS", model.SeverityInfo, "alice", "",
		},
		{
			"sudo incorrect attempts",
			"Mar 15 03:14:07 host sudo[555]: alice : 3 incorrect password attempts",
			"SUDO_FAILURE", model.SeverityWarning, "alice", "",
		},
		{
			"sudo pam auth failure",
			"Mar 15 03:14:07 host sudo[555]: pam_unix(sudo:auth): authentication failure; logname= uid=1000 euid=0 user=alice",
			"SUDO_FAILURE", model.SeverityWarning, "alice", "",
		},
		{
			"session opened",
			"Mar 15 03:14:07 host sshd[1234]: pam_unix(sshd:session): session opened for user alice by (uid=0)",
			"SESSION_START", model.SeverityInfo, "alice", "",
		},
		{
			"session closed",
			"Mar 15 03:14:07 host sshd[1234]: pam_unix(sshd:session): session closed for user alice",
			"SESSION_END", model.SeverityInfo, "alice", "",
		},
		{
			"new user",
			"Mar 15 03:14:07 host useradd[1234]: new user: name=bob",
			"USER_CREATED", model.SeverityWarning, "bob", "",
		},
		{
			"password changed",
			"Mar 15 03:14:07 host passwd[1234]: password changed for bob",
			"PASSWORD_CHANGE", model.SeverityInfo, "bob", "",
		},
		{
			"add to group",
			"Mar 15 03:14:07 host usermod[1234]: add 'bob' to group 'sudo'",
			"GROUP_MEMBERSHIP_CHANGE", model.SeverityWarning, "bob", "",
		},
		{
			"connection closed",
			"Mar 15 03:14:07 host sshd[1234]: Connection closed by 10.0.0.9 port 4444 [preauth]",
			"CONNECTION_CLOSED", model.SeverityInfo, "", "10.0.0.9",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev, ok := ParseAuth(c.line, fixedNow)
			if !ok {
				t.Fatalf("expected a match")
			}
			if ev.EventType != c.eventType {
				t.Errorf("event_type = %q, want %q", ev.EventType, c.eventType)
			}
			if ev.Severity != c.severity {
				t.Errorf("severity = %q, want %q", ev.Severity, c.severity)
			}
			if ev.User != c.user {
				t.Errorf("user = %q, want %q", ev.User, c.user)
			}
			if ev.SrcIP != c.srcIP {
				t.Errorf("src_ip = %q, want %q", ev.SrcIP, c.srcIP)
			}
		})
	}
}

func TestParseSyslog(t *testing.T) {
	ev, ok := ParseSyslog("Mar 15 03:14:07 host systemd[1]: Failed to start nginx.service.", fixedNow)
	if !ok || ev.EventType != "SERVICE_FAILURE" || ev.Severity != model.SeverityError {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}

	ev, ok = ParseSyslog("Mar 15 03:14:07 host systemd[1]: Started nginx.service.", fixedNow)
	if !ok || ev.EventType != "SERVICE_START" {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}

	ev, ok = ParseSyslog("Mar 15 03:14:07 host app[1]: something warning happened", fixedNow)
	if !ok || ev.EventType != "SYSTEM_WARNING" {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}

	_, ok = ParseSyslog("Mar 15 03:14:07 host app[1]: totally uninteresting", fixedNow)
	if ok {
		t.Fatalf("expected no match for uninteresting line")
	}
}

func TestParseKernel(t *testing.T) {
	ev, ok := ParseKernel("Mar 15 03:14:07 host kernel: [12345.678] myapp[999]: segfault at 0 ip 0", fixedNow)
	if !ok || ev.EventType != "KERNEL_SEGFAULT" {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}

	ev, ok = ParseKernel("Mar 15 03:14:07 host kernel: [12345.678] Out of memory: Kill process 4321 (chrome)", fixedNow)
	if !ok || ev.EventType != "KERNEL_OOM" || ev.Severity != model.SeverityCritical {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}
}

func TestParseFirewall_UFWBlock(t *testing.T) {
	line := "Mar 15 03:14:07 host kernel: [12345.678] [UFW BLOCK] IN=eth0 OUT= SRC=203.0.113.7 DST=10.0.0.1 LEN=60 PROTO=TCP SPT=1111 DPT=80"
	ev, ok := ParseFirewall(line, fixedNow)
	if !ok || ev.EventType != "FIREWALL_BLOCK" || ev.Severity != model.SeverityWarning {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}
	if ev.SrcIP != "203.0.113.7" || ev.DstIP != "10.0.0.1" {
		t.Errorf("unexpected ip extraction: src=%q dst=%q", ev.SrcIP, ev.DstIP)
	}
}

func TestParseAudit(t *testing.T) {
	line := "type=USER_AUTH msg=audit(1700000000.123:456): pid=100 uid=1000 auid=1000 res=success"
	ev, ok := ParseAudit(line, fixedNow)
	if !ok || ev.EventType != "AUDIT_AUTH_SUCCESS" {
		t.Fatalf("unexpected result: %+v ok=%v", ev, ok)
	}
	if !ev.EventTime.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected event_time: %v", ev.EventTime)
	}

	sentinel := "type=USER_AUTH msg=audit(1700000000.123:456): pid=100 uid=4294967295 auid=4294967295 res=failed"
	ev, ok = ParseAudit(sentinel, fixedNow)
	if !ok || ev.User != "" {
		t.Fatalf("expected sentinel uid/auid to be skipped, got user=%q", ev.User)
	}
}

func TestYearRollback(t *testing.T) {
	// now is in March; a December timestamp with no year would land in
	// the future this year, so it must roll back to the prior year.
	line := "Dec 31 23:59:59 host sshd[1]: Accepted password for alice from 10.0.0.1 port 22 ssh2"
	ev, ok := ParseAuth(line, fixedNow)
	if !ok {
		t.Fatal("expected a match")
	}
	if ev.EventTime.Year() != fixedNow.Year()-1 {
		t.Errorf("expected year rollback to %d, got %d", fixedNow.Year()-1, ev.EventTime.Year())
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		line string
		want model.LogSource
	}{
		{"Mar 15 03:14:07 host kernel: [1.0] [UFW BLOCK] SRC=1.2.3.4", model.LogSourceFirewall},
		{"type=USER_AUTH msg=audit(1.0:1): res=success", model.LogSourceAudit},
		{"Mar 15 03:14:07 host kernel: segfault", model.LogSourceKernel},
		{"Mar 15 03:14:07 host sshd[1]: Accepted password for alice from 1.2.3.4 port 22 ssh2", model.LogSourceAuth},
		{"Mar 15 03:14:07 host sudo[1]: alice : TTY=pts/0 ; USER=root ; COMMAND=/bin/ls", model.LogSourceAuth},
		{"Mar 15 03:14:07 host systemd[1]: Started nginx.service.", model.LogSourceSyslog},
	}
	for _, c := range cases {
		if got := Detect(c.line); got != c.want {
			t.Errorf("Detect(%q) = %q, want %q", c.line, got, c.want)
		}
	}
}
