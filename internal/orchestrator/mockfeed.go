package orchestrator

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hostwatch/seclogd/internal/logging"
	"github.com/hostwatch/seclogd/internal/model"
	"github.com/hostwatch/seclogd/internal/reader"
)

// mockInterval is how often the mock feed synthesizes a line when
// enabled. Out of scope to specify in detail (the generator's content is
// a demo concern), but its call surface is identical to a real tailer's:
// one line, one log source, fed to the same sink.
const mockInterval = 2 * time.Second

// mockLines holds a few canned samples (two auth, one each for syslog,
// kernel, and firewall) fed without a real host generating traffic. There
// is no audit sample, so the audit parser is not exercised by this feed.
var mockLines = []struct {
	source model.LogSource
	line   string
}{
	{model.LogSourceAuth, "Jan  1 00:00:00 demo-host sshd[1234]: Failed password for invalid user admin from 203.0.113.5 port 51515 ssh2"},
	{model.LogSourceAuth, "Jan  1 00:00:00 demo-host sshd[1234]: Accepted password for alice from 198.51.100.2 port 51600 ssh2"},
	{model.LogSourceSyslog, "Jan  1 00:00:00 demo-host systemd[1]: cron.service: Failed with result 'exit-code'."},
	{model.LogSourceKernel, "Jan  1 00:00:00 demo-host kernel: [12345.678901] Out of memory: Killed process 4321 (stress)"},
	{model.LogSourceFirewall, "Jan  1 00:00:00 demo-host kernel: [UFW BLOCK] SRC=203.0.113.5 DST=198.51.100.1 DPT=22"},
}

// mockFeed drives handleLine on a timer in place of a real reader.Reader
// when no well-known log path is present on the host and use_mock_data
// is set.
type mockFeed struct {
	sink   reader.Sink
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func newMockFeed(sink reader.Sink) *mockFeed {
	return &mockFeed{
		sink:   sink,
		logger: logging.WithComponent(logging.Default(), "mockfeed"),
	}
}

func (m *mockFeed) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx)
}

func (m *mockFeed) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(mockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample := mockLines[rand.Intn(len(mockLines))]
			if err := m.sink(sample.line, sample.source); err != nil {
				m.logger.Error("mock feed sink failed", "error", err)
			}
		}
	}
}

func (m *mockFeed) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		m.logger.Warn("mock feed did not stop within 2s")
	}
}
