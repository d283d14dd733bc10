package reader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

func TestReader_AddDeliversAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth.log")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got []string
	sink := func(line string, source model.LogSource) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, line)
		if source != model.LogSourceAuth {
			t.Errorf("unexpected source: %q", source)
		}
		return nil
	}

	r := New(sink, 20*time.Millisecond)
	if ok := r.Add(path, model.LogSourceAuth); !ok {
		t.Fatal("expected Add to succeed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)
	defer r.Stop()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("line one\nline two\n")
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "line one" || got[1] != "line two" {
		t.Fatalf("unexpected lines: %v", got)
	}
}

func TestReader_AddFailsForMissingFile(t *testing.T) {
	r := New(func(string, model.LogSource) error { return nil }, time.Second)
	if ok := r.Add("/nonexistent/path/does-not-exist.log", model.LogSourceAuth); ok {
		t.Fatal("expected Add to fail for a nonexistent path")
	}
}

func TestReader_StatusReflectsEnrolledPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syslog")
	os.WriteFile(path, nil, 0o644)

	r := New(func(string, model.LogSource) error { return nil }, time.Second)
	r.Add(path, model.LogSourceSyslog)

	status := r.Status()
	if s, ok := status[path]; !ok || s.LogSource != model.LogSourceSyslog {
		t.Fatalf("unexpected status: %+v", status)
	}

	r.Remove(path)
	if _, ok := r.Status()[path]; ok {
		t.Fatal("expected path to be removed from status")
	}
}
