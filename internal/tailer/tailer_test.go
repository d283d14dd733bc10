package tailer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

func TestTailer_SeekEndThenAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, "pre-existing line 1\npre-existing line 2\n")

	tl := New(path)
	if err := tl.Open(true); err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	if lines := tl.ReadNewLines(); len(lines) != 0 {
		t.Fatalf("expected no lines before append, got %v", lines)
	}

	appendFile(t, path, "new line A\nnew line B\n")

	lines := tl.ReadNewLines()
	want := []string{"new line A", "new line B"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTailer_PartialLineBufferedAcrossReads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, "")

	tl := New(path)
	if err := tl.Open(true); err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	appendFile(t, path, "incomplete")
	if lines := tl.ReadNewLines(); len(lines) != 0 {
		t.Fatalf("expected no complete lines yet, got %v", lines)
	}

	appendFile(t, path, " line\n")
	lines := tl.ReadNewLines()
	if len(lines) != 1 || lines[0] != "incomplete line" {
		t.Fatalf("expected reassembled line, got %v", lines)
	}
}

func TestTailer_RotationByNewInode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, "old 1\nold 2\n")

	tl := New(path)
	if err := tl.Open(true); err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	appendFile(t, path, "old 3\n")
	lines := tl.ReadNewLines()
	if len(lines) != 1 || lines[0] != "old 3" {
		t.Fatalf("unexpected pre-rotation lines: %v", lines)
	}

	// Simulate rotation: rename the old file out of the way and create a
	// fresh one at the same path with a new inode.
	if err := os.Rename(path, path+".1"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, "new 1\nnew 2\n")

	lines = tl.ReadNewLines()
	want := []string{"new 1", "new 2"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTailer_TruncationBelowPosition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, "line 1\nline 2\nline 3\n")

	tl := New(path)
	if err := tl.Open(false); err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	if lines := tl.ReadNewLines(); len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %v", lines)
	}

	// Truncate in place to something shorter than the recorded position.
	writeFile(t, path, "short\n")

	lines := tl.ReadNewLines()
	if len(lines) != 1 || lines[0] != "short" {
		t.Fatalf("expected re-read from offset 0 after truncation, got %v", lines)
	}
}
