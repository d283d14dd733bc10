// Package tailer follows a single log file from its current end,
// detecting rotation (a new inode at the same path) and truncation
// (the file shrinking below the last read position) and transparently
// re-opening from offset 0 when either happens.
package tailer

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"github.com/hostwatch/seclogd/internal/logging"
)

// Tailer follows one file. It is not safe for concurrent use; the
// multi-reader in internal/reader owns a mutex around its whole tailer
// set instead.
type Tailer struct {
	path   string
	logger *slog.Logger

	file    *os.File
	reader  *bufio.Reader
	pos     int64
	dev     uint64
	ino     uint64
	partial string // bytes read so far of a line not yet terminated by '\n'
}

// New returns a Tailer for path. Call Open before reading.
func New(path string) *Tailer {
	return &Tailer{
		path:   path,
		logger: logging.WithPath(logging.WithComponent(logging.Default(), "tailer"), path),
	}
}

// Open opens the file. When seekEnd is true the tailer starts at the
// file's current end, so only lines appended after Open are returned;
// when false it starts at offset 0.
func (t *Tailer) Open(seekEnd bool) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("tailer: open %s: %w", t.path, err)
	}

	var st unix.Stat_t
	if err := unix.Stat(t.path, &st); err != nil {
		f.Close()
		return fmt.Errorf("tailer: stat %s: %w", t.path, err)
	}

	pos := int64(0)
	if seekEnd {
		pos = st.Size
		if _, err := f.Seek(pos, io.SeekStart); err != nil {
			f.Close()
			return fmt.Errorf("tailer: seek %s: %w", t.path, err)
		}
	}

	t.file = f
	t.reader = bufio.NewReader(f)
	t.pos = pos
	t.dev = uint64(st.Dev)
	t.ino = uint64(st.Ino)
	t.partial = ""
	return nil
}

// ReadNewLines drains every complete line appended since the last call,
// transparently handling rotation and truncation. A transient stat/read
// failure is logged and yields an empty, non-error batch so the caller
// keeps retrying on the next tick.
func (t *Tailer) ReadNewLines() []string {
	if t.rotated() {
		t.logger.Info("log rotated, reopening from start")
		t.reopen()
	}
	if t.reader == nil {
		return nil
	}

	var lines []string
	for {
		chunk, err := t.reader.ReadString('\n')
		t.partial += chunk

		if err == io.EOF {
			// Incomplete line: keep it buffered in t.partial and pick
			// up where we left off on the next tick.
			break
		}
		if err != nil {
			t.logger.Error("read failed", "error", err)
			break
		}

		t.pos += int64(len(t.partial))
		lines = append(lines, t.partial[:len(t.partial)-1])
		t.partial = ""
	}
	return lines
}

// rotated reports whether the file at t.path now has a different
// inode/device than the one we have open, has disappeared, or has
// shrunk below our recorded read position.
func (t *Tailer) rotated() bool {
	var st unix.Stat_t
	if err := unix.Stat(t.path, &st); err != nil {
		if os.IsNotExist(err) {
			return true
		}
		t.logger.Error("stat failed", "error", err)
		return false
	}
	if uint64(st.Dev) != t.dev || uint64(st.Ino) != t.ino {
		return true
	}
	if st.Size < t.pos {
		return true
	}
	return false
}

// reopen closes the current handle and re-opens the file at t.path from
// offset 0, updating the recorded inode/device/position. If the reopen
// itself fails (file mid-rotation, not yet recreated) the tailer is left
// closed and the next rotated() check will retry.
func (t *Tailer) reopen() {
	if t.file != nil {
		t.file.Close()
	}

	f, err := os.Open(t.path)
	if err != nil {
		t.logger.Error("reopen failed", "error", err)
		t.file = nil
		t.reader = nil
		return
	}

	var st unix.Stat_t
	if err := unix.Stat(t.path, &st); err != nil {
		t.logger.Error("stat after reopen failed", "error", err)
	}

	t.file = f
	t.reader = bufio.NewReader(f)
	t.pos = 0
	t.dev = uint64(st.Dev)
	t.ino = uint64(st.Ino)
	t.partial = ""
}

// Close releases the underlying file handle.
func (t *Tailer) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}
