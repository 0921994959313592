package sortengine

import (
	"bufio"
	"fmt"
	"os"

	"github.com/coreutils/coreutils-sub001/internal/cleanup"
	"github.com/pkg/errors"
)

// run is one sorted, flushed-to-disk chunk awaiting merge.
type run struct {
	path string
	f    *os.File
	br   *bufio.Reader
}

// tempRunWriter creates a new temporary file under dir (TMPDIR/-T, or the
// system default if dir is ""), registers it for best-effort cleanup via
// internal/cleanup, and returns a buffered writer over it. Mirrors sort's
// "sort%d%d" naming convention loosely: os.CreateTemp already guarantees
// uniqueness, so no retry loop is needed the way the C implementation's
// hand-rolled mkstemp loop requires.
func tempRunWriter(dir string) (*os.File, *bufio.Writer, error) {
	f, err := os.CreateTemp(dir, "sort")
	if err != nil {
		return nil, nil, errors.Wrap(err, "sortengine: create temp run")
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, nil, errors.Wrap(err, "sortengine: chmod temp run")
	}
	path := f.Name()
	cleanup.Register(func() { os.Remove(path) })
	return f, bufio.NewWriterSize(f, 256*1024), nil
}

// openRun reopens a flushed temp run file for sequential reading from the
// start.
func openRun(path string) (*run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "sortengine: reopen temp run")
	}
	return &run{path: path, f: f, br: bufio.NewReaderSize(f, 256*1024)}, nil
}

func (r *run) Close() error {
	return r.f.Close()
}

// writeRecord writes text followed by term to w, the wire format shared by
// temp runs and the final output stream.
func writeRecord(w *bufio.Writer, text []byte, term byte) error {
	if _, err := w.Write(text); err != nil {
		return err
	}
	return w.WriteByte(term)
}

func tempRunName(seq int) string {
	return fmt.Sprintf("run-%06d", seq)
}
