// Package sortengine's top-level entry point: SortEngine ties the pieces
// above into the three public operations spec.md §3 names (Sort, Check,
// Merge), including the falling back to external k-way merge once the
// input outgrows one in-core buffer.
package sortengine

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/coreutils/coreutils-sub001/internal/lineio"
	"github.com/pkg/errors"
)

// SortEngine runs sort/check/merge operations against a Config.
type SortEngine struct {
	cfg *Config
	cmp *Comparator
}

// New builds a SortEngine for cfg.
func New(cfg *Config) *SortEngine {
	return &SortEngine{cfg: cfg, cmp: NewComparator(cfg)}
}

// Sort reads records delimited by cfg.LineTerminator from each of inputs (or
// stdin if inputs is empty), sorts them per cfg, and writes the result to w.
// Inputs larger than the sort-alloc budget spill to temporary runs under
// cfg.TempDir and are combined by an external k-way merge.
func (e *SortEngine) Sort(w io.Writer, inputs []string) error {
	var runs []*run
	buf := newBuffer(e.cfg.effectiveSortAlloc())

	flush := func() error {
		if buf.Len() == 0 {
			return nil
		}
		recs := buf.Records()
		sortRecords(recs, e.cmp)
		if e.cfg.Unique {
			recs = dedupInPlace(recs, e.cmp)
		}
		r, err := e.flushRun(recs)
		if err != nil {
			return err
		}
		runs = append(runs, r)
		buf.Reset()
		return nil
	}

	readers, closeAll, err := openInputs(inputs)
	if err != nil {
		return err
	}
	defer closeAll()

	for _, r := range readers {
		br := bufio.NewReaderSize(r, 64*1024)
		for {
			n, line, rerr := lineio.ReadUntil(br, nil, 0, 1<<30, e.cfg.LineTerminator, 0)
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return errors.Wrap(rerr, "sortengine: read input")
			}
			if buf.Append(line[:n]) >= buf.budget {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if len(runs) == 0 {
		return nil
	}
	if len(runs) == 1 {
		return e.copyRunOut(w, runs[0])
	}
	return e.mergeRuns(w, runs)
}

// Merge assumes every input is already individually sorted per cfg and
// combines them directly by k-way merge, without re-sorting each one --
// sort's --merge mode.
func (e *SortEngine) Merge(w io.Writer, inputs []string) error {
	var runs []*run
	for _, name := range inputs {
		r, err := openRun(name)
		if err != nil {
			return err
		}
		runs = append(runs, r)
	}
	if len(runs) == 0 {
		return nil
	}
	if len(runs) == 1 && !e.cfg.Unique {
		return e.copyRunOut(w, runs[0])
	}
	return e.mergeRuns(w, runs)
}

// Check reports whether input is already sorted per cfg; it returns a nil
// error and ok=true if so, ok=false and the 1-origin line number of the
// first out-of-order record otherwise (sort -c's "disorder" diagnostic).
func (e *SortEngine) Check(input io.Reader) (ok bool, line int, err error) {
	br := bufio.NewReaderSize(input, 64*1024)
	var prev *Record
	lineNo := 0
	for {
		n, buf, rerr := lineio.ReadUntil(br, nil, 0, 1<<30, e.cfg.LineTerminator, 0)
		if rerr == io.EOF {
			return true, 0, nil
		}
		if rerr != nil {
			return false, 0, errors.Wrap(rerr, "sortengine: read input")
		}
		lineNo++
		text := make([]byte, n)
		copy(text, buf[:n])
		cur := &Record{Text: text, srcIndex: lineNo}
		if prev != nil {
			cmp := e.cmp.CompareNoTiebreak(prev, cur)
			if cmp > 0 || (cmp == 0 && e.cfg.Unique) {
				return false, lineNo, nil
			}
		}
		prev = cur
	}
}

func (e *SortEngine) flushRun(recs []*Record) (*run, error) {
	f, bw, err := tempRunWriter(e.cfg.TempDir)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if err := writeRecord(bw, r.Text, e.cfg.LineTerminator); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "sortengine: write temp run")
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "sortengine: flush temp run")
	}
	path := f.Name()
	f.Close()
	return openRun(path)
}

func (e *SortEngine) copyRunOut(w io.Writer, r *run) error {
	defer r.Close()
	bw := bufio.NewWriterSize(w, 256*1024)
	for {
		n, buf, err := lineio.ReadUntil(r.br, nil, 0, 1<<30, e.cfg.LineTerminator, 0)
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "sortengine: read temp run")
		}
		if werr := writeRecord(bw, buf[:n], e.cfg.LineTerminator); werr != nil {
			return werr
		}
	}
	return bw.Flush()
}

// mergeRuns combines runs in batches of at most cfg.effectiveFanIn(), the
// way a real external mergesort caps simultaneously open file descriptors:
// each pass merges every batch down to a single new run until at most
// fan-in runs remain, then merges those directly to w. Under --unique, a
// record equal to the previously written one is not written.
func (e *SortEngine) mergeRuns(w io.Writer, runs []*run) error {
	fanIn := e.cfg.effectiveFanIn()
	for len(runs) > fanIn {
		var next []*run
		for i := 0; i < len(runs); i += fanIn {
			end := i + fanIn
			if end > len(runs) {
				end = len(runs)
			}
			batch := runs[i:end]
			r, err := e.mergeBatchToRun(batch)
			if err != nil {
				return err
			}
			next = append(next, r)
		}
		runs = next
	}

	bw := bufio.NewWriterSize(w, 256*1024)
	var lastErr error
	closeRuns := func() {
		for _, r := range runs {
			r.Close()
		}
	}
	defer closeRuns()

	var prev *Record
	err := kWayMerge(runs, e.cfg, e.cmp, func(rec *Record) error {
		if lastErr != nil {
			return lastErr
		}
		if e.cfg.Unique && prev != nil && e.cmp.CompareNoTiebreak(prev, rec) == 0 {
			return nil
		}
		prev = rec
		return writeRecord(bw, rec.Text, e.cfg.LineTerminator)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (e *SortEngine) mergeBatchToRun(batch []*run) (*run, error) {
	f, bw, err := tempRunWriter(e.cfg.TempDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, r := range batch {
			r.Close()
		}
	}()

	err = kWayMerge(batch, e.cfg, e.cmp, func(rec *Record) error {
		return writeRecord(bw, rec.Text, e.cfg.LineTerminator)
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	path := f.Name()
	f.Close()
	return openRun(path)
}

func openInputs(inputs []string) ([]io.Reader, func(), error) {
	if len(inputs) == 0 {
		return []io.Reader{os.Stdin}, func() {}, nil
	}
	var readers []io.Reader
	var files []*os.File
	for _, name := range inputs {
		if name == "-" {
			readers = append(readers, os.Stdin)
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, nil, fmt.Errorf("sortengine: open %s: %w", name, err)
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return readers, func() {
		for _, f := range files {
			f.Close()
		}
	}, nil
}
