package sortengine

import (
	"io"

	"github.com/coreutils/coreutils-sub001/internal/heap"
	"github.com/coreutils/coreutils-sub001/internal/lineio"
)

// mergeEntry is one heap element during a k-way merge: the current head
// record of a run, plus enough to pull the next one. runSeq identifies which
// run this entry came from (runs are opened in the order their source data
// appeared in the original input, so a lower runSeq is always the earlier
// original record on a key tie) and intraSeq counts records emitted from
// that run so far (each run was itself written out in stable order, so a
// lower intraSeq within the same run is also earlier).
type mergeEntry struct {
	rec      *Record
	source   *run
	buf      []byte
	runSeq   int
	intraSeq int
}

// kWayMerge drains up to len(runs) open runs (callers pre-batch beyond
// cfg.effectiveFanIn()) in sorted order, writing each winning record to
// emit. It mirrors the teacher's Merger.mergedGet: a heap of per-list
// cursors, repeatedly popping the current minimum and refilling from
// whichever list it came from. Where mergedGet merges in-memory lists
// already fully known, kWayMerge pulls its next element lazily from disk,
// which is the point of doing this as an external merge at all.
func kWayMerge(runs []*run, cfg *Config, cmp *Comparator, emit func(*Record) error) error {
	h := heap.New(func(a, b *mergeEntry) bool {
		c := cmp.CompareNoTiebreak(a.rec, b.rec)
		if c != 0 {
			return c < 0
		}
		if a.runSeq != b.runSeq {
			return a.runSeq < b.runSeq
		}
		return a.intraSeq < b.intraSeq
	}, len(runs))

	for i, r := range runs {
		e := &mergeEntry{source: r, runSeq: i, intraSeq: -1}
		ok, err := fillEntry(e, cfg)
		if err != nil {
			return err
		}
		if ok {
			h.Push(e)
		}
	}

	for h.Len() > 0 {
		top, _ := h.PopTop()
		if err := emit(top.rec); err != nil {
			return err
		}
		ok, err := fillEntry(top, cfg)
		if err != nil {
			return err
		}
		if ok {
			h.Push(top)
		}
	}
	return nil
}

// fillEntry reads the next record from e.source into e.rec, reporting false
// (no error) once that run is exhausted.
func fillEntry(e *mergeEntry, cfg *Config) (bool, error) {
	n, buf, err := lineio.ReadUntil(e.source.br, e.buf[:0], 0, 1<<30, cfg.LineTerminator, 0)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.buf = buf
	text := make([]byte, n)
	copy(text, buf[:n])
	e.intraSeq++
	e.rec = &Record{Text: text, srcIndex: e.intraSeq}
	return true, nil
}
