package sortengine

import "github.com/coreutils/coreutils-sub001/internal/strutil"

// Comparator holds everything needed to order two Records: the resolved key
// list and the tie-break policy (stable/source-order vs. whole-record
// fallback). It is built once per run and reused across every comparison,
// mirroring the teacher's result.go pattern of precomputing a fixed-width
// rank vector once per item rather than re-deriving it on each compare.
type Comparator struct {
	keys   []KeySpec
	cfg    *Config
	stable bool
	unique bool
}

// NewComparator builds a Comparator from cfg, defaulting to a single
// whole-line key when no -k options were given.
func NewComparator(cfg *Config) *Comparator {
	return &Comparator{
		keys:   cfg.keysOrWholeLine(),
		cfg:    cfg,
		stable: cfg.Stable,
		unique: cfg.Unique,
	}
}

// Less reports whether a sorts strictly before b under every configured
// key, falling back to whole-record byte comparison (unless --stable or
// --unique is set, in which case equal keys stay in source order).
func (c *Comparator) Less(a, b *Record) bool {
	return c.Compare(a, b) < 0
}

// Compare returns <0, 0, >0 as a orders before, equal to, or after b,
// breaking ties by each record's position in its originating buffer. This
// tiebreak is only meaningful when a and b were both produced by the same
// buffer (i.e. an in-core sort); kWayMerge uses CompareNoTiebreak plus its
// own cross-run ordering instead, since fillEntry numbers srcIndex afresh
// within each run it reads.
func (c *Comparator) Compare(a, b *Record) int {
	if cmp := c.CompareNoTiebreak(a, b); cmp != 0 {
		return cmp
	}
	return a.srcIndex - b.srcIndex
}

// CompareNoTiebreak compares a and b by configured keys, and (when neither
// --stable nor --unique fall back to source order) by whole-record bytes,
// returning 0 only when the two records are genuinely indistinguishable by
// every criterion the configuration names.
func (c *Comparator) CompareNoTiebreak(a, b *Record) int {
	var ba, bb []fieldBound
	if !c.cfg.WhitespaceSeparated || hasFieldKeys(c.keys) {
		ba = splitFields(a.Text, c.cfg)
		bb = splitFields(b.Text, c.cfg)
	}

	for _, k := range c.keys {
		abeg, aend := keyRange(a.Text, ba, k)
		bbeg, bend := keyRange(b.Text, bb, k)
		ka := extractKey(a.Text[abeg:aend], k)
		kb := extractKey(b.Text[bbeg:bend], k)

		cmp := compareKey(ka, kb, k)
		if k.Reverse {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}

	if c.stable || c.unique {
		return 0
	}
	return compareBytes(a.Text, b.Text)
}

func hasFieldKeys(keys []KeySpec) bool {
	for _, k := range keys {
		if k.StartField != 0 || k.StartChar != 0 || k.HasEndField {
			return true
		}
	}
	return false
}

func compareKey(a, b []byte, k KeySpec) int {
	switch {
	case k.Numeric:
		return numCompare(a, b)
	case k.GeneralNumeric:
		return generalNumCompare(a, b)
	case k.Month:
		return monthCompare(a, b)
	default:
		return compareBytes(a, b)
	}
}

// extractKey applies the skip-trailing-blanks, ignore-nonprinting,
// ignore-nondictionary, and fold-case filters (in that order, matching
// src/sort.c's keycompare) to the raw key bytes, materializing a filtered
// copy whenever ignore-nonprinting, ignore-nondictionary or fold-case is set.
func extractKey(raw []byte, k KeySpec) []byte {
	b := raw
	if k.SkipTrailingBlanks {
		end := len(b)
		for end > 0 && strutil.IsBlank(b[end-1]) {
			end--
		}
		b = b[:end]
	}

	if !k.IgnoreNonprinting && !k.IgnoreNondictionary && !k.FoldCase {
		return b
	}

	out := make([]byte, 0, len(b))
	for _, c := range b {
		if k.IgnoreNondictionary && !isDictionaryByte(c) {
			continue
		}
		if k.IgnoreNonprinting && !isPrintableByte(c) {
			continue
		}
		if k.FoldCase {
			c = strutil.ToUpper(c)
		}
		out = append(out, c)
	}
	return out
}

func isDictionaryByte(c byte) bool {
	return strutil.IsBlank(c) || strutil.IsAlnum(c)
}

func isPrintableByte(c byte) bool {
	return c >= 0x20 && c < 0x7f
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
