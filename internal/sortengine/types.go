// Package sortengine implements the multi-key external-memory sort engine:
// an in-core top-down mergesort for chunks that fit the configured memory
// budget, and an external k-way merge (via internal/heap) once the input
// overflows that budget. It is grounded on three parts of the teacher (fzf):
// src/tokenizer.go (field splitting, including the "whitespace transition"
// mode), src/chunklist.go (a capacity-bounded, snapshot-able record buffer),
// and src/merger.go + src/result.go (k-way merge of ranked lists with a
// fixed-width multi-criterion comparison that falls back to source order).
package sortengine

// KeySpec describes one element of the ordered key list used to compare two
// records, per spec.md §3.
type KeySpec struct {
	StartField int // 0-origin
	StartChar  int // 0-origin, relative to field start

	HasEndField bool
	EndField    int
	EndChar     int // 0 means "through end of line" when HasEndField is false

	Numeric             bool
	GeneralNumeric      bool
	Month               bool
	Reverse             bool
	IgnoreNonprinting   bool
	IgnoreNondictionary bool
	FoldCase            bool
	SkipLeadingBlanks   bool
	SkipTrailingBlanks  bool
}

// isLexicographic reports whether none of the primary-comparison modifiers
// (Numeric/GeneralNumeric/Month) are set, i.e. this key falls back to a
// straight byte (or translate/ignore-filtered) comparison.
func (k KeySpec) isLexicographic() bool {
	return !k.Numeric && !k.GeneralNumeric && !k.Month
}

// Config holds the global options that apply to a sort/check/merge
// invocation, threaded explicitly through SortEngine rather than held in
// package-level globals (spec.md §9's "Global mutable state" design note).
type Config struct {
	Keys []KeySpec

	// FieldSeparator, if WhitespaceSeparated is false, is the single byte
	// used to delimit fields. If WhitespaceSeparated is true, fields are
	// separated by maximal runs of blanks (the "whitespace transition"
	// mode named in spec.md's GLOSSARY).
	FieldSeparator      byte
	WhitespaceSeparated bool

	// LineTerminator is '\n' normally, or 0 under -z/--zero-terminated.
	LineTerminator byte

	// Global modifiers inherited by keys that don't specify their own.
	Numeric             bool
	GeneralNumeric      bool
	Month               bool
	Reverse             bool
	IgnoreNonprinting   bool
	IgnoreNondictionary bool
	FoldCase            bool
	SkipLeadingBlanks   bool
	SkipTrailingBlanks  bool

	Stable    bool
	Unique    bool
	CheckOnly bool
	MergeOnly bool

	OutputPath string
	TempDir    string

	// SortAlloc is the in-core buffer budget in bytes (default ~512 KiB
	// per spec.md §4.C1). Zero means "use the default".
	SortAlloc int

	// FanIn is the maximum number of runs merged directly in one pass
	// (spec.md's "fan-in", default 16).
	FanIn int
}

func (c *Config) effectiveSortAlloc() int {
	if c.SortAlloc > 0 {
		return c.SortAlloc
	}
	return 512 * 1024
}

func (c *Config) effectiveFanIn() int {
	if c.FanIn > 0 {
		return c.FanIn
	}
	return 16
}

// keysOrWholeLine returns c.Keys, or, if empty, a single implicit key
// spanning the whole line (inheriting the global modifiers) -- "sort with
// no -k compares whole records."
func (c *Config) keysOrWholeLine() []KeySpec {
	if len(c.Keys) > 0 {
		return c.Keys
	}
	return []KeySpec{{
		Numeric:             c.Numeric,
		GeneralNumeric:      c.GeneralNumeric,
		Month:               c.Month,
		Reverse:             c.Reverse,
		IgnoreNonprinting:   c.IgnoreNonprinting,
		IgnoreNondictionary: c.IgnoreNondictionary,
		FoldCase:            c.FoldCase,
		SkipLeadingBlanks:   c.SkipLeadingBlanks,
		SkipTrailingBlanks:  c.SkipTrailingBlanks,
	}}
}

// Record is a byte range within a shared Buffer.
type Record struct {
	Text []byte

	// keyBegin/keyEnd are byte offsets into Text reserved for a cached first
	// key range. Nothing in this package sets or reads them: the comparator
	// locates every key, the first included, on each comparison.
	keyBegin, keyEnd int

	// srcIndex is the 0-origin position of this record within its
	// original input stream, used to break ties under --stable and to
	// order equal heads in merge (spec.md's "source-order stability").
	srcIndex int
}
