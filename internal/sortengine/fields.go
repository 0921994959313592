package sortengine

import "github.com/coreutils/coreutils-sub001/internal/strutil"

// fieldBound is a half-open byte range [Begin, End) within a record's text.
type fieldBound struct {
	Begin, End int
}

// splitFields locates field boundaries within line, following the two
// conventions sort supports: a single explicit separator byte, or runs of
// blanks acting as transitions (the default, and the mode -k relies on when
// no -t is given). Grounded on the teacher's src/tokenizer.go awkTokenizer,
// which walks a string once locating the same two kinds of boundary under
// its own "AWK-style" vs. delimiter-split modes.
func splitFields(line []byte, cfg *Config) []fieldBound {
	if cfg.WhitespaceSeparated {
		return splitFieldsWhitespace(line)
	}
	return splitFieldsDelimiter(line, cfg.FieldSeparator)
}

func splitFieldsWhitespace(line []byte) []fieldBound {
	var bounds []fieldBound
	i := 0
	n := len(line)
	for i < n {
		// GNU sort counts the blank run before a field as part of that
		// field's leading edge for -k purposes, so Begin is where the
		// blanks start; -b (SkipLeadingBlanks) skips them in keyBegin.
		// A blank run at the end of the line starts no field.
		start := i
		for i < n && strutil.IsBlank(line[i]) {
			i++
		}
		if i >= n {
			break
		}
		for i < n && !strutil.IsBlank(line[i]) {
			i++
		}
		bounds = append(bounds, fieldBound{start, i})
	}
	return bounds
}

func splitFieldsDelimiter(line []byte, sep byte) []fieldBound {
	var bounds []fieldBound
	start := 0
	for i := 0; i <= len(line); i++ {
		if i == len(line) || line[i] == sep {
			bounds = append(bounds, fieldBound{start, i})
			start = i + 1
		}
	}
	return bounds
}

// fieldStartOffset returns the byte offset (into line) of the first byte of
// 1-origin field number field (per the bounds already computed), honoring
// whitespace-separated mode's convention that a field's leading separator
// run belongs to it when locating a key -start-. Fields beyond the end of
// the line resolve to len(line) (an empty key).
func fieldStartOffset(bounds []fieldBound, field int) int {
	if field <= 0 {
		return 0
	}
	if field-1 >= len(bounds) {
		if len(bounds) == 0 {
			return 0
		}
		return bounds[len(bounds)-1].End
	}
	return bounds[field-1].Begin
}

// fieldEndOffset returns the byte offset one past the last byte of the
// 1-origin field number field.
func fieldEndOffset(bounds []fieldBound, field int, lineLen int) int {
	if field <= 0 {
		return 0
	}
	if field-1 >= len(bounds) {
		return lineLen
	}
	return bounds[field-1].End
}

// keyRange resolves a KeySpec's [begin,end) byte range within line, applying
// begfield/limfield-equivalent component rules: start position is
// field+char (0-origin char offset within the field, skipping leading
// blanks first if requested), end position is field+char (see keyEnd), the
// end of the named field, or "rest of line" if no end field was given.
// Grounded on src/sort.c's begfield and limfield (the POSIX_UNSPECIFIED
// conditional compiled out upstream is not replicated here either: limfield
// does not additionally clip to the end of the field it names when an
// explicit end-character offset is given).
func keyRange(line []byte, bounds []fieldBound, k KeySpec) (int, int) {
	begin := keyBegin(line, bounds, k)
	end := keyEnd(line, bounds, k)
	if end < begin {
		end = begin
	}
	return begin, end
}

func keyBegin(line []byte, bounds []fieldBound, k KeySpec) int {
	field := k.StartField + 1 // KeySpec is 0-origin, fields below are 1-origin
	pos := fieldStartOffset(bounds, field)
	limit := fieldEndOffset(bounds, field, len(line))

	if k.SkipLeadingBlanks {
		for pos < limit && strutil.IsBlank(line[pos]) {
			pos++
		}
	}

	pos += k.StartChar
	if pos > limit {
		pos = limit
	}
	if pos > len(line) {
		pos = len(line)
	}
	return pos
}

func keyEnd(line []byte, bounds []fieldBound, k KeySpec) int {
	if !k.HasEndField {
		return len(line)
	}

	field := k.EndField + 1
	limit := fieldEndOffset(bounds, field, len(line))

	if k.EndChar == 0 {
		// No explicit end character: the key runs through the end of the
		// named field.
		return limit
	}

	// An explicit end character anchors off the end of the *preceding*
	// field, not the start of the named field, and is clipped only by the
	// line length -- it may legitimately run past the named field's own
	// boundary. Mirrors src/sort.c's shipped limfield (eword = F2-1, pos =
	// end of that field, plus echar), with the POSIX_UNSPECIFIED re-clip
	// to the named field's own end compiled out upstream.
	pos := fieldEndOffset(bounds, field-1, len(line)) + k.EndChar
	if pos > len(line) {
		pos = len(line)
	}
	return pos
}
