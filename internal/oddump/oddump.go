// Package oddump implements the dump engine behind od: reading input in
// fixed-size blocks, formatting each block under one or more type
// specifications (octal/decimal/hex/float/character), collapsing runs of
// identical blocks to a single "*" marker, and printing radix-prefixed
// addresses. Grounded on src/od.c's tspec table (struct tspec: a size
// class, a print function, a field width) and its main read/format loop.
package oddump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Kind names od's -t type letter.
type Kind int

const (
	KindOctal Kind = iota
	KindUnsignedDecimal
	KindSignedDecimal
	KindHex
	KindFloat
	KindNamedChar // 'a': named representation of each control/printable byte
	KindChar      // 'c': one-character-per-byte, C-style escapes
)

// TypeSpec is one resolved "-t" output format, e.g. "d4" (4-byte signed
// decimal) or "f8" (8-byte float). Grounded on src/od.c's struct tspec.
type TypeSpec struct {
	Kind       Kind
	Size       int // bytes per unit; always 1 for KindChar/KindNamedChar
	FieldWidth int // computed column width, including sign if applicable

	// TrailerHexl is od.c's struct tspec.hexl_mode_trailer: a trailing 'z'
	// on the -t spec string requests a printable-character trailer
	// ("> ... <") after this row's formatted elements.
	TrailerHexl bool
}

// bytesToOctDigits etc. mirror od.c's fixed lookup tables translating a
// byte width into the decimal/octal/hex digit count needed to print the
// largest value of that width, indexed by byte count (1..8 used here; the
// original supports up to 16 for __int128, not exposed by this module).
var bytesToOctDigits = []int{0, 3, 6, 8, 11, 14, 16, 19, 22}
var bytesToSignedDecDigits = []int{1, 4, 6, 8, 11, 13, 16, 18, 20}
var bytesToUnsignedDecDigits = []int{0, 3, 5, 8, 10, 13, 15, 17, 20}
var bytesToHexDigits = []int{0, 2, 4, 6, 8, 10, 12, 14, 16}

// NewTypeSpec resolves the field width for a (kind, size) pair the way
// decode_format_string resolves it for named sizes ('a','c' aside, which
// are always one byte wide and use their own fixed-width formatting).
func NewTypeSpec(kind Kind, size int) (TypeSpec, error) {
	if size < 1 || size > 8 {
		return TypeSpec{}, errors.Errorf("oddump: unsupported type size %d", size)
	}
	ts := TypeSpec{Kind: kind, Size: size}
	switch kind {
	case KindOctal:
		ts.FieldWidth = bytesToOctDigits[size] + 1
	case KindUnsignedDecimal:
		ts.FieldWidth = bytesToUnsignedDecDigits[size] + 1
	case KindSignedDecimal:
		ts.FieldWidth = bytesToSignedDecDigits[size] + 1
	case KindHex:
		ts.FieldWidth = bytesToHexDigits[size] + 1
	case KindFloat:
		ts.FieldWidth = 24
	case KindNamedChar, KindChar:
		ts.Size = 1
		ts.FieldWidth = 4
	}
	return ts, nil
}

// traditionalSynonyms maps od's legacy single-letter options (-a -b -c -d
// -f -h -i -l -o -x) to the -t spec they are shorthand for.
var traditionalSynonyms = map[byte]string{
	'a': "a",
	'b': "o1",
	'c': "c",
	'd': "u2",
	'f': "fD",
	'h': "x2",
	'i': "d2",
	'l': "d8",
	'o': "o2",
	'x': "x2",
}

// TraditionalSynonym resolves one legacy option letter to the -t spec
// string it stands for.
func TraditionalSynonym(letter byte) (string, bool) {
	s, ok := traditionalSynonyms[letter]
	return s, ok
}

// Radix selects the base od prints byte addresses in.
type Radix int

const (
	RadixOctal Radix = iota
	RadixDecimal
	RadixHex
	RadixNone
)

// ParseRadix maps -A's argument letter (d/o/x/n) to a Radix.
func ParseRadix(letter byte) (Radix, error) {
	switch letter {
	case 'd':
		return RadixDecimal, nil
	case 'o':
		return RadixOctal, nil
	case 'x':
		return RadixHex, nil
	case 'n':
		return RadixNone, nil
	default:
		return 0, errors.Errorf("oddump: invalid address radix %q", letter)
	}
}

func formatAddress(addr int64, r Radix) string {
	switch r {
	case RadixDecimal:
		return fmt.Sprintf("%07d", addr)
	case RadixHex:
		return fmt.Sprintf("%06x", addr)
	case RadixNone:
		return ""
	default:
		return fmt.Sprintf("%07o", addr)
	}
}

// Dumper drives the read/format/elide loop over an input stream.
type Dumper struct {
	Specs      []TypeSpec
	Width      int // bytes per output line, rounded up to a multiple of blockSize()
	Radix      Radix
	SkipBytes  int64
	LimitBytes int64 // 0 means unlimited
	Elide      bool  // collapse repeated lines to "*" (default true; -v disables)
}

// blockSize computes od.c's bytes_per_block: the LCM of every spec's element
// size (character specs count as size 1 and so never constrain the LCM),
// which every line's byte count must be a multiple of so no spec ever sees a
// chunk split across two lines.
func (d *Dumper) blockSize() int {
	lcm := 1
	for _, s := range d.Specs {
		if s.Size > 1 {
			lcm = lcmInt(lcm, s.Size)
		}
	}
	return lcm
}

func lcmInt(a, b int) int {
	return a / gcdInt(a, b) * b
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lineWidth rounds d.Width (default 16) up to the next multiple of
// blockSize(), od.c's convention for reconciling a user-requested -w with
// the type specs actually in play.
func (d *Dumper) lineWidth() int {
	w := d.Width
	if w <= 0 {
		w = 16
	}
	block := d.blockSize()
	if w%block != 0 {
		w += block - w%block
	}
	return w
}

// Dump reads r and writes od-formatted output to w.
func (d *Dumper) Dump(r io.Reader, w io.Writer) error {
	if d.SkipBytes > 0 {
		if _, err := io.CopyN(io.Discard, r, d.SkipBytes); err != nil && err != io.EOF {
			return errors.Wrap(err, "oddump: skip-bytes")
		}
	}

	addr := d.SkipBytes
	var prevLine []byte
	elided := false
	var remaining int64 = -1
	if d.LimitBytes > 0 {
		remaining = d.LimitBytes
	}

	width := d.lineWidth()
	buf := make([]byte, width)
	for {
		want := width
		if remaining >= 0 && int64(want) > remaining {
			want = int(remaining)
		}
		if want == 0 {
			break
		}
		n, err := io.ReadFull(r, buf[:want])
		if n > 0 {
			line := append([]byte(nil), buf[:n]...)
			if d.Elide && prevLine != nil && bytes.Equal(line, prevLine) && n == width {
				if !elided {
					fmt.Fprintln(w, "*")
					elided = true
				}
			} else {
				if err := d.writeLine(w, addr, line); err != nil {
					return err
				}
				elided = false
			}
			prevLine = line
			addr += int64(n)
			if remaining >= 0 {
				remaining -= int64(n)
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "oddump: read")
		}
	}

	if d.Radix != RadixNone {
		fmt.Fprintln(w, formatAddress(addr, d.Radix))
	}
	return nil
}

func (d *Dumper) writeLine(w io.Writer, addr int64, line []byte) error {
	addrStr := formatAddress(addr, d.Radix)
	for i, spec := range d.Specs {
		prefix := addrStr
		if i > 0 {
			prefix = spacesLike(addrStr)
		}
		formatted, err := formatUnits(line, spec)
		if err != nil {
			return err
		}
		if spec.TrailerHexl {
			formatted += "  " + hexlTrailer(line, d.lineWidth())
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", prefix, formatted); err != nil {
			return err
		}
	}
	return nil
}

// hexlTrailer renders od's -t SPECz trailer: each byte of line as its own
// printable character, '.' for anything non-printable, space-padded on the
// right to a full line's width (src/od.c's dump_hexl_mode_trailer).
func hexlTrailer(line []byte, width int) string {
	var out bytes.Buffer
	out.WriteByte('>')
	for _, c := range line {
		if c >= 0x20 && c < 0x7f {
			out.WriteByte(c)
		} else {
			out.WriteByte('.')
		}
	}
	for i := len(line); i < width; i++ {
		out.WriteByte(' ')
	}
	out.WriteByte('<')
	return out.String()
}

func spacesLike(s string) string {
	b := make([]byte, len(s))
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// formatUnits renders one line's worth of bytes under one TypeSpec,
// producing the space-separated column string od prints after the address.
func formatUnits(line []byte, spec TypeSpec) (string, error) {
	if spec.Kind == KindChar || spec.Kind == KindNamedChar {
		return formatChars(line, spec.Kind), nil
	}

	var out bytes.Buffer
	for i := 0; i < len(line); i += spec.Size {
		end := i + spec.Size
		if end > len(line) {
			end = len(line)
		}
		chunk := line[i:end]
		s, err := formatInteger(chunk, spec)
		if err != nil {
			return "", err
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		fmt.Fprintf(&out, "%*s", spec.FieldWidth, s)
	}
	return out.String(), nil
}

func formatInteger(chunk []byte, spec TypeSpec) (string, error) {
	var v uint64
	for i := len(chunk) - 1; i >= 0; i-- {
		v = v<<8 | uint64(chunk[i])
	}
	switch spec.Kind {
	case KindOctal:
		return strconv.FormatUint(v, 8), nil
	case KindUnsignedDecimal:
		return strconv.FormatUint(v, 10), nil
	case KindHex:
		return strconv.FormatUint(v, 16), nil
	case KindSignedDecimal:
		sv := signExtend(v, len(chunk))
		return strconv.FormatInt(sv, 10), nil
	case KindFloat:
		return formatFloat(chunk), nil
	default:
		return "", errors.Errorf("oddump: unhandled kind %v", spec.Kind)
	}
}

// formatFloat interprets chunk as an IEEE 754 float of matching width (4 or
// 8 bytes; other widths are not representable and print as zero, since od's
// long-double support depends on a platform type this module does not
// model).
func formatFloat(chunk []byte) string {
	padded := make([]byte, 8)
	copy(padded, chunk)
	switch len(chunk) {
	case 4:
		bits := binary.LittleEndian.Uint32(padded[:4])
		return strconv.FormatFloat(float64(math.Float32frombits(bits)), 'g', -1, 32)
	case 8:
		bits := binary.LittleEndian.Uint64(padded)
		return strconv.FormatFloat(math.Float64frombits(bits), 'g', -1, 64)
	default:
		return "0"
	}
}

func signExtend(v uint64, size int) int64 {
	bits := uint(size * 8)
	if bits >= 64 {
		return int64(v)
	}
	signBit := uint64(1) << (bits - 1)
	if v&signBit != 0 {
		return int64(v) - int64(1<<bits)
	}
	return int64(v)
}

// namedChars is od's -a table: the printable name for each control byte
// (0-31, plus 127 as "del"); everything else prints as its own character.
var namedChars = []string{
	"nul", "soh", "stx", "etx", "eot", "enq", "ack", "bel",
	"bs", "ht", "nl", "vt", "ff", "cr", "so", "si",
	"dle", "dc1", "dc2", "dc3", "dc4", "nak", "syn", "etb",
	"can", "em", "sub", "esc", "fs", "gs", "rs", "us",
}

func formatChars(line []byte, kind Kind) string {
	var out bytes.Buffer
	for i, c := range line {
		if i > 0 {
			out.WriteByte(' ')
		}
		if kind == KindNamedChar {
			fmt.Fprintf(&out, "%4s", nameOf(c))
		} else {
			fmt.Fprintf(&out, "%4s", cEscapeOf(c))
		}
	}
	return out.String()
}

func nameOf(c byte) string {
	switch {
	case int(c) < len(namedChars):
		return namedChars[c]
	case c == 127:
		return "del"
	case c >= 0x20 && c < 0x7f:
		return string(c)
	default:
		return fmt.Sprintf("%03o", c)
	}
}

func cEscapeOf(c byte) string {
	switch c {
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\v':
		return `\v`
	}
	if c >= 0x20 && c < 0x7f {
		return string(c)
	}
	return fmt.Sprintf("%03o", c)
}

// DumpStrings implements od's -s/--strings mode: scan r for maximal runs of
// at least minLen printable bytes terminated by NUL (or EOF), and print each
// run's starting address followed by its C-escaped rendering. Grounded on
// src/od.c's dump_strings, which retries a candidate run from its own start
// whenever a non-printable byte interrupts it short of minLen.
func (d *Dumper) DumpStrings(r io.Reader, w io.Writer, minLen int) error {
	if minLen <= 0 {
		minLen = 3
	}
	if d.SkipBytes > 0 {
		if _, err := io.CopyN(io.Discard, r, d.SkipBytes); err != nil && err != io.EOF {
			return errors.Wrap(err, "oddump: skip-bytes")
		}
	}

	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufReader{r}
	}

	addr := d.SkipBytes
	var remaining int64 = -1
	if d.LimitBytes > 0 {
		remaining = d.LimitBytes
	}
	readByte := func() (byte, error) {
		if remaining == 0 {
			return 0, io.EOF
		}
		c, err := br.ReadByte()
		if err == nil && remaining > 0 {
			remaining--
		}
		return c, err
	}

	var run []byte
	runStart := addr
	flush := func() error {
		if len(run) >= minLen {
			var esc bytes.Buffer
			for _, c := range run {
				esc.WriteString(cEscapeOf(c))
			}
			if _, err := fmt.Fprintf(w, "%s %s\n", formatAddress(runStart, d.Radix), esc.String()); err != nil {
				return err
			}
		}
		run = run[:0]
		return nil
	}

	for {
		c, err := readByte()
		if err != nil {
			break
		}
		addr++
		if c == 0 {
			if ferr := flush(); ferr != nil {
				return ferr
			}
			runStart = addr
			continue
		}
		if c >= 0x20 && c < 0x7f {
			if len(run) == 0 {
				runStart = addr - 1
			}
			run = append(run, c)
			continue
		}
		// Non-printable byte short of a NUL terminator: the run so far
		// never qualifies as a NUL-terminated string, discard it and
		// resume scanning from just after this byte.
		run = run[:0]
		runStart = addr
	}
	if err := flush(); err != nil {
		return err
	}
	if d.Radix != RadixNone {
		fmt.Fprintln(w, formatAddress(addr, d.Radix))
	}
	return nil
}

// bufReader adapts an io.Reader without ReadByte to one, one byte at a time.
type bufReader struct {
	r io.Reader
}

func (b bufReader) ReadByte() (byte, error) {
	var tmp [1]byte
	_, err := b.r.Read(tmp[:])
	if err != nil {
		return 0, err
	}
	return tmp[0], nil
}
