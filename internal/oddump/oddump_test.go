package oddump

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpOctalDefault(t *testing.T) {
	spec, err := NewTypeSpec(KindOctal, 2)
	if err != nil {
		t.Fatal(err)
	}
	d := &Dumper{Specs: []TypeSpec{spec}, Width: 16, Radix: RadixOctal, Elide: true}
	var out bytes.Buffer
	if err := d.Dump(strings.NewReader("hello, world!!!!"), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "0000000") {
		t.Fatalf("missing leading address column: %q", out.String())
	}
	if !strings.HasSuffix(strings.TrimRight(out.String(), "\n"), "0000020") {
		t.Fatalf("missing final address line: %q", out.String())
	}
}

func TestDumpElidesRepeatedLines(t *testing.T) {
	spec, _ := NewTypeSpec(KindOctal, 1)
	d := &Dumper{Specs: []TypeSpec{spec}, Width: 4, Radix: RadixOctal, Elide: true}
	var out bytes.Buffer
	input := strings.Repeat("\x00\x00\x00\x00", 5) + "data"
	if err := d.Dump(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}
	if strings.Count(out.String(), "*") != 1 {
		t.Fatalf("expected exactly one elision marker, got: %q", out.String())
	}
}

func TestDumpNoElideShowsEveryLine(t *testing.T) {
	spec, _ := NewTypeSpec(KindOctal, 1)
	d := &Dumper{Specs: []TypeSpec{spec}, Width: 4, Radix: RadixOctal, Elide: false}
	var out bytes.Buffer
	input := strings.Repeat("\x00\x00\x00\x00", 3)
	if err := d.Dump(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "*") {
		t.Fatalf("did not expect elision marker: %q", out.String())
	}
}

func TestTraditionalSynonyms(t *testing.T) {
	cases := map[byte]string{'b': "o1", 'd': "u2", 'x': "x2", 'c': "c"}
	for letter, want := range cases {
		got, ok := TraditionalSynonym(letter)
		if !ok || got != want {
			t.Fatalf("TraditionalSynonym(%q) = %q, %v; want %q", letter, got, ok, want)
		}
	}
}

func TestParseRadix(t *testing.T) {
	if r, err := ParseRadix('x'); err != nil || r != RadixHex {
		t.Fatalf("ParseRadix('x') = %v, %v", r, err)
	}
	if _, err := ParseRadix('q'); err == nil {
		t.Fatal("expected error for invalid radix letter")
	}
}

func TestFormatCharsNamedControl(t *testing.T) {
	got := formatChars([]byte{0, 'A', 127}, KindNamedChar)
	if !strings.Contains(got, "nul") || !strings.Contains(got, "del") {
		t.Fatalf("got %q", got)
	}
}

func TestBlockSizeIsLCMOfSpecSizes(t *testing.T) {
	s2, _ := NewTypeSpec(KindHex, 2)
	s4, _ := NewTypeSpec(KindSignedDecimal, 4)
	d := &Dumper{Specs: []TypeSpec{s2, s4}}
	if got := d.blockSize(); got != 4 {
		t.Fatalf("blockSize() = %d, want 4", got)
	}

	s3, _ := NewTypeSpec(KindUnsignedDecimal, 3)
	d = &Dumper{Specs: []TypeSpec{s2, s3}}
	if got := d.blockSize(); got != 6 {
		t.Fatalf("blockSize() = %d, want 6", got)
	}
}

func TestLineWidthRoundsUpToBlockSize(t *testing.T) {
	s3, _ := NewTypeSpec(KindUnsignedDecimal, 3)
	d := &Dumper{Specs: []TypeSpec{s3}, Width: 16}
	if got := d.lineWidth(); got != 18 {
		t.Fatalf("lineWidth() = %d, want 18", got)
	}
}

func TestDumpHonorsTrailerHexl(t *testing.T) {
	spec, _ := NewTypeSpec(KindHex, 1)
	spec.TrailerHexl = true
	d := &Dumper{Specs: []TypeSpec{spec}, Width: 8, Radix: RadixOctal, Elide: true}
	var out bytes.Buffer
	if err := d.Dump(strings.NewReader("AB\x01\x02"), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), ">AB..") {
		t.Fatalf("expected printable trailer in output, got %q", out.String())
	}
}

func TestDumpStringsFindsNulTerminatedRuns(t *testing.T) {
	spec, _ := NewTypeSpec(KindOctal, 2)
	d := &Dumper{Specs: []TypeSpec{spec}, Radix: RadixOctal}
	input := "\x01\x02hello\x00world!\x00hi\x00"
	var out bytes.Buffer
	if err := d.DumpStrings(strings.NewReader(input), &out, 4); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "hello") {
		t.Fatalf("expected run %q in output: %q", "hello", got)
	}
	if !strings.Contains(got, "world!") {
		t.Fatalf("expected run %q in output: %q", "world!", got)
	}
	if strings.Contains(got, " hi\n") {
		t.Fatalf("run shorter than minLen should be dropped: %q", got)
	}
}
