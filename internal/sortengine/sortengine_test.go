package sortengine

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestSortDefaultLexicographic(t *testing.T) {
	cfg := &Config{LineTerminator: '\n'}
	e := New(cfg)
	in := strings.NewReader("banana\napple\ncherry\n")
	out := &bytes.Buffer{}
	if err := runSortOnReader(e, in, out); err != nil {
		t.Fatal(err)
	}
	want := "apple\nbanana\ncherry\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortNumericKey(t *testing.T) {
	cfg := &Config{
		LineTerminator: '\n',
		Keys:           []KeySpec{{Numeric: true}},
	}
	e := New(cfg)
	in := strings.NewReader("10\n9\n100\n-5\n0\n")
	out := &bytes.Buffer{}
	if err := runSortOnReader(e, in, out); err != nil {
		t.Fatal(err)
	}
	want := "-5\n0\n9\n10\n100\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortReverse(t *testing.T) {
	cfg := &Config{
		LineTerminator: '\n',
		Keys:           []KeySpec{{Numeric: true, Reverse: true}},
	}
	e := New(cfg)
	in := strings.NewReader("1\n3\n2\n")
	out := &bytes.Buffer{}
	if err := runSortOnReader(e, in, out); err != nil {
		t.Fatal(err)
	}
	want := "3\n2\n1\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortUniqueDedups(t *testing.T) {
	cfg := &Config{LineTerminator: '\n', Unique: true}
	e := New(cfg)
	in := strings.NewReader("a\nb\na\nb\nc\n")
	out := &bytes.Buffer{}
	if err := runSortOnReader(e, in, out); err != nil {
		t.Fatal(err)
	}
	want := "a\nb\nc\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortByFieldWithSeparator(t *testing.T) {
	cfg := &Config{
		LineTerminator: '\n',
		FieldSeparator: ':',
		Keys: []KeySpec{{
			StartField: 1, // 0-origin -> GNU sort's -k2
		}},
	}
	e := New(cfg)
	in := strings.NewReader("x:3\ny:1\nz:2\n")
	out := &bytes.Buffer{}
	if err := runSortOnReader(e, in, out); err != nil {
		t.Fatal(err)
	}
	want := "y:1\nz:2\nx:3\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortMultipleRunsExternalMerge(t *testing.T) {
	cfg := &Config{LineTerminator: '\n', SortAlloc: 1} // force a flush per line
	e := New(cfg)
	in := strings.NewReader("e\nd\nc\nb\na\n")
	out := &bytes.Buffer{}
	if err := runSortOnReader(e, in, out); err != nil {
		t.Fatal(err)
	}
	want := "a\nb\nc\nd\ne\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestCheckDetectsDisorder(t *testing.T) {
	cfg := &Config{LineTerminator: '\n'}
	e := New(cfg)
	ok, line, err := e.Check(strings.NewReader("a\nc\nb\n"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected disorder to be detected")
	}
	if line != 3 {
		t.Fatalf("got disorder line %d, want 3", line)
	}
}

func TestCheckAcceptsSortedInput(t *testing.T) {
	cfg := &Config{LineTerminator: '\n'}
	e := New(cfg)
	ok, _, err := e.Check(strings.NewReader("a\nb\nc\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected input to be reported sorted")
	}
}

func TestParseKeySpecBasic(t *testing.T) {
	k, err := ParseKeySpec("2,3n", KeySpec{})
	if err != nil {
		t.Fatal(err)
	}
	if k.StartField != 1 || !k.HasEndField || k.EndField != 2 || !k.Numeric {
		t.Fatalf("unexpected parse result: %+v", k)
	}
}

func TestParseKeySpecWithCharOffsetsAndOptions(t *testing.T) {
	k, err := ParseKeySpec("1.3rb", KeySpec{})
	if err != nil {
		t.Fatal(err)
	}
	if k.StartField != 0 || k.StartChar != 2 || !k.Reverse || !k.SkipLeadingBlanks {
		t.Fatalf("unexpected parse result: %+v", k)
	}
}

func TestParseLegacyKeySpec(t *testing.T) {
	k, err := ParseLegacyKeySpec("+1", "-3", KeySpec{})
	if err != nil {
		t.Fatal(err)
	}
	if k.StartField != 1 || !k.HasEndField || k.EndField != 3 {
		t.Fatalf("unexpected parse result: %+v", k)
	}
}

func runSortOnReader(e *SortEngine, r *strings.Reader, out *bytes.Buffer) error {
	path, err := writeTempInput(r)
	if err != nil {
		return err
	}
	defer os.Remove(path)
	return e.Sort(out, []string{path})
}

func writeTempInput(r *strings.Reader) (string, error) {
	f, err := os.CreateTemp("", "sortengine-test-input")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return f.Name(), nil
}
