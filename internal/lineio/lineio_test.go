package lineio

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestReadUntilBasicLines(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("apple\nbanana\ncherry"))
	var buf []byte

	n, buf, err := ReadUntil(br, buf, 0, 1024, '\n', 0)
	if err != nil || string(buf[:n]) != "apple" {
		t.Fatalf("first read: n=%d buf=%q err=%v", n, buf[:n], err)
	}

	n, buf, err = ReadUntil(br, buf, 0, 1024, '\n', 0)
	if err != nil || string(buf[:n]) != "banana" {
		t.Fatalf("second read: n=%d buf=%q err=%v", n, buf[:n], err)
	}

	n, buf, err = ReadUntil(br, buf, 0, 1024, '\n', 0)
	if err != nil || string(buf[:n]) != "cherry" {
		t.Fatalf("third read (no trailing delim): n=%d buf=%q err=%v", n, buf[:n], err)
	}

	_, _, err = ReadUntil(br, buf, 0, 1024, '\n', 0)
	if err != io.EOF {
		t.Fatalf("fourth read: want io.EOF, got %v", err)
	}
}

func TestReadUntilSecondDelimiter(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("a\x00b\nc"))
	var buf []byte

	n, buf, err := ReadUntil(br, buf, 0, 1024, '\n', 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(buf[:n]) != "a\x00b" {
		t.Fatalf("got %q, want %q (delim2=0 means disabled)", buf[:n], "a\x00b")
	}
}

func TestReadUntilNulDelimiter(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("a\x00b\x00"))
	var buf []byte

	n, buf, err := ReadUntil(br, buf, 0, 1024, 0, 0)
	// delim1 == 0 is a legitimate configuration (sort -z): it is the only
	// terminator recognized, so delim2 must be disambiguated separately.
	// Here delim1=0 and delim2=0 collapse to "delimiter is NUL".
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(buf[:n]) != "a" {
		t.Fatalf("got %q, want %q", buf[:n], "a")
	}
}

func TestReadUntilBudgetDiscardsExcess(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("1234567890\n"))
	var buf []byte

	n, buf, err := ReadUntil(br, buf, 0, 5, '\n', 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("got n=%d, want 5 (capped by nmax)", n)
	}
	if string(buf[:n]) != "12345" {
		t.Fatalf("got %q, want %q", buf[:n], "12345")
	}
}

func TestReadUntilEmptyStream(t *testing.T) {
	br := bufio.NewReader(strings.NewReader(""))
	_, _, err := ReadUntil(br, nil, 0, 1024, '\n', 0)
	if err != io.EOF {
		t.Fatalf("want io.EOF on empty stream, got %v", err)
	}
}

func TestReaderWrapper(t *testing.T) {
	r := NewReader(strings.NewReader("x\ny\n"))
	var buf []byte
	n, buf, err := r.ReadUntil(buf, 0, 64, '\n', 0)
	if err != nil || string(buf[:n]) != "x" {
		t.Fatalf("n=%d buf=%q err=%v", n, buf[:n], err)
	}
}
