// Command od writes an unambiguous representation of its input: two-byte
// octal units by default, or any combination of octal/decimal/hex/float/character
// type specifications named by -t, with repeated identical lines collapsed
// to a single "*" marker unless -v is given.
package main

import (
	"os"
	"strconv"
	"strings"

	flag "github.com/ogier/pflag"

	"github.com/coreutils/coreutils-sub001/internal/cleanup"
	"github.com/coreutils/coreutils-sub001/internal/diag"
	"github.com/coreutils/coreutils-sub001/internal/oddump"
)

const progName = "od"

// typeSpecList accumulates repeated -t/--format occurrences.
type typeSpecList []string

func (t *typeSpecList) String() string { return "" }
func (t *typeSpecList) Set(v string) error {
	*t = append(*t, v)
	return nil
}

var typeSpecs typeSpecList

var (
	addressRadix = flag.StringP("address-radix", "A", "o", "decide how file offsets are printed")
	skipBytes    = flag.StringP("skip-bytes", "j", "0", "skip SKIP bytes from the beginning of input")
	readBytes    = flag.StringP("read-bytes", "N", "", "limit dump to BYTES bytes of input")
	width        = flag.IntP("width", "w", 16, "output WIDTH bytes per output line")
	verbose      = flag.BoolP("output-duplicates", "v", false, "do not use * to mark line suppression")

	stringsMode   = flag.BoolP("strings", "s", false, "output strings of at least string-bytes printable characters")
	stringMinLen  = flag.Int("string-bytes", 3, "minimum string length for -s/--strings mode")

	// Traditional single-letter synonyms (-a -b -c -d -f -h -i -l -o -x),
	// each shorthand for a fixed -t spec; od.c's COMMON_SHORT_OPTIONS.
	traditionalA = flag.BoolP("named-chars", "a", false, "same as -t a, select named character format")
	traditionalB = flag.BoolP("octal-bytes", "b", false, "same as -t o1, select octal bytes")
	traditionalC = flag.BoolP("chars", "c", false, "same as -t c, select ASCII characters or backslash escapes")
	traditionalD = flag.BoolP("unsigned-decimal", "d", false, "same as -t u2, select unsigned decimal shorts")
	traditionalF = flag.BoolP("floats", "f", false, "same as -t fD, select floats")
	traditionalH = flag.BoolP("hex-shorts", "h", false, "same as -t x2, select hexadecimal shorts")
	traditionalI = flag.BoolP("decimal-shorts", "i", false, "same as -t d2, select decimal shorts")
	traditionalL = flag.BoolP("decimal-longs", "l", false, "same as -t d8, select decimal longs")
	traditionalO = flag.BoolP("octal-shorts", "o", false, "same as -t o2, select octal shorts")
	traditionalX = flag.BoolP("hex-bytes", "x", false, "same as -t x2, select hexadecimal shorts")
)

func init() {
	flag.VarP(&typeSpecs, "format", "t", "select output format")
}

// traditionalSpecs returns the -t spec strings implied by every traditional
// single-letter flag actually given, in the fixed order od.c lists them.
func traditionalSpecs() []string {
	var out []string
	add := func(given bool, letter byte) {
		if given {
			if spec, ok := oddump.TraditionalSynonym(letter); ok {
				out = append(out, spec)
			}
		}
	}
	add(*traditionalA, 'a')
	add(*traditionalB, 'b')
	add(*traditionalC, 'c')
	add(*traditionalD, 'd')
	add(*traditionalF, 'f')
	add(*traditionalH, 'h')
	add(*traditionalI, 'i')
	add(*traditionalL, 'l')
	add(*traditionalO, 'o')
	add(*traditionalX, 'x')
	return out
}

func main() {
	flag.Parse()
	cleanup.InstallSignalGuard()
	defer cleanup.Run()

	radix, err := oddump.ParseRadix((*addressRadix)[0])
	if err != nil {
		diag.Errorf(progName, "%v", err)
		cleanup.Exit(1)
	}

	allSpecs := append(append([]string{}, typeSpecs...), traditionalSpecs()...)
	specs := resolveSpecs(allSpecs)

	skip, err := strconv.ParseInt(*skipBytes, 0, 64)
	if err != nil {
		diag.Errorf(progName, "invalid -j argument %q", *skipBytes)
		cleanup.Exit(1)
	}
	var limit int64
	if *readBytes != "" {
		limit, err = strconv.ParseInt(*readBytes, 0, 64)
		if err != nil {
			diag.Errorf(progName, "invalid -N argument %q", *readBytes)
			cleanup.Exit(1)
		}
	}

	d := &oddump.Dumper{
		Specs:      specs,
		Width:      *width,
		Radix:      radix,
		SkipBytes:  skip,
		LimitBytes: limit,
		Elide:      !*verbose,
	}

	var in *os.File
	args := flag.Args()
	if len(args) == 0 || args[0] == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			diag.Errorf(progName, "%v", err)
			cleanup.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var dumpErr error
	if *stringsMode {
		if len(allSpecs) > 0 {
			diag.Errorf(progName, "no type may be specified when dumping strings")
			cleanup.Exit(1)
		}
		dumpErr = d.DumpStrings(in, os.Stdout, *stringMinLen)
	} else {
		dumpErr = d.Dump(in, os.Stdout)
	}
	if dumpErr != nil {
		diag.Errorf(progName, "%v", dumpErr)
		cleanup.Exit(1)
	}
}

// resolveSpecs parses every -t argument (and any accumulated traditional
// synonym) into a TypeSpec, defaulting to two-byte octal when none were
// given at all.
func resolveSpecs(raw []string) []oddump.TypeSpec {
	if len(raw) == 0 {
		spec, _ := oddump.NewTypeSpec(oddump.KindOctal, 2)
		return []oddump.TypeSpec{spec}
	}
	var out []oddump.TypeSpec
	for _, r := range raw {
		for _, one := range strings.Fields(r) {
			spec, err := parseOneSpec(one)
			if err != nil {
				diag.Errorf(progName, "%v", err)
				cleanup.Exit(1)
			}
			out = append(out, spec)
		}
	}
	return out
}

// parseOneSpec implements the grammar `spec := kind [size] 'z'? repeated`:
// a trailing 'z' (src/od.c's tspec->hexl_mode_trailer) requests a
// printable-character trailer after this spec's formatted elements and is
// stripped before the kind/size are resolved.
func parseOneSpec(s string) (oddump.TypeSpec, error) {
	if s == "" {
		return oddump.TypeSpec{}, nil
	}
	trailerHexl := false
	if len(s) > 1 && s[len(s)-1] == 'z' {
		trailerHexl = true
		s = s[:len(s)-1]
	}

	kindLetter := s[0]
	rest := s[1:]

	var kind oddump.Kind
	switch kindLetter {
	case 'o':
		kind = oddump.KindOctal
	case 'u':
		kind = oddump.KindUnsignedDecimal
	case 'd':
		kind = oddump.KindSignedDecimal
	case 'x':
		kind = oddump.KindHex
	case 'f':
		kind = oddump.KindFloat
	case 'a':
		spec, err := oddump.NewTypeSpec(oddump.KindNamedChar, 1)
		spec.TrailerHexl = trailerHexl
		return spec, err
	case 'c':
		spec, err := oddump.NewTypeSpec(oddump.KindChar, 1)
		spec.TrailerHexl = trailerHexl
		return spec, err
	default:
		spec, _ := oddump.NewTypeSpec(oddump.KindOctal, 2)
		spec.TrailerHexl = trailerHexl
		return spec, nil
	}

	size := defaultSizeFor(kind)
	if rest != "" {
		size = sizeLetterOrNumber(rest, size)
	}
	spec, err := oddump.NewTypeSpec(kind, size)
	spec.TrailerHexl = trailerHexl
	return spec, err
}

func defaultSizeFor(kind oddump.Kind) int {
	if kind == oddump.KindFloat {
		return 8
	}
	return 4
}

// sizeLetterOrNumber resolves od's size suffix, which is either a decimal
// byte count or one of the C type letters (C/S/I/L for integers, F/D/L for
// floats).
func sizeLetterOrNumber(s string, fallback int) int {
	switch s {
	case "C":
		return 1
	case "S":
		return 2
	case "I":
		return 4
	case "L":
		return 8
	case "F":
		return 4
	case "D":
		return 8
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
