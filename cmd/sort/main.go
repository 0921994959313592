// Command sort reorders the lines of text files, supporting GNU sort's
// multi-key, numeric, month, and general-numeric comparison modes plus
// external merge for inputs too large to hold in memory at once.
package main

import (
	"io"
	"os"

	flag "github.com/ogier/pflag"

	"github.com/coreutils/coreutils-sub001/internal/cleanup"
	"github.com/coreutils/coreutils-sub001/internal/diag"
	"github.com/coreutils/coreutils-sub001/internal/pathutil"
	"github.com/coreutils/coreutils-sub001/internal/sortengine"
)

const progName = "sort"

// keyList accumulates repeated -k/--key occurrences; ogier/pflag has no
// built-in "string array" flag type, so this mirrors the StringVar-plus-
// flag.Value pattern the teacher's own dependency tree uses for anything
// pflag doesn't cover natively.
type keyList []string

func (k *keyList) String() string { return "" }
func (k *keyList) Set(v string) error {
	*k = append(*k, v)
	return nil
}

var (
	keyOpts        keyList
	fieldSeparator = flag.StringP("field-separator", "t", "", "use SEP instead of whitespace for field delimiter")
	numeric        = flag.BoolP("numeric-sort", "n", false, "compare according to string numerical value")
	general        = flag.BoolP("general-numeric-sort", "g", false, "compare according to general numerical value")
	month          = flag.BoolP("month-sort", "M", false, "compare (unknown) < 'JAN' < ... < 'DEC'")
	reverse        = flag.BoolP("reverse", "r", false, "reverse the result of comparisons")
	ignoreCase     = flag.BoolP("ignore-case", "f", false, "fold lower case to upper case characters")
	dictOrder      = flag.BoolP("dictionary-order", "d", false, "consider only blanks and alphanumeric characters")
	ignoreNonprint = flag.BoolP("ignore-nonprinting", "i", false, "consider only printable characters")
	skipBlanksAll  = flag.BoolP("ignore-leading-blanks", "b", false, "ignore leading blanks")
	uniqueFlag     = flag.BoolP("unique", "u", false, "output only the first of an equal run")
	stableFlag     = flag.BoolP("stable", "s", false, "stabilize sort by disabling last-resort comparison")
	checkFlag      = flag.BoolP("check", "c", false, "check for sorted input; do not sort")
	mergeFlag      = flag.BoolP("merge", "m", false, "merge already-sorted files; do not sort")
	zeroTerminated = flag.BoolP("zero-terminated", "z", false, "line delimiter is NUL, not newline")
	outputPath     = flag.StringP("output", "o", "", "write result to FILE instead of standard output")
	tempDir        = flag.StringP("temporary-directory", "T", "", "use DIR for temporaries")
	filesFrom      = flag.String("files0-from", "", "read input from files specified by NUL-terminated names in FILE")
)

func init() {
	flag.VarP(&keyOpts, "key", "k", "sort via a key; KEYDEF gives location and type")
}

func main() {
	flag.Parse()

	cleanup.InstallSignalGuard()
	defer cleanup.Run()

	cfg := &sortengine.Config{
		FieldSeparator:      fieldSepByte(),
		WhitespaceSeparated: *fieldSeparator == "",
		LineTerminator:      lineTerm(),
		Numeric:             *numeric,
		GeneralNumeric:      *general,
		Month:               *month,
		Reverse:             *reverse,
		IgnoreNonprinting:   *ignoreNonprint,
		IgnoreNondictionary: *dictOrder,
		FoldCase:            *ignoreCase,
		SkipLeadingBlanks:   *skipBlanksAll,
		Stable:              *stableFlag,
		Unique:              *uniqueFlag,
		CheckOnly:           *checkFlag,
		MergeOnly:           *mergeFlag,
		OutputPath:          *outputPath,
		TempDir:             *tempDir,
	}

	defaults := sortengine.KeySpec{
		Numeric:             cfg.Numeric,
		GeneralNumeric:      cfg.GeneralNumeric,
		Month:               cfg.Month,
		Reverse:             cfg.Reverse,
		IgnoreNonprinting:   cfg.IgnoreNonprinting,
		IgnoreNondictionary: cfg.IgnoreNondictionary,
		FoldCase:            cfg.FoldCase,
		SkipLeadingBlanks:   cfg.SkipLeadingBlanks,
	}
	for _, spec := range keyOpts {
		k, err := sortengine.ParseKeySpec(spec, defaults)
		if err != nil {
			diag.Errorf(progName, "%v", err)
			diag.TryHelp(progName)
			cleanup.Exit(2)
		}
		cfg.Keys = append(cfg.Keys, k)
	}

	inputs := flag.Args()
	if *filesFrom != "" {
		names, err := readFiles0From(*filesFrom)
		if err != nil {
			diag.Errorf(progName, "%v", err)
			cleanup.Exit(2)
		}
		inputs = names
	}

	engine := sortengine.New(cfg)

	inputs, err := protectConflictingInputs(cfg.OutputPath, inputs, cfg.TempDir)
	if err != nil {
		diag.Errorf(progName, "%v", err)
		cleanup.Exit(2)
	}

	out := os.Stdout
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			diag.Errorf(progName, "%v", err)
			cleanup.Exit(2)
		}
		defer f.Close()
		out = f
	}

	switch {
	case cfg.CheckOnly:
		runCheck(engine, inputs)
	case cfg.MergeOnly:
		if err := engine.Merge(out, inputs); err != nil {
			diag.Errorf(progName, "%v", err)
			cleanup.Exit(2)
		}
	default:
		if err := engine.Sort(out, inputs); err != nil {
			diag.Errorf(progName, "%v", err)
			cleanup.Exit(2)
		}
	}
}

func runCheck(engine *sortengine.SortEngine, inputs []string) {
	var in *os.File
	if len(inputs) == 0 || inputs[0] == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(inputs[0])
		if err != nil {
			diag.Errorf(progName, "%v", err)
			cleanup.Exit(2)
		}
		defer f.Close()
		in = f
	}

	ok, line, err := engine.Check(in)
	if err != nil {
		diag.Errorf(progName, "%v", err)
		cleanup.Exit(2)
	}
	if !ok {
		diag.Errorf(progName, "disorder: line %d", line)
		cleanup.Exit(1)
	}
}

func fieldSepByte() byte {
	if *fieldSeparator == "" {
		return 0
	}
	return (*fieldSeparator)[0]
}

// protectConflictingInputs resolves outputPath against every entry of
// inputs and copies any input that names the same file to a temp file
// first, substituting the copy's path, so -o can safely overwrite one of
// its own inputs. Canonicalization failures are treated as "no conflict"
// rather than fatal, since -o's own create step will surface any real
// problem with the output path.
func protectConflictingInputs(outputPath string, inputs []string, tempDir string) ([]string, error) {
	if outputPath == "" {
		return inputs, nil
	}
	outCanon, err := pathutil.Canonicalize(outputPath, pathutil.Missing)
	if err != nil {
		return inputs, nil
	}

	protected := make([]string, len(inputs))
	copy(protected, inputs)
	for i, in := range inputs {
		if in == "" || in == "-" {
			continue
		}
		inCanon, err := pathutil.Canonicalize(in, pathutil.Existing)
		if err != nil || inCanon != outCanon {
			continue
		}
		tmp, err := copyToTemp(in, tempDir)
		if err != nil {
			return nil, err
		}
		tmpPath := tmp
		cleanup.Register(func() { os.Remove(tmpPath) })
		protected[i] = tmp
	}
	return protected, nil
}

func copyToTemp(path, dir string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, "sort")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func lineTerm() byte {
	if *zeroTerminated {
		return 0
	}
	return '\n'
}

// readFiles0From implements --files0-from=F: F contains a NUL-terminated
// list of file names to read and sort as if they had all been named on the
// command line, supplementing the option set the distilled spec omitted.
func readFiles0From(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	start := 0
	for i, b := range data {
		if b == 0 {
			if i > start {
				names = append(names, string(data[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(data) {
		names = append(names, string(data[start:]))
	}
	return names, nil
}
