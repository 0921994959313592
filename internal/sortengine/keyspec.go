package sortengine

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseKeySpec parses one -k argument, "F1[.C1][OPTS][,F2[.C2][OPTS]]", into
// a KeySpec. defaults supplies the global modifier state a bare field
// reference inherits (sort's rule: per-key option letters override the
// global ones named on the command line, they don't replace them outright).
func ParseKeySpec(spec string, defaults KeySpec) (KeySpec, error) {
	parts := strings.SplitN(spec, ",", 2)
	start, startOpts, err := parsePosition(parts[0])
	if err != nil {
		return KeySpec{}, errors.Wrapf(err, "sortengine: invalid key spec %q", spec)
	}

	k := defaults
	k.StartField = start.field - 1
	k.StartChar = start.char
	if k.StartChar > 0 {
		k.StartChar-- // -k counts characters from 1; KeySpec.StartChar from 0
	}
	applyOpts(&k, startOpts)

	if len(parts) == 2 {
		end, endOpts, err := parsePosition(parts[1])
		if err != nil {
			return KeySpec{}, errors.Wrapf(err, "sortengine: invalid key spec %q", spec)
		}
		k.HasEndField = true
		k.EndField = end.field - 1
		k.EndChar = end.char
		applyOpts(&k, endOpts)
	}

	if k.StartField < 0 {
		return KeySpec{}, errors.Errorf("sortengine: key spec %q: fields are 1-origin", spec)
	}
	return k, nil
}

type position struct {
	field int
	char  int
}

// parsePosition parses "F[.C]OPTS" (field, optional dot-char, optional
// trailing option letters) into the numeric part and the option letters.
func parsePosition(s string) (position, string, error) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return position{}, "", errors.New("missing field number")
	}
	field, err := strconv.Atoi(s[:i])
	if err != nil {
		return position{}, "", err
	}

	char := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i+1 {
			return position{}, "", errors.New("missing character offset after '.'")
		}
		char, err = strconv.Atoi(s[i+1 : j])
		if err != nil {
			return position{}, "", err
		}
		i = j
	}

	return position{field: field, char: char}, s[i:], nil
}

// applyOpts applies the per-key option letters (b d f g i M n r) named in
// GNU sort's -k syntax, each independently toggling the matching KeySpec
// field. Any other letter is ignored.
func applyOpts(k *KeySpec, opts string) {
	for _, c := range opts {
		switch c {
		case 'b':
			k.SkipLeadingBlanks = true
		case 'd':
			k.IgnoreNondictionary = true
		case 'f':
			k.FoldCase = true
		case 'g':
			k.GeneralNumeric = true
		case 'i':
			k.IgnoreNonprinting = true
		case 'M':
			k.Month = true
		case 'n':
			k.Numeric = true
		case 'r':
			k.Reverse = true
		}
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ParseLegacyKeySpec parses the deprecated "+POS1 [-POS2]" two-argument key
// syntax (still accepted for backward compatibility): POS1 and POS2 are
// 0-origin "field.char" pairs, unlike -k's 1-origin fields.
func ParseLegacyKeySpec(pos1, pos2 string, defaults KeySpec) (KeySpec, error) {
	f1, c1, opts1, err := parseLegacyPosition(strings.TrimPrefix(pos1, "+"))
	if err != nil {
		return KeySpec{}, errors.Wrapf(err, "sortengine: invalid legacy key %q", pos1)
	}
	k := defaults
	k.StartField = f1
	k.StartChar = c1
	applyOpts(&k, opts1)

	if pos2 != "" {
		f2, c2, opts2, err := parseLegacyPosition(strings.TrimPrefix(pos2, "-"))
		if err != nil {
			return KeySpec{}, errors.Wrapf(err, "sortengine: invalid legacy key %q", pos2)
		}
		k.HasEndField = true
		k.EndField = f2
		k.EndChar = c2
		applyOpts(&k, opts2)
	}
	return k, nil
}

func parseLegacyPosition(s string) (field, char int, opts string, err error) {
	// Trailing option letters (e.g. "+1n") are accepted by stripping the
	// first non-digit, non-dot run from the tail.
	end := len(s)
	for end > 0 && !isDigit(s[end-1]) {
		end--
	}
	opts = s[end:]
	s = s[:end]

	dot := strings.IndexByte(s, '.')
	fieldStr := s
	charStr := ""
	if dot >= 0 {
		fieldStr = s[:dot]
		charStr = s[dot+1:]
	}
	if fieldStr == "" {
		field = 0
	} else {
		field, err = strconv.Atoi(fieldStr)
		if err != nil {
			return 0, 0, "", err
		}
	}
	if charStr != "" {
		char, err = strconv.Atoi(charStr)
		if err != nil {
			return 0, 0, "", err
		}
	}
	return field, char, opts, nil
}
