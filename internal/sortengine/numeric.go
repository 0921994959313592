package sortengine

import (
	"strconv"
	"strings"

	"github.com/coreutils/coreutils-sub001/internal/strutil"
)

// numCompare orders two numeric keys the way sort's -n does: by arithmetic
// value of the (possibly signed, possibly fractional) leading number each
// byte slice starts with, ignoring leading blanks; anything that is not part
// of a leading number is simply not part of the comparison. Grounded on
// src/sort.c's numcompare/fraccompare pair: skip blanks, compare sign,
// compare magnitude by digit count before digit contents (so "100" sorts
// above "99" without ever parsing into a machine float), then fall back to
// the fractional part digit-by-digit.
func numCompare(a, b []byte) int {
	a = skipBlanks(a)
	b = skipBlanks(b)

	negA, negB := false, false
	if len(a) > 0 && (a[0] == '-' || a[0] == '+') {
		negA = a[0] == '-'
		a = a[1:]
	}
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		negB = b[0] == '-'
		b = b[1:]
	}

	a = skipLeadingZeros(a)
	b = skipLeadingZeros(b)

	switch {
	case negA && !negB:
		if hasNonzeroMagnitude(a) || hasNonzeroMagnitude(b) {
			return -1
		}
		return 0
	case negB && !negA:
		if hasNonzeroMagnitude(a) || hasNonzeroMagnitude(b) {
			return 1
		}
		return 0
	}

	cmp := compareMagnitude(a, b)
	if negA { // both negative: larger magnitude is the smaller value
		return -cmp
	}
	return cmp
}

// compareMagnitude compares two non-negative numeric strings (already
// blank- and sign-stripped, leading zeros removed) by digit count first,
// then digit-by-digit, then by fractional part.
func compareMagnitude(a, b []byte) int {
	da := digitRun(a)
	db := digitRun(b)

	if len(da) != len(db) {
		if len(da) < len(db) {
			return -1
		}
		return 1
	}
	for i := range da {
		if da[i] != db[i] {
			if da[i] < db[i] {
				return -1
			}
			return 1
		}
	}

	afterA := a[len(da):]
	afterB := b[len(db):]
	return fracCompare(afterA, afterB)
}

// fracCompare compares the fractional remainder of two numbers: each slice
// either is empty, or begins with a decimal point followed by digits.
// The two digit runs are walked in lockstep; once one side runs out of
// digits it is compared as if padded with zeros, so "1.50" equals "1.5"
// and "1.5" is greater than "1".
func fracCompare(a, b []byte) int {
	if len(a) > 0 && a[0] == '.' {
		a = a[1:]
	}
	if len(b) > 0 && b[0] == '.' {
		b = b[1:]
	}
	for {
		var da, db byte
		aOK := len(a) > 0 && strutil.IsDigit(a[0])
		bOK := len(b) > 0 && strutil.IsDigit(b[0])
		if aOK {
			da = a[0]
			a = a[1:]
		}
		if bOK {
			db = b[0]
			b = b[1:]
		}
		if !aOK && !bOK {
			return 0
		}
		if !aOK {
			da = '0'
		}
		if !bOK {
			db = '0'
		}
		if da != db {
			if da < db {
				return -1
			}
			return 1
		}
		if !aOK && !bOK {
			return 0
		}
	}
}

func digitRun(b []byte) []byte {
	i := 0
	for i < len(b) && strutil.IsDigit(b[i]) {
		i++
	}
	return b[:i]
}

func hasNonzeroMagnitude(b []byte) bool {
	for _, c := range b {
		if strutil.IsDigit(c) && c != '0' {
			return true
		}
		if !strutil.IsDigit(c) && c != '.' {
			break
		}
	}
	return false
}

func skipBlanks(b []byte) []byte {
	i := 0
	for i < len(b) && strutil.IsBlank(b[i]) {
		i++
	}
	return b[i:]
}

func skipLeadingZeros(b []byte) []byte {
	i := 0
	// Keep at least the final digit of an all-zero run, matching sort's
	// treatment of "0" and "-0" as a valid, equal-to-zero number rather
	// than an empty one.
	for i+1 < len(b) && b[i] == '0' && strutil.IsDigit(b[i+1]) {
		i++
	}
	return b[i:]
}

// generalNumCompare implements -g: parse each side as a floating point
// number (accepting leading blanks, optional sign, optional exponent, and
// the locale-independent forms strtod accepts) and compare as float64.
// Unparsable input sorts as if it were negative infinity, per GNU sort's
// documented behavior for general numeric keys.
func generalNumCompare(a, b []byte) int {
	va, oka := parseGeneralNumber(a)
	vb, okb := parseGeneralNumber(b)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return -1
	case !okb:
		return 1
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

func parseGeneralNumber(b []byte) (float64, bool) {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, false
	}
	end := len(s)
	for i := range s {
		c := s[i]
		if strutil.IsDigit(c) || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			continue
		}
		end = i
		break
	}
	s = s[:end]
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthCompare implements -M: the leading three letters (case-folded) are
// looked up in the fixed month table; unrecognized text sorts before all
// named months, same as GNU sort's "invalid" month value of 0.
func monthCompare(a, b []byte) int {
	ma := monthOf(a)
	mb := monthOf(b)
	switch {
	case ma < mb:
		return -1
	case ma > mb:
		return 1
	default:
		return 0
	}
}

func monthOf(b []byte) int {
	b = skipBlanks(b)
	if len(b) < 3 {
		return 0
	}
	key := strings.ToLower(string(b[:3]))
	return monthNames[key]
}
