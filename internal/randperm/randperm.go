// Package randperm generates the first h elements of a uniform random
// permutation of [0, n), using an isaac.Source for entropy. It follows
// gnulib's gl/lib/randperm.c: a partial Fisher-Yates shuffle that only
// materializes the prefix actually requested.
package randperm

import (
	"encoding/binary"

	"github.com/coreutils/coreutils-sub001/internal/strutil"
)

// EntropySource is the narrow interface randperm needs from isaac.Source,
// so callers can substitute a deterministic fake in tests.
type EntropySource interface {
	Read(out []byte) error
}

// Bound returns an upper bound, in bytes, on the entropy needed to generate
// the first h elements of a permutation of n elements: ceil(ceil_lg(n)*h/8).
func Bound(h, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	lgN := uint64(strutil.CeilLg(n))
	bits := lgN * h
	return (bits + 7) / 8
}

// New returns the first h elements (distinct values in [0, n)) of a uniform
// random permutation of [0, n), drawing entropy from src.
func New(src EntropySource, h, n uint64) ([]uint64, error) {
	switch h {
	case 0:
		return []uint64{}, nil
	case 1:
		v, err := randintChoose(src, n)
		if err != nil {
			return nil, err
		}
		return []uint64{v}, nil
	default:
		v := make([]uint64, n)
		for i := range v {
			v[i] = uint64(i)
		}
		for i := uint64(0); i < h; i++ {
			j, err := randintChoose(src, n-i)
			if err != nil {
				return nil, err
			}
			j += i
			v[i], v[j] = v[j], v[i]
		}
		return v[:h], nil
	}
}

// randintChoose draws a uniform value in [0, bound) from src, using
// rejection sampling over the minimum number of whole bytes that cover
// bound, the same approach gnulib's randint_choose takes to avoid modulo
// bias.
func randintChoose(src EntropySource, bound uint64) (uint64, error) {
	if bound == 0 {
		return 0, nil
	}
	if bound == 1 {
		return 0, nil
	}

	nbytes := (strutil.CeilLg(bound) + 7) / 8
	if nbytes == 0 {
		nbytes = 1
	}
	// The number of representable values in nbytes bytes that divides
	// evenly by bound, to reject the biased remainder.
	limit := uint64(1) << (8 * nbytes)
	usable := limit - (limit % bound)

	buf := make([]byte, 8)
	for {
		if err := src.Read(buf[8-nbytes:]); err != nil {
			return 0, err
		}
		var padded [8]byte
		copy(padded[8-nbytes:], buf[8-nbytes:])
		v := binary.BigEndian.Uint64(padded[:])
		if v < usable {
			return v % bound, nil
		}
	}
}
