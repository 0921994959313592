// Package factorizer prints the prime factorization of arbitrarily large
// positive integers. It is grounded on src/factor.c's two-tier strategy:
// trial division by a small wheel of candidate divisors (skipping multiples
// of 2, 3, 5, 7, 11), then Pollard's rho with Brent-style cycle detection
// for what trial division leaves behind, with a Miller-Rabin probable-prime
// test guarding every candidate factor rho reports. Unlike the original,
// which auto-selects between a fixed-width uintmax_t path and a GMP bignum
// path depending on operand size, this package always operates on
// math/big.Int: Go's standard library already provides the arbitrary
// precision arithmetic GMP supplied to the C implementation, so there is no
// analogous "fits in a machine word" fast path worth keeping (see DESIGN.md
// for why math/big, not a wired third-party dependency, is used here).
package factorizer

import (
	"math/big"

	"github.com/pkg/errors"
)

// wheel is the trial-division increment cycle skipping multiples of
// 2, 3, 5, 7, and 11; the same sequence src/factor.c's wheel.h encodes,
// regenerated here as a literal since the generator itself is not part of
// the corpus this module ships with.
var wheel = buildWheel()

// buildWheel computes, by sieving, the increments between successive trial
// divisors coprime to 2*3*5*7*11 = 2310 over one full period. GNU factor
// ships this table pre-baked (wheel.h); computing it once at init time here
// keeps the package self-contained.
func buildWheel() []int {
	const period = 2 * 3 * 5 * 7 * 11
	coprime := func(n int) bool {
		for _, p := range []int{2, 3, 5, 7, 11} {
			if n%p == 0 {
				return false
			}
		}
		return true
	}
	var candidates []int
	for n := 1; n <= period; n++ {
		if coprime(n) {
			candidates = append(candidates, n)
		}
	}
	gaps := make([]int, len(candidates))
	for i := range candidates {
		next := candidates[(i+1)%len(candidates)]
		if i == len(candidates)-1 {
			next += period
		}
		gaps[i] = next - candidates[i]
	}
	return gaps
}

var smallPrimes = []int64{2, 3, 5, 7, 11}

// ErrNotPositiveInteger is returned by ParseOperand when the input is not a
// valid non-negative decimal integer.
var ErrNotPositiveInteger = errors.New("factorizer: not a valid integer")

// Factor returns the prime factorization of n (n >= 0) as a list of primes
// in nondecreasing order, each repeated according to its multiplicity. 0
// returns an empty list (no prime factorization). 1 is a special case: its
// prime factorization is mathematically the empty product, but GNU factor
// prints the operand back as its own sole "factor" ("1: 1"), and this
// returns [1] to match that documented output.
func Factor(n *big.Int) []*big.Int {
	if n.Sign() <= 0 {
		return nil
	}
	if n.Cmp(one) == 0 {
		return []*big.Int{new(big.Int).Set(one)}
	}

	var factors []*big.Int
	work := new(big.Int).Set(n)
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		m := new(big.Int)
		for {
			m.Mod(work, bp)
			if m.Sign() != 0 {
				break
			}
			factors = append(factors, new(big.Int).Set(bp))
			work.Div(work, bp)
		}
	}

	divisionLimit := trialDivisionLimit(n)
	factors = append(factors, trialDivide(work, divisionLimit)...)

	if work.Cmp(one) != 0 {
		factors = append(factors, pollardRhoFactor(work)...)
	}

	return sortFactors(factors)
}

var one = big.NewInt(1)

// trialDivisionLimit mirrors extract_factors_multi's division_limit
// heuristic: min(bit length, 1000) squared, a bound that keeps trial
// division worthwhile for small operands without wasting time on huge ones
// that are better left to Pollard's rho.
func trialDivisionLimit(n *big.Int) int64 {
	bits := n.BitLen()
	if bits > 1000 {
		bits = 1000
	}
	return int64(bits) * int64(bits)
}

// trialDivide divides n (in place) by successive wheel-generated candidate
// divisors up to limit, appending each prime factor found (with
// multiplicity) to the returned slice. n is mutated to hold the cofactor
// remaining after all divisions below limit.
func trialDivide(n *big.Int, limit int64) []*big.Int {
	var factors []*big.Int
	d := big.NewInt(13) // first candidate past the small-prime lead-in
	wi := 1             // wheel[0] is the gap 1 -> 13; wheel[1] is 13 -> 17
	rem := new(big.Int)

	for d.Int64() <= limit {
		if d.Cmp(n) > 0 {
			break
		}
		for {
			rem.Mod(n, d)
			if rem.Sign() != 0 {
				break
			}
			factors = append(factors, new(big.Int).Set(d))
			n.Div(n, d)
		}
		d.Add(d, big.NewInt(int64(wheel[wi])))
		wi = (wi + 1) % len(wheel)
	}
	return factors
}

// pollardRhoFactor factors n (known to have no factor <= its trial-division
// limit) using Brent's variant of Pollard's rho, recursing on composite
// factors it finds, exactly as src/factor.c's factor_using_pollard_rho
// does via goto-encoded states S2/S4 (recast here as ordinary Go control
// flow: an outer loop for S2's batched-GCD phase, an inner loop for S4's
// per-step GCD phase).
func pollardRhoFactor(n *big.Int) []*big.Int {
	if n.Cmp(one) == 0 {
		return nil
	}
	if isProbablePrime(n) {
		return []*big.Int{new(big.Int).Set(n)}
	}
	return pollardRho(n, 1)
}

func pollardRho(n *big.Int, aSeed int64) []*big.Int {
	var factors []*big.Int

	a := big.NewInt(aSeed)
	x := big.NewInt(2)
	x1 := big.NewInt(2)
	y := big.NewInt(2)
	p := big.NewInt(1)
	g := new(big.Int)
	t1 := new(big.Int)
	t2 := new(big.Int)

	k, l, c := 1, 1, 0

	for n.Cmp(one) != 0 {
		for {
			x.Mul(x, x)
			x.Add(x, a)
			x.Mod(x, n)

			t1.Sub(x1, x)
			t2.Mul(p, t1)
			p.Mod(t2, n)

			c++
			if c == 20 {
				c = 0
				g.GCD(nil, nil, p, n)
				if g.Cmp(one) != 0 {
					break
				}
				y.Set(x)
			}

			k--
			if k > 0 {
				continue
			}

			g.GCD(nil, nil, p, n)
			if g.Cmp(one) != 0 {
				break
			}

			x1.Set(x)
			k = l
			l = 2 * l
			for i := 0; i < k; i++ {
				x.Mul(x, x)
				x.Add(x, a)
				x.Mod(x, n)
			}
			y.Set(x)
			c = 0
		}

		for {
			y.Mul(y, y)
			y.Add(y, a)
			y.Mod(y, n)
			t1.Sub(x1, y)
			g.GCD(nil, nil, new(big.Int).Mod(t1, n), n)
			if g.Cmp(one) != 0 {
				break
			}
		}

		n.Div(n, g)

		if !isProbablePrime(g) {
			factors = append(factors, pollardRho(new(big.Int).Set(g), nextASeed(aSeed))...)
		} else {
			factors = append(factors, new(big.Int).Set(g))
		}

		x.Mod(x, n)
		x1.Mod(x1, n)
		y.Mod(y, n)
		if isProbablePrime(n) {
			factors = append(factors, new(big.Int).Set(n))
			break
		}
	}

	return factors
}

// nextASeed mirrors the C source's restart logic (a fresh random nonzero,
// non-minus-two seed for a recursive Pollard's rho call on a composite
// factor); deterministic incrementing is used here in place of
// mpn_random's hardware entropy pull since any seed avoiding the two
// excluded values is equally valid mathematically.
func nextASeed(prev int64) int64 {
	next := prev + 1
	if next == 0 || next == -2 {
		next++
	}
	return next
}

// isProbablePrime runs a 3-round Miller-Rabin test via math/big's built-in
// ProbablyPrime, matching src/factor.c's mpz_probab_prime_p(..., 3) calls.
func isProbablePrime(n *big.Int) bool {
	return n.ProbablyPrime(3)
}

func sortFactors(factors []*big.Int) []*big.Int {
	for i := 1; i < len(factors); i++ {
		for j := i; j > 0 && factors[j-1].Cmp(factors[j]) > 0; j-- {
			factors[j-1], factors[j] = factors[j], factors[j-1]
		}
	}
	return factors
}

// ParseOperand parses s as a base-10 non-negative integer, the argument
// form factor accepts on its command line or via stdin tokens.
func ParseOperand(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, errors.Wrapf(ErrNotPositiveInteger, "%q", s)
	}
	return n, nil
}
