package factorizer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(factors []*big.Int) *big.Int {
	p := big.NewInt(1)
	for _, f := range factors {
		p.Mul(p, f)
	}
	return p
}

func allPrime(t *testing.T, factors []*big.Int) {
	t.Helper()
	for _, f := range factors {
		if !f.ProbablyPrime(20) {
			t.Fatalf("factor %s is not prime", f)
		}
	}
}

func TestFactorSmallComposite(t *testing.T) {
	n := big.NewInt(360) // 2^3 * 3^2 * 5
	got := Factor(n)
	want := []int64{2, 2, 2, 3, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i].Int64() != w {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFactorPrime(t *testing.T) {
	n := big.NewInt(1000003) // prime
	got := Factor(n)
	if len(got) != 1 || got[0].Cmp(n) != 0 {
		t.Fatalf("got %v, want [%v]", got, n)
	}
}

func TestFactorProductReconstructs(t *testing.T) {
	n, _ := new(big.Int).SetString("9223372036854775837", 10) // large prime-ish
	got := Factor(n)
	allPrime(t, got)
	if product(got).Cmp(n) != 0 {
		t.Fatalf("product of factors %v != %v", got, n)
	}
}

func TestFactorZeroAndOne(t *testing.T) {
	if got := Factor(big.NewInt(0)); len(got) != 0 {
		t.Fatalf("Factor(0) = %v, want empty", got)
	}
	// 1's prime factorization is the empty product, but GNU factor prints
	// "1: 1" rather than a bare "1:", so Factor(1) returns [1] to match.
	got := Factor(big.NewInt(1))
	if len(got) != 1 || got[0].Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("Factor(1) = %v, want [1]", got)
	}
}

func TestFactorLargeSemiprime(t *testing.T) {
	// Product of two distinct primes large enough to bypass trial division
	// and exercise Pollard's rho.
	p, _ := new(big.Int).SetString("100000000000000003", 10)
	q, _ := new(big.Int).SetString("100000000000000013", 10)
	n := new(big.Int).Mul(p, q)

	got := Factor(n)
	allPrime(t, got)
	assert.Equal(t, 0, product(got).Cmp(n), "product of factors %v != %v", got, n)
}

func TestParseOperand(t *testing.T) {
	n, err := ParseOperand("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.Int64())

	_, err = ParseOperand("-1")
	assert.Error(t, err, "expected error for negative operand")

	_, err = ParseOperand("abc")
	assert.Error(t, err, "expected error for non-numeric operand")
}
