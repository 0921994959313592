// Command factor prints the prime factors of each given integer, or of
// whitespace-separated integers read from standard input when none are given.
package main

import (
	"bufio"
	"fmt"
	"math/big"
	"os"

	flag "github.com/ogier/pflag"

	"github.com/coreutils/coreutils-sub001/internal/cleanup"
	"github.com/coreutils/coreutils-sub001/internal/diag"
	"github.com/coreutils/coreutils-sub001/internal/factorizer"
)

const progName = "factor"

// --bignum/--no-bignum toggle the original's fixed-width-vs-GMP fast path.
// internal/factorizer always operates on math/big.Int, which has no
// narrower-width representation to fall back from, so both flags are
// accepted for command-line compatibility but neither changes behavior.
var (
	bignum   = flag.Bool("bignum", false, "always use arbitrary-precision arithmetic (default)")
	noBignum = flag.Bool("no-bignum", false, "accepted for compatibility; has no effect")
)

func main() {
	flag.Parse()
	cleanup.InstallSignalGuard()
	defer cleanup.Run()

	args := flag.Args()
	status := 0
	if len(args) > 0 {
		for _, a := range args {
			if !factorOne(a) {
				status = 1
			}
		}
	} else {
		status = factorStdin()
	}
	cleanup.Exit(status)
}

func factorOne(s string) bool {
	n, err := factorizer.ParseOperand(s)
	if err != nil {
		diag.Errorf(progName, "%s: %v", s, err)
		return false
	}
	printFactorization(s, n)
	return true
}

func factorStdin() int {
	status := 0
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tok := scanner.Text()
		if !factorOne(tok) {
			status = 1
		}
	}
	return status
}

func printFactorization(label string, n *big.Int) {
	fmt.Printf("%s:", label)
	for _, p := range factorizer.Factor(n) {
		fmt.Printf(" %s", p.String())
	}
	fmt.Println()
}
