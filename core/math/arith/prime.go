package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// PrimalityRounds is the number of Miller-Rabin rounds applied on top of the
// Baillie-PSW test performed by big.Int.ProbablyPrime.
const PrimalityRounds = 20

var two = big.NewInt(2)

// ProbablyPrime reports whether p is prime with overwhelming probability.
func ProbablyPrime(p *saferith.Nat) bool {
	if p == nil {
		return false
	}
	return p.Big().ProbablyPrime(PrimalityRounds)
}

// NextPrime returns the smallest probable prime ≥ candidate having at most
// maxBits bits, walking at most maxSteps odd numbers.
// ok is false when the walk leaves the bit length or runs out of steps, in
// which case the caller should start again from a fresh candidate.
// candidate is not modified.
func NextPrime(candidate *big.Int, maxBits, maxSteps int) (p *big.Int, ok bool) {
	c := new(big.Int).Set(candidate)
	if c.Cmp(two) <= 0 {
		return c.Set(two), maxBits >= 2
	}
	if c.Bit(0) == 0 {
		c.Add(c, big.NewInt(1))
	}
	for i := 0; i < maxSteps; i++ {
		if c.BitLen() > maxBits {
			return nil, false
		}
		if c.ProbablyPrime(PrimalityRounds) {
			return c, true
		}
		c.Add(c, two)
	}
	return nil, false
}
