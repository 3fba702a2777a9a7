package paillier

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/paillier-lib/core/math/arith"
	"github.com/mr-shifu/paillier-lib/core/math/sample"
)

// MinPrimeBits is the smallest accepted bit length of each prime factor.
const MinPrimeBits = 16

// GenerateKey generates a key pair whose modulus is the product of two
// distinct random primes of exactly `bits` bits each.
//
// Randomness is read from rand; a nil rand uses crypto/rand.Reader.
// ErrKeyGeneration is returned if λ turns out not to be invertible modulo N,
// in which case generating again is the expected reaction.
func GenerateKey(rand io.Reader, bits int) (*KeyPair, error) {
	if bits < MinPrimeBits {
		return nil, fmt.Errorf("%d < %d: %w", bits, MinPrimeBits, ErrInvalidBitLength)
	}

	p, err := sample.Prime(rand, bits)
	if err != nil {
		return nil, fmt.Errorf("paillier: sampling p: %w", err)
	}

	var q *saferith.Nat
	for {
		q, err = sample.Prime(rand, bits)
		if err != nil {
			return nil, fmt.Errorf("paillier: sampling q: %w", err)
		}
		if q.Eq(p) != 1 {
			break
		}
	}

	return newKeyPair(p, q)
}

// NewKeyPairFromPrimes builds the key pair for two distinct odd primes p and q.
func NewKeyPairFromPrimes(p, q *saferith.Nat) (*KeyPair, error) {
	if p == nil || q == nil {
		return nil, ErrInvalidPrime
	}
	if p.Clone().Eq(q.Clone()) == 1 {
		return nil, fmt.Errorf("p = q: %w", ErrInvalidPrime)
	}
	for _, f := range []*saferith.Nat{p, q} {
		if f.Byte(0)&1 == 0 || !arith.ProbablyPrime(f) {
			return nil, fmt.Errorf("%s is not an odd prime: %w", f.Big(), ErrInvalidPrime)
		}
	}
	return newKeyPair(p, q)
}

func newKeyPair(p, q *saferith.Nat) (*KeyPair, error) {
	n := arith.ModulusFromFactors(p, q)

	// λ = (p-1)(q-1)
	pMinus1 := new(saferith.Nat).Sub(p.Clone(), one(), -1)
	qMinus1 := new(saferith.Nat).Sub(q.Clone(), one(), -1)
	lambda := new(saferith.Nat).Mul(pMinus1, qMinus1, -1)

	// μ = λ⁻¹ (mod N)
	if !n.IsUnit(lambda) {
		return nil, ErrKeyGeneration
	}
	mu := new(saferith.Nat).ModInverse(lambda.Clone(), n.N())

	return &KeyPair{
		PublicKey:  newPublicKey(n),
		PrivateKey: &PrivateKey{lambda: lambda, mu: mu},
	}, nil
}
