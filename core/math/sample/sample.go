package sample

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/paillier-lib/core/math/arith"
	"github.com/pkg/errors"
)

const (
	// maxIterations bounds every rejection loop. Each iteration succeeds with
	// probability at least 1/2 for an honest source, so hitting the bound
	// means the reader is broken.
	maxIterations = 256

	// maxPrimeSteps bounds the walk from a candidate to the next prime.
	maxPrimeSteps = 1 << 16
)

var (
	ErrIterationsExhausted = errors.New("sample: random source exhausted iterations")
	ErrInvalidBitLength    = errors.New("sample: invalid bit length")
)

func reader(rand io.Reader) io.Reader {
	if rand == nil {
		return cryptorand.Reader
	}
	return rand
}

// ModN samples an element of ℤₙ uniformly.
func ModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	rand = reader(rand)
	bits := n.BitLen()
	buf := make([]byte, (bits+7)/8)
	mask := byte(0xff) >> uint(len(buf)*8-bits)
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, errors.WithMessage(err, "sample: failed to read random bytes")
		}
		buf[0] &= mask
		x := new(saferith.Nat).SetBytes(buf)
		if _, _, lt := x.CmpMod(n); lt == 1 {
			return x, nil
		}
	}
	return nil, ErrIterationsExhausted
}

// UnitModN samples an element of ℤₙˣ uniformly, which excludes 0.
func UnitModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	for i := 0; i < maxIterations; i++ {
		x, err := ModN(rand, n)
		if err != nil {
			return nil, err
		}
		if x.IsUnit(n) == 1 {
			return x, nil
		}
	}
	return nil, ErrIterationsExhausted
}

// Prime returns a probable prime of exactly `bits` bits.
//
// A candidate with its top bit set is read from rand and advanced to the next
// probable prime. When the search runs past the bit length a fresh candidate
// is drawn.
func Prime(rand io.Reader, bits int) (*saferith.Nat, error) {
	if bits < 2 {
		return nil, ErrInvalidBitLength
	}
	rand = reader(rand)
	buf := make([]byte, (bits+7)/8)
	mask := byte(0xff) >> uint(len(buf)*8-bits)
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, errors.WithMessage(err, "sample: failed to read prime candidate")
		}
		buf[0] &= mask
		candidate := new(big.Int).SetBytes(buf)
		candidate.SetBit(candidate, bits-1, 1)
		if p, ok := arith.NextPrime(candidate, bits, maxPrimeSteps); ok {
			return new(saferith.Nat).SetBig(p, bits), nil
		}
	}
	return nil, ErrIterationsExhausted
}
