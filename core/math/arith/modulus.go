package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// Modulus holds the Paillier modulus n = p⋅q together with n², which every
// encryption, decryption and homomorphic operation reduces by.
//
// saferith normalizes the limbs of its operands in place, even when they are
// only read. A Modulus is shared between goroutines, so its values are never
// handed to saferith directly: every method works on fresh copies, and the
// same holds for the caller's arguments.
//
// The factorization is not kept: once the key pair is built, p and q are no
// longer needed and must not outlive key generation.
type Modulus struct {
	n        *saferith.Nat
	nSquared *saferith.Nat
	bitLen   int
}

// ModulusFromN creates the wrapper for a given n, computing n².
// n is copied.
func ModulusFromN(n *saferith.Nat) *Modulus {
	nNat := saferith.ModulusFromNat(n.Clone()).Nat()
	nSquared := new(saferith.Nat).Mul(nNat, nNat.Clone(), -1)
	return &Modulus{
		n:        nNat,
		nSquared: saferith.ModulusFromNat(nSquared).Nat(),
		bitLen:   nNat.TrueLen(),
	}
}

// ModulusFromFactors returns the modulus n = p⋅q.
// p and q are not retained.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	return ModulusFromN(new(saferith.Nat).Mul(p.Clone(), q.Clone(), -1))
}

// N returns a fresh saferith.Modulus for n, owned by the caller.
func (n *Modulus) N() *saferith.Modulus {
	return saferith.ModulusFromNat(n.n.Clone())
}

// NSquared returns a fresh saferith.Modulus for n², owned by the caller.
func (n *Modulus) NSquared() *saferith.Modulus {
	return saferith.ModulusFromNat(n.nSquared.Clone())
}

// Value returns a copy of n as a natural number.
func (n *Modulus) Value() *saferith.Nat {
	return n.n.Clone()
}

func (n *Modulus) Big() *big.Int {
	return n.n.Clone().Big()
}

func (n *Modulus) Bytes() []byte {
	return n.n.Clone().Bytes()
}

// BitLen returns the exact bit length of n.
func (n *Modulus) BitLen() int {
	return n.bitLen
}

// InRange reports whether 0 ≤ x < n.
func (n *Modulus) InRange(x *saferith.Nat) bool {
	if x == nil {
		return false
	}
	_, _, lt := x.Clone().CmpMod(n.N())
	return lt == 1
}

// InRangeSquared reports whether 0 ≤ x < n².
func (n *Modulus) InRangeSquared(x *saferith.Nat) bool {
	if x == nil {
		return false
	}
	_, _, lt := x.Clone().CmpMod(n.NSquared())
	return lt == 1
}

// IsUnit reports whether x ∈ ℤₙˣ, i.e. gcd(x, n) = 1.
func (n *Modulus) IsUnit(x *saferith.Nat) bool {
	return x.Clone().IsUnit(n.N()) == 1
}

// ExpSquared returns xᵉ (mod n²).
func (n *Modulus) ExpSquared(x, e *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Exp(x.Clone(), e.Clone(), n.NSquared())
}

// MulSquared returns x⋅y (mod n²).
func (n *Modulus) MulSquared(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModMul(x.Clone(), y.Clone(), n.NSquared())
}

// Equal returns true if both moduli represent the same n.
func (n *Modulus) Equal(other *Modulus) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.n.Clone().Eq(other.n.Clone()) == 1
}
