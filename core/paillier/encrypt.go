package paillier

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/paillier-lib/core/math/sample"
)

// Encrypt returns the encryption of m under pk using a fresh nonce read from
// rand (crypto/rand.Reader when nil).
//
// ct = gᵐ⋅rᴺ (mod N²)
func (pk *PublicKey) Encrypt(rand io.Reader, m *saferith.Nat) (*Ciphertext, error) {
	if err := pk.ValidatePlaintext(m); err != nil {
		return nil, err
	}
	nonce, err := pk.Nonce(rand)
	if err != nil {
		return nil, err
	}
	return pk.encWithNonce(m, nonce), nil
}

// EncWithNonce returns the encryption of m under pk with the caller's nonce.
// The nonce must be a unit in [1, N).
//
// ct = gᵐ⋅nonceᴺ (mod N²)
func (pk *PublicKey) EncWithNonce(m, nonce *saferith.Nat) (*Ciphertext, error) {
	if err := pk.ValidatePlaintext(m); err != nil {
		return nil, err
	}
	if !pk.n.InRange(nonce) || !pk.n.IsUnit(nonce) {
		return nil, ErrInvalidNonce
	}
	return pk.encWithNonce(m, nonce), nil
}

func (pk *PublicKey) encWithNonce(m, nonce *saferith.Nat) *Ciphertext {
	gm := pk.n.ExpSquared(pk.g, m)                 // gᵐ (mod N²)
	rn := pk.n.ExpSquared(nonce, pk.n.Value())     // rᴺ (mod N²)
	return &Ciphertext{c: pk.n.MulSquared(gm, rn)} // gᵐ⋅rᴺ (mod N²)
}

// Nonce returns a suitable nonce ρ for encryption.
// ρ ∈ ℤₙˣ
func (pk *PublicKey) Nonce(rand io.Reader) (*saferith.Nat, error) {
	nonce, err := sample.UnitModN(rand, pk.n.N())
	if err != nil {
		return nil, fmt.Errorf("paillier: sampling nonce: %w", err)
	}
	return nonce, nil
}
