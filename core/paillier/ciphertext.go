package paillier

import (
	"errors"
	"io"

	"github.com/cronokirby/saferith"
)

// Ciphertext is an element of [0, N²). The zero value holds no ciphertext and
// is rejected by every PublicKey operation.
type Ciphertext struct {
	c *saferith.Nat
}

// NewCiphertext wraps a copy of c. Range checks happen when the ciphertext is
// used with a public key. A nil c gives the empty ciphertext.
func NewCiphertext(c *saferith.Nat) *Ciphertext {
	if c == nil {
		return &Ciphertext{}
	}
	return &Ciphertext{c: c.Clone()}
}

// Nat returns a copy of the ciphertext value, or nil for an empty ciphertext.
func (ct *Ciphertext) Nat() *saferith.Nat {
	if ct == nil || ct.c == nil {
		return nil
	}
	return ct.c.Clone()
}

// Equal check whether ct ≡ ctₐ (mod N²). Two empty ciphertexts are equal.
func (ct *Ciphertext) Equal(ctA *Ciphertext) bool {
	x, y := ct.Nat(), ctA.Nat()
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	return x.Eq(y) == 1
}

// Clone returns a deep copy of ct
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{c: ct.Nat()}
}

// MarshalBinary returns the big-endian encoding of the ciphertext value.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	if ct.c == nil {
		return nil, errors.New("paillier: marshal empty ciphertext")
	}
	return ct.c.Clone().Bytes(), nil
}

// UnmarshalBinary sets ct from its big-endian encoding.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errors.New("paillier: unmarshal empty ciphertext")
	}
	ct.c = new(saferith.Nat).SetBytes(data)
	return nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if ct.c == nil {
		return 0, errors.New("paillier: write empty ciphertext")
	}
	n, err := w.Write(ct.c.Clone().Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}

// Add returns the homomorphic sum ct₁ ⊕ ct₂, which decrypts to m₁ + m₂ (mod N).
//
// ct = ct₁⋅ct₂ (mod N²)
func (pk *PublicKey) Add(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := pk.ValidateCiphertexts(ct1, ct2); err != nil {
		return nil, err
	}
	return &Ciphertext{c: pk.n.MulSquared(ct1.c, ct2.c)}, nil
}

// Sum folds Add over cts. The empty sum is the ciphertext 1, which is the
// encryption of 0 with nonce 1.
func (pk *PublicKey) Sum(cts ...*Ciphertext) (*Ciphertext, error) {
	if err := pk.ValidateCiphertexts(cts...); err != nil {
		return nil, err
	}
	acc := one()
	for _, ct := range cts {
		acc = pk.n.MulSquared(acc, ct.c)
	}
	return &Ciphertext{c: acc}, nil
}

// AddPlain returns a ciphertext of m + k (mod N) given a ciphertext of m and
// a public k ∈ [0, N).
//
// ct' = ct⋅gᵏ (mod N²)
func (pk *PublicKey) AddPlain(ct *Ciphertext, k *saferith.Nat) (*Ciphertext, error) {
	if err := pk.ValidateCiphertexts(ct); err != nil {
		return nil, err
	}
	if err := pk.ValidatePlaintext(k); err != nil {
		return nil, err
	}
	gk := pk.n.ExpSquared(pk.g, k)
	return &Ciphertext{c: pk.n.MulSquared(ct.c, gk)}, nil
}

// Randomize returns ct⋅ρᴺ (mod N²) for a fresh nonce ρ read from rand. The
// result decrypts to the same plaintext but is unlinkable to ct.
func (pk *PublicKey) Randomize(rand io.Reader, ct *Ciphertext) (*Ciphertext, error) {
	if err := pk.ValidateCiphertexts(ct); err != nil {
		return nil, err
	}
	nonce, err := pk.Nonce(rand)
	if err != nil {
		return nil, err
	}
	rn := pk.n.ExpSquared(nonce, pk.n.Value())
	return &Ciphertext{c: pk.n.MulSquared(ct.c, rn)}, nil
}
