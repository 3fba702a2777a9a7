package paillier

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/paillier-lib/core/hash"
	"github.com/mr-shifu/paillier-lib/core/math/arith"
)

// FingerprintLength is the byte length of PublicKey.Fingerprint.
const FingerprintLength = hash.DigestLengthBytes

// one returns a fresh 1. saferith normalizes operands in place, so constants
// are never shared between calls.
func one() *saferith.Nat {
	return new(saferith.Nat).SetUint64(1)
}

// PublicKey is a Paillier public key (N, g) with g = N + 1.
//
// A PublicKey is immutable and may be used from several goroutines at once.
type PublicKey struct {
	// n = p⋅q, together with the cached n²
	n *arith.Modulus
	// g = n + 1
	g *saferith.Nat
}

// PrivateKey holds λ = (p-1)(q-1) and μ = λ⁻¹ (mod N).
//
// It is only meaningful together with the PublicKey it was generated with,
// which is why every decryption function takes both.
type PrivateKey struct {
	lambda *saferith.Nat
	mu     *saferith.Nat
}

// KeyPair is a public and private key generated together.
type KeyPair struct {
	PublicKey  *PublicKey
	PrivateKey *PrivateKey
}

type rawPublicKey struct {
	N []byte
}

// NewPublicKey returns the public key for modulus n.
// n must be odd and greater than 1.
func NewPublicKey(n *saferith.Nat) (*PublicKey, error) {
	if n == nil {
		return nil, ErrNilKey
	}
	if n.Byte(0)&1 == 0 || n.TrueLen() < 2 {
		return nil, ErrInvalidPublicKey
	}
	return newPublicKey(arith.ModulusFromN(n)), nil
}

func newPublicKey(n *arith.Modulus) *PublicKey {
	g := new(saferith.Nat).Add(n.Value(), one(), 2*n.BitLen())
	return &PublicKey{n: n, g: g}
}

// N returns a copy of the modulus N.
func (pk *PublicKey) N() *saferith.Modulus {
	return pk.n.N()
}

// NSquared returns a copy of N².
func (pk *PublicKey) NSquared() *saferith.Modulus {
	return pk.n.NSquared()
}

// G returns a copy of the generator g = N + 1.
func (pk *PublicKey) G() *saferith.Nat {
	return pk.g.Clone()
}

// Modulus returns the arithmetic helper for N and N².
func (pk *PublicKey) Modulus() *arith.Modulus {
	return pk.n
}

// Equal returns true if pk and other share the same modulus.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.n.Equal(other.n)
}

// ValidatePlaintext returns ErrRange unless 0 ≤ m < N.
func (pk *PublicKey) ValidatePlaintext(m *saferith.Nat) error {
	if !pk.n.InRange(m) {
		return fmt.Errorf("plaintext not in [0, N): %w", ErrRange)
	}
	return nil
}

// ValidateCiphertexts returns ErrRange unless every ciphertext lies in [0, N²).
func (pk *PublicKey) ValidateCiphertexts(cts ...*Ciphertext) error {
	for i, ct := range cts {
		if ct == nil || !pk.n.InRangeSquared(ct.c) {
			return fmt.Errorf("ciphertext %d not in [0, N²): %w", i, ErrRange)
		}
	}
	return nil
}

// PlaintextFromBig converts m into a plaintext, rejecting negative values and
// values ≥ N with ErrRange.
func (pk *PublicKey) PlaintextFromBig(m *big.Int) (*saferith.Nat, error) {
	if m == nil || m.Sign() < 0 || m.Cmp(pk.n.Big()) >= 0 {
		return nil, fmt.Errorf("plaintext not in [0, N): %w", ErrRange)
	}
	return new(saferith.Nat).SetBig(m, pk.n.BitLen()), nil
}

// Fingerprint returns a short identifier of the public key derived from N.
func (pk *PublicKey) Fingerprint() []byte {
	return hash.New(pk).Sum()
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(pk.n.Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*PublicKey) Domain() string {
	return "Paillier PublicKey"
}

// MarshalBinary encodes the modulus N so the key can be handed to encrypting
// parties. Private keys have no encoding.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(rawPublicKey{N: pk.n.Bytes()})
}

// UnmarshalBinary decodes a public key produced by MarshalBinary.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var raw rawPublicKey
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.N) == 0 {
		return ErrInvalidPublicKey
	}
	decoded, err := NewPublicKey(new(saferith.Nat).SetBytes(raw.N))
	if err != nil {
		return err
	}
	*pk = *decoded
	return nil
}

// Lambda returns a copy of λ = (p-1)(q-1).
func (sk *PrivateKey) Lambda() *saferith.Nat {
	return sk.lambda.Clone()
}

// Mu returns a copy of μ = λ⁻¹ (mod N).
func (sk *PrivateKey) Mu() *saferith.Nat {
	return sk.mu.Clone()
}
