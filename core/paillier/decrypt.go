package paillier

import (
	"github.com/cronokirby/saferith"
)

// Decrypt returns m = L(c^λ mod N²)⋅μ (mod N) with L(u) = (u-1)/N.
//
// The division is a floor division. For a ciphertext produced under pk it is
// exact. Ciphertexts carry no authentication: a value produced under another
// key that still lies in [0, N²) decrypts without error to a number
// unrelated to its plaintext. Callers that receive ciphertexts from others
// should check which key they were made for, as pkg/aggregate does with the
// public key fingerprint.
func Decrypt(sk *PrivateKey, pk *PublicKey, ct *Ciphertext) (*saferith.Nat, error) {
	return decrypt(sk, pk, ct, false)
}

// DecryptVerified is Decrypt with an explicit check that N divides
// c^λ - 1 (mod N²), returning ErrDecryptionIntegrity when it does not.
//
// Since λ = φ(N), every c coprime to N passes, so the check only rejects
// values sharing a factor with N, such as 0. It does not detect ciphertexts
// made under another key, nor tampering with valid ciphertexts.
func DecryptVerified(sk *PrivateKey, pk *PublicKey, ct *Ciphertext) (*saferith.Nat, error) {
	return decrypt(sk, pk, ct, true)
}

func decrypt(sk *PrivateKey, pk *PublicKey, ct *Ciphertext, verify bool) (*saferith.Nat, error) {
	if sk == nil || pk == nil {
		return nil, ErrNilKey
	}
	if err := pk.ValidateCiphertexts(ct); err != nil {
		return nil, err
	}

	n := pk.n.N()
	// u = c^λ - 1 (mod N²)
	u := pk.n.ExpSquared(ct.c, sk.lambda)
	u.ModSub(u, one(), pk.n.NSquared())

	if verify && new(saferith.Nat).Mod(u, n).EqZero() != 1 {
		return nil, ErrDecryptionIntegrity
	}

	// L = ⌊u / N⌋
	l := new(saferith.Nat).Div(u, n, -1)
	// m = L⋅μ (mod N)
	return l.ModMul(l, sk.mu.Clone(), n), nil
}

// Decrypt decrypts ct with the key pair.
func (kp *KeyPair) Decrypt(ct *Ciphertext) (*saferith.Nat, error) {
	if kp == nil {
		return nil, ErrNilKey
	}
	return Decrypt(kp.PrivateKey, kp.PublicKey, ct)
}

// DecryptVerified decrypts ct with the key pair, rejecting ciphertexts that
// are not units modulo N.
func (kp *KeyPair) DecryptVerified(ct *Ciphertext) (*saferith.Nat, error) {
	if kp == nil {
		return nil, ErrNilKey
	}
	return DecryptVerified(kp.PrivateKey, kp.PublicKey, ct)
}
