package paillier

import "errors"

var (
	// ErrRange is returned when a plaintext is not in [0, N) or a ciphertext
	// is not in [0, N²). It is always reported before any arithmetic runs.
	ErrRange = errors.New("paillier: value out of range")

	// ErrKeyGeneration is returned when λ has no inverse modulo N. Callers
	// should generate again with fresh primes.
	ErrKeyGeneration = errors.New("paillier: λ is not invertible modulo N")

	// ErrDecryptionIntegrity is returned by the verified decryption when
	// c^λ - 1 (mod N²) is not divisible by N. That happens exactly when c
	// shares a factor with N; ciphertexts from another key are not detected.
	ErrDecryptionIntegrity = errors.New("paillier: ciphertext is not a unit modulo N")

	// ErrInvalidBitLength is returned by GenerateKey for prime sizes below MinPrimeBits.
	ErrInvalidBitLength = errors.New("paillier: invalid prime bit length")
	// ErrInvalidPrime is returned when the factors given to NewKeyPairFromPrimes
	// are missing, equal, even or composite.
	ErrInvalidPrime = errors.New("paillier: invalid prime factor")
	// ErrInvalidNonce is returned by EncWithNonce when the nonce is not a unit in [1, N).
	ErrInvalidNonce = errors.New("paillier: nonce is not a unit modulo N")
	// ErrInvalidPublicKey is returned for a modulus that is even or not greater than 1.
	ErrInvalidPublicKey = errors.New("paillier: invalid public key")
	// ErrNilKey is returned when a decryption is attempted without a key.
	ErrNilKey = errors.New("paillier: nil key")
)
