// Package paillier implements the Paillier additively homomorphic
// cryptosystem in its simplified variant with g = N + 1 and λ = (p-1)(q-1).
//
// Multiplying two ciphertexts modulo N² yields a ciphertext of the sum of
// their plaintexts modulo N, which lets an untrusted party aggregate
// encrypted values without learning them.
//
// All randomness is read from an io.Reader passed by the caller, so a seeded
// reader reproduces keys and ciphertexts exactly. Keys are immutable and may
// be shared between goroutines.
//
// Ciphertexts are not authenticated. Decrypting a ciphertext made under
// another key silently yields a meaningless value, and DecryptVerified does
// not catch it either: it only rejects values sharing a factor with N. Match
// keys before decrypting, for instance by the public key fingerprint that
// pkg/aggregate checks on every contribution.
package paillier
