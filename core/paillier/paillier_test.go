package paillier_test

import (
	"crypto/rand"
	"io"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/paillier-lib/core/paillier"
	"github.com/mr-shifu/paillier-lib/lib/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testBits = 128

func nat(x uint64) *saferith.Nat {
	return new(saferith.Nat).SetUint64(x)
}

func randomPlaintext(t *testing.T, pk *paillier.PublicKey) *saferith.Nat {
	m, err := rand.Int(rand.Reader, pk.N().Big())
	require.NoError(t, err)
	pt, err := pk.PlaintextFromBig(m)
	require.NoError(t, err)
	return pt
}

// nMinus returns N - k as a plaintext.
func nMinus(t *testing.T, pk *paillier.PublicKey, k int64) *saferith.Nat {
	m := new(big.Int).Sub(pk.N().Big(), big.NewInt(k))
	pt, err := pk.PlaintextFromBig(m)
	require.NoError(t, err)
	return pt
}

func encrypt(t *testing.T, pk *paillier.PublicKey, m *saferith.Nat) *paillier.Ciphertext {
	ct, err := pk.Encrypt(rand.Reader, m)
	require.NoError(t, err)
	return ct
}

func TestGenerateKey(t *testing.T) {
	kp, err := paillier.GenerateKey(rand.Reader, testBits)
	require.NoError(t, err)

	pk := kp.PublicKey
	bits := pk.N().BitLen()
	assert.True(t, bits == 2*testBits || bits == 2*testBits-1, "N has %d bits", bits)

	// g = N + 1
	g := new(big.Int).Add(pk.N().Big(), big.NewInt(1))
	assert.Equal(t, 0, g.Cmp(pk.G().Big()))

	// N² is cached correctly
	n2 := new(big.Int).Mul(pk.N().Big(), pk.N().Big())
	assert.Equal(t, 0, n2.Cmp(pk.NSquared().Big()))

	// λ⋅μ ≡ 1 (mod N)
	lm := new(big.Int).Mul(kp.PrivateKey.Lambda().Big(), kp.PrivateKey.Mu().Big())
	assert.Equal(t, int64(1), lm.Mod(lm, pk.N().Big()).Int64())
}

func TestGenerateKey_InvalidBitLength(t *testing.T) {
	for _, bits := range []int{-1, 0, 1, paillier.MinPrimeBits - 1} {
		_, err := paillier.GenerateKey(rand.Reader, bits)
		assert.ErrorIs(t, err, paillier.ErrInvalidBitLength)
	}

	_, err := paillier.GenerateKey(rand.Reader, paillier.MinPrimeBits)
	assert.NoError(t, err)
}

func TestGenerateKey_Deterministic(t *testing.T) {
	kp1, err := paillier.GenerateKey(test.Reader("deterministic"), testBits)
	require.NoError(t, err)
	kp2, err := paillier.GenerateKey(test.Reader("deterministic"), testBits)
	require.NoError(t, err)
	kp3, err := paillier.GenerateKey(test.Reader("other seed"), testBits)
	require.NoError(t, err)

	assert.True(t, kp1.PublicKey.Equal(kp2.PublicKey))
	assert.Equal(t, saferith.Choice(1), kp1.PrivateKey.Lambda().Eq(kp2.PrivateKey.Lambda()))
	assert.False(t, kp1.PublicKey.Equal(kp3.PublicKey))

	ct1, err := kp1.PublicKey.Encrypt(test.Reader("nonce"), nat(42))
	require.NoError(t, err)
	ct2, err := kp2.PublicKey.Encrypt(test.Reader("nonce"), nat(42))
	require.NoError(t, err)
	assert.True(t, ct1.Equal(ct2))
}

func TestPrivateKeyLambdaIsTotient(t *testing.T) {
	kp, err := paillier.NewKeyPairFromPrimes(nat(65519), nat(65521))
	require.NoError(t, err)

	// λ = (p-1)(q-1), not lcm(p-1, q-1)
	assert.Equal(t, uint64(65518*65520), kp.PrivateKey.Lambda().Big().Uint64())
	assert.Equal(t, uint64(65519*65521), kp.PublicKey.N().Nat().Big().Uint64())
}

func TestNewKeyPairFromPrimes_KeyGenerationError(t *testing.T) {
	// λ = 2⋅6 = 12 shares the factor 3 with N = 21
	_, err := paillier.NewKeyPairFromPrimes(nat(3), nat(7))
	assert.ErrorIs(t, err, paillier.ErrKeyGeneration)
}

func TestNewKeyPairFromPrimes_InvalidPrimes(t *testing.T) {
	cases := map[string][2]uint64{
		"equal":     {65521, 65521},
		"even":      {2, 65521},
		"composite": {65535, 65521},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := paillier.NewKeyPairFromPrimes(nat(c[0]), nat(c[1]))
			assert.ErrorIs(t, err, paillier.ErrInvalidPrime)
		})
	}
	_, err := paillier.NewKeyPairFromPrimes(nil, nat(7))
	assert.ErrorIs(t, err, paillier.ErrInvalidPrime)
}

func TestEncWithNonce_KnownVector(t *testing.T) {
	// N = 35, N² = 1225, g = 36, λ = 24, μ = 19
	kp, err := paillier.NewKeyPairFromPrimes(nat(5), nat(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(19), kp.PrivateKey.Mu().Big().Uint64())

	// 36² ⋅ 3³⁵ = 71 ⋅ 607 ≡ 222 (mod 1225)
	ct, err := kp.PublicKey.EncWithNonce(nat(2), nat(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(222), ct.Nat().Big().Uint64())

	m, err := kp.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), m.Big().Uint64())
}

func TestEncWithNonce_InvalidNonce(t *testing.T) {
	kp, err := paillier.NewKeyPairFromPrimes(nat(5), nat(7))
	require.NoError(t, err)

	for _, r := range []uint64{0, 5, 14, 35, 36} {
		_, err := kp.PublicKey.EncWithNonce(nat(1), nat(r))
		assert.ErrorIs(t, err, paillier.ErrInvalidNonce, "nonce %d", r)
	}
	_, err = kp.PublicKey.EncWithNonce(nat(1), nil)
	assert.ErrorIs(t, err, paillier.ErrInvalidNonce)
}

func TestRoundTrip(t *testing.T) {
	kp := test.KeyPair(t, "round trip", testBits)
	pk := kp.PublicKey

	for i := 0; i < 50; i++ {
		m := randomPlaintext(t, pk)
		ct := encrypt(t, pk, m)

		assert.True(t, pk.Modulus().InRangeSquared(ct.Nat()))

		got, err := paillier.Decrypt(kp.PrivateKey, pk, ct)
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), got.Eq(m))
		assert.True(t, pk.Modulus().InRange(got))

		got, err = paillier.DecryptVerified(kp.PrivateKey, pk, ct)
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), got.Eq(m))
	}
}

func TestPlaintextBoundaries(t *testing.T) {
	kp := test.KeyPair(t, "boundaries", testBits)
	pk := kp.PublicKey

	for _, m := range []*saferith.Nat{nat(0), nMinus(t, pk, 1)} {
		got, err := kp.DecryptVerified(encrypt(t, pk, m))
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), got.Eq(m))
	}

	_, err := pk.Encrypt(rand.Reader, pk.N().Nat())
	assert.ErrorIs(t, err, paillier.ErrRange)
	_, err = pk.Encrypt(rand.Reader, nil)
	assert.ErrorIs(t, err, paillier.ErrRange)

	_, err = pk.PlaintextFromBig(big.NewInt(-1))
	assert.ErrorIs(t, err, paillier.ErrRange)
	_, err = pk.PlaintextFromBig(pk.N().Big())
	assert.ErrorIs(t, err, paillier.ErrRange)
}

func TestCiphertextBoundaries(t *testing.T) {
	kp := test.KeyPair(t, "boundaries", testBits)
	pk := kp.PublicKey

	zero := paillier.NewCiphertext(nat(0))
	n2Minus1 := paillier.NewCiphertext(new(saferith.Nat).Sub(pk.NSquared().Nat(), nat(1), -1))
	n2 := paillier.NewCiphertext(pk.NSquared().Nat())

	// c = 0 is in range; it is not an honest ciphertext, so only the verified
	// decryption notices
	m, err := kp.Decrypt(zero)
	require.NoError(t, err)
	assert.True(t, pk.Modulus().InRange(m))
	_, err = kp.DecryptVerified(zero)
	assert.ErrorIs(t, err, paillier.ErrDecryptionIntegrity)

	// N² - 1 ≡ (N-1)ᴺ is the encryption of 0 with nonce N-1
	m, err = kp.DecryptVerified(n2Minus1)
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), m.EqZero())

	_, err = kp.Decrypt(n2)
	assert.ErrorIs(t, err, paillier.ErrRange)
	_, err = kp.Decrypt(&paillier.Ciphertext{})
	assert.ErrorIs(t, err, paillier.ErrRange)
	_, err = pk.Add(zero, n2)
	assert.ErrorIs(t, err, paillier.ErrRange)
	_, err = pk.Add(nil, zero)
	assert.ErrorIs(t, err, paillier.ErrRange)
}

func TestHomomorphicAdd(t *testing.T) {
	kp := test.KeyPair(t, "homomorphic", testBits)
	pk := kp.PublicKey
	n := pk.N()

	for i := 0; i < 20; i++ {
		m1, m2 := randomPlaintext(t, pk), randomPlaintext(t, pk)

		sum, err := pk.Add(encrypt(t, pk, m1), encrypt(t, pk, m2))
		require.NoError(t, err)
		assert.True(t, pk.Modulus().InRangeSquared(sum.Nat()))

		got, err := kp.DecryptVerified(sum)
		require.NoError(t, err)
		want := new(saferith.Nat).ModAdd(m1, m2, n)
		assert.Equal(t, saferith.Choice(1), got.Eq(want))
	}
}

func TestConcreteScenario(t *testing.T) {
	kp := test.KeyPair(t, "scenario", testBits)
	pk := kp.PublicKey

	cases := []struct {
		name       string
		m1, m2     *saferith.Nat
		wantResult *saferith.Nat
	}{
		{"five plus three", nat(5), nat(3), nat(8)},
		{"zero plus zero", nat(0), nat(0), nat(0)},
		{"wraparound", nMinus(t, pk, 1), nat(1), nat(0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c1 := encrypt(t, pk, c.m1)
			c2 := encrypt(t, pk, c.m2)
			c3, err := pk.Add(c1, c2)
			require.NoError(t, err)

			got, err := kp.Decrypt(c3)
			require.NoError(t, err)
			assert.Equal(t, c.wantResult.Big().String(), got.Big().String())
		})
	}
}

func TestSum(t *testing.T) {
	kp := test.KeyPair(t, "sum", testBits)
	pk := kp.PublicKey

	var cts []*paillier.Ciphertext
	want := new(big.Int)
	for i := uint64(1); i <= 25; i++ {
		cts = append(cts, encrypt(t, pk, nat(i*1000)))
		want.Add(want, new(big.Int).SetUint64(i*1000))
	}

	total, err := pk.Sum(cts...)
	require.NoError(t, err)
	got, err := kp.DecryptVerified(total)
	require.NoError(t, err)
	assert.Equal(t, want.String(), got.Big().String())

	// the empty sum is an encryption of zero
	empty, err := pk.Sum()
	require.NoError(t, err)
	got, err = kp.DecryptVerified(empty)
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), got.EqZero())

	// wraparound over many N-1 terms
	cts = cts[:0]
	for i := 0; i < 5; i++ {
		cts = append(cts, encrypt(t, pk, nMinus(t, pk, 1)))
	}
	total, err = pk.Sum(cts...)
	require.NoError(t, err)
	got, err = kp.Decrypt(total)
	require.NoError(t, err)
	assert.Equal(t, saferith.Choice(1), got.Eq(nMinus(t, pk, 5)))
}

func TestAddPlain(t *testing.T) {
	kp := test.KeyPair(t, "homomorphic", testBits)
	pk := kp.PublicKey

	ct, err := pk.AddPlain(encrypt(t, pk, nat(40)), nat(2))
	require.NoError(t, err)
	got, err := kp.DecryptVerified(ct)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Big().Uint64())

	_, err = pk.AddPlain(ct, pk.N().Nat())
	assert.ErrorIs(t, err, paillier.ErrRange)
}

func TestProbabilisticEncryption(t *testing.T) {
	kp := test.KeyPair(t, "probabilistic", testBits)
	pk := kp.PublicKey

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ct := encrypt(t, pk, nat(7))
		seen[ct.Nat().Big().String()] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestRandomize(t *testing.T) {
	kp := test.KeyPair(t, "probabilistic", testBits)
	pk := kp.PublicKey

	ct := encrypt(t, pk, nat(99))
	rct, err := pk.Randomize(rand.Reader, ct)
	require.NoError(t, err)
	assert.False(t, ct.Equal(rct))

	got, err := kp.DecryptVerified(rct)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), got.Big().Uint64())
}

func TestKeyIsolation(t *testing.T) {
	kpA := test.KeyPair(t, "isolation A", testBits)
	// a larger key B so every ciphertext of A lies in [0, N_B²)
	kpB := test.KeyPair(t, "isolation B", testBits+8)
	require.Equal(t, -1, kpA.PublicKey.NSquared().Big().Cmp(kpB.PublicKey.NSquared().Big()))

	for i := 0; i < 20; i++ {
		m := randomPlaintext(t, kpA.PublicKey)
		ct := encrypt(t, kpA.PublicKey, m)

		// no error, and the plaintext is not recovered
		got, err := paillier.Decrypt(kpB.PrivateKey, kpB.PublicKey, ct)
		require.NoError(t, err)
		assert.True(t, kpB.PublicKey.Modulus().InRange(got))
		assert.NotEqual(t, m.Big().String(), got.Big().String())

		// the unit check cannot tell the keys apart either
		got, err = paillier.DecryptVerified(kpB.PrivateKey, kpB.PublicKey, ct)
		if err == nil {
			assert.NotEqual(t, m.Big().String(), got.Big().String())
		} else {
			assert.ErrorIs(t, err, paillier.ErrDecryptionIntegrity)
		}
	}

	// the fingerprints do tell them apart
	assert.NotEqual(t, kpA.PublicKey.Fingerprint(), kpB.PublicKey.Fingerprint())
}

func TestDecryptVerified_RejectsNonUnits(t *testing.T) {
	kp, err := paillier.NewKeyPairFromPrimes(nat(65519), nat(65521))
	require.NoError(t, err)

	for _, c := range []uint64{0, 65519, 65521, 65519 * 3, 65521 * 65521} {
		_, err := kp.DecryptVerified(paillier.NewCiphertext(nat(c)))
		assert.ErrorIs(t, err, paillier.ErrDecryptionIntegrity, "c = %d", c)

		_, err = kp.Decrypt(paillier.NewCiphertext(nat(c)))
		assert.NoError(t, err, "c = %d", c)
	}

	// any unit passes, whichever key produced it
	for _, c := range []uint64{1, 2, 12345, 65519*65521 + 1} {
		_, err := kp.DecryptVerified(paillier.NewCiphertext(nat(c)))
		assert.NoError(t, err, "c = %d", c)
	}
}

func TestEmptyCiphertext(t *testing.T) {
	kp := test.KeyPair(t, "boundaries", testBits)
	pk := kp.PublicKey

	var empty paillier.Ciphertext
	assert.True(t, empty.Equal(&empty))
	assert.True(t, empty.Equal(paillier.NewCiphertext(nil)))
	assert.False(t, empty.Equal(paillier.NewCiphertext(nat(1))))
	assert.False(t, paillier.NewCiphertext(nat(1)).Equal(&empty))
	assert.Nil(t, empty.Nat())
	assert.True(t, empty.Clone().Equal(&empty))

	_, err := empty.WriteTo(io.Discard)
	assert.Error(t, err)

	_, err = pk.Add(&empty, paillier.NewCiphertext(nat(1)))
	assert.ErrorIs(t, err, paillier.ErrRange)
	_, err = pk.Randomize(nil, paillier.NewCiphertext(nil))
	assert.ErrorIs(t, err, paillier.ErrRange)
}

func TestConcurrentUse(t *testing.T) {
	kp := test.KeyPair(t, "concurrent", testBits)
	pk := kp.PublicKey

	// every goroutine shares the key pair, the base ciphertext and the plaintext
	base := encrypt(t, pk, nat(1000))
	shared := nat(7)

	var errGroup errgroup.Group
	for i := 0; i < 16; i++ {
		m := nat(uint64(i))
		errGroup.Go(func() error {
			for j := 0; j < 5; j++ {
				ct, err := pk.Encrypt(nil, m)
				if err != nil {
					return err
				}
				sum, err := pk.Add(base, ct)
				if err != nil {
					return err
				}
				sum, err = pk.AddPlain(sum, shared)
				if err != nil {
					return err
				}
				got, err := kp.DecryptVerified(sum)
				if err != nil {
					return err
				}
				if got.Big().Uint64() != 1007+m.Big().Uint64() {
					return assert.AnError
				}
				if _, err := kp.Decrypt(base); err != nil {
					return err
				}
				if !pk.Equal(kp.PublicKey) || len(pk.Fingerprint()) != paillier.FingerprintLength {
					return assert.AnError
				}
			}
			return nil
		})
	}
	assert.NoError(t, errGroup.Wait())
}
