package test

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/mr-shifu/paillier-lib/core/hash"
	"github.com/mr-shifu/paillier-lib/core/paillier"
	"github.com/stretchr/testify/require"
)

// Reader returns an unbounded deterministic byte stream derived from seed.
// The same seed always yields the same bytes. It is not safe for concurrent use.
func Reader(seed string) io.Reader {
	return hash.New().Fork(seed).Digest()
}

var (
	keysMtx sync.Mutex
	keys    = make(map[string]*paillier.KeyPair)
)

// KeyPair returns a key pair with `bits`-bit primes derived from seed.
// Key pairs are cached per (seed, bits) for the lifetime of the test binary.
func KeyPair(t testing.TB, seed string, bits int) *paillier.KeyPair {
	t.Helper()

	keysMtx.Lock()
	defer keysMtx.Unlock()

	id := fmt.Sprintf("%s/%d", seed, bits)
	if kp, ok := keys[id]; ok {
		return kp
	}
	kp, err := paillier.GenerateKey(Reader(seed), bits)
	require.NoError(t, err)
	keys[id] = kp
	return kp
}
