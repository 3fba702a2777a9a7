package aggregate

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/mr-shifu/paillier-lib/core/paillier"
)

// Contribution is the envelope a contributor sends to an aggregation session.
type Contribution struct {
	ID             string
	Session        string
	KeyFingerprint []byte
	Ciphertext     []byte
}

// rawContribution drops the methods of Contribution so cbor encodes it as a
// map instead of calling MarshalBinary again.
type rawContribution Contribution

func (c *Contribution) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*rawContribution)(c))
}

func (c *Contribution) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*rawContribution)(c))
}

// Seal encrypts m under pk and wraps it for the given session. The
// contribution ID and the encryption nonce are both read from rand
// (crypto/rand.Reader when nil).
func Seal(rand io.Reader, pk *paillier.PublicKey, session string, m *saferith.Nat) ([]byte, error) {
	var (
		id  uuid.UUID
		err error
	)
	if rand == nil {
		id, err = uuid.NewRandom()
	} else {
		id, err = uuid.NewRandomFromReader(rand)
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate: contribution id: %w", err)
	}

	ct, err := pk.Encrypt(rand, m)
	if err != nil {
		return nil, err
	}
	ctBytes, err := ct.MarshalBinary()
	if err != nil {
		return nil, err
	}

	c := &Contribution{
		ID:             id.String(),
		Session:        session,
		KeyFingerprint: pk.Fingerprint(),
		Ciphertext:     ctBytes,
	}
	return c.MarshalBinary()
}
