package aggregate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mr-shifu/paillier-lib/core/paillier"
	"github.com/mr-shifu/paillier-lib/pkg/common/vault"
	"github.com/mr-shifu/paillier-lib/pkg/metrics"
	vaultimpl "github.com/mr-shifu/paillier-lib/pkg/vault"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the fold parallelism used when Config.Workers is not positive.
const DefaultWorkers = 4

type Config struct {
	// Workers bounds the number of goroutines folding contributions in Total.
	Workers int
	// Vault stores the accepted ciphertexts. An in-memory vault is used when nil.
	Vault vault.Vault
}

// Aggregator collects encrypted contributions for one session and combines
// them without ever seeing a plaintext. It holds only the public key.
type Aggregator struct {
	id          string
	pk          *paillier.PublicKey
	fingerprint []byte
	workers     int
	store       vault.Vault
	log         zerolog.Logger

	mtx    sync.RWMutex
	closed bool
}

// NewAggregator opens a new session under pk.
func NewAggregator(pk *paillier.PublicKey, cfg Config, log zerolog.Logger) *Aggregator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	store := cfg.Vault
	if store == nil {
		store = vaultimpl.NewInMemoryVault()
	}

	a := &Aggregator{
		id:          uuid.NewString(),
		pk:          pk,
		fingerprint: pk.Fingerprint(),
		workers:     workers,
		store:       store,
	}
	a.log = log.With().Str("session", a.id).Logger()
	metrics.OpenSessions().Inc()
	a.log.Info().Int("workers", workers).Msg("session opened")
	return a
}

// ID returns the session identifier contributors must put in their envelopes.
func (a *Aggregator) ID() string {
	return a.id
}

func (a *Aggregator) PublicKey() *paillier.PublicKey {
	return a.pk
}

// Len returns the number of accepted contributions.
func (a *Aggregator) Len() int {
	return a.store.Len()
}

// Submit validates and stores an encoded Contribution and returns its ID.
func (a *Aggregator) Submit(data []byte) (string, error) {
	c, err := a.validate(data)
	if err != nil {
		metrics.ContributionsCounter().WithLabelValues(metrics.ResultRejected).Inc()
		a.log.Debug().Err(err).Msg("contribution rejected")
		return "", err
	}

	a.mtx.RLock()
	defer a.mtx.RUnlock()
	if a.closed {
		metrics.ContributionsCounter().WithLabelValues(metrics.ResultRejected).Inc()
		return "", ErrSessionClosed
	}

	if err := a.store.Import(c.ID, c.Ciphertext); err != nil {
		if errors.Is(err, vaultimpl.ErrKeyExists) {
			metrics.ContributionsCounter().WithLabelValues(metrics.ResultDuplicate).Inc()
			a.log.Warn().Str("contribution", c.ID).Msg("duplicate contribution")
			return "", fmt.Errorf("%s: %w", c.ID, ErrDuplicateContribution)
		}
		return "", err
	}

	metrics.ContributionsCounter().WithLabelValues(metrics.ResultAccepted).Inc()
	a.log.Debug().Str("contribution", c.ID).Msg("contribution accepted")
	return c.ID, nil
}

func (a *Aggregator) validate(data []byte) (*Contribution, error) {
	var c Contribution
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContribution, err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedContribution)
	}
	if c.Session != a.id {
		return nil, ErrSessionMismatch
	}
	if !bytes.Equal(c.KeyFingerprint, a.fingerprint) {
		return nil, ErrKeyMismatch
	}

	var ct paillier.Ciphertext
	if err := ct.UnmarshalBinary(c.Ciphertext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContribution, err)
	}
	if err := a.pk.ValidateCiphertexts(&ct); err != nil {
		return nil, err
	}
	return &c, nil
}

// Close stops the session from accepting further contributions. Total may
// still be called afterwards.
func (a *Aggregator) Close() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	metrics.OpenSessions().Dec()
	a.log.Info().Int("contributions", a.store.Len()).Msg("session closed")
}

// Total homomorphically adds every accepted contribution. The result decrypts
// to the sum of the contributed plaintexts modulo N.
//
// The contributions are split into chunks folded concurrently, then the
// partial sums are combined.
func (a *Aggregator) Total(ctx context.Context) (*paillier.Ciphertext, error) {
	ids := a.store.Keys()
	if len(ids) == 0 {
		return nil, ErrNoContributions
	}

	start := time.Now()
	chunks := chunk(ids, a.workers)
	partials := make([]*paillier.Ciphertext, len(chunks))

	errGroup, ctx := errgroup.WithContext(ctx)
	for i, ids := range chunks {
		i, ids := i, ids
		errGroup.Go(func() error {
			cts := make([]*paillier.Ciphertext, 0, len(ids))
			for _, id := range ids {
				if err := ctx.Err(); err != nil {
					return err
				}
				data, err := a.store.Get(id)
				if err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				var ct paillier.Ciphertext
				if err := ct.UnmarshalBinary(data); err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				cts = append(cts, &ct)
			}
			partial, err := a.pk.Sum(cts...)
			if err != nil {
				return err
			}
			partials[i] = partial
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	total, err := a.pk.Sum(partials...)
	if err != nil {
		return nil, err
	}
	metrics.FoldObserver().Observe(time.Since(start).Seconds())
	a.log.Info().Int("contributions", len(ids)).Int("chunks", len(chunks)).Msg("total computed")
	return total, nil
}

// chunk splits ids into at most n slices of near-equal length.
func chunk(ids []string, n int) [][]string {
	if n > len(ids) {
		n = len(ids)
	}
	chunks := make([][]string, 0, n)
	size := (len(ids) + n - 1) / n
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
