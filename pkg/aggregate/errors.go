package aggregate

import "errors"

var (
	// ErrSessionClosed is returned by Submit after Close.
	ErrSessionClosed = errors.New("aggregate: session is closed")
	// ErrSessionMismatch is returned for envelopes addressed to another session.
	ErrSessionMismatch = errors.New("aggregate: contribution belongs to another session")
	// ErrKeyMismatch is returned when the envelope's key fingerprint differs
	// from the session's public key.
	ErrKeyMismatch = errors.New("aggregate: contribution was encrypted under another public key")
	// ErrDuplicateContribution is returned when a contribution ID was already accepted.
	ErrDuplicateContribution = errors.New("aggregate: duplicate contribution")
	// ErrNoContributions is returned by Total for an empty session.
	ErrNoContributions = errors.New("aggregate: no contributions")
	// ErrMalformedContribution is returned when an envelope or its ciphertext cannot be decoded.
	ErrMalformedContribution = errors.New("aggregate: malformed contribution")
)
