package vault

// Vault stores opaque byte blobs under string IDs.
type Vault interface {
	// Import stores data under id. It fails if id is already present.
	Import(id string, data []byte) error
	Get(id string) ([]byte, error)
	Delete(id string) error
	// Keys returns the stored IDs in ascending order.
	Keys() []string
	Len() int
}
