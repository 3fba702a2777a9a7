package vault

// VaultFactory is a factory interface for creating new Vault instances
type VaultFactory interface {
	// NewVault creates a new, empty Vault instance
	NewVault() Vault
}
