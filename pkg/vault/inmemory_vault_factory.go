package vault

import "github.com/mr-shifu/paillier-lib/pkg/common/vault"

type InMemoryVaultFactory struct{}

// NewVault creates a new in-memory Vault instance
func (f InMemoryVaultFactory) NewVault() vault.Vault {
	return NewInMemoryVault()
}
