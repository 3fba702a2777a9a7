package vault

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrKeyNotFound is returned by Get and Delete for unknown IDs.
	ErrKeyNotFound = errors.New("vault: key not found")
	// ErrKeyExists is returned by Import when the ID is already stored.
	ErrKeyExists = errors.New("vault: key already exists")
)

type InMemoryVault struct {
	lock sync.RWMutex
	data map[string][]byte
}

func NewInMemoryVault() *InMemoryVault {
	return &InMemoryVault{
		data: make(map[string][]byte),
	}
}

// Import stores a copy of data under id.
func (store *InMemoryVault) Import(id string, data []byte) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if _, ok := store.data[id]; ok {
		return ErrKeyExists
	}
	store.data[id] = append([]byte(nil), data...)
	return nil
}

func (store *InMemoryVault) Get(id string) ([]byte, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	data, ok := store.data[id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

func (store *InMemoryVault) Delete(id string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if _, ok := store.data[id]; !ok {
		return ErrKeyNotFound
	}
	delete(store.data, id)
	return nil
}

func (store *InMemoryVault) Keys() []string {
	store.lock.RLock()
	defer store.lock.RUnlock()

	keys := make([]string, 0, len(store.data))
	for id := range store.data {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

func (store *InMemoryVault) Len() int {
	store.lock.RLock()
	defer store.lock.RUnlock()

	return len(store.data)
}
