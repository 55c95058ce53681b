package seed

import (
	"sync"
)

// manager implements seed management with thread-safe access
type manager struct {
	mnemonic    string
	seed        []byte
	mu          sync.RWMutex
	initialized bool
}

// NewManager creates a new SeedManager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{}
}

// Initialize validates the mnemonic and derives the seed held by this manager
func (m *manager) Initialize(mnemonic string, passphrase string) error {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return err
	}

	seed := ToSeed(mnemonic, passphrase)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.zero()
	m.mnemonic = NormalizeMnemonic(mnemonic)
	m.seed = seed
	m.initialized = true

	return nil
}

// GetSeed gets the seed (returns a copy to prevent external modification)
func (m *manager) GetSeed() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.seed == nil {
		return nil
	}

	seedCopy := make([]byte, len(m.seed))
	copy(seedCopy, m.seed)
	return seedCopy
}

func (m *manager) Mnemonic() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.mnemonic
}

// IsInitialized checks if seed is initialized
func (m *manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// Clear clears the seed from memory
func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.zero()
}

func (m *manager) zero() {
	for i := range m.seed {
		m.seed[i] = 0
	}
	m.seed = nil
	m.mnemonic = ""
	m.initialized = false
}
