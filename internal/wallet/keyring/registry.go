package keyring

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry maps keyring type names to constructors. Registering a name twice is rejected;
// there is no override.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	order        []string
}

func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

func (r *Registry) Register(typeName string, constructor Constructor) error {
	if typeName == "" || constructor == nil {
		return errors.New("keyring type name and constructor are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.constructors[typeName]; ok {
		return errors.Wrapf(ErrDuplicateType, "%q", typeName)
	}

	r.constructors[typeName] = constructor
	r.order = append(r.order, typeName)

	return nil
}

func (r *Registry) Resolve(typeName string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	constructor, ok := r.constructors[typeName]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKeyringType, "%q", typeName)
	}

	return constructor, nil
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, len(r.order))
	copy(types, r.order)

	return types
}
