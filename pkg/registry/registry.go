package registry

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/domain/interfaces"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Registry associates integration identifiers with live adapter
// instances. It is constructed explicitly and passed to its consumers;
// there is no hidden process-wide instance. The registry only tracks
// the identity-to-instance association and never mutates adapter
// state.
//
// Registration normally happens at startup, but the map is
// mutex-guarded so the unique-identifier invariant holds under
// concurrent registration too.
type Registry struct {
	mu      sync.RWMutex
	entries map[types.IntegrationID]interfaces.ChatIntegration
	order   []types.IntegrationID // preserves registration order
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[types.IntegrationID]interfaces.ChatIntegration),
	}
}

// Register adds an adapter. Registering a duplicate identifier is a
// construction-time error, never a silent overwrite.
func (r *Registry) Register(itg interfaces.ChatIntegration) error {
	id := itg.ID()
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid integration ID",
			types.WithCode(types.ErrConfigurationError))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return goerr.New("integration is already registered",
			types.WithCode(types.ErrResourceConflict),
			goerr.V("integration_id", id))
	}

	r.entries[id] = itg
	r.order = append(r.order, id)
	return nil
}

// Get retrieves an adapter by identifier. The second return value
// reports presence; Get never fails.
func (r *Registry) Get(id types.IntegrationID) (interfaces.ChatIntegration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itg, ok := r.entries[id]
	return itg, ok
}

// GetAll returns a snapshot of all registered adapters in registration
// order.
func (r *Registry) GetAll() []interfaces.ChatIntegration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ChatIntegration, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id])
	}
	return result
}

// GetEnabled returns a snapshot of registered adapters whose enabled
// flag is set.
func (r *Registry) GetEnabled() []interfaces.ChatIntegration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ChatIntegration, 0, len(r.order))
	for _, id := range r.order {
		if itg := r.entries[id]; itg.Enabled() {
			result = append(result, itg)
		}
	}
	return result
}

// Unregister removes an adapter and reports whether one was present.
// Removing an absent identifier is a no-op.
func (r *Registry) Unregister(id types.IntegrationID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return false
	}

	delete(r.entries, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
