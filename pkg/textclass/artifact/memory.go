package artifact

import (
	"context"
	"fmt"
	"sync"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Memory is an in-memory Store for tests. It keeps the encoded envelopes,
// so a Save/Load cycle goes through the same codec as the on-disk stores.
type Memory struct {
	mu    sync.RWMutex
	vec   []byte
	model []byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, b Bundle) error {
	b.Stamp()
	vec, model, err := encode(b)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vec, m.model = vec, model
	return nil
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context) (Bundle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.vec == nil && m.model == nil {
		return Bundle{}, fmt.Errorf("%w: nothing saved", internalerr.ErrNotFound)
	}
	if m.vec == nil || m.model == nil {
		return Bundle{}, corrupt("incomplete pair")
	}
	return decode(m.vec, m.model)
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
