package tokens

import (
	"context"
	"sync"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
)

// InMemoryStore keeps the token pair in process memory. Data does not survive
// restarts, so it is meant for tests and local runs.
type InMemoryStore struct {
	pair  *tokens.Pair
	mutex sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory token backend
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Load returns a copy of the stored pair
func (s *InMemoryStore) Load(ctx context.Context) (*tokens.Pair, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.pair == nil {
		return nil, tokens.ErrNotFound
	}

	pair := *s.pair
	return &pair, nil
}

// Save swaps in a copy of pair
func (s *InMemoryStore) Save(ctx context.Context, pair tokens.Pair) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pair = &pair
	return nil
}
