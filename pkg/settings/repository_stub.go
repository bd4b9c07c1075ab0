package settings

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	stored   *Settings
	storeErr error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (r *RepositoryStub) Get(ctx context.Context) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stored == nil {
		return nil, nil
	}
	copied := *r.stored
	return &copied, nil
}

func (r *RepositoryStub) Store(ctx context.Context, settings Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	r.stored = &settings
	return nil
}

// SetStoreError makes the next Store calls fail (for testing error paths).
func (r *RepositoryStub) SetStoreError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErr = err
}
