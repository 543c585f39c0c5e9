// Package memory provides in-process implementations of the store
// interfaces. They back the service-level tests and local development runs;
// production uses the postgres repositories.
package memory

import (
	"context"
	"sync"
)

// Store holds the shared state and lock for every in-memory repository
// created from it, mirroring how the pgx repositories share one pool.
type Store struct {
	mu sync.Mutex

	users       map[string]*userRecord
	refresh     map[string]*refreshRecord
	resetTokens map[string]*resetRecord
	roles       map[string]*roleRecord
	permissions map[string]*permissionRecord
	userRoles   map[string]map[string]struct{}
	rolePerms   map[string]map[string]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:       map[string]*userRecord{},
		refresh:     map[string]*refreshRecord{},
		resetTokens: map[string]*resetRecord{},
		roles:       map[string]*roleRecord{},
		permissions: map[string]*permissionRecord{},
		userRoles:   map[string]map[string]struct{}{},
		rolePerms:   map[string]map[string]struct{}{},
	}
}

// WithinTransaction satisfies repository.TxManager. The single store mutex
// already serializes every operation; rollback on error is not simulated.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
