// Package storage selects the backend for timeline records and members.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/storage/sqlite"
	"github.com/bobmcallan/andolan/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendSQLite    = "sqlite"
	BackendSurrealDB = "surrealdb"
)

// Manager implements interfaces.StorageManager over one backend.
type Manager struct {
	timeline interfaces.TimelineStore
	members  interfaces.MemberStore
	backend  string
	closeFn  func() error
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)

// NewStorageManager opens the backend named by config.Storage.Backend.
// Supported backends: "sqlite" (default), "surrealdb".
func NewStorageManager(ctx context.Context, logger *common.Logger, config *common.Config) (*Manager, error) {
	backend := strings.ToLower(config.Storage.Backend)
	if backend == "" {
		backend = BackendSQLite
	}

	switch backend {
	case BackendSQLite:
		store, err := sqlite.NewStore(logger, config.Storage.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &Manager{timeline: store, members: store, backend: backend, closeFn: store.Close}, nil

	case BackendSurrealDB:
		db, err := surrealdb.Connect(ctx, logger, config.Storage.SurrealDB)
		if err != nil {
			return nil, err
		}
		return &Manager{
			timeline: surrealdb.NewTimelineStore(db, logger),
			members:  surrealdb.NewMemberStore(db, logger),
			backend:  backend,
			closeFn: func() error {
				db.Close(context.Background())
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: sqlite, surrealdb)", backend)
	}
}

func (m *Manager) TimelineStore() interfaces.TimelineStore {
	return m.timeline
}

func (m *Manager) MemberStore() interfaces.MemberStore {
	return m.members
}

func (m *Manager) Backend() string {
	return m.backend
}

// Close releases the backend connection.
func (m *Manager) Close() error {
	if m.closeFn == nil {
		return nil
	}
	return m.closeFn()
}
