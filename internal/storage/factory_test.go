package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/models"
)

func TestNewStorageManager_DefaultsToSQLite(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = ""
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "andolan.db")

	mgr, err := NewStorageManager(context.Background(), common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	defer mgr.Close()

	assert.Equal(t, BackendSQLite, mgr.Backend())
	assert.Equal(t, BackendSQLite, mgr.TimelineStore().Backend())
}

func TestNewStorageManager_StoresShareDatabase(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "andolan.db")

	mgr, err := NewStorageManager(context.Background(), common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	defer mgr.Close()

	ctx := context.Background()
	require.NoError(t, mgr.TimelineStore().Save(ctx, &models.TimelineRecord{ID: "r1", Date: "2001-01-01", Title: "t", Description: "d"}))
	require.NoError(t, mgr.MemberStore().SaveMember(ctx, &models.Member{ID: "u1", ApplicationID: "RKM000001001", Status: models.MemberStatusPending}))

	records, err := mgr.TimelineStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	members, err := mgr.MemberStore().ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestNewStorageManager_UnknownBackend(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "badger"

	_, err := NewStorageManager(context.Background(), common.NewSilentLogger(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend: badger")
}
