// Package surrealdb stores timeline records and members in SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/surrealdb/surrealdb.go"
)

const (
	timelineTable = "timeline"
	memberTable   = "member"
	documentTable = "document"
)

// Connect opens a SurrealDB connection, signs in, selects the namespace and
// database and defines the tables the stores query.
func Connect(ctx context.Context, logger *common.Logger, config common.SurrealDBConfig) (*surrealdb.DB, error) {
	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying tables that do not exist
	for _, table := range []string{timelineTable, memberTable, documentTable} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB storage initialized")

	return db, nil
}

// NewStore connects and returns a TimelineStore that owns the connection.
func NewStore(ctx context.Context, logger *common.Logger, config common.SurrealDBConfig) (*TimelineStore, error) {
	db, err := Connect(ctx, logger, config)
	if err != nil {
		return nil, err
	}
	s := NewTimelineStore(db, logger)
	s.ownsDB = true
	return s, nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}
