package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SchemaLockKey is the advisory lock key held while a replica synchronizes.
const SchemaLockKey int64 = 0x5c4001db

// WithAdvisoryLock runs fn while holding a session-level postgres advisory lock on
// a dedicated connection, so only one replica synchronizes at a time. Other
// dialects run fn directly.
func WithAdvisoryLock(ctx context.Context, db *gorm.DB, key int64, fn func(context.Context) error) error {
	if db.Dialector.Name() != "postgres" {
		log.Debugw("Advisory lock not supported, running unlocked", "dialect", db.Dialector.Name())
		return fn(ctx)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to reserve lock connection: %w", err)
	}
	defer conn.Close()

	log.Infow("Waiting for schema lock", "key", key)
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		return fmt.Errorf("failed to acquire schema lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", key); err != nil {
			log.Warnw("Failed to release schema lock", "key", key, "code", errorCode(err), "error", err)
		}
	}()

	return fn(ctx)
}
