package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgadza/mn-school-db-v2-sub003/data"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
)

// TestRunAgainstContainer runs bootstrap against the DB_IMAGE database. Drift
// fixtures are ANSI quoted and only loaded on postgres.
func TestRunAgainstContainer(t *testing.T) {
	container := testutil.RequireDatabase(t)
	cfg := container.Config
	ctx := context.Background()

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	postgres := db.Dialector.Name() == "postgres"
	if postgres {
		require.NoError(t, testutil.ExecScript(db, data.DriftLegacyJoinTables))
		require.NoError(t, testutil.ExecScript(db, data.DriftMalformedJoinTable))
	}

	opts := Options{Sync: database.SyncOptions{Alter: true}, AdvisoryLock: true, Schema: cfg.DBSchema}
	result, err := Run(ctx, db, opts)
	require.NoError(t, err)
	require.NoError(t, result.Report.Tolerated())
	assert.True(t, result.Summary.Complete(), "%v", result.Summary.Failures)
	assert.Equal(t, 12, result.Report.Counts()[database.StateSynced])

	in := database.NewIntrospector(db, cfg.DBSchema)
	assert.True(t, in.ColumnExists(ctx, "role_permissions", "role_id"))
	if postgres {
		rp, _ := result.Report.Entity("RolePermission")
		assert.True(t, rp.Repaired)
		assert.False(t, in.TableExists(ctx, "RolePermissions"))
		assert.False(t, in.TableExists(ctx, "UserRoles"))
	}

	// A second pass finds nothing to repair.
	result, err = Run(ctx, db, opts)
	require.NoError(t, err)
	for _, e := range result.Report.Entities {
		assert.False(t, e.Repaired, e.Entity)
	}
}
