package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/bootstrap"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
)

func TestSchemaStatusStates(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	status := NewSchemaStatus()
	assert.Equal(t, SchemaStarting, status.State())
	_, ok := status.Relationships(nil)
	assert.False(t, ok)

	result, err := bootstrap.Run(context.Background(), db, bootstrap.Options{})
	require.NoError(t, err)
	status.Set(result, nil)
	assert.Equal(t, SchemaReady, status.State())

	result.Summary.Failures = append(result.Summary.Failures, &relations.ApplicationError{Err: errors.New("boom")})
	result.Summary.Applied--
	assert.Equal(t, SchemaDegraded, status.State())

	status.Set(result, errors.New("failed to sync Department"))
	assert.Equal(t, SchemaFailed, status.State())
	assert.Equal(t, "failed to sync Department", status.Sync().Error)
}

func TestDescribeRelationshipsReportsFailures(t *testing.T) {
	stray := bootstrap.Module{Name: "stray", Describe: func() []relations.Definition {
		return []relations.Definition{
			relations.Module("stray").OneToMany("School", "Permission", relations.OneToManyOptions{}),
		}
	}}
	result, err := bootstrap.Relate(testutil.NewSQLiteDB(t), bootstrap.Options{Modules: append(bootstrap.Modules(), stray)})
	require.NoError(t, err)

	out := DescribeRelationships(result, []string{"stray", "academics"})
	assert.Equal(t, 19, out.Total)
	require.Len(t, out.Relationships, 11)

	last := out.Relationships[10]
	assert.Equal(t, "stray", last.OwningModule)
	assert.Empty(t, last.Field)
	assert.Contains(t, last.Error, `School has no association field for alias "permissions"`)

	first := out.Relationships[0]
	assert.Equal(t, "academics", first.OwningModule)
	assert.NotEmpty(t, first.Field)
}

func TestHealthCheck(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{DBType: "sqlite", DBDatabase: "schooldb"}

	result := HealthCheck(context.Background(), cfg, db, nil)
	assert.Equal(t, "healthy", result.Status)
	assert.Empty(t, result.Schema)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	result = HealthCheck(context.Background(), cfg, db, NewSchemaStatus())
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Database)
	assert.Equal(t, SchemaStarting, result.Schema)
	assert.Contains(t, result.ErrorMessage, "; Schema starting")
}
