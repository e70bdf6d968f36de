package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgadza/mn-school-db-v2-sub003/data"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/models"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
)

// 10 academics + 5 users + 4 rbac declarations, one of them a duplicate.
const wantRelationships = 18

func TestRunBootstrapsEmptyDatabase(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	result, err := Run(context.Background(), db, Options{Sync: database.SyncOptions{Alter: true}})
	require.NoError(t, err)

	assert.True(t, result.Summary.Complete(), "%v", result.Summary.Failures)
	assert.Equal(t, wantRelationships, result.Summary.Total)
	assert.Equal(t, map[database.State]int{database.StateSynced: 12}, result.Report.Counts())
	assert.NoError(t, result.Report.Tolerated())
	assert.Len(t, result.Catalog.Associations(), wantRelationships)

	for _, et := range EntityTypes() {
		table, ok := result.Catalog.Table(et.Name)
		require.True(t, ok)
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	_, err := Run(ctx, db, Options{Sync: database.SyncOptions{Alter: true}})
	require.NoError(t, err)
	result, err := Run(ctx, db, Options{Sync: database.SyncOptions{Alter: true}})
	require.NoError(t, err)

	assert.True(t, result.Summary.Complete())
	for _, e := range result.Report.Entities {
		assert.Equal(t, database.StateSynced, e.State, e.Entity)
		assert.False(t, e.Repaired, e.Entity)
	}
}

func TestRelateWarnsOnDuplicateDeclaration(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	result, err := Relate(testutil.NewSQLiteDB(t), Options{Logger: zap.New(core).Sugar()})
	require.NoError(t, err)

	dups := logs.FilterMessage("Duplicate relationship registration ignored").All()
	require.Len(t, dups, 1)
	assert.Equal(t, "User->Role.roles", dups[0].ContextMap()["relationship"])
	assert.Equal(t, "rbac", dups[0].ContextMap()["module"])
	assert.Equal(t, "users", dups[0].ContextMap()["owner"])

	owner, ok := result.Registry.Owner("User", "Role", "roles")
	require.True(t, ok)
	assert.Equal(t, "users", owner)
}

func TestRelateIsIndependentOfModuleOrder(t *testing.T) {
	modules := Modules()
	reversed := make([]Module, 0, len(modules))
	for i := len(modules) - 1; i >= 0; i-- {
		reversed = append(reversed, modules[i])
	}

	result, err := Relate(testutil.NewSQLiteDB(t), Options{Modules: reversed})
	require.NoError(t, err)

	assert.True(t, result.Summary.Complete(), "%v", result.Summary.Failures)
	assert.Equal(t, wantRelationships, result.Summary.Total)
	owner, _ := result.Registry.Owner("User", "Role", "roles")
	assert.Equal(t, "rbac", owner)
}

func TestRelateRejectsInvalidConfiguration(t *testing.T) {
	broken := Module{Name: "broken", Describe: func() []relations.Definition {
		return []relations.Definition{
			relations.Module("broken").ManyToMany("Role", "Permission", relations.ManyToManyOptions{}),
		}
	}}

	result, err := Relate(testutil.NewSQLiteDB(t), Options{Modules: append(Modules(), broken)})
	assert.Nil(t, result)
	var cfgErr *relations.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "broken", cfgErr.Module)
}

func TestRelateKeepsApplicationFailures(t *testing.T) {
	stray := Module{Name: "stray", Describe: func() []relations.Definition {
		return []relations.Definition{
			relations.Module("stray").OneToMany("School", "Role", relations.OneToManyOptions{}),
		}
	}}

	result, err := Relate(testutil.NewSQLiteDB(t), Options{Modules: append(Modules(), stray)})
	require.NoError(t, err)

	assert.Equal(t, wantRelationships, result.Summary.Applied)
	require.Len(t, result.Summary.Failures, 1)
	assert.Equal(t, "stray", result.Summary.Failures[0].Module)
}

func TestRunStopsOnBaseTableFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, testutil.ExecScript(db, data.DriftBaseTableView))

	result, err := Run(context.Background(), db, Options{})
	var syncErr *database.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "Department", syncErr.Entity)

	require.NotNil(t, result)
	assert.True(t, result.Summary.Complete())
	require.NotNil(t, result.Report)
	e, _ := result.Report.Entity("UserRole")
	assert.Equal(t, database.StatePending, e.State)
}

func TestRunWithAdvisoryLockOnSQLite(t *testing.T) {
	result, err := Run(context.Background(), testutil.NewSQLiteDB(t), Options{AdvisoryLock: true})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Report.Counts()[database.StateSynced])
}

func TestRolePermissionsThroughJoinTable(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	result, err := Run(context.Background(), db, Options{Sync: database.SyncOptions{Alter: true}})
	require.NoError(t, err)

	school := models.School{Name: "North High", Code: "NH"}
	require.NoError(t, db.Create(&school).Error)
	role := models.Role{SchoolID: school.ID, Name: "teacher"}
	require.NoError(t, db.Create(&role).Error)
	read := models.Permission{Name: "subjects:read", Resource: "subjects", Action: "read"}
	write := models.Permission{Name: "subjects:write", Resource: "subjects", Action: "write"}
	require.NoError(t, db.Create(&write).Error)
	require.NoError(t, db.Create(&read).Error)

	require.NoError(t, db.Model(&role).Association("Permissions").Append(&write, &read))
	assert.Equal(t, int64(2), db.Model(&role).Association("Permissions").Count())

	var rows []models.RolePermission
	require.NoError(t, db.Find(&rows, "role_id = ?", role.ID).Error)
	require.Len(t, rows, 2)
	assert.WithinDuration(t, time.Now(), rows[0].CreatedAt, time.Minute)

	tx, err := result.Catalog.Preload(db, "Role", "permissions")
	require.NoError(t, err)
	var loaded models.Role
	require.NoError(t, tx.First(&loaded, "id = ?", role.ID).Error)
	require.Len(t, loaded.Permissions, 2)
	assert.Equal(t, "subjects:read", loaded.Permissions[0].Name)

	tx, err = result.Catalog.Preload(db, "Permission", "roles")
	require.NoError(t, err)
	var perm models.Permission
	require.NoError(t, tx.First(&perm, "id = ?", read.ID).Error)
	require.Len(t, perm.Roles, 1)
	assert.Equal(t, "teacher", perm.Roles[0].Name)
}

func TestUserProfileIsReachableUnderAlias(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	result, err := Run(context.Background(), db, Options{})
	require.NoError(t, err)

	school := models.School{Name: "North High", Code: "NH"}
	require.NoError(t, db.Create(&school).Error)
	user := models.User{SchoolID: school.ID, Email: "ada@example.org", LastName: "Lovelace",
		Profile: &models.UserProfile{Phone: "555-0100"}}
	require.NoError(t, db.Create(&user).Error)

	tx, err := result.Catalog.Preload(db, "User", "profile")
	require.NoError(t, err)
	var loaded models.User
	require.NoError(t, tx.First(&loaded, "id = ?", user.ID).Error)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "555-0100", loaded.Profile.Phone)
}
