package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/models"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
)

var (
	rolePermissionType = EntityType{
		Name:         "RolePermission",
		Model:        &models.RolePermission{},
		JoinKeys:     []string{"role_id", "permission_id"},
		LegacyTables: []string{"RolePermissions"},
	}
	userRoleType = EntityType{
		Name:         "UserRole",
		Model:        &models.UserRole{},
		JoinKeys:     []string{"user_id", "role_id"},
		LegacyTables: []string{"UserRoles"},
	}
)

func testEntityTypes() []EntityType {
	return []EntityType{
		{Name: "School", Model: &models.School{}},
		{Name: "Category", Model: &models.Category{}},
		{Name: "Department", Model: &models.Department{}},
		{Name: "Subject", Model: &models.Subject{}},
		{Name: "SchoolYear", Model: &models.SchoolYear{}},
		{Name: "Period", Model: &models.Period{}},
		{Name: "User", Model: &models.User{}},
		{Name: "UserProfile", Model: &models.UserProfile{}},
		{Name: "Role", Model: &models.Role{}},
		{Name: "Permission", Model: &models.Permission{}},
		rolePermissionType,
		userRoleType,
	}
}

func newTestCatalog(t *testing.T, db *gorm.DB, types ...EntityType) *Catalog {
	t.Helper()
	if len(types) == 0 {
		types = testEntityTypes()
	}
	catalog, err := NewCatalog(db, types...)
	require.NoError(t, err)
	return catalog
}

// applyJoins declares the many-to-many relationships so join models carry their
// foreign keys when created.
func applyJoins(t *testing.T, catalog *Catalog) {
	t.Helper()
	reg := relations.NewRegistry(nil)
	m := relations.Module("test")
	require.NoError(t, reg.RegisterAll([]relations.Definition{
		m.ManyToMany("Role", "Permission", relations.ManyToManyOptions{Through: "RolePermission"}),
		m.ManyToMany("Permission", "Role", relations.ManyToManyOptions{Through: "RolePermission"}),
		m.ManyToMany("User", "Role", relations.ManyToManyOptions{Through: "UserRole"}),
		m.ManyToMany("Role", "User", relations.ManyToManyOptions{Through: "UserRole"}),
	}))
	require.True(t, reg.ApplyAll(catalog).Complete())
}

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

// newPostgresMock returns a postgres-dialect GORM handle backed by sqlmock.
func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logging.GormLogger("silent"),
	})
	require.NoError(t, err)
	return db, mock
}
