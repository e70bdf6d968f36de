package bootstrap

import (
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/models"
)

// EntityTypes returns every entity type in synchronization order. The order is
// maintained by hand: referenced tables come before the tables pointing at them,
// and join types come last. It is independent of the order relationships are
// applied in.
func EntityTypes() []database.EntityType {
	return []database.EntityType{
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
		{
			Name:         "RolePermission",
			Model:        &models.RolePermission{},
			JoinKeys:     []string{"role_id", "permission_id"},
			LegacyTables: []string{"RolePermissions"},
		},
		{
			Name:         "UserRole",
			Model:        &models.UserRole{},
			JoinKeys:     []string{"user_id", "role_id"},
			LegacyTables: []string{"UserRoles"},
		},
	}
}
