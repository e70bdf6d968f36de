// Package rbac declares the role based access control relationships.
package rbac

import "github.com/lgadza/mn-school-db-v2-sub003/internal/relations"

const ModuleName = "rbac"

// DescribeRelationships returns the role and permission relationships. User to
// Role is declared here as well as in the users module, so either module can be
// loaded first; the registry keeps whichever arrives first.
func DescribeRelationships() []relations.Definition {
	m := relations.Module(ModuleName)

	return []relations.Definition{
		m.ManyToMany("Role", "Permission", relations.ManyToManyOptions{
			Through: "RolePermission",
			OrderBy: "name ASC",
		}),
		m.ManyToMany("Permission", "Role", relations.ManyToManyOptions{Through: "RolePermission"}),

		m.ManyToMany("Role", "User", relations.ManyToManyOptions{Through: "UserRole"}),
		m.ManyToMany("User", "Role", relations.ManyToManyOptions{Through: "UserRole"}),
	}
}
