// Package users declares the relationships of user accounts.
package users

import "github.com/lgadza/mn-school-db-v2-sub003/internal/relations"

const ModuleName = "users"

func DescribeRelationships() []relations.Definition {
	m := relations.Module(ModuleName)

	return []relations.Definition{
		m.OneToMany("School", "User", relations.OneToManyOptions{
			OrderBy:     "last_name ASC",
			Referential: relations.Referential{OnDelete: relations.Restrict},
		}),
		m.ManyToOne("User", "School", relations.ManyToOneOptions{}),

		m.OneToOne("User", "UserProfile", relations.OneToOneOptions{
			Alias:       "profile",
			Referential: relations.Referential{OnDelete: relations.Cascade},
		}),
		m.ManyToOne("UserProfile", "User", relations.ManyToOneOptions{}),

		m.ManyToMany("User", "Role", relations.ManyToManyOptions{Through: "UserRole"}),
	}
}
