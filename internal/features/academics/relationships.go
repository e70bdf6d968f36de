// Package academics declares the relationships of the school structure: schools,
// departments, subjects, categories, school years and periods.
package academics

import "github.com/lgadza/mn-school-db-v2-sub003/internal/relations"

// ModuleName identifies the module in relationship diagnostics.
const ModuleName = "academics"

// DescribeRelationships returns the academics relationships. It has no side effects.
func DescribeRelationships() []relations.Definition {
	m := relations.Module(ModuleName)
	cascade := relations.Referential{OnDelete: relations.Cascade, OnUpdate: relations.Cascade}

	return []relations.Definition{
		m.OneToMany("School", "Department", relations.OneToManyOptions{Referential: cascade}),
		m.ManyToOne("Department", "School", relations.ManyToOneOptions{}),

		m.OneToMany("Department", "Subject", relations.OneToManyOptions{
			OrderBy:     "name ASC",
			Referential: relations.Referential{OnDelete: relations.Restrict},
		}),
		m.ManyToOne("Subject", "Department", relations.ManyToOneOptions{}),

		m.OneToMany("Category", "Subject", relations.OneToManyOptions{
			Referential: relations.Referential{OnDelete: relations.SetNull},
		}),
		m.ManyToOne("Subject", "Category", relations.ManyToOneOptions{}),

		m.OneToMany("School", "SchoolYear", relations.OneToManyOptions{
			OrderBy:     "starts_on DESC",
			Referential: cascade,
		}),
		m.ManyToOne("SchoolYear", "School", relations.ManyToOneOptions{}),

		m.OneToMany("SchoolYear", "Period", relations.OneToManyOptions{
			OrderBy:     "position ASC",
			Referential: cascade,
		}),
		m.ManyToOne("Period", "SchoolYear", relations.ManyToOneOptions{}),
	}
}
