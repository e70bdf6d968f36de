// catalog.go
//
// Schema relationship orchestration for the mn-school-db administration backend
// Copyright (c) 2026 lgadza (https://github.com/lgadza), mn-school-db contributors
//
// This file is part of mn-school-db.
// mn-school-db is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mn-school-db is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mn-school-db.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 lgadza (https://github.com/lgadza), mn-school-db contributors"
//    in this material, copies, or source code of derived works.

package database

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
)

// EntityType is one synchronizable entity: its logical name and GORM model. Join
// entities list the two key columns that must exist for the table to be usable,
// plus any historic table names older naming conventions produced.
type EntityType struct {
	Name         string
	Model        interface{}
	JoinKeys     []string
	LegacyTables []string
}

// IsJoin reports whether the entity backs a many-to-many relationship.
func (e EntityType) IsJoin() bool {
	return len(e.JoinKeys) > 0
}

// Association is a relationship that has been pushed onto a live descriptor.
type Association struct {
	Source  string         `json:"source" yaml:"source"`
	Target  string         `json:"target" yaml:"target"`
	Alias   string         `json:"alias" yaml:"alias"`
	Field   string         `json:"field" yaml:"field"`
	Kind    relations.Kind `json:"kind" yaml:"kind"`
	Through string         `json:"through,omitempty" yaml:"through,omitempty"`
	OrderBy string         `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
}

// Catalog holds the parsed GORM schemas of every entity type and hands them to the
// relationship registry as live descriptors. Schemas come from the connection's
// shared cache, so changes made here are seen by the migrator.
type Catalog struct {
	db       *gorm.DB
	ordered  []EntityType
	entities map[string]*entity
	assocs   map[relations.Key]Association
}

// NewCatalog parses every entity type. The argument order is kept as the
// synchronization order.
func NewCatalog(db *gorm.DB, types ...EntityType) (*Catalog, error) {
	c := &Catalog{
		db:       db,
		entities: make(map[string]*entity, len(types)),
		assocs:   make(map[relations.Key]Association),
	}

	for _, t := range types {
		if t.Name == "" || t.Model == nil {
			return nil, fmt.Errorf("entity type %q has no model", t.Name)
		}
		if _, dup := c.entities[t.Name]; dup {
			return nil, fmt.Errorf("entity type %q listed twice", t.Name)
		}
		if len(t.JoinKeys) != 0 && len(t.JoinKeys) != 2 {
			return nil, fmt.Errorf("join entity type %q needs exactly two key columns", t.Name)
		}

		sch, err := parseModel(db, t.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entity type %s: %w", t.Name, err)
		}
		c.entities[t.Name] = &entity{typ: t, schema: sch, catalog: c}
		c.ordered = append(c.ordered, t)
	}

	return c, nil
}

func parseModel(db *gorm.DB, model interface{}) (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, err
	}
	return stmt.Schema, nil
}

// Descriptor implements relations.Catalog.
func (c *Catalog) Descriptor(name string) (relations.Descriptor, bool) {
	e, ok := c.entities[name]
	if !ok {
		return nil, false
	}
	return e, true
}

// Ordered returns the entity types in synchronization order.
func (c *Catalog) Ordered() []EntityType {
	out := make([]EntityType, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Entity returns the entity type registered under name.
func (c *Catalog) Entity(name string) (EntityType, bool) {
	e, ok := c.entities[name]
	if !ok {
		return EntityType{}, false
	}
	return e.typ, true
}

// Table returns the table an entity type maps to.
func (c *Catalog) Table(name string) (string, bool) {
	e, ok := c.entities[name]
	if !ok {
		return "", false
	}
	return e.schema.Table, true
}

// Associations returns every applied association sorted by source and alias.
func (c *Catalog) Associations() []Association {
	out := make([]Association, 0, len(c.assocs))
	for _, a := range c.assocs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Alias < out[j].Alias
	})
	return out
}

// Preload adds eager loading of an applied association to tx, ordered by the
// association's OrderBy option when it has one.
func (c *Catalog) Preload(tx *gorm.DB, entityName, alias string) (*gorm.DB, error) {
	for key, a := range c.assocs {
		if key.Source != entityName || key.Alias != alias {
			continue
		}
		if a.OrderBy == "" {
			return tx.Preload(a.Field), nil
		}
		orderBy := a.OrderBy
		return tx.Preload(a.Field, func(db *gorm.DB) *gorm.DB {
			return db.Order(orderBy)
		}), nil
	}
	return nil, fmt.Errorf("%s has no applied association %q", entityName, alias)
}

func (c *Catalog) record(source *entity, rel *schema.Relationship, def *relations.Definition) {
	c.assocs[def.Key()] = Association{
		Source:  source.typ.Name,
		Target:  def.TargetType,
		Alias:   def.Alias,
		Field:   rel.Name,
		Kind:    def.Kind,
		Through: def.Through,
		OrderBy: def.OrderBy(),
	}
}

func (c *Catalog) column(key string) string {
	return c.db.NamingStrategy.ColumnName("", key)
}

// entity is the live descriptor of one entity type.
type entity struct {
	typ     EntityType
	schema  *schema.Schema
	catalog *Catalog
}

func (e *entity) Name() string {
	return e.typ.Name
}

func (e *entity) HasOne(target relations.Descriptor, def *relations.Definition) error {
	return e.declare(schema.HasOne, target, def)
}

func (e *entity) HasMany(target relations.Descriptor, def *relations.Definition) error {
	return e.declare(schema.HasMany, target, def)
}

func (e *entity) BelongsTo(target relations.Descriptor, def *relations.Definition) error {
	return e.declare(schema.BelongsTo, target, def)
}

func (e *entity) declare(kind schema.RelationshipType, target relations.Descriptor, def *relations.Definition) error {
	to, err := e.catalog.resolve(target)
	if err != nil {
		return err
	}
	rel, err := e.relation(def.Alias, kind, to)
	if err != nil {
		return err
	}

	want := e.catalog.column(def.ForeignKey)
	cols := foreignKeyColumns(rel)
	if len(cols) != 1 || cols[0] != want {
		return fmt.Errorf("%s.%s uses foreign key %v, declared %s (%s)", e.typ.Name, rel.Name, cols, def.ForeignKey, want)
	}

	setting, ok := constraintSetting(def.Referential())
	if ok {
		rel.Field.TagSettings["CONSTRAINT"] = setting
		if kind == schema.BelongsTo {
			// GORM emits the constraint from the has-one/has-many side when one exists.
			for _, inv := range to.schema.Relationships.Relations {
				if (inv.Type == schema.HasOne || inv.Type == schema.HasMany) && inv.FieldSchema == e.schema &&
					sameColumns(foreignKeyColumns(inv), cols) {
					if _, set := inv.Field.TagSettings["CONSTRAINT"]; !set {
						inv.Field.TagSettings["CONSTRAINT"] = setting
					}
				}
			}
		}
	}

	e.catalog.record(e, rel, def)
	return nil
}

func (e *entity) BelongsToMany(target, through relations.Descriptor, def *relations.Definition) error {
	to, err := e.catalog.resolve(target)
	if err != nil {
		return err
	}
	join, err := e.catalog.resolve(through)
	if err != nil {
		return err
	}
	rel, err := e.relation(def.Alias, schema.Many2Many, to)
	if err != nil {
		return err
	}

	if err := e.catalog.db.SetupJoinTable(e.typ.Model, rel.Name, join.typ.Model); err != nil {
		return fmt.Errorf("failed to set up join table %s for %s.%s: %w", join.schema.Table, e.typ.Name, rel.Name, err)
	}
	rel = e.schema.Relationships.Relations[rel.Name]

	if rel.JoinTable == nil || rel.JoinTable.Table != join.schema.Table {
		return fmt.Errorf("%s.%s is not joined through %s", e.typ.Name, rel.Name, join.schema.Table)
	}
	own, other := e.catalog.column(def.ForeignKey), e.catalog.column(def.OtherKey)
	for _, ref := range rel.References {
		if ref.ForeignKey == nil {
			continue
		}
		want := other
		if ref.OwnPrimaryKey {
			want = own
		}
		if ref.ForeignKey.DBName != want {
			return fmt.Errorf("join table %s uses key %s, declared %s", join.schema.Table, ref.ForeignKey.DBName, want)
		}
	}

	if setting, ok := constraintSetting(def.Referential()); ok {
		rel.Field.TagSettings["CONSTRAINT"] = setting
	}

	e.catalog.record(e, rel, def)
	return nil
}

// relation finds the association field named like alias, ignoring case, and checks
// it has the expected shape.
func (e *entity) relation(alias string, kind schema.RelationshipType, target *entity) (*schema.Relationship, error) {
	var rel *schema.Relationship
	for name, r := range e.schema.Relationships.Relations {
		// GORM files has-one/has-many back references under "_Owner_Field".
		if strings.HasPrefix(name, "_") {
			continue
		}
		if strings.EqualFold(name, alias) {
			rel = r
			break
		}
	}
	if rel == nil {
		return nil, fmt.Errorf("%s has no association field for alias %q", e.typ.Name, alias)
	}
	if rel.Type != kind {
		return nil, fmt.Errorf("%s.%s is a %s association, declared %s", e.typ.Name, rel.Name, rel.Type, kind)
	}
	if rel.FieldSchema == nil || rel.FieldSchema.Table != target.schema.Table {
		return nil, fmt.Errorf("%s.%s does not reference %s", e.typ.Name, rel.Name, target.typ.Name)
	}
	return rel, nil
}

func (c *Catalog) resolve(d relations.Descriptor) (*entity, error) {
	e, ok := d.(*entity)
	if !ok || e.catalog != c {
		return nil, fmt.Errorf("descriptor %s does not belong to this catalog", d.Name())
	}
	return e, nil
}

func foreignKeyColumns(rel *schema.Relationship) []string {
	var cols []string
	for _, ref := range rel.References {
		if ref.PrimaryKey != nil && ref.ForeignKey != nil {
			cols = append(cols, ref.ForeignKey.DBName)
		}
	}
	return cols
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// constraintSetting renders referential options in GORM's CONSTRAINT tag syntax.
// ok is false when there is nothing to set.
func constraintSetting(r relations.Referential) (setting string, ok bool) {
	if !r.ConstraintsEnabled() {
		return "-", true
	}
	var parts []string
	if r.OnDelete != "" {
		parts = append(parts, "OnDelete:"+string(r.OnDelete))
	}
	if r.OnUpdate != "" {
		parts = append(parts, "OnUpdate:"+string(r.OnUpdate))
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ","), true
}
