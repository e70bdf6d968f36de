// registry.go
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

package relations

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
)

var log = logging.GetPackageLogger("relations")

// Descriptor is a live entity-type descriptor of the persistence layer. Each
// method declares one relationship kind from the receiver to target.
type Descriptor interface {
	Name() string
	HasOne(target Descriptor, def *Definition) error
	HasMany(target Descriptor, def *Definition) error
	BelongsTo(target Descriptor, def *Definition) error
	BelongsToMany(target, through Descriptor, def *Definition) error
}

// Catalog resolves logical entity type names to live descriptors.
type Catalog interface {
	Descriptor(name string) (Descriptor, bool)
}

// Summary is the outcome of an ApplyAll pass.
type Summary struct {
	Applied  int
	Total    int
	Failures []*ApplicationError
}

// Complete reports whether every registered relationship is applied.
func (s Summary) Complete() bool {
	return s.Applied == s.Total
}

// Registry collects relationship definitions from feature modules in any order
// and applies them to live descriptors exactly once. It is built and consumed by
// a single bootstrap flow and is not safe for concurrent use.
type Registry struct {
	definitions []*Definition
	byKey       map[Key]*Definition
	log         *zap.SugaredLogger
}

// NewRegistry returns an empty registry. A nil logger uses the package logger.
func NewRegistry(logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = log
	}
	return &Registry{
		byKey: make(map[Key]*Definition),
		log:   logger,
	}
}

// RegisterOneToOne declares that source has one target.
func (r *Registry) RegisterOneToOne(source, target string, opts OneToOneOptions, owningModule string) error {
	return r.Register(Module(owningModule).OneToOne(source, target, opts))
}

// RegisterOneToMany declares that source has many targets.
func (r *Registry) RegisterOneToMany(source, target string, opts OneToManyOptions, owningModule string) error {
	return r.Register(Module(owningModule).OneToMany(source, target, opts))
}

// RegisterManyToOne declares that source belongs to target.
func (r *Registry) RegisterManyToOne(source, target string, opts ManyToOneOptions, owningModule string) error {
	return r.Register(Module(owningModule).ManyToOne(source, target, opts))
}

// RegisterBelongsTo is an alias of RegisterManyToOne.
func (r *Registry) RegisterBelongsTo(source, target string, opts ManyToOneOptions, owningModule string) error {
	return r.RegisterManyToOne(source, target, opts, owningModule)
}

// RegisterManyToMany declares a relationship through a join type. It fails with a
// *ConfigurationError when opts.Through is empty.
func (r *Registry) RegisterManyToMany(source, target string, opts ManyToManyOptions, owningModule string) error {
	return r.Register(Module(owningModule).ManyToMany(source, target, opts))
}

// Register validates def and adds it unless its identity key is already taken.
// A duplicate is logged and ignored: modules commonly declare the inverse of a
// relationship owned elsewhere.
func (r *Registry) Register(def Definition) error {
	def.normalize()
	if err := validate(&def); err != nil {
		return err
	}

	key := def.Key()
	if existing, ok := r.byKey[key]; ok {
		r.log.Warnw("Duplicate relationship registration ignored",
			"relationship", key.String(),
			"kind", def.Kind.String(),
			"module", def.OwningModule,
			"owner", existing.OwningModule,
		)
		return nil
	}

	def.Applied = false
	r.definitions = append(r.definitions, &def)
	r.byKey[key] = &def
	r.log.Debugw("Registered relationship", "relationship", key.String(), "kind", def.Kind.String(), "module", def.OwningModule)
	return nil
}

// RegisterAll registers every definition and returns all configuration errors
// together.
func (r *Registry) RegisterAll(defs []Definition) error {
	var result *multierror.Error
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func validate(def *Definition) error {
	fail := func(reason string) error {
		return &ConfigurationError{Key: def.Key(), Kind: def.Kind, Module: def.OwningModule, Reason: reason}
	}

	switch {
	case !def.Kind.valid():
		return fail("unknown relationship kind")
	case def.SourceType == "" || def.TargetType == "":
		return fail("source and target types are required")
	case def.Options != nil && def.Options.Kind() != def.Kind:
		return fail(fmt.Sprintf("options are for a %s relationship", def.Options.Kind()))
	case def.Kind == ManyToMany && def.Through == "":
		return fail("a many-to-many relationship requires a through type")
	case def.Kind != ManyToMany && def.Through != "":
		return fail("only many-to-many relationships take a through type")
	}
	return nil
}

// Definitions returns every registered definition in registration order.
func (r *Registry) Definitions() []*Definition {
	out := make([]*Definition, len(r.definitions))
	copy(out, r.definitions)
	return out
}

// Owner returns the module that registered the given identity key.
func (r *Registry) Owner(source, target, alias string) (string, bool) {
	def, ok := r.byKey[Key{Source: source, Target: target, Alias: alias}]
	if !ok {
		return "", false
	}
	return def.OwningModule, true
}

// ResolveApplicationOrder returns the definitions ordered ManyToOne, OneToOne,
// OneToMany, ManyToMany. Registration order is kept within a kind.
func (r *Registry) ResolveApplicationOrder() []*Definition {
	ordered := r.Definitions()
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind.rank() < ordered[j].Kind.rank()
	})
	return ordered
}

// ApplyAll pushes every unapplied definition onto the catalog's descriptors. A
// failing definition is logged and skipped; the remaining ones are still tried.
func (r *Registry) ApplyAll(catalog Catalog) Summary {
	ordered := r.ResolveApplicationOrder()
	summary := Summary{Total: len(ordered)}

	for _, def := range ordered {
		if def.Applied {
			summary.Applied++
			continue
		}

		if err := apply(catalog, def); err != nil {
			appErr := &ApplicationError{Key: def.Key(), Kind: def.Kind, Module: def.OwningModule, Err: err}
			r.log.Errorw("Failed to apply relationship",
				"source", def.SourceType,
				"target", def.TargetType,
				"kind", def.Kind.String(),
				"alias", def.Alias,
				"module", def.OwningModule,
				"error", err,
			)
			summary.Failures = append(summary.Failures, appErr)
			continue
		}

		def.Applied = true
		summary.Applied++
	}

	r.log.Infof("Applied %d/%d relationships", summary.Applied, summary.Total)
	return summary
}

func apply(catalog Catalog, def *Definition) error {
	source, ok := catalog.Descriptor(def.SourceType)
	if !ok {
		return fmt.Errorf("unknown source entity type %q", def.SourceType)
	}
	target, ok := catalog.Descriptor(def.TargetType)
	if !ok {
		return fmt.Errorf("unknown target entity type %q", def.TargetType)
	}

	switch def.Kind {
	case ManyToOne:
		return source.BelongsTo(target, def)
	case OneToOne:
		return source.HasOne(target, def)
	case OneToMany:
		return source.HasMany(target, def)
	case ManyToMany:
		through, ok := catalog.Descriptor(def.Through)
		if !ok {
			return fmt.Errorf("unknown through entity type %q", def.Through)
		}
		return source.BelongsToMany(target, through, def)
	default:
		return fmt.Errorf("unsupported relationship kind %s", def.Kind)
	}
}

// Reset clears every registration. Test harnesses only.
func (r *Registry) Reset() {
	r.definitions = nil
	r.byKey = make(map[Key]*Definition)
}
