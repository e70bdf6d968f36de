// bootstrap.go
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

// Package bootstrap sequences schema startup: feature modules describe their
// relationships, the registry applies them to the live entity descriptors, and
// the synchronizer brings the tables in line.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/features/academics"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/features/rbac"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/features/users"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/metrics"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
)

var log = logging.GetPackageLogger("bootstrap")

// Module is a feature module that declares relationships.
type Module struct {
	Name     string
	Describe func() []relations.Definition
}

// Modules returns the feature modules of the application.
func Modules() []Module {
	return []Module{
		{Name: academics.ModuleName, Describe: academics.DescribeRelationships},
		{Name: users.ModuleName, Describe: users.DescribeRelationships},
		{Name: rbac.ModuleName, Describe: rbac.DescribeRelationships},
	}
}

// Options controls a bootstrap run.
type Options struct {
	Sync database.SyncOptions
	// AdvisoryLock serializes synchronization across replicas on postgres.
	AdvisoryLock bool
	// Schema is the schema the introspector inspects. Empty means the
	// connection's active schema.
	Schema string
	// Modules overrides the feature modules, EntityTypes the entity types.
	Modules     []Module
	EntityTypes []database.EntityType
	Logger      *zap.SugaredLogger
}

// Result is what a bootstrap run produced.
type Result struct {
	Summary  relations.Summary
	Report   *database.SyncReport
	Registry *relations.Registry
	Catalog  *database.Catalog
}

// Relate runs the declaration phases: it collects the relationships of every
// module, registers them and applies them to a catalog over db. Configuration
// errors are returned; application failures are only logged and kept in the
// summary.
func Relate(db *gorm.DB, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log
	}
	modules := opts.Modules
	if modules == nil {
		modules = Modules()
	}
	types := opts.EntityTypes
	if types == nil {
		types = EntityTypes()
	}

	catalog, err := database.NewCatalog(db, types...)
	if err != nil {
		return nil, err
	}

	var defs []relations.Definition
	for _, m := range modules {
		described := m.Describe()
		logger.Debugw("Collected relationships", "module", m.Name, "count", len(described))
		defs = append(defs, described...)
	}

	registry := relations.NewRegistry(logger.Desugar().Named("relations").Sugar())
	if err := registry.RegisterAll(defs); err != nil {
		return nil, fmt.Errorf("invalid relationship configuration: %w", err)
	}

	summary := registry.ApplyAll(catalog)
	metrics.ObserveRelationships(summary.Applied, summary.Total)
	if !summary.Complete() {
		logger.Warnw("Some relationships were not applied", "applied", summary.Applied, "total", summary.Total, "failures", len(summary.Failures))
	}

	return &Result{Summary: summary, Registry: registry, Catalog: catalog}, nil
}

// Run relates the entity types and synchronizes their tables. A base table
// failure is returned as a *database.SyncError together with the partial result.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	result, err := Relate(db, opts)
	if err != nil {
		return nil, err
	}

	sync := database.NewSynchronizer(db, database.NewIntrospector(db, opts.Schema))
	pass := func(ctx context.Context) error {
		report, err := sync.Synchronize(ctx, result.Catalog.Ordered(), opts.Sync)
		result.Report = report
		return err
	}

	if opts.AdvisoryLock {
		err = database.WithAdvisoryLock(ctx, db, database.SchemaLockKey, pass)
	} else {
		err = pass(ctx)
	}
	return result, err
}
