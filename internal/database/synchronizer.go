// synchronizer.go
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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/metrics"
)

// State is the synchronization progress of one entity.
type State string

const (
	StatePending         State = "PENDING"
	StateChecking        State = "CHECKING"
	StateSyncing         State = "SYNCING"
	StateRepairing       State = "REPAIRING"
	StateRecreated       State = "RECREATED"
	StateSynced          State = "SYNCED"
	StateFailed          State = "FAILED"
	StateFailedTolerated State = "FAILED_TOLERATED"
)

// SyncOptions controls a synchronization pass.
type SyncOptions struct {
	// Force drops every join table before the pass so they are rebuilt from the models.
	Force bool
	// Alter adds missing columns, indexes and constraints to existing tables.
	// Without it existing tables are left untouched.
	Alter bool
}

// EntityReport is the outcome for one entity.
type EntityReport struct {
	Entity   string `json:"entity" yaml:"entity"`
	Table    string `json:"table" yaml:"table"`
	Join     bool   `json:"join" yaml:"join"`
	State    State  `json:"state" yaml:"state"`
	Repaired bool   `json:"repaired,omitempty" yaml:"repaired,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SyncReport collects the outcome of a synchronization pass.
type SyncReport struct {
	Entities   []*EntityReport `json:"entities" yaml:"entities"`
	StartedAt  time.Time       `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt" yaml:"finishedAt"`

	tolerated *multierror.Error
}

// Tolerated returns the join-table failures the pass continued past, or nil.
func (r *SyncReport) Tolerated() error {
	return r.tolerated.ErrorOrNil()
}

// Entity returns the report for the named entity.
func (r *SyncReport) Entity(name string) (*EntityReport, bool) {
	for _, e := range r.Entities {
		if e.Entity == name {
			return e, true
		}
	}
	return nil, false
}

// Counts tallies entities by state.
func (r *SyncReport) Counts() map[State]int {
	counts := make(map[State]int)
	for _, e := range r.Entities {
		counts[e.State]++
	}
	return counts
}

// Synchronizer creates and repairs the tables behind a list of entity types.
type Synchronizer struct {
	db           *gorm.DB
	introspector *Introspector
	log          *zap.SugaredLogger
}

// NewSynchronizer returns a synchronizer that consults introspector for its repair
// decisions.
func NewSynchronizer(db *gorm.DB, introspector *Introspector) *Synchronizer {
	return &Synchronizer{db: db, introspector: introspector, log: log}
}

// Synchronize brings the tables of types in line with their models, one entity at
// a time and in the given order. A join table that is missing, lacks a key column
// or fails to sync is recreated; if that fails too the entity is marked
// FAILED_TOLERATED and the pass continues. A base table failure stops the pass and
// is returned as a *SyncError; later entities stay PENDING.
func (s *Synchronizer) Synchronize(ctx context.Context, types []EntityType, opts SyncOptions) (*SyncReport, error) {
	report := &SyncReport{StartedAt: time.Now().UTC()}
	for _, t := range types {
		report.Entities = append(report.Entities, &EntityReport{Entity: t.Name, Join: t.IsJoin(), State: StatePending})
	}

	s.log.Infow("Starting schema synchronization", "entities", len(types), "force", opts.Force, "alter", opts.Alter)

	if opts.Force {
		s.dropJoinTables(ctx, types)
	}

	for idx, t := range types {
		if err := s.syncEntity(ctx, t, opts, report, report.Entities[idx]); err != nil {
			report.FinishedAt = time.Now().UTC()
			return report, err
		}
	}

	report.FinishedAt = time.Now().UTC()
	if err := report.Tolerated(); err != nil {
		s.log.Warnw("Schema synchronization finished with tolerated failures", "error", err)
	} else {
		s.log.Infow("Schema synchronization finished", "entities", len(types), "elapsed", report.FinishedAt.Sub(report.StartedAt))
	}
	return report, nil
}

func (s *Synchronizer) syncEntity(ctx context.Context, t EntityType, opts SyncOptions, report *SyncReport, entry *EntityReport) error {
	table, err := s.tableName(t)
	if err != nil {
		syncErr := newSyncError(t, "", err)
		s.finish(entry, StateFailed, syncErr)
		return syncErr
	}
	entry.Table = table

	s.transition(entry, StateChecking)
	exists := s.introspector.TableExists(ctx, table)

	if t.IsJoin() {
		s.dropLegacyTables(ctx, t)
		if !exists || !s.hasJoinKeys(ctx, table, t.JoinKeys) {
			s.log.Warnw("Join table missing or malformed, recreating", "entity", t.Name, "table", table, "exists", exists)
			return s.repair(ctx, t, table, report, entry, nil)
		}
	}

	s.transition(entry, StateSyncing)
	if err := s.migrate(ctx, t, exists, opts.Alter); err != nil {
		if t.IsJoin() {
			s.log.Warnw("Join table sync failed, recreating", "entity", t.Name, "table", table, "error", err)
			return s.repair(ctx, t, table, report, entry, err)
		}

		syncErr := newSyncError(t, table, err)
		s.finish(entry, StateFailed, syncErr)
		s.log.Errorw("Base table sync failed", "entity", t.Name, "table", table, "code", syncErr.Code, "error", err)
		return syncErr
	}

	s.finish(entry, StateSynced, nil)
	return nil
}

// repair recreates a join table once. cause is the sync error that led here, if
// any. A failed recreate is recorded as tolerated and never returned.
func (s *Synchronizer) repair(ctx context.Context, t EntityType, table string, report *SyncReport, entry *EntityReport, cause error) error {
	s.transition(entry, StateRepairing)

	if err := s.Recreate(ctx, t); err != nil {
		if cause != nil {
			err = fmt.Errorf("%w (after sync error: %v)", err, cause)
		}
		syncErr := newSyncError(t, table, err)
		report.tolerated = multierror.Append(report.tolerated, syncErr)
		s.finish(entry, StateFailedTolerated, syncErr)
		s.log.Errorw("Join table repair failed, continuing", "entity", t.Name, "table", table, "code", syncErr.Code, "error", err)
		return nil
	}

	entry.Repaired = true
	s.transition(entry, StateRecreated)
	s.log.Infow("Join table recreated", "entity", t.Name, "table", table)
	s.finish(entry, StateSynced, nil)
	return nil
}

// Recreate drops the entity's table if it exists and creates it from the model.
// Dialects that support it drop with CASCADE.
func (s *Synchronizer) Recreate(ctx context.Context, t EntityType) error {
	m := s.db.WithContext(ctx).Migrator()
	if err := m.DropTable(t.Model); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if err := m.CreateTable(t.Model); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// migrate creates a missing table and, with alter, adds the columns, indexes and
// foreign keys an existing table lacks. Join tables of the entity's own
// many-to-many fields are never touched here; they are entities of their own.
func (s *Synchronizer) migrate(ctx context.Context, t EntityType, exists, alter bool) error {
	m := s.db.WithContext(ctx).Migrator()
	if !exists {
		return m.CreateTable(t.Model)
	}
	if !alter {
		return nil
	}

	sch, err := parseModel(s.db, t.Model)
	if err != nil {
		return err
	}

	for _, dbName := range sch.DBNames {
		if !m.HasColumn(t.Model, dbName) {
			if err := m.AddColumn(t.Model, dbName); err != nil {
				return fmt.Errorf("failed to add column %s: %w", dbName, err)
			}
		}
	}

	for _, field := range sch.Fields {
		_, indexed := field.TagSettings["INDEX"]
		_, unique := field.TagSettings["UNIQUEINDEX"]
		if (indexed || unique) && !m.HasIndex(t.Model, field.Name) {
			if err := m.CreateIndex(t.Model, field.Name); err != nil {
				return fmt.Errorf("failed to create index on %s: %w", field.DBName, err)
			}
		}
	}

	if s.db.DisableForeignKeyConstraintWhenMigrating {
		return nil
	}
	for _, rel := range sch.Relationships.Relations {
		c := rel.ParseConstraint()
		if c == nil || c.Schema != sch || m.HasConstraint(t.Model, c.Name) {
			continue
		}
		if err := m.CreateConstraint(t.Model, c.Name); err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", c.Name, err)
		}
	}
	return nil
}

func (s *Synchronizer) hasJoinKeys(ctx context.Context, table string, keys []string) bool {
	for _, key := range keys {
		if !s.introspector.ColumnExists(ctx, table, key) {
			s.log.Warnw("Join table is missing a key column", "table", table, "column", key)
			return false
		}
	}
	return true
}

func (s *Synchronizer) dropJoinTables(ctx context.Context, types []EntityType) {
	m := s.db.WithContext(ctx).Migrator()
	for _, t := range types {
		if !t.IsJoin() {
			continue
		}
		s.dropLegacyTables(ctx, t)
		if err := m.DropTable(t.Model); err != nil {
			s.log.Warnw("Failed to drop join table", "entity", t.Name, "code", errorCode(err), "error", err)
			continue
		}
		s.log.Infow("Dropped join table", "entity", t.Name)
	}
}

// dropLegacyTables removes join tables left behind under historic names.
func (s *Synchronizer) dropLegacyTables(ctx context.Context, t EntityType) {
	m := s.db.WithContext(ctx).Migrator()
	for _, legacy := range t.LegacyTables {
		if !s.introspector.TableExists(ctx, legacy) {
			continue
		}
		if err := m.DropTable(legacy); err != nil {
			s.log.Warnw("Failed to drop legacy join table", "entity", t.Name, "table", legacy, "code", errorCode(err), "error", err)
			continue
		}
		s.log.Infow("Dropped legacy join table", "entity", t.Name, "table", legacy)
	}
}

func (s *Synchronizer) tableName(t EntityType) (string, error) {
	if t.Model == nil {
		return "", fmt.Errorf("entity type %q has no model", t.Name)
	}
	sch, err := parseModel(s.db, t.Model)
	if err != nil {
		return "", err
	}
	return sch.Table, nil
}

func (s *Synchronizer) transition(entry *EntityReport, state State) {
	s.log.Debugw("Entity state", "entity", entry.Entity, "from", entry.State, "to", state)
	entry.State = state
}

func (s *Synchronizer) finish(entry *EntityReport, state State, err error) {
	s.transition(entry, state)
	if err != nil {
		entry.Error = err.Error()
	}
	metrics.ObserveSyncState(strings.ToLower(string(state)))
}
