// schema.go
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

package services

import (
	"sort"
	"sync"
	"time"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/bootstrap"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/relations"
)

// Schema states reported by SchemaStatus.
const (
	SchemaStarting = "starting"
	SchemaReady    = "ready"
	SchemaDegraded = "degraded"
	SchemaFailed   = "failed"
)

// RelationshipView is one declared relationship as exposed by the ops API.
type RelationshipView struct {
	relations.Definition `yaml:",inline"`

	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	OrderBy string `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RelationshipsResult is the relationships report.
type RelationshipsResult struct {
	Applied       int                `json:"applied" yaml:"applied"`
	Total         int                `json:"total" yaml:"total"`
	Relationships []RelationshipView `json:"relationships" yaml:"relationships"`
}

// SyncResult is the last synchronization report.
type SyncResult struct {
	Status    string                 `json:"status" yaml:"status"`
	Error     string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Tolerated []string               `json:"tolerated,omitempty" yaml:"tolerated,omitempty"`
	Counts    map[database.State]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	Report    *database.SyncReport   `json:"report,omitempty" yaml:"report,omitempty"`
}

// SchemaStatus holds the outcome of the bootstrap run for the ops API. It is
// written once by the bootstrap flow and read by request handlers.
type SchemaStatus struct {
	mu       sync.RWMutex
	result   *bootstrap.Result
	err      error
	finished time.Time
}

// NewSchemaStatus returns a status in the starting state.
func NewSchemaStatus() *SchemaStatus {
	return &SchemaStatus{}
}

// Set records a bootstrap outcome. result may be partial when err is set.
func (s *SchemaStatus) Set(result *bootstrap.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.err = err
	s.finished = time.Now().UTC()
}

// State summarizes the bootstrap outcome.
func (s *SchemaStatus) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state()
}

func (s *SchemaStatus) state() string {
	switch {
	case s.err != nil:
		return SchemaFailed
	case s.result == nil:
		return SchemaStarting
	case !s.result.Summary.Complete():
		return SchemaDegraded
	case s.result.Report != nil && s.result.Report.Tolerated() != nil:
		return SchemaDegraded
	}
	return SchemaReady
}

// Relationships lists the declared relationships, optionally limited to the given
// owning modules, with their applied state.
func (s *SchemaStatus) Relationships(modules []string) (RelationshipsResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return RelationshipsResult{}, false
	}
	return DescribeRelationships(s.result, modules), true
}

// Sync returns the last synchronization report.
func (s *SchemaStatus) Sync() SyncResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := SyncResult{Status: s.state()}
	if s.err != nil {
		out.Error = s.err.Error()
	}
	if s.result == nil || s.result.Report == nil {
		return out
	}
	out.Report = s.result.Report
	out.Counts = s.result.Report.Counts()
	for _, e := range s.result.Report.Entities {
		if e.State == database.StateFailedTolerated {
			out.Tolerated = append(out.Tolerated, e.Entity)
		}
	}
	return out
}

// DescribeRelationships joins the registry's definitions with the catalog's
// applied associations and the application failures.
func DescribeRelationships(result *bootstrap.Result, modules []string) RelationshipsResult {
	wanted := make(map[string]bool, len(modules))
	for _, m := range modules {
		wanted[m] = true
	}

	applied := make(map[relations.Key]database.Association)
	for _, a := range result.Catalog.Associations() {
		applied[relations.Key{Source: a.Source, Target: a.Target, Alias: a.Alias}] = a
	}
	failed := make(map[relations.Key]string)
	for _, f := range result.Summary.Failures {
		failed[f.Key] = f.Err.Error()
	}

	out := RelationshipsResult{Applied: result.Summary.Applied, Total: result.Summary.Total}
	for _, def := range result.Registry.ResolveApplicationOrder() {
		if len(wanted) > 0 && !wanted[def.OwningModule] {
			continue
		}
		view := RelationshipView{Definition: *def, OrderBy: def.OrderBy(), Error: failed[def.Key()]}
		if a, ok := applied[def.Key()]; ok {
			view.Field = a.Field
		}
		out.Relationships = append(out.Relationships, view)
	}
	sort.SliceStable(out.Relationships, func(i, j int) bool {
		return out.Relationships[i].OwningModule < out.Relationships[j].OwningModule
	})
	return out
}
