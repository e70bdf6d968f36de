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

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/services"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/utils"
)

// SchemaHandler serves the schema status routes
type SchemaHandler struct {
	Status *services.SchemaStatus
}

// GetRelationships handles GET /api/schema/relationships?modules=...
// @Summary Declared relationships
// @Description Relationships declared by the feature modules, in application order, with their applied state
// @Tags Schema
// @Produce json
// @Param modules query string false "Comma-separated list of owning modules to filter"
// @Success 200 {object} services.RelationshipsResult
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /schema/relationships [get]
func (h *SchemaHandler) GetRelationships(c *fiber.Ctx) error {
	result, ok := h.Status.Relationships(parseList(c, "modules"))
	if !ok {
		return utils.UnavailableResponse(c, h.Status.State())
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetSync handles GET /api/schema/sync
// @Summary Schema synchronization report
// @Description Per-entity outcome of the last synchronization pass
// @Tags Schema
// @Produce json
// @Success 200 {object} services.SyncResult
// @Failure 500 {object} services.SyncResult
// @Router /schema/sync [get]
func (h *SchemaHandler) GetSync(c *fiber.Ctx) error {
	result := h.Status.Sync()
	status := fiber.StatusOK
	if result.Status == services.SchemaFailed {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(result)
}
