// common.go
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
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseList extracts the values of a query parameter, supporting both repeated
// keys and comma-separated values. Duplicates are dropped and the result is sorted.
func parseList(c *fiber.Ctx, name string) []string {
	seen := make(map[string]struct{})

	// Visit all query arguments to collect repeated parameters
	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) != name {
			continue
		}
		for _, v := range strings.Split(string(value), ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	values := make([]string, 0, len(seen))
	for k := range seen {
		values = append(values, k)
	}
	sort.Strings(values)

	return values
}
