// main.go
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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/services"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/utils"
)

var log = logging.GetPackageLogger("healthcheck")

func main() {
	os.Exit(run())
}

func run() int {
	defer logging.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		return 1
	}
	logging.SetLevel(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return 1
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Perform health check
	result := services.HealthCheck(ctx, cfg, db, nil)

	// The server must also be listening
	if err := utils.PingServer(cfg.Port); err != nil {
		result.Status = "unhealthy"
		result.Details["server_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = fmt.Sprintf("Server ping failed: %v", err)
		} else {
			result.ErrorMessage += fmt.Sprintf("; Server ping failed: %v", err)
		}
	}

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Errorf("Failed to marshal health check result: %v", err)
		return 1
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		return 1
	}
	return 0
}
