package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
)

var log = logging.GetPackageLogger("services")

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Schema       string            `json:"schema,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks database connectivity and, when status is given, the outcome
// of schema bootstrap. A degraded schema is reported but still healthy.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, status *SchemaStatus) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Warnf("Health check failed - database connection: %v", err)
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Warnf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	if status != nil {
		result.Schema = status.State()
		switch result.Schema {
		case SchemaFailed, SchemaStarting:
			result.Status = "unhealthy"
			msg := fmt.Sprintf("Schema %s", result.Schema)
			if result.ErrorMessage == "" {
				result.ErrorMessage = msg
			} else {
				result.ErrorMessage += "; " + msg
			}
		}
	}

	if result.Status == "healthy" {
		log.Debug("Health check passed - all systems operational")
	}

	return result
}
