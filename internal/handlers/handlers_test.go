package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/data"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/bootstrap"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/database"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/middleware"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/services"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/utils"
)

type fixture struct {
	app    *fiber.App
	db     *gorm.DB
	status *services.SchemaStatus
}

// setupApp routes the ops API over a fresh sqlite database. Schema bootstrap is
// left to the test.
func setupApp(t *testing.T, fixtures ...string) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	for _, f := range fixtures {
		require.NoError(t, testutil.ExecScript(db, f))
	}

	status := services.NewSchemaStatus()
	app := fiber.New()
	api := app.Group("/api", middleware.VersionMiddleware())

	health := &HealthHandler{Config: &config.Config{DBType: "sqlite", DBDatabase: "schooldb"}, DB: db, Status: status}
	api.Get("/health", health.GetHealth)

	schema := &SchemaHandler{Status: status}
	group := api.Group("/schema", middleware.SchemaReady(status))
	group.Get("/relationships", schema.GetRelationships)
	group.Get("/sync", schema.GetSync)

	return &fixture{app: app, db: db, status: status}
}

func (f *fixture) bootstrap(t *testing.T) {
	t.Helper()
	result, err := bootstrap.Run(context.Background(), f.db, bootstrap.Options{Sync: database.SyncOptions{Alter: true}})
	f.status.Set(result, err)
}

func get(t *testing.T, app *fiber.App, url string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestSchemaRoutesWaitForBootstrap(t *testing.T) {
	f := setupApp(t)

	var errResp utils.ErrorResponseStruct
	assert.Equal(t, fiber.StatusServiceUnavailable, get(t, f.app, "/api/schema/relationships", &errResp))
	assert.Equal(t, "Schema is starting", errResp.Message)

	var health services.HealthCheckResult
	assert.Equal(t, fiber.StatusServiceUnavailable, get(t, f.app, "/api/health", &health))
	assert.Equal(t, "ok", health.Database)
	assert.Equal(t, services.SchemaStarting, health.Schema)
}

func TestGetHealth(t *testing.T) {
	f := setupApp(t)
	f.bootstrap(t)

	var health services.HealthCheckResult
	require.Equal(t, fiber.StatusOK, get(t, f.app, "/api/health", &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, services.SchemaReady, health.Schema)
	assert.Equal(t, "sqlite", health.Details["database_type"])
}

func TestGetRelationships(t *testing.T) {
	f := setupApp(t)
	f.bootstrap(t)

	var all services.RelationshipsResult
	require.Equal(t, fiber.StatusOK, get(t, f.app, "/api/schema/relationships", &all))
	assert.Equal(t, 18, all.Total)
	assert.Equal(t, 18, all.Applied)
	require.Len(t, all.Relationships, 18)

	var filtered struct {
		Relationships []struct {
			Source string `json:"source"`
			Target string `json:"target"`
			Kind   string `json:"kind"`
			Alias  string `json:"alias"`
			Module string `json:"module"`
			Field  string `json:"field"`
		} `json:"relationships"`
	}
	require.Equal(t, fiber.StatusOK, get(t, f.app, "/api/schema/relationships?modules=users&modules=rbac,users", &filtered))
	require.Len(t, filtered.Relationships, 8)
	assert.Equal(t, "rbac", filtered.Relationships[0].Module)
	assert.Equal(t, "users", filtered.Relationships[7].Module)

	for _, r := range filtered.Relationships {
		if r.Alias == "profile" {
			assert.Equal(t, "Profile", r.Field)
			assert.Equal(t, "OneToOne", r.Kind)
		}
	}
}

func TestGetSync(t *testing.T) {
	f := setupApp(t)
	f.bootstrap(t)

	var sync services.SyncResult
	require.Equal(t, fiber.StatusOK, get(t, f.app, "/api/schema/sync", &sync))
	assert.Equal(t, services.SchemaReady, sync.Status)
	assert.Equal(t, 12, sync.Counts[database.StateSynced])
	require.NotNil(t, sync.Report)
	assert.Len(t, sync.Report.Entities, 12)
}

func TestGetSyncReportsDegradedAndFailed(t *testing.T) {
	t.Run("tolerated join failure", func(t *testing.T) {
		f := setupApp(t, data.DriftJoinTableView)
		f.bootstrap(t)

		var sync services.SyncResult
		require.Equal(t, fiber.StatusOK, get(t, f.app, "/api/schema/sync", &sync))
		assert.Equal(t, services.SchemaDegraded, sync.Status)
		assert.Equal(t, []string{"UserRole"}, sync.Tolerated)

		var health services.HealthCheckResult
		assert.Equal(t, fiber.StatusOK, get(t, f.app, "/api/health", &health))
	})

	t.Run("base table failure", func(t *testing.T) {
		f := setupApp(t, data.DriftBaseTableView)
		f.bootstrap(t)

		var sync services.SyncResult
		require.Equal(t, fiber.StatusInternalServerError, get(t, f.app, "/api/schema/sync", &sync))
		assert.Equal(t, services.SchemaFailed, sync.Status)
		assert.Contains(t, sync.Error, "failed to sync Department")
	})
}

func TestVersionHeader(t *testing.T) {
	f := setupApp(t)
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Api-Version", "1.0")

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, middleware.APIVersion, resp.Header.Get("X-Api-Version"))
}
