package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/config"
)

// Database is a throwaway database container and the configuration that reaches it.
type Database struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container.
func (d *Database) Terminate(t *testing.T) {
	if d == nil || d.Container == nil {
		return
	}
	if err := d.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate database: %v", err)
	}
}

// RequireDatabase starts the database image named by DB_IMAGE for t, skipping the
// test under -short or when no image is configured.
func RequireDatabase(t *testing.T) *Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if os.Getenv("DB_IMAGE") == "" {
		t.Skip("DB_IMAGE is not set")
	}

	db, err := StartDatabase(context.Background(), t)
	if err != nil {
		t.Fatalf("Failed to start database: %v", err)
	}
	t.Cleanup(func() { db.Terminate(t) })
	return db
}

// StartDatabase starts a postgres or mysql/mariadb container from DB_IMAGE,
// following DB_TYPE, DB_PORT, DB_DATABASE, DB_USER and DB_PASSWORD. t may be nil
// outside tests.
func StartDatabase(ctx context.Context, t *testing.T) (*Database, error) {
	dbType := getEnv("DB_TYPE", "postgres")
	image := os.Getenv("DB_IMAGE")
	if image == "" {
		return nil, fmt.Errorf("DB_IMAGE is required")
	}

	cfg := &config.Config{
		DBType:            dbType,
		DBDatabase:        getEnv("DB_DATABASE", "schooldb"),
		DBUser:            getEnv("DB_USER", "schooldb"),
		DBPassword:        getEnv("DB_PASSWORD", "schooldb"),
		DBSchema:          os.Getenv("DB_SCHEMA"),
		DBConnectionLimit: 4,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		SyncAlter:         true,
	}

	tcpDbPort, err := nat.NewPort("tcp", getEnv("DB_PORT", defaultPort(dbType)))
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	var waitFor wait.Strategy = wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second)
	if dbType == "postgres" {
		// postgres restarts once after running its init scripts
		waitFor = wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(tcpDbPort),
		).WithDeadline(90 * time.Second)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpDbPort)},
			Env:          getDBInitEnvMap(cfg),
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start database: %w", err)
	}

	db := &Database{Container: container, Config: cfg}

	host, err := container.Host(ctx)
	if err != nil {
		db.Terminate(t)
		return nil, fmt.Errorf("failed to get database host: %w", err)
	}
	port, err := container.MappedPort(ctx, tcpDbPort)
	if err != nil {
		db.Terminate(t)
		return nil, fmt.Errorf("failed to get database port: %w", err)
	}
	cfg.DBHost = host
	cfg.DBPort = port.Port()

	logMessage(t, "DB_HOST=%s DB_PORT=%s", cfg.DBHost, cfg.DBPort)
	return db, nil
}

func getDBInitEnvMap(cfg *config.Config) map[string]string {
	switch cfg.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": cfg.DBPassword,
			"POSTGRES_USER":     cfg.DBUser,
			"POSTGRES_DB":       cfg.DBDatabase,
		}
	case "mariadb", "mysql":
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": cfg.DBPassword,
			"MYSQL_DATABASE":      cfg.DBDatabase,
			"MYSQL_USER":          cfg.DBUser,
			"MYSQL_PASSWORD":      cfg.DBPassword,
		}
	}
	return nil
}

func defaultPort(dbType string) string {
	switch dbType {
	case "mariadb", "mysql":
		return "3306"
	default:
		return "5432"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
