package main

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lgadza/mn-school-db-v2-sub003/data"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/logging"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/testutil"
)

func waitFor(t *testing.T, done <-chan struct{}, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal(msg)
	}
}

func TestServeStopsWhenCanceledBeforeAccepting(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	done := make(chan struct{})
	var serveErr error
	go func() {
		defer close(done)
		serveErr = serve(ctx, app, ln)
	}()

	waitFor(t, done, 5*time.Second, "server still running after its context was canceled")
	assert.NoError(t, serveErr)
}

func TestServeShutsDownRunningServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	listening := make(chan struct{})
	app.Hooks().OnListen(func(fiber.ListenData) error {
		close(listening)
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = serve(ctx, app, ln)
	}()

	waitFor(t, listening, 5*time.Second, "server never started")
	cancel()
	waitFor(t, done, 15*time.Second, "server still running after shutdown")
}

func TestRunExitsOnBaseTableFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school.db")

	seed, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logging.GormLogger("silent")})
	require.NoError(t, err)
	require.NoError(t, testutil.ExecScript(seed, data.DriftBaseTableView))
	sqlDB, err := seed.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_DATABASE", path)
	t.Setenv("PORT", "0")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SYNC_ADVISORY_LOCK", "false")

	done := make(chan struct{})
	code := -1
	go func() {
		defer close(done)
		code = run()
	}()

	waitFor(t, done, 30*time.Second, "run did not return after the departments table failed to synchronize")
	assert.Equal(t, 1, code)
}
