package utils

import (
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	assert.NoError(t, PingServer(port))
	assert.ErrorContains(t, PingService("://bad", 0), "invalid URL")

	require.NoError(t, ln.Close())
	assert.ErrorContains(t, PingServer(port), "failed to connect")
}

func TestServiceAddressDefaultPorts(t *testing.T) {
	cases := map[string]string{
		"http://schooldb.internal":      "schooldb.internal:80",
		"https://schooldb.internal":     "schooldb.internal:443",
		"http://schooldb.internal:3000": "schooldb.internal:3000",
		"tcp://schooldb.internal":       "schooldb.internal:80",
		"http://[::1]":                  "[::1]:80",
	}
	for in, want := range cases {
		got, err := serviceAddress(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestUnavailableResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/api/schema/sync", func(c *fiber.Ctx) error {
		return UnavailableResponse(c, "starting")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/schema/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get(fiber.HeaderRetryAfter))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got ErrorResponseStruct
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Schema is starting", got.Message)
	assert.Equal(t, "/api/schema/sync", got.URL)
	assert.False(t, got.Ok)
}
