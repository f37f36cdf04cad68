package main

import (
	"context"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/logger"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Addr:           "127.0.0.1:0",
		DBPath:         "file:" + filepath.Join(t.TempDir(), "flashdeck.db"),
		LogLevel:       "ERROR",
		JWTSecret:      "server-test-secret-with-32-characters",
		JWTIssuer:      "flashdeck",
		SessionTTL:     time.Hour,
		MaxUploadBytes: 1 << 20,
	}
}

func quietLogger() *logger.Logger {
	log := logger.New(logger.WithOutput(io.Discard))
	logger.SetDefault(log)
	return log
}

func TestRun_ReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Addr = ln.Addr().String()

	err = run(context.Background(), cfg, quietLogger())
	assert.Error(t, err)
}

func TestRun_RestartsWithPaddedAdminName(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminUsername = " admin "
	cfg.AdminPassword = "password123"

	// Each boot serves until the deadline, then shuts down cleanly.
	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := run(ctx, cfg, quietLogger())
		cancel()
		assert.NoError(t, err, "boot %d", i+1)
	}
}
