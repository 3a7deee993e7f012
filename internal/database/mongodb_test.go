package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captiveportal/portal-cms/internal/config"
)

func TestConnectRequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), config.MongoDBConfig{})
	require.Error(t, err)
}

func TestConnectGivesUpAfterAttempts(t *testing.T) {
	cfg := config.MongoDBConfig{URI: "notmongo://localhost", Timeout: time.Second}
	_, err := Connect(context.Background(), cfg, WithRetry(3, time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestConnectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.MongoDBConfig{URI: "notmongo://localhost", Timeout: time.Second}
	_, err := Connect(ctx, cfg, WithRetry(5, time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
}
