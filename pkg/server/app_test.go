package server

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"VolDash/internal/service/ratelimit"
	"VolDash/pkg/cache"
	"VolDash/pkg/config"
	xhttp "VolDash/pkg/http"
	applogger "VolDash/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRunContextShutsDownOnCancel(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.Port = freePort(t)

	var logs bytes.Buffer
	l := applogger.NewWriter(&logs, "debug")
	reg := prometheus.NewRegistry()
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithMetrics("", reg, reg),
	)
	mem := cache.NewMemoryCache()
	app := New(cfg, l, srv, mem, ratelimit.New(1, 1))
	assert.Same(t, srv, app.Server())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port)), 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not return after cancel")
	}
	assert.Contains(t, logs.String(), "shutdown complete")
}

func TestRunContextReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	cfg, err := config.Default()
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(port),
		xhttp.WithMetrics("", reg, reg),
	)
	app := New(cfg, nil, srv, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, app.RunContext(ctx))
}
