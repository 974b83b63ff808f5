// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mtracking/analytics/internal/config"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func reserveListenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve listen addr: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func waitForListen(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return errors.New("listen timeout")
}

func testServerConfig(t *testing.T) config.ServerConfig {
	t.Helper()
	return config.ServerConfig{
		ListenAddr:      reserveListenAddr(t),
		ReadTimeout:     1 * time.Second,
		WriteTimeout:    1 * time.Second,
		IdleTimeout:     10 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 2 * time.Second,
	}
}

// runManager starts mgr in the background and returns the channel Start reports on.
func runManager(ctx context.Context, mgr Manager) <-chan error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- mgr.Start(ctx)
	}()
	return errChan
}

func waitResult(t *testing.T, errChan <-chan error) error {
	t.Helper()
	select {
	case err := <-errChan:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
		return nil
	}
}

func TestNewManager_ValidDeps(t *testing.T) {
	mgr, err := NewManager(testServerConfig(t), Deps{
		Logger:     testLogger(),
		APIHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestNewManager_MissingLogger(t *testing.T) {
	_, err := NewManager(config.ServerConfig{ListenAddr: "127.0.0.1:0"}, Deps{
		Logger:     zerolog.Nop(), // Disabled logger
		APIHandler: http.NotFoundHandler(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLogger)
	assert.Contains(t, err.Error(), "logger is required")
}

func TestNewManager_MissingAPIHandler(t *testing.T) {
	_, err := NewManager(config.ServerConfig{ListenAddr: "127.0.0.1:0"}, Deps{
		Logger: testLogger(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestManager_StartStop_OK(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	serverCfg := testServerConfig(t)
	mgr, err := NewManager(serverCfg, Deps{Logger: testLogger(), APIHandler: handler})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := runManager(ctx, mgr)

	require.NoError(t, waitForListen(serverCfg.ListenAddr, 2*time.Second))

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + serverCfg.ListenAddr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	cancel()
	assert.NoError(t, waitResult(t, errChan))
}

func TestManager_StartTwice(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	serverCfg := testServerConfig(t)
	mgr, err := NewManager(serverCfg, Deps{Logger: testLogger(), APIHandler: http.NotFoundHandler()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := runManager(ctx, mgr)
	require.NoError(t, waitForListen(serverCfg.ListenAddr, 2*time.Second))

	err = mgr.Start(ctx)
	assert.ErrorIs(t, err, ErrManagerAlreadyStarted)

	cancel()
	assert.NoError(t, waitResult(t, errChan))
}

func TestManager_Shutdown_TimesOut(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	requestStarted := make(chan struct{})
	releaseHandler := make(chan struct{})
	var once sync.Once
	handler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(requestStarted) })
		select {
		case <-r.Context().Done():
		case <-releaseHandler:
		}
	})

	serverCfg := testServerConfig(t)
	serverCfg.ShutdownTimeout = 100 * time.Millisecond // Very short timeout

	mgr, err := NewManager(serverCfg, Deps{Logger: testLogger(), APIHandler: handler})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := runManager(ctx, mgr)

	require.NoError(t, waitForListen(serverCfg.ListenAddr, 2*time.Second))

	requestDone := make(chan struct{})
	go func() {
		defer close(requestDone)
		client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+serverCfg.ListenAddr, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil {
			_ = resp.Body.Close()
		}
	}()

	select {
	case <-requestStarted:
		// Request is in-flight; shutdown should now hit timeout path.
	case <-time.After(2 * time.Second):
		t.Fatal("expected in-flight request before shutdown")
	}

	cancel()

	err = waitResult(t, errChan)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "shutdown errors")

	close(releaseHandler)

	select {
	case <-requestDone:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked request did not terminate after shutdown")
	}
}

func TestManager_Shutdown_NotStarted(t *testing.T) {
	mgr, err := NewManager(testServerConfig(t), Deps{Logger: testLogger(), APIHandler: http.NotFoundHandler()})
	require.NoError(t, err)

	err = mgr.Shutdown(context.Background())
	assert.ErrorIs(t, err, ErrManagerNotStarted)
}

func TestManager_ShutdownHooksRunLIFO(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	serverCfg := testServerConfig(t)
	mgr, err := NewManager(serverCfg, Deps{Logger: testLogger(), APIHandler: http.NotFoundHandler()})
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	record := func(name string, err error) ShutdownHook {
		return func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "hook %s should run with a bounded context", name)
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return err
		}
	}
	hookErr := errors.New("flush failed")
	mgr.RegisterShutdownHook("deps", record("deps", nil))
	mgr.RegisterShutdownHook("telemetry", record("telemetry", hookErr))
	mgr.RegisterShutdownHook("last", record("last", nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := runManager(ctx, mgr)
	require.NoError(t, waitForListen(serverCfg.ListenAddr, 2*time.Second))

	cancel()
	err = waitResult(t, errChan)
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.Contains(t, err.Error(), "hook telemetry")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"last", "telemetry", "deps"}, order)
}

func TestManager_WithMetrics(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("# HELP test_metric\n"))
	})

	serverCfg := testServerConfig(t)
	serverCfg.MetricsAddr = reserveListenAddr(t)

	mgr, err := NewManager(serverCfg, Deps{
		Logger:         testLogger(),
		APIHandler:     http.NotFoundHandler(),
		MetricsHandler: metricsHandler,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := runManager(ctx, mgr)

	require.NoError(t, waitForListen(serverCfg.MetricsAddr, 2*time.Second))

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + serverCfg.MetricsAddr + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "test_metric")

	cancel()
	assert.NoError(t, waitResult(t, errChan))
}

func TestManager_MetricsSkippedWithoutAddr(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	serverCfg := testServerConfig(t)
	mgr, err := NewManager(serverCfg, Deps{
		Logger:         testLogger(),
		APIHandler:     http.NotFoundHandler(),
		MetricsHandler: http.NotFoundHandler(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := runManager(ctx, mgr)
	require.NoError(t, waitForListen(serverCfg.ListenAddr, 2*time.Second))

	impl, ok := mgr.(*manager)
	require.True(t, ok)
	impl.mu.Lock()
	metricsServer := impl.metricsServer
	impl.mu.Unlock()
	assert.Nil(t, metricsServer)

	cancel()
	assert.NoError(t, waitResult(t, errChan))
}

func TestManager_PropagatesListenErrors(t *testing.T) {
	// First, start a server on a known port
	testServer := httptest.NewServer(http.NotFoundHandler())
	defer testServer.Close()

	serverCfg := testServerConfig(t)
	serverCfg.ListenAddr = testServer.Listener.Addr().String() // Try to bind to already-bound port
	serverCfg.ShutdownTimeout = 1 * time.Second

	mgr, err := NewManager(serverCfg, Deps{Logger: testLogger(), APIHandler: http.NotFoundHandler()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = mgr.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server (HTTP)")
}
