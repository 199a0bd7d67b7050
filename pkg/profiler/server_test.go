package profiler

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	server := New(0, zerolog.Nop())
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})
	return server
}

func TestServer_BindsLoopback(t *testing.T) {
	server := New(0, zerolog.Nop())
	assert.Empty(t, server.Addr())

	require.NoError(t, server.Start(context.Background()))
	defer func() { _ = server.Shutdown(context.Background()) }()

	assert.True(t, strings.HasPrefix(server.Addr(), "127.0.0.1:"), server.Addr())
	assert.Equal(t, "http://"+server.Addr()+"/debug/pprof/", server.URL())
}

func TestServer_PortInUse(t *testing.T) {
	first := startServer(t)

	_, portStr, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	second := New(port, zerolog.Nop())
	assert.Error(t, second.Start(context.Background()))
}

func TestServer_PprofEndpoints(t *testing.T) {
	server := startServer(t)
	baseURL := "http://" + server.Addr()

	tests := []struct {
		name     string
		endpoint string
	}{
		{name: "index", endpoint: "/debug/pprof/"},
		{name: "cmdline", endpoint: "/debug/pprof/cmdline"},
		{name: "symbol", endpoint: "/debug/pprof/symbol"},
		{name: "heap", endpoint: "/debug/pprof/heap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(baseURL + tt.endpoint)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}
