package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/f1-standings/internal/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func TestServerStopsWhenContextCancelled(t *testing.T) {
	port := freePort(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	srv := NewServer(config.ServerConfig{Port: port}, handler, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := srv.Start(ctx)

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case <-done:
		t.Fatal("server stopped before cancellation")
	default:
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}

	_, err := http.Get(url)
	assert.Error(t, err)
}

func TestServerDoneWhenListenFails(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer lis.Close()

	port := lis.Addr().(*net.TCPAddr).Port
	srv := NewServer(config.ServerConfig{Port: port}, http.NotFoundHandler(), quietLogger())

	select {
	case <-srv.Start(context.Background()):
	case <-time.After(2 * time.Second):
		t.Fatal("start did not report the failed listener")
	}
}
