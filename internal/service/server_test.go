package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServer_Timeouts(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler(), ServerTimeouts{Write: 90 * time.Second}, zap.NewNop())

	assert.Equal(t, 5*time.Second, srv.httpServer.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, srv.httpServer.ReadTimeout)
	assert.Equal(t, 90*time.Second, srv.httpServer.WriteTimeout)
	assert.Equal(t, 120*time.Second, srv.httpServer.IdleTimeout)
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler(), ServerTimeouts{}, zap.NewNop())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	// give ListenAndServe a moment to bind
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
