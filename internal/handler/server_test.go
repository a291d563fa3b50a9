package handler

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

func TestNewServer_ShutdownEndsNotificationStream(t *testing.T) {
	env := setupTest(t)
	token := env.loginAs(t, "u-1", model.RoleUser)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := NewServer(ln.Addr().String(), env.router)
	served := make(chan error, 1)
	go func() { served <- server.Serve(ln) }()

	req, err := http.NewRequest(http.MethodGet, "http://"+ln.Addr().String()+"/api/notifications/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "event: ready"), line)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	assert.NoError(t, server.Shutdown(ctx))
	assert.Less(t, time.Since(start), 900*time.Millisecond)
	assert.ErrorIs(t, <-served, http.ErrServerClosed)
}
