package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/metrics"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func TestHub_PublishSubscribe(t *testing.T) {
	rdb, _ := setupRedis(t)
	hub := NewHub(rdb, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, "u-2")
	require.NoError(t, err)
	defer sub.Close()

	before := testutil.ToFloat64(metrics.RealtimePublishTotal.WithLabelValues("success"))
	hub.Publish(ctx, &model.Notification{ID: "n-1", UserID: "u-2", Type: model.NotificationBookingRequest, Title: "New booking request"})
	hub.Publish(ctx, &model.Notification{ID: "n-2", UserID: "someone-else", Title: "not for u-2"})

	select {
	case raw := <-sub.Events():
		var got model.Notification
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "n-1", got.ID)
		assert.Equal(t, model.NotificationBookingRequest, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	select {
	case raw := <-sub.Events():
		t.Fatalf("unexpected event %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.RealtimePublishTotal.WithLabelValues("success")))
}

func TestHub_SubscriptionClosesWithContext(t *testing.T) {
	rdb, _ := setupRedis(t)
	hub := NewHub(rdb, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := hub.Subscribe(ctx, "u-1")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestHub_PublishFailureIsSwallowed(t *testing.T) {
	rdb, mr := setupRedis(t)
	hub := NewHub(rdb, zap.NewNop())
	mr.Close()

	before := testutil.ToFloat64(metrics.RealtimePublishTotal.WithLabelValues("error"))
	hub.Publish(context.Background(), &model.Notification{ID: "n-1", UserID: "u-1"})
	hub.Publish(context.Background(), nil)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RealtimePublishTotal.WithLabelValues("error")))
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "notifications:u-9", Channel("u-9"))
}
