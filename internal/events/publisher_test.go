package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisherPublishesSessionEnded(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	subscriber := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { subscriber.Close() })

	sub := subscriber.Subscribe(context.Background(), SessionEndedChannel)
	t.Cleanup(func() { sub.Close() })

	// Wait for the subscription before publishing.
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	publisher := NewPublisher(mr.Addr(), zap.NewNop())
	t.Cleanup(func() { publisher.Close() })

	event := SessionEnded{
		SessionID:    "session-1",
		Mode:         "interview",
		InterviewID:  "iv-1",
		UserID:       "user-1",
		FeedbackID:   "fb-1",
		MessageCount: 4,
		Success:      true,
		EndedAt:      time.Now().UTC(),
	}
	require.NoError(t, publisher.SessionEnded(context.Background(), event))

	select {
	case msg := <-sub.Channel():
		var got SessionEnded
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "session-1", got.SessionID)
		assert.Equal(t, "fb-1", got.FeedbackID)
		assert.Equal(t, 4, got.MessageCount)
		assert.True(t, got.Success)
	case <-time.After(2 * time.Second):
		t.Fatal("no session_ended event received")
	}
}

func TestPublisherErrorWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	publisher := NewPublisher(addr, zap.NewNop())
	t.Cleanup(func() { publisher.Close() })

	err = publisher.SessionEnded(context.Background(), SessionEnded{SessionID: "session-1"})
	assert.Error(t, err)
}
