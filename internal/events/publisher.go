package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionEndedChannel is the pub/sub channel downstream services subscribe to.
const SessionEndedChannel = "session_ended"

// SessionEnded is published once per finished session, after the feedback
// handoff has been attempted.
type SessionEnded struct {
	SessionID    string    `json:"sessionId"`
	Mode         string    `json:"mode"`
	InterviewID  string    `json:"interviewId,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	FeedbackID   string    `json:"feedbackId,omitempty"`
	MessageCount int       `json:"messageCount"`
	Success      bool      `json:"success"`
	EndedAt      time.Time `json:"endedAt"`
}

// Notifier is the narrow interface session code depends on.
type Notifier interface {
	SessionEnded(ctx context.Context, event SessionEnded) error
}

// Publisher fans session lifecycle events out over redis pub/sub.
type Publisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewPublisher(redisAddr string, logger *zap.Logger) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &Publisher{rdb: rdb, logger: logger}
}

func (p *Publisher) SessionEnded(ctx context.Context, event SessionEnded) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, SessionEndedChannel, data).Err(); err != nil {
		p.logger.Warn("failed to publish session_ended event",
			zap.Error(err),
			zap.String("session_id", event.SessionID))
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
