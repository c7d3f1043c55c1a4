package voice

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/session"
)

// Frame is the JSON envelope the voice gateway speaks in both directions.
// Client-to-gateway frames are "start" and "stop"; everything else flows
// gateway-to-client.
type Frame struct {
	Type      string            `json:"type"`
	Target    string            `json:"target,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	Message   *Message          `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Message is the payload of a "message" frame. Only transcript messages with
// transcriptType "final" are acted on; partials and other message types are
// dropped here so the session never sees them.
type Message struct {
	Type           string `json:"type"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Role           string `json:"role,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
}

const (
	frameStart       = "start"
	frameStop        = "stop"
	frameCallStart   = "call-start"
	frameCallEnd     = "call-end"
	frameMessage     = "message"
	frameSpeechStart = "speech-start"
	frameSpeechEnd   = "speech-end"
	frameError       = "error"

	messageTranscript   = "transcript"
	transcriptTypeFinal = "final"
)

// Client drives one realtime call through the voice gateway. It dials the
// gateway, sends a start frame, and forwards gateway events to the session
// until the call ends. One Client serves one call.
type Client struct {
	url    string
	logger *zap.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	stopped bool
}

func NewClient(url string, logger *zap.Logger) *Client {
	return &Client{url: url, logger: logger}
}

func (c *Client) Start(ctx context.Context, target string, variables map[string]string, deliver func(session.Event)) error {
	if c.url == "" {
		return errors.New("voice gateway URL is not configured")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if err := conn.WriteJSON(Frame{Type: frameStart, Target: target, Variables: variables}); err != nil {
		conn.Close()
		return err
	}

	go c.readLoop(conn, deliver)
	return nil
}

// Stop terminates the call immediately. Safe to call more than once and
// before Start.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.conn != nil {
		_ = c.conn.WriteJSON(Frame{Type: frameStop})
		_ = c.conn.Close()
	}
}

func (c *Client) readLoop(conn *websocket.Conn, deliver func(session.Event)) {
	defer conn.Close()
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			c.mu.Lock()
			stopped := c.stopped
			c.mu.Unlock()
			if !stopped {
				// The gateway went away without a call-end frame. Surface
				// the error, then end the call so the session reaches its
				// terminal state.
				c.logger.Warn("voice gateway connection lost", zap.Error(err))
				deliver(session.Event{Type: session.EventError, Err: err})
				deliver(session.Event{Type: session.EventCallEnded})
			}
			return
		}

		switch frame.Type {
		case frameCallStart:
			deliver(session.Event{Type: session.EventCallStarted})
		case frameCallEnd:
			deliver(session.Event{Type: session.EventCallEnded})
			return
		case frameMessage:
			if evt, ok := transcriptEvent(frame.Message); ok {
				deliver(evt)
			}
		case frameSpeechStart:
			deliver(session.Event{Type: session.EventSpeechStarted})
		case frameSpeechEnd:
			deliver(session.Event{Type: session.EventSpeechStopped})
		case frameError:
			deliver(session.Event{Type: session.EventError, Err: errors.New(frame.Error)})
		default:
			c.logger.Debug("ignoring unknown gateway frame", zap.String("type", frame.Type))
		}
	}
}

func transcriptEvent(msg *Message) (session.Event, bool) {
	if msg == nil || msg.Type != messageTranscript || msg.TranscriptType != transcriptTypeFinal {
		return session.Event{}, false
	}
	return session.Event{
		Type: session.EventTranscript,
		Role: msg.Role,
		Text: msg.Transcript,
	}, true
}
