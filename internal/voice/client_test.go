package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/session"
)

var upgrader = websocket.Upgrader{}

// fakeGateway accepts one connection, records the start frame, and plays
// back a scripted list of frames.
type fakeGateway struct {
	t      *testing.T
	script []Frame

	mu         sync.Mutex
	startFrame *Frame
}

func (g *fakeGateway) handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.t.Errorf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var start Frame
	if err := conn.ReadJSON(&start); err != nil {
		g.t.Errorf("failed to read start frame: %v", err)
		return
	}
	g.mu.Lock()
	g.startFrame = &start
	g.mu.Unlock()

	for _, frame := range g.script {
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}

	// Hold the connection open until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (g *fakeGateway) receivedStart() *Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startFrame
}

func startGateway(t *testing.T, script []Frame) (*fakeGateway, string) {
	t.Helper()
	gateway := &fakeGateway{t: t, script: script}
	server := httptest.NewServer(http.HandlerFunc(gateway.handler))
	t.Cleanup(server.Close)
	return gateway, "ws" + strings.TrimPrefix(server.URL, "http")
}

type eventSink struct {
	mu     sync.Mutex
	events []session.Event
}

func (s *eventSink) deliver(evt session.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *eventSink) snapshot() []session.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *eventSink) waitFor(t *testing.T, eventType session.EventType) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, evt := range s.snapshot() {
			if evt.Type == eventType {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientSendsStartFrame(t *testing.T) {
	gateway, url := startGateway(t, []Frame{{Type: frameCallEnd}})
	client := NewClient(url, zap.NewNop())
	sink := &eventSink{}

	err := client.Start(context.Background(), "interviewer", map[string]string{"questions": "- one"}, sink.deliver)
	require.NoError(t, err)
	defer client.Stop()

	sink.waitFor(t, session.EventCallEnded)

	start := gateway.receivedStart()
	require.NotNil(t, start)
	assert.Equal(t, frameStart, start.Type)
	assert.Equal(t, "interviewer", start.Target)
	assert.Equal(t, "- one", start.Variables["questions"])
}

func TestClientMapsGatewayFrames(t *testing.T) {
	_, url := startGateway(t, []Frame{
		{Type: frameCallStart},
		{Type: frameSpeechStart},
		{Type: frameMessage, Message: &Message{Type: messageTranscript, TranscriptType: transcriptTypeFinal, Role: "user", Transcript: "hello"}},
		{Type: frameSpeechEnd},
		{Type: frameCallEnd},
	})
	client := NewClient(url, zap.NewNop())
	sink := &eventSink{}

	require.NoError(t, client.Start(context.Background(), "interviewer", nil, sink.deliver))
	defer client.Stop()

	sink.waitFor(t, session.EventCallEnded)

	got := sink.snapshot()
	types := make([]session.EventType, 0, len(got))
	for _, evt := range got {
		types = append(types, evt.Type)
	}
	assert.Equal(t, []session.EventType{
		session.EventCallStarted,
		session.EventSpeechStarted,
		session.EventTranscript,
		session.EventSpeechStopped,
		session.EventCallEnded,
	}, types)
	assert.Equal(t, "hello", got[2].Text)
	assert.Equal(t, "user", got[2].Role)
}

func TestClientDropsPartialTranscripts(t *testing.T) {
	_, url := startGateway(t, []Frame{
		{Type: frameMessage, Message: &Message{Type: messageTranscript, TranscriptType: "partial", Role: "user", Transcript: "hel"}},
		{Type: frameMessage, Message: &Message{Type: messageTranscript, TranscriptType: transcriptTypeFinal, Role: "user", Transcript: "hello"}},
		{Type: frameMessage, Message: &Message{Type: "status-update", Role: "system"}},
		{Type: frameCallEnd},
	})
	client := NewClient(url, zap.NewNop())
	sink := &eventSink{}

	require.NoError(t, client.Start(context.Background(), "interviewer", nil, sink.deliver))
	defer client.Stop()

	sink.waitFor(t, session.EventCallEnded)

	var transcripts []string
	for _, evt := range sink.snapshot() {
		if evt.Type == session.EventTranscript {
			transcripts = append(transcripts, evt.Text)
		}
	}
	assert.Equal(t, []string{"hello"}, transcripts)
}

func TestClientSurfacesErrorFrames(t *testing.T) {
	_, url := startGateway(t, []Frame{
		{Type: frameError, Error: "assistant crashed"},
		{Type: frameCallEnd},
	})
	client := NewClient(url, zap.NewNop())
	sink := &eventSink{}

	require.NoError(t, client.Start(context.Background(), "interviewer", nil, sink.deliver))
	defer client.Stop()

	sink.waitFor(t, session.EventCallEnded)

	got := sink.snapshot()
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, session.EventError, got[0].Type)
	assert.EqualError(t, got[0].Err, "assistant crashed")
}

func TestClientConnectionLossEndsCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		var start Frame
		_ = conn.ReadJSON(&start)
		// Drop the connection without a call-end frame.
		conn.Close()
	}))
	t.Cleanup(server.Close)
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	client := NewClient(url, zap.NewNop())
	sink := &eventSink{}

	require.NoError(t, client.Start(context.Background(), "interviewer", nil, sink.deliver))
	defer client.Stop()

	sink.waitFor(t, session.EventError)
	sink.waitFor(t, session.EventCallEnded)
}

func TestClientStartFailsWithoutURL(t *testing.T) {
	client := NewClient("", zap.NewNop())
	err := client.Start(context.Background(), "interviewer", nil, func(session.Event) {})
	assert.Error(t, err)
}

func TestClientStopIdempotent(t *testing.T) {
	_, url := startGateway(t, nil)
	client := NewClient(url, zap.NewNop())
	sink := &eventSink{}

	require.NoError(t, client.Start(context.Background(), "interviewer", nil, sink.deliver))

	client.Stop()
	client.Stop()
}
