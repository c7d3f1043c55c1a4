package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/events"
	"github.com/hatif03/prepwise/internal/feedback"
	"github.com/hatif03/prepwise/internal/models"
)

type fakeCaller struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	startErr error
}

func (f *fakeCaller) Start(_ context.Context, _ string, _ map[string]string, _ func(Event)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return f.startErr
}

func (f *fakeCaller) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeCaller) wasStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakeGenerator struct {
	mu     sync.Mutex
	reqs   []feedback.Request
	result feedback.Result
}

func (f *fakeGenerator) Generate(_ context.Context, req feedback.Request) feedback.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.result
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []events.SessionEnded
}

func (f *fakeNotifier) SessionEnded(_ context.Context, event events.SessionEnded) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func newTestMachine(t *testing.T, cfg Config) (*Machine, chan struct{}) {
	t.Helper()
	done := make(chan struct{})
	cfg.Logger = zap.NewNop()
	cfg.OnClose = func(string) { close(done) }
	if cfg.ID == "" {
		cfg.ID = "session-1"
	}
	if cfg.Caller == nil {
		cfg.Caller = &fakeCaller{}
	}
	return New(cfg), done
}

func waitForClose(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func TestStartTransitionsThroughStatuses(t *testing.T) {
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate})

	assert.Equal(t, StatusInactive, m.Status())

	require.NoError(t, m.Start(context.Background()))
	assert.Equal(t, StatusConnecting, m.Status())

	m.Deliver(Event{Type: EventCallStarted})
	require.Eventually(t, func() bool {
		return m.Status() == StatusActive
	}, time.Second, 10*time.Millisecond)

	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)
	assert.Equal(t, StatusFinished, m.Status())
}

func TestStartWhileRunningFails(t *testing.T) {
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate})

	require.NoError(t, m.Start(context.Background()))
	assert.ErrorIs(t, m.Start(context.Background()), ErrAlreadyRunning)

	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)
}

func TestTranscriptAccumulatesInOrder(t *testing.T) {
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleAssistant, Text: "Tell me about yourself."})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "I build backend services."})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	snap := m.Snapshot()
	require.Len(t, snap.Transcript, 2)
	assert.Equal(t, models.RoleAssistant, snap.Transcript[0].Role)
	assert.Equal(t, "Tell me about yourself.", snap.Transcript[0].Content)
	assert.Equal(t, models.RoleUser, snap.Transcript[1].Role)
	assert.Equal(t, "I build backend services.", snap.LastMessage)
}

func TestSpeakingFlagFollowsSpeechEvents(t *testing.T) {
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventSpeechStarted})
	require.Eventually(t, func() bool {
		return m.Snapshot().IsSpeaking
	}, time.Second, 10*time.Millisecond)

	m.Deliver(Event{Type: EventSpeechStopped})
	require.Eventually(t, func() bool {
		return !m.Snapshot().IsSpeaking
	}, time.Second, 10*time.Millisecond)

	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)
}

func TestGenerateModeSkipsFeedback(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: true, FeedbackID: "fb-1"}}
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate, Generator: gen})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "something"})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	assert.Zero(t, gen.calls())
	assert.Equal(t, "/", m.Snapshot().RedirectTo)
}

func TestInterviewModeHandsOffToFeedback(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: true, FeedbackID: "fb-1"}}
	m, done := newTestMachine(t, Config{
		Mode:        models.ModeInterview,
		InterviewID: "iv-42",
		UserID:      "user-1",
		Generator:   gen,
	})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "answer"})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	require.Equal(t, 1, gen.calls())
	req := gen.reqs[0]
	assert.Equal(t, "iv-42", req.InterviewID)
	assert.Equal(t, "user-1", req.UserID)
	require.Len(t, req.Transcript, 1)
	assert.Equal(t, "/interview/iv-42/feedback", m.Snapshot().RedirectTo)
}

func TestFailedFeedbackRedirectsHome(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: false}}
	m, done := newTestMachine(t, Config{
		Mode:        models.ModeInterview,
		InterviewID: "iv-42",
		UserID:      "user-1",
		Generator:   gen,
	})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "answer"})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	assert.Equal(t, StatusFinished, m.Status())
	assert.Equal(t, "/", m.Snapshot().RedirectTo)
}

func TestFeedbackHandoffRunsOnce(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: true, FeedbackID: "fb-1"}}
	caller := &fakeCaller{}
	m, done := newTestMachine(t, Config{
		Mode:        models.ModeInterview,
		InterviewID: "iv-42",
		UserID:      "user-1",
		Generator:   gen,
		Caller:      caller,
	})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	// Late end-of-call signals must not trigger a second handoff.
	m.Deliver(Event{Type: EventCallEnded})
	m.Disconnect()

	assert.Equal(t, 1, gen.calls())
}

func TestDisconnectStopsCallAndFinishes(t *testing.T) {
	caller := &fakeCaller{}
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate, Caller: caller})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Disconnect()
	waitForClose(t, done)

	assert.True(t, caller.wasStopped())
	assert.Equal(t, StatusFinished, m.Status())

	// Repeat disconnects are no-ops.
	m.Disconnect()
	m.Disconnect()
	assert.Equal(t, StatusFinished, m.Status())
}

func TestTranscriptFrozenAfterFinish(t *testing.T) {
	m, done := newTestMachine(t, Config{Mode: models.ModeGenerate})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "before"})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "after"})

	snap := m.Snapshot()
	require.Len(t, snap.Transcript, 1)
	assert.Equal(t, "before", snap.Transcript[0].Content)
}

func TestCallerStartFailureStillFinishes(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: false}}
	caller := &fakeCaller{startErr: errors.New("gateway unreachable")}
	m, done := newTestMachine(t, Config{
		Mode:        models.ModeInterview,
		InterviewID: "iv-42",
		UserID:      "user-1",
		Generator:   gen,
		Caller:      caller,
	})

	require.NoError(t, m.Start(context.Background()))
	waitForClose(t, done)

	assert.Equal(t, StatusFinished, m.Status())
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, "/", m.Snapshot().RedirectTo)
}

func TestNotifierReceivesSessionEnded(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: true, FeedbackID: "fb-1"}}
	notifier := &fakeNotifier{}
	m, done := newTestMachine(t, Config{
		Mode:        models.ModeInterview,
		InterviewID: "iv-42",
		UserID:      "user-1",
		Generator:   gen,
		Notifier:    notifier,
	})
	require.NoError(t, m.Start(context.Background()))

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "answer"})
	m.Deliver(Event{Type: EventCallEnded})
	waitForClose(t, done)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.events, 1)
	evt := notifier.events[0]
	assert.Equal(t, "session-1", evt.SessionID)
	assert.Equal(t, "fb-1", evt.FeedbackID)
	assert.Equal(t, 1, evt.MessageCount)
	assert.True(t, evt.Success)
}

func TestRestartAfterFinished(t *testing.T) {
	gen := &fakeGenerator{result: feedback.Result{Success: true, FeedbackID: "fb-1"}}
	done := make(chan struct{}, 2)
	cfg := Config{
		ID:          "session-1",
		Mode:        models.ModeInterview,
		InterviewID: "iv-42",
		UserID:      "user-1",
		Generator:   gen,
		Caller:      &fakeCaller{},
		Logger:      zap.NewNop(),
		OnClose:     func(string) { done <- struct{}{} },
	}
	m := New(cfg)

	require.NoError(t, m.Start(context.Background()))
	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "first call"})
	m.Deliver(Event{Type: EventCallEnded})
	<-done

	// A finished machine can begin a fresh call with a clean transcript and
	// a re-armed handoff.
	require.NoError(t, m.Start(context.Background()))
	assert.Equal(t, StatusConnecting, m.Status())
	assert.Empty(t, m.Snapshot().Transcript)

	m.Deliver(Event{Type: EventCallStarted})
	m.Deliver(Event{Type: EventTranscript, Role: models.RoleUser, Text: "second call"})
	m.Deliver(Event{Type: EventCallEnded})
	<-done

	require.Equal(t, 2, gen.calls())
	require.Len(t, gen.reqs[1].Transcript, 1)
	assert.Equal(t, "second call", gen.reqs[1].Transcript[0].Content)
}

func TestFormatQuestions(t *testing.T) {
	assert.Equal(t, "", FormatQuestions(nil))
	assert.Equal(t, "- one\n- two", FormatQuestions([]string{"one", "two"}))
}
