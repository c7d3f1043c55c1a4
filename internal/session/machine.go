package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/events"
	"github.com/hatif03/prepwise/internal/feedback"
	"github.com/hatif03/prepwise/internal/models"
)

// Status is the call status of a session.
type Status string

const (
	StatusInactive   Status = "INACTIVE"
	StatusConnecting Status = "CONNECTING"
	StatusActive     Status = "ACTIVE"
	StatusFinished   Status = "FINISHED"
)

// Caller is the contract the voice call client fulfils: start a call against
// a target with variable values, deliver events to the sink, stop on demand.
type Caller interface {
	Start(ctx context.Context, target string, variables map[string]string, deliver func(Event)) error
	Stop()
}

// Generator is the feedback handoff target.
type Generator interface {
	Generate(ctx context.Context, req feedback.Request) feedback.Result
}

// ErrAlreadyRunning is returned when Start is called while the session is
// connecting or active.
var ErrAlreadyRunning = errors.New("session already running")

const eventBuffer = 64

// Config wires one Machine.
type Config struct {
	ID          string
	Mode        string // models.ModeGenerate or models.ModeInterview
	InterviewID string
	UserID      string
	UserName    string
	FeedbackID  string
	Questions   []string

	WorkflowID  string // generate-mode call target
	AssistantID string // interview-mode call target

	Caller    Caller
	Generator Generator
	Notifier  events.Notifier
	Logger    *zap.Logger

	// OnClose runs after the finish handler, off the registry's lock.
	OnClose func(id string)
}

// Machine tracks one live voice-call session: the call status, the
// accumulated transcript and the feedback handoff on finish. Call-client
// events are funneled through a channel into a single handler goroutine, so
// handlers never overlap for one session.
type Machine struct {
	cfg Config

	events chan Event
	quit   chan struct{}

	mu          sync.RWMutex
	status      Status
	transcript  []models.TranscriptMessage
	lastMessage string
	isSpeaking  bool
	redirectTo  string
	startedAt   time.Time

	// handed latches the feedback handoff to exactly one execution per
	// session instance.
	handed bool
}

func New(cfg Config) *Machine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Machine{
		cfg:    cfg,
		events: make(chan Event, eventBuffer),
		quit:   make(chan struct{}),
		status: StatusInactive,
	}
}

func (m *Machine) ID() string { return m.cfg.ID }

// Start transitions INACTIVE (or FINISHED) to CONNECTING and launches the
// call. Starting a session that is already CONNECTING or ACTIVE is an error.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.status == StatusConnecting || m.status == StatusActive {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	if m.status == StatusFinished {
		// Restarting a finished machine begins a fresh call: new event
		// plumbing, empty transcript, re-armed handoff latch.
		m.events = make(chan Event, eventBuffer)
		m.quit = make(chan struct{})
		m.transcript = nil
		m.lastMessage = ""
		m.isSpeaking = false
		m.redirectTo = ""
		m.handed = false
	}
	m.status = StatusConnecting
	m.startedAt = time.Now()
	m.mu.Unlock()

	go m.run()

	target, variables := m.callConfig()
	if err := m.cfg.Caller.Start(ctx, target, variables, m.Deliver); err != nil {
		// Collaborator failure is non-fatal: log, then drive the machine to
		// its terminal state so the handoff and cleanup still run.
		m.cfg.Logger.Error("voice call failed to start",
			zap.Error(err),
			zap.String("session_id", m.cfg.ID))
		m.Deliver(Event{Type: EventError, Err: err})
		m.Deliver(Event{Type: EventCallEnded})
	}
	return nil
}

// callConfig picks the call target and variable values for the session mode:
// generate mode passes user identity only, interview mode passes the
// formatted question list as call context.
func (m *Machine) callConfig() (string, map[string]string) {
	if m.cfg.Mode == models.ModeGenerate {
		return m.cfg.WorkflowID, map[string]string{
			"username": m.cfg.UserName,
			"userid":   m.cfg.UserID,
		}
	}
	return m.cfg.AssistantID, map[string]string{
		"questions": FormatQuestions(m.cfg.Questions),
	}
}

// FormatQuestions renders the fixed question list one per line with a
// leading dash, the shape the interviewer assistant expects.
func FormatQuestions(questions []string) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		lines = append(lines, "- "+q)
	}
	return strings.Join(lines, "\n")
}

// channels returns the event plumbing for the current call. Snapshotting
// under the lock keeps Deliver and run coherent across a restart.
func (m *Machine) channels() (chan Event, chan struct{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events, m.quit
}

// Deliver hands a call-client event to the session. Events arriving after
// the session has finished are discarded.
func (m *Machine) Deliver(evt Event) {
	events, quit := m.channels()
	select {
	case <-quit:
		return
	default:
	}
	select {
	case events <- evt:
	case <-quit:
	}
}

// Disconnect forces the session to FINISHED and terminates the underlying
// call immediately. Safe from any state; a no-op once finished.
func (m *Machine) Disconnect() {
	_, quit := m.channels()
	select {
	case <-quit:
		return
	default:
	}
	m.cfg.Caller.Stop()
	m.Deliver(Event{Type: EventCallEnded})
}

// run is the single-threaded event handler loop. It exits on the first
// call-ended event, after the finish handler has run.
func (m *Machine) run() {
	events, quit := m.channels()
	for evt := range events {
		switch evt.Type {
		case EventCallStarted:
			m.mu.Lock()
			if m.status == StatusConnecting {
				m.status = StatusActive
			}
			m.mu.Unlock()

		case EventTranscript:
			m.mu.Lock()
			if m.status != StatusFinished {
				m.transcript = append(m.transcript, models.TranscriptMessage{
					Role:    evt.Role,
					Content: evt.Text,
				})
				m.lastMessage = evt.Text
			}
			m.mu.Unlock()

		case EventSpeechStarted:
			m.mu.Lock()
			m.isSpeaking = true
			m.mu.Unlock()

		case EventSpeechStopped:
			m.mu.Lock()
			m.isSpeaking = false
			m.mu.Unlock()

		case EventError:
			// Logged, non-fatal. The call client or the reaper still gets
			// the session to FINISHED.
			m.cfg.Logger.Warn("voice call error",
				zap.Error(evt.Err),
				zap.String("session_id", m.cfg.ID))

		case EventCallEnded:
			m.finish()
			close(quit)
			if m.cfg.OnClose != nil {
				m.cfg.OnClose(m.cfg.ID)
			}
			return
		}
	}
}

// finish transitions to FINISHED and runs the one-shot feedback handoff.
func (m *Machine) finish() {
	m.mu.Lock()
	m.status = StatusFinished
	if m.handed {
		m.mu.Unlock()
		return
	}
	m.handed = true
	transcript := make([]models.TranscriptMessage, len(m.transcript))
	copy(transcript, m.transcript)
	m.mu.Unlock()

	ctx := context.Background()

	var result feedback.Result
	if m.cfg.Mode == models.ModeGenerate {
		// Discovery calls produce no feedback; the caller lands on a
		// neutral view.
		m.setRedirect("/")
	} else {
		result = m.cfg.Generator.Generate(ctx, feedback.Request{
			InterviewID: m.cfg.InterviewID,
			UserID:      m.cfg.UserID,
			FeedbackID:  m.cfg.FeedbackID,
			Transcript:  transcript,
		})
		if result.Success {
			m.setRedirect("/interview/" + m.cfg.InterviewID + "/feedback")
		} else {
			m.cfg.Logger.Warn("feedback generation failed, redirecting home",
				zap.String("session_id", m.cfg.ID))
			m.setRedirect("/")
		}
	}

	if m.cfg.Notifier != nil {
		_ = m.cfg.Notifier.SessionEnded(ctx, events.SessionEnded{
			SessionID:    m.cfg.ID,
			Mode:         m.cfg.Mode,
			InterviewID:  m.cfg.InterviewID,
			UserID:       m.cfg.UserID,
			FeedbackID:   result.FeedbackID,
			MessageCount: len(transcript),
			Success:      m.cfg.Mode == models.ModeGenerate || result.Success,
			EndedAt:      time.Now().UTC(),
		})
	}
}

func (m *Machine) setRedirect(target string) {
	m.mu.Lock()
	m.redirectTo = target
	m.mu.Unlock()
}

// Status returns the current call status.
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// StartedAt reports when Start transitioned the session to CONNECTING; the
// reaper uses it to spot stuck sessions.
func (m *Machine) StartedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startedAt
}

// Snapshot returns the live view of the session for the HTTP surface.
func (m *Machine) Snapshot() models.SessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	transcript := make([]models.TranscriptMessage, len(m.transcript))
	copy(transcript, m.transcript)
	return models.SessionSnapshot{
		SessionID:   m.cfg.ID,
		Status:      string(m.status),
		Mode:        m.cfg.Mode,
		InterviewID: m.cfg.InterviewID,
		IsSpeaking:  m.isSpeaking,
		LastMessage: m.lastMessage,
		Transcript:  transcript,
		RedirectTo:  m.redirectTo,
	}
}
