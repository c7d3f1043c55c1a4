package session

// EventType tags the events the voice call client delivers.
type EventType string

const (
	EventCallStarted   EventType = "call-start"
	EventCallEnded     EventType = "call-end"
	EventTranscript    EventType = "transcript"
	EventSpeechStarted EventType = "speech-start"
	EventSpeechStopped EventType = "speech-end"
	EventError         EventType = "error"
)

// Event is one call-client notification. Role and Text are set only for
// transcript events; Err only for error events.
type Event struct {
	Type EventType
	Role string
	Text string
	Err  error
}
