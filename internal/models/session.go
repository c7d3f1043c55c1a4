package models

import "strings"

// Session modes. A generate-mode call is an open-ended discovery call; an
// interview-mode call is driven by a fixed question list.
const (
	ModeGenerate  = "generate"
	ModeInterview = "interview"
)

type StartSessionRequest struct {
	Mode        string `json:"mode"`
	InterviewID string `json:"interviewId"`
	FeedbackID  string `json:"feedbackId"`
	UserName    string `json:"userName"`
}

func (r *StartSessionRequest) Validate() error {
	switch r.Mode {
	case ModeGenerate:
	case ModeInterview:
		if strings.TrimSpace(r.InterviewID) == "" {
			return &ErrorResponse{Code: "missing_interview_id", Message: "interviewId is required for interview mode"}
		}
	default:
		return &ErrorResponse{Code: "invalid_mode", Message: "Mode must be generate or interview"}
	}
	return nil
}

type StartSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
}

// SessionSnapshot is the live view of a session exposed to the UI.
type SessionSnapshot struct {
	SessionID   string              `json:"sessionId"`
	Status      string              `json:"status"`
	Mode        string              `json:"mode"`
	InterviewID string              `json:"interviewId,omitempty"`
	IsSpeaking  bool                `json:"isSpeaking"`
	LastMessage string              `json:"lastMessage"`
	Transcript  []TranscriptMessage `json:"transcript"`
	// RedirectTo is set once the session has finished and names the view
	// the caller should navigate to.
	RedirectTo string `json:"redirectTo,omitempty"`
}
