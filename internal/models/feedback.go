package models

import "time"

// Transcript speaker roles as the voice gateway reports them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// TranscriptMessage is one attributed utterance recognized from a call.
type TranscriptMessage struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

// CategoryScore is one scored dimension of an assessment.
type CategoryScore struct {
	Name    string `bson:"name" json:"name"`
	Score   int    `bson:"score" json:"score"`
	Comment string `bson:"comment" json:"comment"`
}

// Feedback is the scored, narrative assessment produced after a session.
// The transcript is denormalized onto the record for audit.
type Feedback struct {
	ID                  string              `bson:"_id" json:"id"`
	InterviewID         string              `bson:"interviewId" json:"interviewId"`
	UserID              string              `bson:"userId" json:"userId"`
	TotalScore          int                 `bson:"totalScore" json:"totalScore"`
	CategoryScores      []CategoryScore     `bson:"categoryScores" json:"categoryScores"`
	Strengths           []string            `bson:"strengths" json:"strengths"`
	AreasForImprovement []string            `bson:"areasForImprovement" json:"areasForImprovement"`
	FinalAssessment     string              `bson:"finalAssessment" json:"finalAssessment"`
	Transcript          []TranscriptMessage `bson:"transcript" json:"transcript"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
}

type FeedbackResponse struct {
	Success  bool      `json:"success"`
	Feedback *Feedback `json:"feedback"`
}
