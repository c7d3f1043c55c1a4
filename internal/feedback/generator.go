package feedback

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/llm"
	"github.com/hatif03/prepwise/internal/metrics"
	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/prompts"
	"github.com/hatif03/prepwise/internal/repositories"
)

// Request carries everything needed to produce one assessment. FeedbackID is
// optional: when set, the record at that id is replaced (regenerate
// semantics); when empty a new id is minted.
type Request struct {
	InterviewID string
	UserID      string
	FeedbackID  string
	Transcript  []models.TranscriptMessage
}

// Result reports the outcome. Failures are converted into Success=false
// rather than surfaced as errors; the caller falls back to a safe view.
type Result struct {
	Success    bool
	FeedbackID string
}

// Generator orchestrates scoring: build the prompt, call the LLM, parse the
// assessment, persist it. Exactly one store write per successful attempt.
type Generator struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	repo          repositories.FeedbackRepository
	logger        *zap.Logger
}

func NewGenerator(provider llm.Provider, promptManager prompts.PromptProvider, repo repositories.FeedbackRepository, logger *zap.Logger) *Generator {
	return &Generator{
		provider:      provider,
		promptManager: promptManager,
		repo:          repo,
		logger:        logger,
	}
}

// assessment is the JSON shape the scoring prompt asks for.
type assessment struct {
	TotalScore          int                    `json:"totalScore"`
	CategoryScores      []models.CategoryScore `json:"categoryScores"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areasForImprovement"`
	FinalAssessment     string                 `json:"finalAssessment"`
}

func (g *Generator) Generate(ctx context.Context, req Request) Result {
	if strings.TrimSpace(req.InterviewID) == "" || strings.TrimSpace(req.UserID) == "" {
		g.logger.Warn("feedback generation rejected: missing identifiers")
		return Result{Success: false}
	}

	feedbackID := req.FeedbackID
	if feedbackID == "" {
		feedbackID = uuid.New().String()
	}

	var scored assessment
	if len(req.Transcript) == 0 {
		// Nothing to score; store a minimal default assessment instead of
		// failing the session outcome.
		scored = defaultAssessment()
	} else {
		parsed, err := g.score(ctx, req.Transcript)
		if err != nil {
			g.logger.Error("scoring failed",
				zap.Error(err),
				zap.String("interview_id", req.InterviewID))
			metrics.FeedbackResult("failure")
			return Result{Success: false}
		}
		scored = *parsed
	}

	record := &models.Feedback{
		ID:                  feedbackID,
		InterviewID:         req.InterviewID,
		UserID:              req.UserID,
		TotalScore:          clampScore(scored.TotalScore),
		CategoryScores:      clampCategories(scored.CategoryScores),
		Strengths:           scored.Strengths,
		AreasForImprovement: scored.AreasForImprovement,
		FinalAssessment:     scored.FinalAssessment,
		Transcript:          req.Transcript,
		CreatedAt:           time.Now().UTC(),
	}

	if err := g.repo.Upsert(ctx, record); err != nil {
		g.logger.Error("failed to store feedback",
			zap.Error(err),
			zap.String("feedback_id", feedbackID))
		metrics.FeedbackResult("failure")
		return Result{Success: false}
	}
	metrics.FeedbackResult("success")

	g.logger.Info("feedback stored",
		zap.String("feedback_id", feedbackID),
		zap.String("interview_id", req.InterviewID),
		zap.Int("total_score", record.TotalScore))

	return Result{Success: true, FeedbackID: feedbackID}
}

func (g *Generator) score(ctx context.Context, transcript []models.TranscriptMessage) (*assessment, error) {
	prompt, err := g.promptManager.BuildPrompt("feedback", "default", map[string]string{
		"Transcript": FormatTranscript(transcript),
	})
	if err != nil {
		return nil, err
	}

	raw, err := g.provider.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed assessment
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// FormatTranscript renders a transcript as "role: text" lines for prompting.
func FormatTranscript(transcript []models.TranscriptMessage) string {
	var b strings.Builder
	for _, msg := range transcript {
		b.WriteString("- ")
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func defaultAssessment() assessment {
	return assessment{
		TotalScore:          0,
		FinalAssessment:     "No transcript was captured for this session, so no assessment could be made. Try taking the interview again with your microphone enabled.",
		Strengths:           []string{},
		AreasForImprovement: []string{"Complete a full interview session to receive an assessment."},
	}
}

// stripFences removes a surrounding markdown code fence the model sometimes
// adds despite the prompt asking for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampCategories(categories []models.CategoryScore) []models.CategoryScore {
	for i := range categories {
		categories[i].Score = clampScore(categories[i].Score)
	}
	return categories
}
