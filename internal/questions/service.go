package questions

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/llm"
	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/prompts"
)

// Service generates interview questions. The LLM path is best-effort: when
// the provider is unavailable, errors, or returns too few questions, the
// static per-type bank fills in. No retries here; fallback is the retry.
type Service struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewService(provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *Service {
	return &Service{
		provider:      provider,
		promptManager: promptManager,
		logger:        logger,
	}
}

// Generate returns up to models.GeneratedQuestionCount questions for the
// role/type/level/tech-stack combination. The second return value reports
// whether the static fallback contributed.
func (s *Service) Generate(ctx context.Context, role, interviewType, level string, techStack []string) ([]string, bool) {
	if s.provider == nil {
		return fallbackQuestions(role, interviewType, level, techStack), true
	}

	generated, err := s.generateWithLLM(ctx, role, interviewType, level, techStack)
	if err != nil {
		s.logger.Warn("question generation via provider failed, using fallback",
			zap.Error(err),
			zap.String("role", role))
		return fallbackQuestions(role, interviewType, level, techStack), true
	}

	if len(generated) < models.GeneratedQuestionCount {
		needed := models.GeneratedQuestionCount - len(generated)
		fallback := fallbackQuestions(role, interviewType, level, techStack)
		if needed > len(fallback) {
			needed = len(fallback)
		}
		generated = append(generated, fallback[:needed]...)
		return generated, true
	}

	return generated, false
}

var numberedPrefix = regexp.MustCompile(`^\d+\.`)

func (s *Service) generateWithLLM(ctx context.Context, role, interviewType, level string, techStack []string) ([]string, error) {
	techStackText := ""
	if len(techStack) > 0 {
		techStackText = " with focus on these technologies: " + strings.Join(techStack, ", ")
	}

	prompt, err := s.promptManager.BuildPrompt("questions", "default", map[string]string{
		"Role":          role,
		"Type":          interviewType,
		"Level":         level,
		"TechStackText": techStackText,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.provider.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(numberedPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == models.GeneratedQuestionCount {
			break
		}
	}
	return questions, nil
}
