package questions

import (
	"fmt"

	"github.com/hatif03/prepwise/internal/models"
)

// Static question bank used when the LLM is unavailable or comes up short.
// Keyed by interview type, then adjusted per level and tech stack.

func baseQuestions(role, interviewType string) []string {
	switch interviewType {
	case models.TypeTechnical:
		return []string{
			fmt.Sprintf("Explain your experience with %s and the technologies you've worked with.", role),
			"Describe a challenging technical problem you solved in your previous role.",
			"How do you approach debugging and troubleshooting issues?",
			"What design patterns have you implemented in your projects?",
			"How do you ensure code quality and maintainability?",
		}
	case models.TypeBehavioral:
		return []string{
			"Tell me about a time when you had to work under pressure to meet a deadline.",
			"Describe a situation where you had to collaborate with a difficult team member.",
			"Give me an example of a project where you took initiative to improve something.",
			"Tell me about a time when you failed and what you learned from it.",
			"Describe a situation where you had to learn a new technology quickly.",
		}
	case models.TypeSituational:
		return []string{
			"How would you handle a situation where a client is not satisfied with your work?",
			"What would you do if you discovered a critical bug in production?",
			"How would you approach a project with unclear requirements?",
			"What would you do if you disagreed with a technical decision made by your team lead?",
			"How would you handle a situation where you're behind schedule on a project?",
		}
	default:
		return []string{
			fmt.Sprintf("Tell me about your experience with %s and what interests you most about this field.", role),
			"Describe a technical challenge you faced and how you solved it.",
			"How do you stay updated with the latest technologies and industry trends?",
			"Give me an example of a project where you had to work with multiple stakeholders.",
			"What would you do if you had to implement a feature you've never worked with before?",
		}
	}
}

func levelQuestions(role, level string) []string {
	switch level {
	case models.LevelEntry:
		return []string{
			fmt.Sprintf("What motivated you to pursue a career in %s?", role),
			"Tell me about your educational background and how it relates to this role.",
			"What projects have you worked on during your studies or personal time?",
			"How do you approach learning new technologies?",
		}
	case models.LevelSenior:
		return []string{
			"How do you mentor junior developers and help them grow?",
			"Describe your experience leading technical projects and making architectural decisions.",
			"How do you handle technical debt and prioritize refactoring efforts?",
			"Tell me about a time when you had to make a difficult technical trade-off.",
		}
	default:
		return nil
	}
}

func fallbackQuestions(role, interviewType, level string, techStack []string) []string {
	questions := baseQuestions(role, interviewType)

	if levelSpecific := levelQuestions(role, level); levelSpecific != nil {
		questions = append(levelSpecific, questions[:3]...)
	}

	if len(techStack) > 0 {
		techQuestions := make([]string, 0, len(techStack))
		for _, tech := range techStack {
			techQuestions = append(techQuestions,
				fmt.Sprintf("Can you explain your experience with %s and how you've used it in projects?", tech))
		}
		remaining := models.GeneratedQuestionCount - len(techQuestions)
		if remaining < 0 {
			remaining = 0
		}
		if remaining > len(questions) {
			remaining = len(questions)
		}
		questions = append(techQuestions, questions[:remaining]...)
	}

	if len(questions) > models.GeneratedQuestionCount {
		questions = questions[:models.GeneratedQuestionCount]
	}
	return questions
}
