package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Interview is a persisted interview definition. Field names follow the
// document layout in the interviews collection.
type Interview struct {
	ID        string    `bson:"_id" json:"id"`
	Role      string    `bson:"role" json:"role"`
	Type      string    `bson:"type" json:"type"`
	Level     string    `bson:"level" json:"level"`
	Techstack []string  `bson:"techstack" json:"techstack"`
	Questions []string  `bson:"questions" json:"questions"`
	UserID    string    `bson:"userId" json:"userId"`
	Finalized bool      `bson:"finalized" json:"finalized"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// TechStack accepts either a JSON array of strings or a single
// comma-separated string, as clients send both forms.
type TechStack []string

func (t *TechStack) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = trimNonEmpty(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = trimNonEmpty(strings.Split(raw, ","))
	return nil
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var mixedRe = regexp.MustCompile(`(?i)mix`)

// NormalizeType collapses the free-form "mixed"/"mix" variants clients send
// into the canonical Mixed type; other values pass through unchanged.
func NormalizeType(t string) string {
	if mixedRe.MatchString(t) {
		return TypeMixed
	}
	return t
}

type CreateInterviewRequest struct {
	Role      string    `json:"role"`
	Type      string    `json:"type"`
	Level     string    `json:"level"`
	TechStack TechStack `json:"techStack"`
	Questions []string  `json:"questions"`
}

// implements the Validator interface
func (r *CreateInterviewRequest) Validate() error {
	if strings.TrimSpace(r.Role) == "" {
		return &ErrorResponse{Code: "missing_role", Message: "Role is required"}
	}
	if strings.TrimSpace(r.Type) == "" {
		return &ErrorResponse{Code: "missing_type", Message: "Type is required"}
	}
	if strings.TrimSpace(r.Level) == "" {
		return &ErrorResponse{Code: "missing_level", Message: "Level is required"}
	}

	r.Type = NormalizeType(r.Type)
	if !ValidInterviewTypes[r.Type] {
		return &ErrorResponse{Code: "invalid_type", Message: "Type must be one of: Technical, Behavioral, Situational, Mixed"}
	}
	if !ValidExperienceLevels[r.Level] {
		return &ErrorResponse{Code: "invalid_level", Message: "Level must be one of: Entry, Mid, Senior"}
	}
	if len(r.Questions) > MaxQuestions {
		return &ErrorResponse{Code: "too_many_questions", Message: "At most 10 questions are allowed"}
	}
	return nil
}

type CreateInterviewResponse struct {
	Success     bool       `json:"success"`
	InterviewID string     `json:"interviewId"`
	Interview   *Interview `json:"interview"`
}

type InterviewsResponse struct {
	Success    bool        `json:"success"`
	Interviews []Interview `json:"interviews"`
}

type GenerateQuestionsRequest struct {
	Role      string    `json:"role"`
	Type      string    `json:"type"`
	Level     string    `json:"level"`
	TechStack TechStack `json:"techStack"`
}

func (r *GenerateQuestionsRequest) Validate() error {
	if strings.TrimSpace(r.Role) == "" {
		return &ErrorResponse{Code: "missing_role", Message: "Role is required"}
	}
	if strings.TrimSpace(r.Type) == "" {
		return &ErrorResponse{Code: "missing_type", Message: "Type is required"}
	}
	if strings.TrimSpace(r.Level) == "" {
		return &ErrorResponse{Code: "missing_level", Message: "Level is required"}
	}
	r.Type = NormalizeType(r.Type)
	return nil
}

type GenerateQuestionsResponse struct {
	Success   bool     `json:"success"`
	Questions []string `json:"questions"`
	Fallback  bool     `json:"fallback,omitempty"`
}
