package models

// Canonical interview types
const (
	TypeTechnical   = "Technical"
	TypeBehavioral  = "Behavioral"
	TypeSituational = "Situational"
	TypeMixed       = "Mixed"
)

// Canonical experience levels
const (
	LevelEntry  = "Entry"
	LevelMid    = "Mid"
	LevelSenior = "Senior"
)

// MaxQuestions bounds the question list stored on an interview.
const MaxQuestions = 10

// GeneratedQuestionCount is how many questions the generation service aims for.
const GeneratedQuestionCount = 5

var ValidInterviewTypes = map[string]bool{
	TypeTechnical:   true,
	TypeBehavioral:  true,
	TypeSituational: true,
	TypeMixed:       true,
}

var ValidExperienceLevels = map[string]bool{
	LevelEntry:  true,
	LevelMid:    true,
	LevelSenior: true,
}
