package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// app config, loaded from environment variables
type Config struct {
	Port     string
	Provider string

	MongoURI string
	MongoDB  string

	RedisAddr string

	JWTSecret string

	// Voice gateway settings: where the realtime voice vendor is reached
	// and which assistant/workflow handles each session mode.
	VoiceGatewayURL  string
	VoiceWorkflowID  string
	VoiceAssistantID string

	// Sessions still CONNECTING or ACTIVE after SessionMaxAge get reaped.
	SessionMaxAge  time.Duration
	ReaperSchedule string

	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	maxAge, err := time.ParseDuration(getEnvOrDefault("SESSION_MAX_AGE", "30m"))
	if err != nil {
		return nil, errors.New("SESSION_MAX_AGE is not a valid duration")
	}

	config := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Provider:         getEnvOrDefault("AI_PROVIDER", "gemini"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnvOrDefault("MONGO_DB_NAME", "prepwise"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "dev"),
		VoiceGatewayURL:  os.Getenv("VOICE_GATEWAY_URL"),
		VoiceWorkflowID:  getEnvOrDefault("VOICE_WORKFLOW_ID", "workflow-generate"),
		VoiceAssistantID: getEnvOrDefault("VOICE_ASSISTANT_ID", "interviewer"),
		SessionMaxAge:    maxAge,
		ReaperSchedule:   getEnvOrDefault("SESSION_REAPER_SCHEDULE", "* * * * *"),
		AllowedOrigins:   splitNonEmpty(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.SessionMaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
