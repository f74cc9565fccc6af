package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Named defaults for the planning session. These are passed into the planner
// explicitly rather than read from globals.
const (
	DefaultGeminiModel      = "gemini-2.0-flash"
	DefaultQualityThreshold = 85.0
	DefaultMaxIterations    = 3
	DefaultMaxOutputTokens  = 4096
	DefaultDatabasePath     = "data/meal-agent.db"
)

// Supported completion backends, selected via MEAL_AGENT_LLM.
const (
	BackendGemini = "gemini"
	BackendGroq   = "groq"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	GroqAPIKey   string

	// Planner settings
	LLMBackend       string
	PlannerModel     string
	QualityThreshold float64
	MaxIterations    int
	MaxOutputTokens  int

	DatabasePath string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		LLMBackend:       BackendGemini,
		PlannerModel:     DefaultGeminiModel,
		QualityThreshold: DefaultQualityThreshold,
		MaxIterations:    DefaultMaxIterations,
		MaxOutputTokens:  DefaultMaxOutputTokens,
		DatabasePath:     DefaultDatabasePath,
	}

	if backend := os.Getenv("MEAL_AGENT_LLM"); backend != "" {
		switch backend {
		case BackendGemini, BackendGroq:
			cfg.LLMBackend = backend
		default:
			return nil, fmt.Errorf("invalid MEAL_AGENT_LLM %q (supported: %s, %s)", backend, BackendGemini, BackendGroq)
		}
	}

	// Only the selected backend's key is required.
	switch cfg.LLMBackend {
	case BackendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case BackendGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	}

	if model := os.Getenv("MEAL_AGENT_MODEL"); model != "" {
		cfg.PlannerModel = model
	}

	if raw := os.Getenv("MEAL_AGENT_QUALITY_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MEAL_AGENT_QUALITY_THRESHOLD %q: %w", raw, err)
		}
		cfg.QualityThreshold = threshold
	}

	if raw := os.Getenv("MEAL_AGENT_MAX_ITERATIONS"); raw != "" {
		iterations, err := strconv.Atoi(raw)
		if err != nil || iterations < 1 {
			return nil, fmt.Errorf("invalid MEAL_AGENT_MAX_ITERATIONS %q", raw)
		}
		cfg.MaxIterations = iterations
	}

	if path := os.Getenv("MEAL_AGENT_DB_PATH"); path != "" {
		cfg.DatabasePath = path
	}

	// Telegram Config (Optional for CLI, required for Bot)
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramWebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")

	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q", part)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	if raw := os.Getenv("TELEGRAM_ADMIN_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_ID %q", raw)
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}
