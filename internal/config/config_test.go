package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.PlannerModel != DefaultGeminiModel {
			t.Errorf("Expected default model '%s', got '%s'", DefaultGeminiModel, cfg.PlannerModel)
		}
		if cfg.QualityThreshold != DefaultQualityThreshold {
			t.Errorf("Expected default threshold %.1f, got %.1f", DefaultQualityThreshold, cfg.QualityThreshold)
		}
		if cfg.MaxIterations != DefaultMaxIterations {
			t.Errorf("Expected default max iterations %d, got %d", DefaultMaxIterations, cfg.MaxIterations)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEAL_AGENT_MODEL", "gemini-2.5-pro")
		t.Setenv("MEAL_AGENT_QUALITY_THRESHOLD", "90.5")
		t.Setenv("MEAL_AGENT_MAX_ITERATIONS", "5")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.PlannerModel != "gemini-2.5-pro" {
			t.Errorf("Expected model override, got '%s'", cfg.PlannerModel)
		}
		if cfg.QualityThreshold != 90.5 {
			t.Errorf("Expected threshold 90.5, got %.2f", cfg.QualityThreshold)
		}
		if cfg.MaxIterations != 5 {
			t.Errorf("Expected 5 max iterations, got %d", cfg.MaxIterations)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Expected allowed user IDs [123 456], got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("GroqBackend", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")
		t.Setenv("MEAL_AGENT_LLM", "groq")
		t.Setenv("GROQ_API_KEY", "groq_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMBackend != BackendGroq {
			t.Errorf("Expected backend '%s', got '%s'", BackendGroq, cfg.LLMBackend)
		}
	})

	t.Run("GroqBackendMissingKey", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEAL_AGENT_LLM", "groq")
		os.Unsetenv("GROQ_API_KEY")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
	})

	t.Run("InvalidBackend", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEAL_AGENT_LLM", "ollama")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for an unsupported backend, got nil")
		}
	})

	t.Run("InvalidThreshold", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEAL_AGENT_QUALITY_THRESHOLD", "high")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid threshold, got nil")
		}
	})

	t.Run("InvalidMaxIterations", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("MEAL_AGENT_MAX_ITERATIONS", "0")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for zero max iterations, got nil")
		}
	})
}
