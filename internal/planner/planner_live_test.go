package planner

import (
	"context"
	"testing"

	"meal-agent/internal/config"
	"meal-agent/internal/llm"
)

// TestPlanMeals_LiveEval performs real LLM calls to evaluate whether a single
// iteration produces a parseable plan and a complete evaluation.
// Run with: go test -v ./internal/planner -run TestPlanMeals_LiveEval
func TestPlanMeals_LiveEval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping live eval in short mode")
	}

	ctx := context.Background()
	cfg, err := config.NewFromEnv()
	if err != nil {
		t.Skip("Skipping: No API keys found in environment")
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	budget := 80.0
	constraints := UserConstraints{
		Preferences:  []string{"quick meals"},
		Restrictions: []string{"no shellfish"},
		Inventory:    []string{"rice", "chicken breast", "onions", "canned tomatoes"},
		Budget:       &budget,
		Skill:        SkillIntermediate,
	}

	// One iteration keeps the eval cheap; threshold 0 accepts any score.
	p := NewPlanner(geminiClient, Options{MaxIterations: 1, QualityThreshold: 0}, nil)

	result, err := p.PlanMeals(ctx, constraints)
	if err != nil {
		t.Fatalf("Live session failed: %v", err)
	}

	// EVAL A: the generation must come back as a JSON object we can keep.
	if len(result.Plan) == 0 {
		t.Fatal("QUALITY FAIL: no plan payload returned")
	}

	// EVAL B: the evaluation must be complete and in range.
	if len(result.Evaluations) != 1 {
		t.Fatalf("QUALITY FAIL: expected 1 evaluation, got %d", len(result.Evaluations))
	}
	eval := result.Evaluations[0]
	if eval.OverallScore < 0 || eval.OverallScore > 100 {
		t.Errorf("QUALITY FAIL: overall score %v out of range", eval.OverallScore)
	}
	if eval.InventoryOptimization.Feedback == "" {
		t.Error("QUALITY FAIL: inventory criterion came back without feedback")
	}

	// EVAL C: usage metadata should be reported for both calls.
	if len(result.Metas) != 2 {
		t.Fatalf("expected 2 agent metas, got %d", len(result.Metas))
	}
	for _, m := range result.Metas {
		if m.Usage.TotalTokens == 0 {
			t.Errorf("agent %s reported no token usage", m.AgentName)
		}
	}
}
