package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"meal-agent/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db.SQL
}

func sampleResult(score float64) SessionResult {
	return SessionResult{
		Plan: json.RawMessage(`{"daily_meals": {}}`),
		Evaluations: []Evaluation{
			{
				InventoryOptimization: CriterionScore{Score: score, Feedback: "ok", Suggestions: []string{}},
				NutritionalVariety:    CriterionScore{Score: score, Feedback: "ok", Suggestions: []string{}},
				Practicality:          CriterionScore{Score: score, Feedback: "ok", Suggestions: []string{}},
				CostEfficiency:        CriterionScore{Score: score, Feedback: "ok", Suggestions: []string{}},
				PreferenceAlignment:   CriterionScore{Score: score, Feedback: "ok", Suggestions: []string{}},
				OverallScore:          score,
			},
		},
	}
}

func TestPlanRepositorySaveAndLatest(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))
	ctx := context.Background()

	id, err := repo.Save(ctx, "user-1", sampleResult(72))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero row ID")
	}

	if _, err := repo.Save(ctx, "user-1", sampleResult(91)); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	latest, err := repo.Latest(ctx, "user-1")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a stored plan")
	}
	if latest.OverallScore != 91 {
		t.Errorf("Latest returned score %v, want 91", latest.OverallScore)
	}
	if latest.Iterations != 1 {
		t.Errorf("unexpected iteration count: %d", latest.Iterations)
	}
	if len(latest.Evaluations) != 1 {
		t.Fatalf("expected 1 evaluation, got %d", len(latest.Evaluations))
	}
	if latest.Evaluations[0].Practicality.Feedback != "ok" {
		t.Error("evaluation history did not round-trip")
	}
}

func TestPlanRepositoryListRecentScopedToUser(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.Save(ctx, "user-1", sampleResult(80)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := repo.Save(ctx, "user-2", sampleResult(85)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	plans, err := repo.ListRecentByUserID(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListRecentByUserID failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan for user-1, got %d", len(plans))
	}
	if plans[0].UserID != "user-1" {
		t.Errorf("unexpected user: %s", plans[0].UserID)
	}
}

func TestPlanRepositoryLatestEmpty(t *testing.T) {
	repo := NewPlanRepository(newTestDB(t))

	latest, err := repo.Latest(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for a user with no plans, got %+v", latest)
	}
}
