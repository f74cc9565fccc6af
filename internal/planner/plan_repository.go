package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoredPlan is a persisted planning session outcome.
type StoredPlan struct {
	ID           int64
	UserID       string
	PlanData     []byte // Raw JSON of the final plan payload
	Evaluations  []Evaluation
	OverallScore float64
	Iterations   int
	CreatedAt    time.Time
}

// PlanRepository is a database-backed repository for finished sessions.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a completed session result for a user and returns the row ID.
func (r *PlanRepository) Save(ctx context.Context, userID string, result SessionResult) (int64, error) {
	evalJSON, err := json.Marshal(result.Evaluations)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal evaluation history: %w", err)
	}

	var overall float64
	if n := len(result.Evaluations); n > 0 {
		overall = result.Evaluations[n-1].OverallScore
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, plan_data, evaluations, overall_score, iterations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, []byte(result.Plan), evalJSON, overall, len(result.Evaluations), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal plan: %w", err)
	}

	return res.LastInsertId()
}

// ListRecentByUserID retrieves the N most recent sessions for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, evaluations, overall_score, iterations, created_at
		 FROM meal_plans
		 WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var (
			plan     StoredPlan
			evalJSON []byte
		)
		if err := rows.Scan(&plan.ID, &plan.UserID, &plan.PlanData, &evalJSON, &plan.OverallScore, &plan.Iterations, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		if err := json.Unmarshal(evalJSON, &plan.Evaluations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evaluation history for plan %d: %w", plan.ID, err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// Latest returns the most recent session for a user, or nil when none exist.
func (r *PlanRepository) Latest(ctx context.Context, userID string) (*StoredPlan, error) {
	plans, err := r.ListRecentByUserID(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}
