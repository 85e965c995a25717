package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanRepository is a database-backed PlanStore. Each user's plan is one
// row holding the week as a JSON blob.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// LoadPlan retrieves the stored plan for a user. Returns nil, nil when no
// plan has been saved yet.
func (r *PlanRepository) LoadPlan(ctx context.Context, userID string) (WeekPlan, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_data FROM meal_plans WHERE user_id = ?`, userID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No plan saved yet
		}
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	var week WeekPlan
	if err := json.Unmarshal([]byte(data), &week); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan JSON: %w", err)
	}
	return week.Normalize(), nil
}

// SavePlan upserts the user's plan. Last write wins.
func (r *PlanRepository) SavePlan(ctx context.Context, userID string, week WeekPlan) error {
	data, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (user_id, plan_data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET plan_data = excluded.plan_data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	return nil
}
