package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
)

func (r *SQLiteRepo) CreateLearningPlan(ctx context.Context, p *models.LearningPlan) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("learning plan is nil")
	}
	if p.InputsJSON == "" {
		p.InputsJSON = "{}"
	}
	if p.ProgressJSON == "" {
		p.ProgressJSON = "{}"
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO learning_plans (user_id, plan_json, inputs_json, progress_json, created, updated) VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.PlanJSON, p.InputsJSON, p.ProgressJSON, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetLearningPlan(ctx context.Context, id int64) (*models.LearningPlan, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, user_id, plan_json, inputs_json, progress_json, created, updated FROM learning_plans WHERE id = ?`, id)
	var p models.LearningPlan
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanJSON, &p.InputsJSON, &p.ProgressJSON, &p.Created, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepo) ListLearningPlansByUser(ctx context.Context, userID int64) ([]models.LearningPlan, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, user_id, plan_json, inputs_json, progress_json, created, updated FROM learning_plans WHERE user_id = ? ORDER BY created DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LearningPlan
	for rows.Next() {
		var p models.LearningPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanJSON, &p.InputsJSON, &p.ProgressJSON, &p.Created, &p.Updated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateLearningPlanProgress(ctx context.Context, id int64, progressJSON string) error {
	res, err := r.conn.Exec(ctx,
		`UPDATE learning_plans SET progress_json = ?, updated = ? WHERE id = ?`, progressJSON, now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
