package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/nova/pkg/models"
)

// AddQuestion appends a question to the project transcript. When the
// order is not supplied the next position is derived from the current
// maximum, keeping the per-project ordering monotonic.
func (r *SQLiteRepo) AddQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("question is nil")
	}

	if q.Order <= 0 {
		row := r.conn.QueryRow(ctx, `SELECT COALESCE(MAX(question_order), 0) + 1 FROM questions WHERE project_id = ?`, q.ProjectID)
		if err := row.Scan(&q.Order); err != nil {
			return 0, err
		}
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO questions (project_id, question_text, question_order, created) VALUES (?, ?, ?, ?)`,
		q.ProjectID, q.QuestionTxt, q.Order, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListQuestions(ctx context.Context, projectID int64) ([]models.Question, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, project_id, question_text, question_order, created FROM questions WHERE project_id = ? ORDER BY question_order`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.QuestionTxt, &q.Order, &q.Created); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountQuestions(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM questions WHERE project_id = ?`, projectID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
