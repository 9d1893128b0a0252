package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/nova/pkg/models"
)

func (r *SQLiteRepo) AddAnswer(ctx context.Context, a *models.Answer) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("answer is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO answers (project_id, question_id, answer_text, created) VALUES (?, ?, ?, ?)`,
		a.ProjectID, a.QuestionID, a.AnswerTxt, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// ListAnswers returns the project's answers joined with their question
// text, in question order.
func (r *SQLiteRepo) ListAnswers(ctx context.Context, projectID int64) ([]models.Answer, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT a.id, a.project_id, a.question_id, a.answer_text, a.created, q.question_text
		 FROM answers a
		 JOIN questions q ON a.question_id = q.id
		 WHERE a.project_id = ?
		 ORDER BY q.question_order`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.QuestionID, &a.AnswerTxt, &a.Created, &a.QuestionTxt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
