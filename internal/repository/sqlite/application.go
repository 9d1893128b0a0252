package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
)

// CreateApplication stores the application and bumps the task's
// denormalized applicant counter in the same transaction.
func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.TaskApplication) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}

	var id int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO task_applications (task_id, applicant_id, message, status, created) VALUES (?, ?, ?, ?, ?)`,
			a.TaskID, a.ApplicantID, a.Message, models.ApplicationPending, now())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE tasks SET applicants_count = applicants_count + 1 WHERE id = ?`, a.TaskID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, id int64) (*models.TaskApplication, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, task_id, applicant_id, message, status, created FROM task_applications WHERE id = ?`, id)
	var a models.TaskApplication
	if err := row.Scan(&a.ID, &a.TaskID, &a.ApplicantID, &a.Message, &a.Status, &a.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	return &a, nil
}

func (r *SQLiteRepo) ListApplicationsByTask(ctx context.Context, taskID int64) ([]models.TaskApplication, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, task_id, applicant_id, message, status, created FROM task_applications WHERE task_id = ? ORDER BY created`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TaskApplication
	for rows.Next() {
		var a models.TaskApplication
		if err := rows.Scan(&a.ID, &a.TaskID, &a.ApplicantID, &a.Message, &a.Status, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) HasApplied(ctx context.Context, taskID, applicantID int64) (bool, error) {
	var count int64
	row := r.conn.QueryRow(ctx,
		`SELECT COUNT(1) FROM task_applications WHERE task_id = ? AND applicant_id = ?`, taskID, applicantID)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// AcceptApplication accepts one pending application and, in the same
// transaction, assigns its task to the applicant and rejects every other
// pending application on that task.
func (r *SQLiteRepo) AcceptApplication(ctx context.Context, id int64) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var taskID, applicantID int64
		var appStatus string
		row := tx.QueryRowContext(ctx, `SELECT task_id, applicant_id, status FROM task_applications WHERE id = ?`, id)
		if err := row.Scan(&taskID, &applicantID, &appStatus); err != nil {
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			return err
		}
		if appStatus != models.ApplicationPending {
			return repository.ErrConflict
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET status = ?, assignee_id = ? WHERE id = ? AND status = ?`,
			models.TaskAssigned, applicantID, taskID, models.TaskAvailable)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// task already assigned, completed, or cancelled
			return repository.ErrConflict
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE task_applications SET status = ? WHERE id = ?`, models.ApplicationAccepted, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE task_applications SET status = ? WHERE task_id = ? AND id != ? AND status = ?`,
			models.ApplicationRejected, taskID, id, models.ApplicationPending)
		return err
	})
}

func (r *SQLiteRepo) RejectApplication(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx,
		`UPDATE task_applications SET status = ? WHERE id = ? AND status = ?`,
		models.ApplicationRejected, id, models.ApplicationPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		existing, err := r.GetApplication(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}
