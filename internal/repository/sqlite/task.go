package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
)

// CreateTasks inserts a generated batch for a project in one transaction
// and returns the new ids in input order.
func (r *SQLiteRepo) CreateTasks(ctx context.Context, projectID int64, tasks []models.Task) ([]int64, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("no tasks to create")
	}

	ids := make([]int64, 0, len(tasks))
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		for _, t := range tasks {
			status := t.Status
			if status == "" {
				status = models.TaskAvailable
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (project_id, title, description, difficulty, estimated_hours, skills, reward_credits, status, created)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				projectID, t.Title, t.Description, t.Difficulty, t.EstimatedHours, marshalStrings(t.Skills), t.RewardCredits, status, now())
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

const taskColumns = `id, project_id, title, description, difficulty, estimated_hours, skills, reward_credits, status, applicants_count, assignee_id, created`

func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	var t models.Task
	var skills string
	var assignee sql.NullInt64
	if err := scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Difficulty, &t.EstimatedHours, &skills, &t.RewardCredits, &t.Status, &t.Applicants, &assignee, &t.Created); err != nil {
		return nil, err
	}
	t.Skills = unmarshalStrings(skills)
	if assignee.Valid {
		t.AssigneeID = &assignee.Int64
	}
	return &t, nil
}

func (r *SQLiteRepo) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	return t, nil
}

// ListTasks applies the marketplace filters. Every user-supplied value is
// bound as a parameter; only fixed column names and operators are
// concatenated into the statement.
func (r *SQLiteRepo) ListTasks(ctx context.Context, f repository.TaskFilter) ([]models.Task, error) {
	var (
		clauses []string
		args    []any
	)

	if f.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, f.Status)
	}
	if f.Difficulty != "" {
		clauses = append(clauses, `difficulty = ?`)
		args = append(args, f.Difficulty)
	}
	if f.MinCredits != nil {
		clauses = append(clauses, `reward_credits >= ?`)
		args = append(args, *f.MinCredits)
	}
	if f.MaxCredits != nil {
		clauses = append(clauses, `reward_credits <= ?`)
		args = append(args, *f.MaxCredits)
	}
	if len(f.Skills) > 0 {
		// any-match over the JSON skills column; LIKE on the quoted
		// value keeps the match aligned to whole entries
		var skillClauses []string
		for _, s := range f.Skills {
			skillClauses = append(skillClauses, `skills LIKE '%' || ? || '%'`)
			args = append(args, `"`+s+`"`)
		}
		clauses = append(clauses, `(`+strings.Join(skillClauses, ` OR `)+`)`)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created DESC`

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// CompleteTask moves an assigned task to completed and credits the
// reward, in one transaction. The status update carries a compare-and-
// swap on (status, assignee_id) so a concurrent duplicate request finds
// zero affected rows and gets ErrConflict instead of a second award.
func (r *SQLiteRepo) CompleteTask(ctx context.Context, taskID, assigneeID int64) (int64, error) {
	var credits int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var status string
		var assignee sql.NullInt64
		var reward int64
		row := tx.QueryRowContext(ctx, `SELECT status, assignee_id, reward_credits FROM tasks WHERE id = ?`, taskID)
		if err := row.Scan(&status, &assignee, &reward); err != nil {
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			return err
		}
		if status != models.TaskAssigned || !assignee.Valid || assignee.Int64 != assigneeID {
			return repository.ErrConflict
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET status = ? WHERE id = ? AND status = ? AND assignee_id = ?`,
			models.TaskCompleted, taskID, models.TaskAssigned, assigneeID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return repository.ErrConflict
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET credits = credits + ? WHERE id = ?`, reward, assigneeID); err != nil {
			return err
		}
		credits = reward
		return nil
	})
	if err != nil {
		return 0, err
	}
	return credits, nil
}
