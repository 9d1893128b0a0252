package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/nova/pkg/models"
)

func (r *SQLiteRepo) CreateProject(ctx context.Context, p *models.Project) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("project is nil")
	}
	if p.Status == "" {
		p.Status = models.ProjectQuestioning
	}

	var userID any
	if p.UserID != nil {
		userID = *p.UserID
	}
	res, err := r.conn.Exec(ctx,
		`INSERT INTO projects (user_id, title, description, status, created) VALUES (?, ?, ?, ?, ?)`,
		userID, p.Title, p.Description, p.Status, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, title, description, status, created FROM projects WHERE id = ?`, id)
	var p models.Project
	var userID sql.NullInt64
	if err := row.Scan(&p.ID, &userID, &p.Title, &p.Description, &p.Status, &p.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if userID.Valid {
		p.UserID = &userID.Int64
	}

	return &p, nil
}

func (r *SQLiteRepo) UpdateProjectStatus(ctx context.Context, id int64, status string) error {
	_, err := r.conn.Exec(ctx, `UPDATE projects SET status = ? WHERE id = ?`, status, id)
	return err
}
