package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/nova/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, bio, skills, credits, avatar, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Bio, marshalStrings(u.Skills), u.Credits, u.Avatar, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var skills string
	var lastLogin sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Bio, &skills, &u.Credits, &u.Avatar, &u.Created, &lastLogin); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.Skills = unmarshalStrings(skills)
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Int64
	}

	return &u, nil
}

const userColumns = `id, username, email, password_hash, full_name, bio, skills, credits, avatar, created, last_login`

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// UpdateUserProfile writes the mutable profile fields; credentials and
// credits are managed elsewhere.
func (r *SQLiteRepo) UpdateUserProfile(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE users SET full_name = ?, bio = ?, skills = ?, avatar = ? WHERE id = ?`,
		u.FullName, u.Bio, marshalStrings(u.Skills), u.Avatar, u.ID)
	return err
}

func (r *SQLiteRepo) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, now(), id)
	return err
}
