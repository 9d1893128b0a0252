package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/garnizeh/nova/pkg/models"
)

func scanEnvTemplate(scan func(dest ...any) error) (*models.EnvTemplate, error) {
	var t models.EnvTemplate
	var deps, scaffold, hints string
	if err := scan(&t.ID, &t.Category, &t.Tier, &t.Runtime, &deps, &scaffold, &hints, &t.EvalCommand, &t.Created); err != nil {
		return nil, err
	}
	t.Dependencies = unmarshalStrings(deps)
	if err := json.Unmarshal([]byte(scaffold), &t.Scaffold); err != nil {
		t.Scaffold = map[string]string{}
	}
	if err := json.Unmarshal([]byte(hints), &t.UIHints); err != nil {
		t.UIHints = map[string]string{}
	}
	return &t, nil
}

const envTemplateColumns = `id, category, tier, runtime, dependencies, scaffold, ui_hints, eval_command, created`

func (r *SQLiteRepo) ListEnvTemplates(ctx context.Context) ([]models.EnvTemplate, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+envTemplateColumns+` FROM env_templates ORDER BY category, tier`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EnvTemplate
	for rows.Next() {
		t, err := scanEnvTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) GetEnvTemplate(ctx context.Context, category, tier string) (*models.EnvTemplate, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+envTemplateColumns+` FROM env_templates WHERE category = ? AND tier = ?`, category, tier)
	t, err := scanEnvTemplate(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	return t, nil
}

func (r *SQLiteRepo) CountEnvTemplates(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM env_templates`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SeedEnvTemplates inserts the fixed defaults; existing category/tier
// pairs are left untouched.
func (r *SQLiteRepo) SeedEnvTemplates(ctx context.Context, templates []models.EnvTemplate) error {
	for _, t := range templates {
		scaffold, err := json.Marshal(t.Scaffold)
		if err != nil {
			return err
		}
		hints, err := json.Marshal(t.UIHints)
		if err != nil {
			return err
		}
		if _, err := r.conn.Exec(ctx,
			`INSERT OR IGNORE INTO env_templates (category, tier, runtime, dependencies, scaffold, eval_command, ui_hints, created)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.Category, t.Tier, t.Runtime, marshalStrings(t.Dependencies), string(scaffold), t.EvalCommand, string(hints), now()); err != nil {
			return err
		}
	}
	return nil
}
