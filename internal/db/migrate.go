package db

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies migrations and the env-template seed found in the
// repository. It creates a `schema_migrations` table to track applied
// migrations and applies any SQL files in `db/migrations/` that have not
// yet been recorded. The env-template seed is applied only when the
// env_templates table is empty, so operator edits survive restarts.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// filename (without extension) is the migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		p := path.Join(migDir, fname)
		b, err := fs.ReadFile(migrationFS, p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}

	return seedEnvTemplates(ctx, d, seedFS)
}

// seedTemplate mirrors the JSON shape of db/seed/env_templates.json.
type seedTemplate struct {
	Category     string            `json:"category"`
	Tier         string            `json:"tier"`
	Runtime      string            `json:"runtime"`
	Dependencies []string          `json:"dependencies"`
	Scaffold     map[string]string `json:"scaffold"`
	EvalCommand  string            `json:"eval_command"`
	UIHints      map[string]string `json:"ui_hints"`
}

func seedEnvTemplates(ctx context.Context, d *DB, seedFS embed.FS) error {
	b, err := fs.ReadFile(seedFS, path.Join("seed", "env_templates.json"))
	if err != nil {
		// no seed shipped; nothing to do
		return nil
	}

	var count int64
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM env_templates`).Scan(&count); err != nil {
		return fmt.Errorf("count env_templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	var templates []seedTemplate
	if err := json.Unmarshal(b, &templates); err != nil {
		return fmt.Errorf("parse env template seed: %w", err)
	}

	for _, t := range templates {
		deps, err := json.Marshal(t.Dependencies)
		if err != nil {
			return fmt.Errorf("marshal seed deps: %w", err)
		}
		scaffold, err := json.Marshal(t.Scaffold)
		if err != nil {
			return fmt.Errorf("marshal seed scaffold: %w", err)
		}
		hints, err := json.Marshal(t.UIHints)
		if err != nil {
			return fmt.Errorf("marshal seed ui hints: %w", err)
		}
		if _, err := d.Exec(ctx,
			`INSERT OR IGNORE INTO env_templates (category, tier, runtime, dependencies, scaffold, eval_command, ui_hints, created)
			 VALUES (?, ?, ?, ?, ?, ?, ?, strftime('%s','now'))`,
			t.Category, t.Tier, t.Runtime, string(deps), string(scaffold), t.EvalCommand, string(hints)); err != nil {
			return fmt.Errorf("seed env template %s/%s: %w", t.Category, t.Tier, err)
		}
	}

	return nil
}
