package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the PRAGMA user_version Migrate leaves behind.
const SchemaVersion = 2

// Migrate applies every schema step above the database's user_version.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= SchemaVersion {
		return tx.Commit()
	}

	// ---- v1: jobs ----
	if v < 1 {
		if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  position TEXT NOT NULL,
  location TEXT NOT NULL,
  application_url TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  application_date TEXT NOT NULL
);
`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_jobs_status
ON jobs(status);
`); err != nil {
			return err
		}
	}

	// ---- v2: audit columns ----
	if v < 2 {
		for _, col := range []string{"created_at", "created_by", "modified_at", "modified_by"} {
			if columnExists(ctx, tx, "jobs", col) {
				continue
			}
			q := fmt.Sprintf(`ALTER TABLE jobs ADD COLUMN %s TEXT NOT NULL DEFAULT '';`, col)
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, SchemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func columnExists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, table, col string) bool {
	query := fmt.Sprintf(`
SELECT 1
FROM pragma_table_info('%s')
WHERE name = ?
LIMIT 1;
`, table)

	var one int
	err := q.QueryRowContext(ctx, query, col).Scan(&one)
	return err == nil
}
