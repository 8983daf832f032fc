// internal/app/store/records/sqlitemigrate.go
package recordstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// addedColumns are the columns module_data gained over the Flask table
// (id, date, module_name, module_group, compulsory_elective, semester,
// acquired_points).
var addedColumns = []struct {
	name string
	ddl  string
}{
	{"uid", `uid TEXT NOT NULL DEFAULT ''`},
	{"seq", `seq INTEGER NOT NULL DEFAULT 0`},
	{"created_at", `created_at INTEGER NOT NULL DEFAULT 0`},
}

// migrateSQLite brings an existing module_data table up to the current
// columns and backfills them. It is a no-op on a table this package created.
//
// Backfill: seq takes the row id (so the old auto-increment order is kept),
// uid gets a fresh uuid, created_at the migration time. The counter is then
// raised to MAX(seq) so new records sort after the old ones.
func migrateSQLite(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	var have []string
	if err := db.SelectContext(ctx, &have, `SELECT name FROM pragma_table_info('module_data')`); err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	present := make(map[string]bool, len(have))
	for _, c := range have {
		present[c] = true
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var added []string
	for _, col := range addedColumns {
		if present[col.name] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `ALTER TABLE module_data ADD COLUMN `+col.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
		added = append(added, col.name)
	}

	if !present["seq"] {
		if _, err := tx.ExecContext(ctx, `UPDATE module_data SET seq = id WHERE seq = 0`); err != nil {
			return fmt.Errorf("backfill seq: %w", err)
		}
	}
	if !present["created_at"] {
		if _, err := tx.ExecContext(ctx, `UPDATE module_data SET created_at = ? WHERE created_at = 0`,
			time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("backfill created_at: %w", err)
		}
	}

	var missingUID []int64
	if err := tx.SelectContext(ctx, &missingUID, `SELECT id FROM module_data WHERE uid = ''`); err != nil {
		return fmt.Errorf("find rows without uid: %w", err)
	}
	for _, id := range missingUID {
		if _, err := tx.ExecContext(ctx, `UPDATE module_data SET uid = ? WHERE id = ?`, uuid.NewString(), id); err != nil {
			return fmt.Errorf("backfill uid: %w", err)
		}
	}

	// WHERE true keeps SQLite from reading ON CONFLICT as a join clause.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO counters (name, value)
		SELECT ?, COALESCE(MAX(seq), 0) FROM module_data WHERE true
		ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`,
		SQLiteTable); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if len(added) > 0 || len(missingUID) > 0 {
		logger.Info("sqlite module_data upgraded",
			zap.Strings("added_columns", added),
			zap.Int("backfilled_rows", len(missingUID)))
	}
	return nil
}
