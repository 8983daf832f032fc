// internal/app/store/records/sqlitestore.go
package recordstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteTable is the table holding records in the SQLite backend.
const SQLiteTable = "module_data"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS module_data (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		uid                 TEXT    NOT NULL DEFAULT '',
		seq                 INTEGER NOT NULL DEFAULT 0,
		date                TEXT    NOT NULL DEFAULT '',
		module_name         TEXT    NOT NULL DEFAULT '',
		module_group        TEXT    NOT NULL DEFAULT '',
		compulsory_elective TEXT    NOT NULL DEFAULT '',
		semester            INTEGER NOT NULL DEFAULT 0,
		acquired_points     INTEGER NOT NULL DEFAULT 0,
		created_at          INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	)`,
}

// sqliteIndexes run after migrateSQLite, once every column exists.
var sqliteIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_module_data_uid ON module_data (uid)`,
	`CREATE INDEX IF NOT EXISTS idx_module_data_seq ON module_data (seq DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_module_data_group_seq ON module_data (module_group, seq DESC)`,
}

// recordRow is the SQLite shape of a ModuleRecord. created_at is kept as
// unix milliseconds.
type recordRow struct {
	UID                string `db:"uid"`
	Seq                int64  `db:"seq"`
	Date               string `db:"date"`
	ModuleName         string `db:"module_name"`
	ModuleGroup        string `db:"module_group"`
	CompulsoryElective string `db:"compulsory_elective"`
	Semester           int    `db:"semester"`
	AcquiredPoints     int    `db:"acquired_points"`
	CreatedAt          int64  `db:"created_at"`
}

func toRow(m models.ModuleRecord) recordRow {
	return recordRow{
		UID:                m.ID,
		Seq:                m.Seq,
		Date:               m.Date,
		ModuleName:         m.ModuleName,
		ModuleGroup:        m.ModuleGroup,
		CompulsoryElective: m.CompulsoryElective,
		Semester:           m.Semester,
		AcquiredPoints:     m.AcquiredPoints,
		CreatedAt:          m.CreatedAt.UnixMilli(),
	}
}

func (r recordRow) model() models.ModuleRecord {
	return models.ModuleRecord{
		ID:                 r.UID,
		Seq:                r.Seq,
		Date:               r.Date,
		ModuleName:         r.ModuleName,
		ModuleGroup:        r.ModuleGroup,
		CompulsoryElective: r.CompulsoryElective,
		Semester:           r.Semester,
		AcquiredPoints:     r.AcquiredPoints,
		CreatedAt:          time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// SQLiteStore keeps records in a single SQLite file. It holds one
// connection, which serializes writers.
type SQLiteStore struct {
	db  *sqlx.DB
	log *zap.Logger
}

// OpenSQLite opens (and creates if needed) the database at path, applies
// pragmas and creates the schema. A module_data table left by the earlier
// Flask tool is upgraded in place.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	if err := migrateSQLite(ctx, db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	for _, stmt := range sqliteIndexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create indexes: %w", err)
		}
	}

	logger.Debug("sqlite record store ready", zap.String("path", path))
	return &SQLiteStore{db: db, log: logger}, nil
}

// applyPragmas configures SQLite for a small single-writer workload.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// ensureDir creates the parent directory of a file-backed database.
func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// DB returns the underlying handle for raw queries.
func (s *SQLiteStore) DB() *sqlx.DB { return s.db }

func (s *SQLiteStore) Insert(ctx context.Context, rec models.ModuleRecord) (models.ModuleRecord, error) {
	out, err := s.InsertMany(ctx, []models.ModuleRecord{rec})
	if err != nil {
		return models.ModuleRecord{}, err
	}
	return out[0], nil
}

func (s *SQLiteStore) InsertMany(ctx context.Context, recs []models.ModuleRecord) ([]models.ModuleRecord, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	first, err := reserveSeqTx(ctx, tx, int64(len(recs)))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	out := make([]models.ModuleRecord, len(recs))
	for i, rec := range recs {
		out[i] = prepare(rec, first+int64(i), now)
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO module_data
				(uid, seq, date, module_name, module_group, compulsory_elective, semester, acquired_points, created_at)
			VALUES
				(:uid, :seq, :date, :module_name, :module_group, :compulsory_elective, :semester, :acquired_points, :created_at)`,
			toRow(out[i])); err != nil {
			return nil, fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// reserveSeqTx bumps the module_data counter by n and returns the first
// reserved value.
func reserveSeqTx(ctx context.Context, tx *sqlx.Tx, n int64) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = value + excluded.value`,
		SQLiteTable, n); err != nil {
		return 0, fmt.Errorf("reserve sequence: %w", err)
	}
	var last int64
	if err := tx.GetContext(ctx, &last, `SELECT value FROM counters WHERE name = ?`, SQLiteTable); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	return last - n + 1, nil
}

// Upgraded tables keep their nullable legacy columns.
const selectRecords = `
	SELECT uid, seq,
		COALESCE(date, '')                AS date,
		COALESCE(module_name, '')         AS module_name,
		COALESCE(module_group, '')        AS module_group,
		COALESCE(compulsory_elective, '') AS compulsory_elective,
		COALESCE(semester, 0)             AS semester,
		COALESCE(acquired_points, 0)      AS acquired_points,
		created_at
	FROM module_data`

func (s *SQLiteStore) All(ctx context.Context) ([]models.ModuleRecord, error) {
	return s.query(ctx, selectRecords+` ORDER BY seq DESC`)
}

func (s *SQLiteStore) FilterByGroup(ctx context.Context, group string) ([]models.ModuleRecord, error) {
	return s.query(ctx, selectRecords+` WHERE module_group = ? ORDER BY seq DESC`, group)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...interface{}) ([]models.ModuleRecord, error) {
	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]models.ModuleRecord, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM module_data`)
	return n, err
}

func (s *SQLiteStore) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM module_data`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
)
