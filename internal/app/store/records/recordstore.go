// Package recordstore persists module records.
//
// The Store contract is deliberately small: records can be inserted (one at
// a time or as an all-or-nothing batch), read back newest first, filtered by
// module group, counted, and cleared in bulk. There is no update or single
// delete; a stored record never changes.
//
// Two backends implement the contract: MongoStore (collection
// "module_records") and SQLiteStore (table "module_data"). Open selects one
// from a Config.
package recordstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown record store backend")

// Store is the record persistence contract consumed by handlers, the CLI
// and the progress report.
type Store interface {
	// Insert stores rec and returns it with ID, Seq and CreatedAt set.
	Insert(ctx context.Context, rec models.ModuleRecord) (models.ModuleRecord, error)

	// InsertMany stores all records or none of them. Seq follows slice order.
	InsertMany(ctx context.Context, recs []models.ModuleRecord) ([]models.ModuleRecord, error)

	// All returns every record, most recent first.
	All(ctx context.Context) ([]models.ModuleRecord, error)

	// FilterByGroup returns the records of one module group, most recent first.
	FilterByGroup(ctx context.Context, group string) ([]models.ModuleRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// ClearAll irreversibly deletes every record and returns how many were removed.
	ClearAll(ctx context.Context) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources owned by the store.
	Close(ctx context.Context) error
}

// Config selects and configures a backend for Open.
type Config struct {
	Backend string // "mongo" or "sqlite"

	// SQLite
	SQLitePath string

	// Mongo: an already connected database. The store does not own the client.
	MongoDB *mongo.Database
}

// Open returns the Store for cfg.Backend.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendMongo:
		if cfg.MongoDB == nil {
			return nil, fmt.Errorf("mongo backend requires a database handle")
		}
		return NewMongo(cfg.MongoDB, logger), nil
	case BackendSQLite, "":
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// prepare fills the store-assigned fields of a record about to be inserted.
func prepare(rec models.ModuleRecord, seq int64, now time.Time) models.ModuleRecord {
	rec.ID = uuid.NewString()
	rec.Seq = seq
	rec.CreatedAt = now
	return rec
}
