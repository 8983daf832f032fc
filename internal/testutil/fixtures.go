package testutil

import (
	"context"
	"testing"

	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	store recordstore.Store
	t     *testing.T
}

// NewFixtures creates a new Fixtures instance for the given store.
func NewFixtures(t *testing.T, store recordstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() recordstore.Store {
	return f.store
}

// CreateRecord inserts a record for group with the given category and points.
func (f *Fixtures) CreateRecord(ctx context.Context, group, category string, points int) models.ModuleRecord {
	f.t.Helper()

	rec, err := f.store.Insert(ctx, models.ModuleRecord{
		Date:               "2024-03-01",
		ModuleName:         "Test Module " + group,
		ModuleGroup:        group,
		CompulsoryElective: category,
		Semester:           1,
		AcquiredPoints:     points,
	})
	if err != nil {
		f.t.Fatalf("failed to create test record: %v", err)
	}
	return rec
}

// CreatePF inserts a compulsory record.
func (f *Fixtures) CreatePF(ctx context.Context, group string, points int) models.ModuleRecord {
	return f.CreateRecord(ctx, group, models.CategoryPF, points)
}

// CreateWPF inserts an elective record.
func (f *Fixtures) CreateWPF(ctx context.Context, group string, points int) models.ModuleRecord {
	return f.CreateRecord(ctx, group, models.CategoryWPF, points)
}

// Count returns the number of stored records, failing the test on error.
func (f *Fixtures) Count(ctx context.Context) int64 {
	f.t.Helper()
	n, err := f.store.Count(ctx)
	if err != nil {
		f.t.Fatalf("count records: %v", err)
	}
	return n
}
