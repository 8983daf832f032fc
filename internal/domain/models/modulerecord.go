// internal/domain/models/modulerecord.go
package models

import "time"

// Module categories.
//
// PF (Pflicht) marks a compulsory module, WPF (Wahlpflicht) an elective one.
// These values are stored verbatim in the compulsory_elective field.
const (
	CategoryPF  = "PF"
	CategoryWPF = "WPF"
)

// Categories is the full set of allowed compulsory_elective values.
var Categories = []string{
	CategoryPF,
	CategoryWPF,
}

// ModuleRecord is one completed module as submitted through the form
// (or imported from CSV). Records are immutable once stored; the only way
// to remove them is clearing the whole collection.
//
// Seq is assigned by the store on insert and strictly increases with
// insertion order. "Latest first" listings sort by Seq descending.
type ModuleRecord struct {
	ID                 string    `bson:"_id" json:"id"`
	Seq                int64     `bson:"seq" json:"seq"`
	Date               string    `bson:"date" json:"date"`
	ModuleName         string    `bson:"module_name" json:"module_name"`
	ModuleGroup        string    `bson:"module_group" json:"module_group"`
	CompulsoryElective string    `bson:"compulsory_elective" json:"compulsory_elective"`
	Semester           int       `bson:"semester" json:"semester"`
	AcquiredPoints     int       `bson:"acquired_points" json:"acquired_points"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// IsCompulsory reports whether the record counts toward compulsory (PF) points.
func (m ModuleRecord) IsCompulsory() bool { return m.CompulsoryElective == CategoryPF }

// IsElective reports whether the record counts toward elective (WPF) points.
func (m ModuleRecord) IsElective() bool { return m.CompulsoryElective == CategoryWPF }
