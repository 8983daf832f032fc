// internal/app/system/csvutil/records.go
package csvutil

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dalemusser/modulecredits/internal/app/system/recordinput"
	"github.com/dalemusser/modulecredits/internal/domain/models"
)

// ErrTooManyRows is returned when a file holds more data rows than allowed.
var ErrTooManyRows = errors.New("csv has too many rows")

// ParseOptions configures ParseRecordsCSV.
type ParseOptions struct {
	MaxRows int // 0 = unlimited
}

// DefaultParseOptions returns options with no row limit.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{}
}

// RowError describes one rejected line.
type RowError struct {
	Line   int
	Reason string
	Raw    []string
}

// ParseResult holds the parsed records and the rows that failed.
type ParseResult struct {
	Rows   []models.ModuleRecord
	Errors []RowError
}

// HasErrors reports whether any row failed.
func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// FormatErrorsHTML renders up to maxShow row errors for display.
func (r *ParseResult) FormatErrorsHTML(maxShow int) template.HTML {
	if !r.HasErrors() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Upload rejected: %d row(s) are invalid. No records were saved.<br>", len(r.Errors))

	n := len(r.Errors)
	if maxShow > 0 && n > maxShow {
		n = maxShow
	}
	for _, e := range r.Errors[:n] {
		b.WriteString("• line ")
		fmt.Fprintf(&b, "%d", e.Line)
		b.WriteString(": ")
		b.WriteString(template.HTMLEscapeString(e.Reason))
		b.WriteString("<br>")
	}
	if rest := len(r.Errors) - n; rest > 0 {
		fmt.Fprintf(&b, "… and %d more", rest)
	}
	return template.HTML(b.String())
}

// ParseRecordsCSV reads module records from r.
//
// Columns follow recordinput.FieldOrder. A header row is optional; when
// present its names select the columns, so any order works. A UTF-8 BOM is
// ignored, as are blank lines. Every row is parsed with recordinput.Parse;
// failures are collected rather than returned, so the caller sees all of
// them at once.
func ParseRecordsCSV(r io.Reader, rules models.GroupRules, opts ParseOptions) (*ParseResult, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ParseResult{}
	cols := defaultColumns()
	first := true
	dataRows := 0

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.Errors = append(result.Errors, RowError{Line: perr.Line, Reason: perr.Err.Error()})
				first = false
				continue
			}
			return nil, err
		}
		if first {
			first = false
			if m, ok := headerColumns(rec); ok {
				cols = m
				continue
			}
		}
		if isBlank(rec) {
			continue
		}

		dataRows++
		if opts.MaxRows > 0 && dataRows > opts.MaxRows {
			return nil, ErrTooManyRows
		}

		rowLine, _ := reader.FieldPos(0)

		mr, err := recordinput.Parse(formFromRow(rec, cols), rules)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: rowLine, Reason: rowReason(err), Raw: rec})
			continue
		}
		result.Rows = append(result.Rows, mr)
	}

	return result, nil
}

// defaultColumns maps each field to its position in FieldOrder.
func defaultColumns() map[string]int {
	m := make(map[string]int, len(recordinput.FieldOrder))
	for i, f := range recordinput.FieldOrder {
		m[f] = i
	}
	return m
}

// headerColumns recognizes a header row. Names are matched case-insensitively
// and spaces count as underscores ("Module Name" = module_name).
func headerColumns(rec []string) (map[string]int, bool) {
	known := make(map[string]bool, len(recordinput.FieldOrder))
	for _, f := range recordinput.FieldOrder {
		known[f] = true
	}

	m := make(map[string]int)
	for i, cell := range rec {
		name := strings.ToLower(strings.TrimSpace(cell))
		name = strings.ReplaceAll(name, " ", "_")
		if known[name] {
			if _, dup := m[name]; !dup {
				m[name] = i
			}
		}
	}
	// A real header names at least date and module_name.
	_, hasDate := m[recordinput.FieldDate]
	_, hasName := m[recordinput.FieldModuleName]
	if !hasDate || !hasName {
		return nil, false
	}
	return m, true
}

func formFromRow(rec []string, cols map[string]int) recordinput.Form {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return recordinput.Form{
		Date:               get(recordinput.FieldDate),
		ModuleName:         get(recordinput.FieldModuleName),
		ModuleGroup:        get(recordinput.FieldModuleGroup),
		CompulsoryElective: get(recordinput.FieldCompulsoryElective),
		Semester:           get(recordinput.FieldSemester),
		AcquiredPoints:     get(recordinput.FieldAcquiredPoints),
	}
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowReason(err error) string {
	var verr *recordinput.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr.Fields))
		for _, fe := range verr.Fields {
			msgs = append(msgs, fe.Message)
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}
