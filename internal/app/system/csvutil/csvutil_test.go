package csvutil

import (
	"strings"
	"testing"

	"github.com/dalemusser/modulecredits/internal/domain/models"
)

func parse(t *testing.T, csv string, opts ParseOptions) *ParseResult {
	t.Helper()
	result, err := ParseRecordsCSV(strings.NewReader(csv), models.DefaultGroupRules(), opts)
	if err != nil {
		t.Fatalf("ParseRecordsCSV() error = %v", err)
	}
	return result
}

func TestParseRecordsCSV_ValidRows(t *testing.T) {
	csv := `date,module_name,module_group,compulsory_elective,semester,acquired_points
2024-01-10,Kostenrechnung,BWL,PF,1,6
2024-01-11,Statistik,SQL,WPF,2,4
2024-01-12,Projekt,BT,PF,3,11`

	result := parse(t, csv, DefaultParseOptions())
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(result.Rows))
	}

	r := result.Rows[1]
	if r.ModuleName != "Statistik" || r.ModuleGroup != "SQL" || r.CompulsoryElective != "WPF" || r.Semester != 2 || r.AcquiredPoints != 4 {
		t.Errorf("row 1 = %+v", r)
	}
}

func TestParseRecordsCSV_NoHeader(t *testing.T) {
	csv := `2024-01-10,Kostenrechnung,BWL,PF,1,6
2024-01-11,Statistik,SQL,WPF,2,4`

	result := parse(t, csv, DefaultParseOptions())
	if len(result.Rows) != 2 {
		t.Errorf("got %d rows, want 2", len(result.Rows))
	}
}

func TestParseRecordsCSV_HeaderReordered(t *testing.T) {
	csv := `Module Name,Date,Acquired Points,Semester,Compulsory Elective,Module Group
Marketing,2024-03-01,5,4,wpf,slm`

	result := parse(t, csv, DefaultParseOptions())
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(result.Rows))
	}
	r := result.Rows[0]
	if r.ModuleName != "Marketing" || r.Date != "2024-03-01" || r.AcquiredPoints != 5 || r.Semester != 4 {
		t.Errorf("row = %+v", r)
	}
	if r.ModuleGroup != "SLM" || r.CompulsoryElective != "WPF" {
		t.Errorf("codes not normalized: %+v", r)
	}
}

func TestParseRecordsCSV_BOMHandling(t *testing.T) {
	csv := "\ufeffdate,module_name,module_group,compulsory_elective,semester,acquired_points\n2024-01-10,Recht,SOZ,PF,1,6"

	result := parse(t, csv, DefaultParseOptions())
	if result.HasErrors() {
		t.Errorf("unexpected errors with BOM: %v", result.Errors)
	}
	if len(result.Rows) != 1 {
		t.Errorf("got %d rows, want 1", len(result.Rows))
	}
}

func TestParseRecordsCSV_EmptyFile(t *testing.T) {
	result := parse(t, "", DefaultParseOptions())
	if len(result.Rows) != 0 || result.HasErrors() {
		t.Errorf("expected nothing, got %+v", result)
	}
}

func TestParseRecordsCSV_BadRows(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		errContains string
	}{
		{"non-integer semester", "2024-01-10,Recht,SOZ,PF,first,6", "semester must be a whole number"},
		{"non-integer points", "2024-01-10,Recht,SOZ,PF,1,6.5", "acquired_points must be a whole number"},
		{"unknown group", "2024-01-10,Recht,XYZ,PF,1,6", "module_group must be one of"},
		{"bad category", "2024-01-10,Recht,SOZ,X,1,6", "must be PF or WPF"},
		{"negative points", "2024-01-10,Recht,SOZ,PF,1,-6", "acquired_points must be 0 or greater"},
		{"short row", "2024-01-10,Recht", "module_group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parse(t, tt.csv, DefaultParseOptions())
			if len(result.Errors) != 1 {
				t.Fatalf("got %d errors, want 1", len(result.Errors))
			}
			if !strings.Contains(result.Errors[0].Reason, tt.errContains) {
				t.Errorf("reason %q doesn't contain %q", result.Errors[0].Reason, tt.errContains)
			}
			if result.Errors[0].Line != 1 {
				t.Errorf("line = %d, want 1", result.Errors[0].Line)
			}
		})
	}
}

func TestParseRecordsCSV_ErrorLineNumbers(t *testing.T) {
	csv := `date,module_name,module_group,compulsory_elective,semester,acquired_points
2024-01-10,Recht,SOZ,PF,1,6

2024-01-11,Bad,SOZ,PF,x,6`

	result := parse(t, csv, DefaultParseOptions())
	if len(result.Rows) != 1 {
		t.Errorf("got %d rows, want 1", len(result.Rows))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	if result.Errors[0].Line != 4 {
		t.Errorf("line = %d, want 4", result.Errors[0].Line)
	}
}

func TestParseRecordsCSV_MaxRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("date,module_name,module_group,compulsory_elective,semester,acquired_points\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("2024-01-10,Recht,SOZ,PF,1,6\n")
	}

	_, err := ParseRecordsCSV(strings.NewReader(sb.String()), models.DefaultGroupRules(), ParseOptions{MaxRows: 5})
	if err != ErrTooManyRows {
		t.Errorf("error = %v, want ErrTooManyRows", err)
	}
}

func TestParseRecordsCSV_SkipsEmptyRows(t *testing.T) {
	csv := `2024-01-10,Recht,SOZ,PF,1,6
,,,,,

2024-01-11,Recht II,SOZ,PF,2,6

`
	result := parse(t, csv, DefaultParseOptions())
	if len(result.Rows) != 2 {
		t.Errorf("got %d rows, want 2", len(result.Rows))
	}
}

func TestParseResult_FormatErrorsHTML(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &ParseResult{}
		if html := r.FormatErrorsHTML(5); html != "" {
			t.Errorf("FormatErrorsHTML() = %q, want empty", html)
		}
	})

	t.Run("with errors", func(t *testing.T) {
		r := &ParseResult{
			Errors: []RowError{
				{Line: 1, Reason: "semester must be a whole number"},
				{Line: 2, Reason: "<b>bad</b>"},
			},
		}
		html := string(r.FormatErrorsHTML(5))
		if !strings.Contains(html, "2 row(s) are invalid") {
			t.Error("missing error count")
		}
		if !strings.Contains(html, "semester must be a whole number") {
			t.Error("missing error reason")
		}
		if strings.Contains(html, "<b>bad</b>") {
			t.Error("reason was not escaped")
		}
	})

	t.Run("truncates to maxShow", func(t *testing.T) {
		r := &ParseResult{Errors: make([]RowError, 10)}
		for i := range r.Errors {
			r.Errors[i] = RowError{Line: i + 1, Reason: "error"}
		}
		if html := r.FormatErrorsHTML(3); !strings.Contains(string(html), "and 7 more") {
			t.Error("doesn't show remaining count")
		}
	})
}

func TestConstants(t *testing.T) {
	if MaxUploadSize != 5<<20 {
		t.Errorf("MaxUploadSize = %d, want %d (5MB)", MaxUploadSize, 5<<20)
	}
	if MaxRows != 20000 {
		t.Errorf("MaxRows = %d, want 20000", MaxRows)
	}
}
