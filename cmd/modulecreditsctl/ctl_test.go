package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI against the SQLite file at db.
func run(t *testing.T, db string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--backend", "sqlite", "--sqlite", db}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "records.csv")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

const sampleCSV = "date,module_name,module_group,compulsory_elective,semester,acquired_points\n" +
	"2024-01-10,Rechnungswesen,BWL,PF,1,24\n" +
	"2024-01-11,Marketing,BWL,WPF,2,8\n" +
	"2024-01-12,Methoden,SQL,PF,1,10\n"

func TestImportListReportClear(t *testing.T) {
	db := filepath.Join(t.TempDir(), "module_data.db")

	out, _, err := run(t, db, "import", writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 3 record(s).") {
		t.Errorf("import output = %q", out)
	}

	out, _, err = run(t, db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Methoden") || !strings.Contains(out, "3 record(s)") {
		t.Errorf("list output = %q", out)
	}
	if strings.Index(out, "Methoden") > strings.Index(out, "Rechnungswesen") {
		t.Error("list should show the most recent record first")
	}

	out, _, err = run(t, db, "list", "--group", "sql")
	if err != nil {
		t.Fatalf("list --group: %v", err)
	}
	if strings.Contains(out, "Rechnungswesen") || !strings.Contains(out, "1 record(s)") {
		t.Errorf("filtered list output = %q", out)
	}

	out, _, err = run(t, db, "report", "--json")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var rep struct {
		TotalPoints  int `json:"total_points"`
		Presentation map[string]struct {
			StatusText string `json:"status_text"`
		} `json:"presentation"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.TotalPoints != 42 {
		t.Errorf("total_points = %d, want 42", rep.TotalPoints)
	}
	if got := rep.Presentation["BWL"].StatusText; got != "Pass (0 Compulsory Remaining, 0 Electives Remaining)" {
		t.Errorf("BWL status = %q", got)
	}

	out, _, err = run(t, db, "report")
	if err != nil {
		t.Fatalf("report (text): %v", err)
	}
	if !strings.Contains(out, "Total points: 42") {
		t.Errorf("report output = %q", out)
	}

	out, _, err = run(t, db, "clear")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out, "3 record(s) removed") {
		t.Errorf("clear output = %q", out)
	}

	out, _, _ = run(t, db, "list")
	if !strings.Contains(out, "0 record(s)") {
		t.Errorf("list after clear = %q", out)
	}
}

func TestImport_InvalidRowsRejectFile(t *testing.T) {
	db := filepath.Join(t.TempDir(), "module_data.db")
	body := sampleCSV + "2024-01-13,Kaputt,XYZ,PF,1,5\n"

	_, stderr, err := run(t, db, "import", writeCSV(t, body))
	if !errors.Is(err, errInvalidRows) {
		t.Fatalf("expected errInvalidRows, got %v", err)
	}
	if !strings.Contains(stderr, "line 5") {
		t.Errorf("stderr should name the bad line, got %q", stderr)
	}

	out, _, err := run(t, db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "0 record(s)") {
		t.Errorf("nothing should be imported, list = %q", out)
	}
}

func TestUnknownBackend(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--backend", "redis", "list"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestImport_RequiresFileArg(t *testing.T) {
	db := filepath.Join(t.TempDir(), "module_data.db")
	if _, _, err := run(t, db, "import"); err == nil {
		t.Fatal("expected an argument error")
	}
}
