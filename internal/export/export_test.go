package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"PT-0042":        "PT-0042_pgx_report.json",
		"":               "patient_pgx_report.json",
		"   ":            "patient_pgx_report.json",
		"doe, john":      "doe_john_pgx_report.json",
		"../../etc/pwd":  "....etcpwd_pgx_report.json",
	}
	for id, want := range cases {
		if got := FileName(id); got != want {
			t.Errorf("FileName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteReport(dir, "PT-7", `{"patient_id":"PT-7"}`)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if filepath.Base(path) != "PT-7_pgx_report.json" {
		t.Errorf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != `{"patient_id":"PT-7"}` {
		t.Errorf("written content mismatch: %q, %v", data, err)
	}
}
