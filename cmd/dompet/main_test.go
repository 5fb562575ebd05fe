package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setEnv(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", backend)
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "dompet.db"))
	t.Setenv("DATA_FILE", "")
	t.Setenv("PROJECT_ID", "home")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), nil, &stdout, &stderr); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run(context.Background(), []string{"frobnicate"}, &stdout, &stderr); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Unknown command: frobnicate") {
		t.Errorf("stderr = %q", stderr.String())
	}

	stdout.Reset()
	if err := run(context.Background(), []string{"help"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "report") {
		t.Errorf("help output missing commands: %q", stdout.String())
	}
}

func TestRunInvalidConfig(t *testing.T) {
	setEnv(t, "sheets")
	if _, err := runCmd(t, "report"); err == nil || !strings.Contains(err.Error(), "invalid data backend") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRunAddReportAndExport(t *testing.T) {
	dir := setEnv(t, "sqlite")

	out, err := runCmd(t, "add", "-amount", "5.000.000", "-category", "income", "-desc", "Salary", "-date", "2024-01-05", "-user", "u1")
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	if !strings.Contains(out, "Rp 5.000.000") {
		t.Errorf("add output = %q", out)
	}

	out, err = runCmd(t, "add", "-amount", "150000", "-category", "Playing", "-desc", "Concert", "-date", "2024-01-20", "-source", "saving")
	if err != nil {
		t.Fatalf("add from savings: %v", err)
	}
	if !strings.Contains(out, `"Cover for: Concert"`) {
		t.Errorf("expected cover record, got %q", out)
	}

	if _, err := runCmd(t, "budget", "-month", "2024-01", "-amount", "1000000"); err != nil {
		t.Fatalf("budget: %v", err)
	}

	out, err = runCmd(t, "report", "-period", "2024-01", "-sort", "highest")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{
		"Rp 5.000.000",
		"Concert",
		"Transactions (3)",
		"Budget 2024-01",
		"(set, ok)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}

	path := filepath.Join(dir, "jan.csv")
	if _, err := runCmd(t, "export", "-period", "2024-01", "-out", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "Date,Category,Description,Amount,Type,Added By" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestRunAddRejectsBadInput(t *testing.T) {
	setEnv(t, "memory")

	if _, err := runCmd(t, "add", "-amount", "abc", "-desc", "x"); err == nil {
		t.Error("expected error for malformed amount")
	}
	if _, err := runCmd(t, "add", "-amount", "10", "-desc", "x", "-source", "wallet"); err == nil {
		t.Error("expected error for unknown source")
	}
	if _, err := runCmd(t, "report", "-period", "2024-13"); err == nil {
		t.Error("expected error for invalid period")
	}
	if _, err := runCmd(t, "report", "-category", "Food"); err == nil {
		t.Error("expected error for unknown category filter")
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"living":  "Living",
		" SAVING": "Saving",
		"all":     "All",
		"Food":    "Food",
	}
	for in, want := range tests {
		if got := normalizeCategory(in); got != want {
			t.Errorf("normalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}
