package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestInlineQueriesCarryUniqueMarkers(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"../../internal/sqlinline"}, &stderr); code != 0 {
		t.Fatalf("sqllint failed on internal/sqlinline:\n%s", stderr.String())
	}
}

func TestRunReportsMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "q.go", "package q\n\nconst QBad = `select 1`\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "QBad") {
		t.Fatalf("expected violation for QBad, got %q", stderr.String())
	}
}

func TestRunReportsDuplicateMarker(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "q.go", "package q\n\nconst (\n"+
		"\tQOne = `--sql 11111111-2222-3333-4444-555555555555\nselect 1`\n"+
		"\tQTwo = `--sql 11111111-2222-3333-4444-555555555555\nselect 2`\n)\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "marker already used by QOne") {
		t.Fatalf("expected duplicate report, got %q", stderr.String())
	}
}

func TestRunIgnoresNonSQLStrings(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "q.go", "package q\n\nconst Greeting = \"hello there\"\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 0 {
		t.Fatalf("expected clean run, got %d: %s", code, stderr.String())
	}
}
