package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	dir := t.TempDir()
	l := NewLogger(dir)
	l.now = func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	}
	return l, filepath.Join(dir, "posts.log")
}

func TestRecordPosted(t *testing.T) {
	l, path := newTestLogger(t)

	id := l.Record("facebook", StatusPosted, "hello world", "")
	if id == "" {
		t.Error("Expected a generated attempt ID")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if !strings.Contains(got, "[2025-06-01T09:00:00Z] [FACEBOOK] [POSTED]") {
		t.Errorf("Expected header line with timestamp, platform and status, got:\n%s", got)
	}
	if !strings.Contains(got, "hello world\n") {
		t.Errorf("Expected content line, got:\n%s", got)
	}
	if strings.Contains(got, "Error:") {
		t.Errorf("Expected no error line on success, got:\n%s", got)
	}
	if !strings.Contains(got, strings.Repeat("─", 50)) {
		t.Errorf("Expected rule separator, got:\n%s", got)
	}
}

func TestRecordFailedIncludesError(t *testing.T) {
	l, path := newTestLogger(t)

	l.Record("linkedin", StatusFailed, "some content", "token expired")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if !strings.Contains(got, "[LINKEDIN] [FAILED]") {
		t.Errorf("Expected FAILED status, got:\n%s", got)
	}
	if !strings.Contains(got, "Error: token expired\n") {
		t.Errorf("Expected error line, got:\n%s", got)
	}
}

func TestRecordAppendsInOrder(t *testing.T) {
	l, path := newTestLogger(t)

	l.Record("facebook", StatusFailed, "first", "boom")
	l.Record("linkedin", StatusPosted, "second", "")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	failedIdx := strings.Index(got, "[FACEBOOK] [FAILED]")
	postedIdx := strings.Index(got, "[LINKEDIN] [POSTED]")
	if failedIdx == -1 || postedIdx == -1 {
		t.Fatalf("Expected both records, got:\n%s", got)
	}
	if failedIdx > postedIdx {
		t.Error("Expected records in append order")
	}

	if strings.Count(got, strings.Repeat("─", 50)) != 2 {
		t.Errorf("Expected one separator per record, got:\n%s", got)
	}
}

func TestRecordDryRun(t *testing.T) {
	l, path := newTestLogger(t)

	l.Record("instagram", StatusDryRun, "preview text", "")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INSTAGRAM] [DRY-RUN]") {
		t.Errorf("Expected DRY-RUN status, got:\n%s", string(data))
	}
}
