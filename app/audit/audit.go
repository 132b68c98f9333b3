// Package audit appends post attempt records to the posts.log file, the
// bot's only persisted output.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPosted Status = "POSTED"
	StatusDryRun Status = "DRY-RUN"
	StatusFailed Status = "FAILED"
)

const logFileName = "posts.log"

var ruleLine = strings.Repeat("─", 50)

// Logger appends one record block per post attempt: ISO-8601 timestamp,
// upper-cased platform name, status, the content, an error line on failure,
// and a fixed-width rule separator.
type Logger struct {
	dir string
	mu  sync.Mutex

	now func() time.Time
}

func NewLogger(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

// Record appends an attempt record and returns its generated attempt ID.
// Audit failures are logged but not propagated: a full disk must not stop
// the posting loop.
func (l *Logger) Record(platform string, status Status, content string, errMsg string) string {
	attemptID := uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		slog.Error("Failed to create logs directory", "dir", l.dir, "error", err)
		return attemptID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s]\n", l.now().UTC().Format(time.RFC3339), strings.ToUpper(platform), status)
	b.WriteString(content)
	b.WriteString("\n")
	if errMsg != "" {
		fmt.Fprintf(&b, "Error: %s\n", errMsg)
	}
	b.WriteString(ruleLine)
	b.WriteString("\n")

	path := filepath.Join(l.dir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("Failed to open audit log", "path", path, "error", err)
		return attemptID
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		slog.Error("Failed to append audit record", "path", path, "attempt_id", attemptID, "error", err)
	}

	return attemptID
}
