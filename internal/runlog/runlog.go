// Package runlog keeps an append-only JSONL record of audit runs and of the
// files each run wrote.
package runlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dir is the per-corpus state directory.
const Dir = ".kbaudit"

// Operations recorded in the log.
const (
	OpAudit    = "audit"
	OpIndex    = "index"
	OpManifest = "manifest"
	OpCreate   = "create"
)

// Entry is a single log record.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"ts"`
	Operation    string    `json:"op"`
	FilesScanned int       `json:"files_scanned,omitempty"`
	Warn         int       `json:"warn,omitempty"`
	Fail         int       `json:"fail,omitempty"`
	Failed       bool      `json:"failed,omitempty"`
	Strict       bool      `json:"strict,omitempty"`
	Written      []string  `json:"written,omitempty"`
}

// Logger appends entries to <root>/.kbaudit/runs.log.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
	now     func() time.Time
}

// New creates a logger for the corpus at root. A disabled logger is a no-op.
func New(root string, enabled bool) *Logger {
	if !enabled {
		return &Logger{}
	}
	return &Logger{
		path:    filepath.Join(root, Dir, "runs.log"),
		enabled: true,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Log writes an entry, assigning an ID and timestamp when missing, and returns
// the stored entry.
func (l *Logger) Log(entry Entry) (Entry, error) {
	if !l.enabled {
		return entry, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return entry, fmt.Errorf("marshal run entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return entry, fmt.Errorf("create run log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return entry, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return entry, fmt.Errorf("write run entry: %w", err)
	}
	return entry, nil
}

// LogWrite records files written by op. Nothing is logged when paths is empty.
func (l *Logger) LogWrite(op string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := l.Log(Entry{Operation: op, Written: paths})
	return err
}

// Read returns every entry in file order. Malformed lines are skipped.
func (l *Logger) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read run log: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// Last returns up to n of the most recent entries, newest first.
func (l *Logger) Last(n int) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, n)
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Enabled reports whether the logger writes anything.
func (l *Logger) Enabled() bool {
	return l.enabled
}
