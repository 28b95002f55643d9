package runlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestLogAndRead(t *testing.T) {
	root := t.TempDir()
	l := New(root, true)

	stored, err := l.Log(Entry{Operation: OpAudit, FilesScanned: 3, Warn: 1})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if _, err := uuid.Parse(stored.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", stored.ID, err)
	}
	if err := l.LogWrite(OpIndex, []string{"go/index.md"}); err != nil {
		t.Fatalf("LogWrite: %v", err)
	}
	if err := l.LogWrite(OpIndex, nil); err != nil {
		t.Fatalf("LogWrite(nil): %v", err)
	}

	entries, err := l.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].ID != stored.ID || entries[1].Written[0] != "go/index.md" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	last, err := l.Last(1)
	if err != nil || len(last) != 1 || last[0].Operation != OpIndex {
		t.Errorf("Last(1) = %+v, %v", last, err)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, Dir, "runs.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "{\"id\":\"a\",\"op\":\"audit\"}\nnot json\n\n{\"id\":\"b\",\"op\":\"index\"}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := New(root, true).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 || entries[1].ID != "b" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	root := t.TempDir()
	l := New(root, false)
	if _, err := l.Log(Entry{Operation: OpAudit}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, Dir)); !os.IsNotExist(err) {
		t.Errorf("disabled logger created state directory")
	}
}
