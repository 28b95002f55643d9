package walk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/aidanlsb/kbaudit/internal/testutil"
)

func collect(t *testing.T, root string, opts Options) ([]string, []File) {
	t.Helper()
	var keys []string
	var failed []File
	err := WalkMarkdownFiles(context.Background(), root, opts, func(f File) error {
		if f.Error != nil {
			failed = append(failed, f)
			return nil
		}
		keys = append(keys, f.RelativePath)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkMarkdownFiles: %v", err)
	}
	return keys, failed
}

func TestWalkSkipsIndexHiddenAndExcluded(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("readme.md", "x").
		WithFile("index.md", "x").
		WithFile("go/modules.md", "x").
		WithFile("go/index.md", "x").
		WithFile("go/notes.txt", "x").
		WithFile(".git/HEAD.md", "x").
		WithFile("go/.draft.md", "x").
		WithFile("archive/2019/old.md", "x").
		WithFile("templates/topic.md", "x").
		Build()

	keys, failed := collect(t, c.Path, Options{
		IndexFile: "index.md",
		Exclude:   []string{"archive/**", "templates/*.md"},
	})
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if got := strings.Join(keys, ","); got != "go/modules.md,readme.md" {
		t.Errorf("keys = %s", got)
	}
}

func TestWalkMissingRootAborts(t *testing.T) {
	err := WalkMarkdownFiles(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{}, func(File) error { return nil })
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWalkReportsUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	c := testutil.NewTestCorpus(t).WithFile("a.md", "x").WithFile("b.md", "x").Build()
	if err := os.Chmod(filepath.Join(c.Path, "a.md"), 0o000); err != nil {
		t.Fatal(err)
	}

	keys, failed := collect(t, c.Path, Options{})
	if len(failed) != 1 || failed[0].RelativePath != "a.md" {
		t.Fatalf("failed = %v", failed)
	}
	if len(keys) != 1 || keys[0] != "b.md" {
		t.Errorf("keys = %v", keys)
	}
}

func TestWalkHonorsCancellation(t *testing.T) {
	c := testutil.NewTestCorpus(t).WithFile("a.md", "x").Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WalkMarkdownFiles(ctx, c.Path, Options{}, func(File) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidatePatterns(t *testing.T) {
	if err := ValidatePatterns([]string{"archive/**", "*.md"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePatterns([]string{"[unterminated"}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
