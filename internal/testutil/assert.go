package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (c *TestCorpus) AssertFileExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(filepath.Join(c.Path, filepath.FromSlash(relPath))); os.IsNotExist(err) {
		c.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (c *TestCorpus) AssertFileNotExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(filepath.Join(c.Path, filepath.FromSlash(relPath))); err == nil {
		c.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (c *TestCorpus) AssertFileContains(relPath, substr string) {
	c.t.Helper()
	content := c.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		c.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertIssueCount checks the number of reported issues for a check.
func (r *CLIResult) AssertIssueCount(t *testing.T, check string, expected int) {
	t.Helper()
	n := 0
	for _, raw := range r.DataList("issues") {
		if m, ok := raw.(map[string]interface{}); ok && m["check"] == check {
			n++
		}
	}
	if n != expected {
		t.Errorf("expected %d %s issues, got %d\nRaw: %s", expected, check, n, r.RawJSON)
	}
}
