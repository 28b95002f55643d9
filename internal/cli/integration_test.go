//go:build integration

package cli_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/kbaudit/internal/doctype"
	"github.com/aidanlsb/kbaudit/internal/testutil"
)

const twoTopicManifest = `documents:
  - path: topics/go-modules.md
    type: topic
  - path: topics/go-workspaces.md
    type: topic
`

func today() string {
	return time.Now().Format("2006-01-02")
}

func twoTopics(t *testing.T) *testutil.TestCorpus {
	t.Helper()
	return testutil.NewTestCorpus(t).
		WithDoc("topics/go-modules.md", testutil.ValidTopic("Go Modules", today(), "topics/go-workspaces.md")).
		WithDoc("topics/go-workspaces.md", testutil.ValidTopic("Go Workspaces", today(), "topics/go-modules.md")).
		WithFile("manifest.yaml", twoTopicManifest)
}

// TestIntegration_AuditClean runs an audit over a corpus with no issues.
func TestIntegration_AuditClean(t *testing.T) {
	c := twoTopics(t).Build()

	result := c.RunCLI("audit", "--no-index")
	result.MustSucceed(t)
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
	if n := len(result.DataList("issues")); n != 0 {
		t.Errorf("expected no issues, got %d\n%s", n, result.RawJSON)
	}
	if result.DataString("run_id") == "" {
		t.Error("expected a run id")
	}
	c.AssertFileExists(".kbaudit/runs.log")
}

// TestIntegration_AuditFailure reports failures with a non-zero exit code.
func TestIntegration_AuditFailure(t *testing.T) {
	c := twoTopics(t).
		WithDoc("notes/pointer.md", testutil.Doc(doctype.Note).
			Field("description", "points nowhere").
			List("related", "topics/missing.md").
			Body("# Pointer\n")).
		Build()

	result := c.RunCLI("audit", "--no-index")
	result.MustFail(t, "VALIDATION_FAILED")
	if result.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", result.ExitCode)
	}
	result.AssertIssueCount(t, "broken-link", 1)
}

// TestIntegration_StrictFromConfig makes warnings fail the run.
func TestIntegration_StrictFromConfig(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithDoc("topics/go-modules.md", testutil.ValidTopic("Go Modules", "2001-01-01", "topics/go-workspaces.md")).
		WithDoc("topics/go-workspaces.md", testutil.ValidTopic("Go Workspaces", today(), "topics/go-modules.md")).
		WithFile("manifest.yaml", twoTopicManifest).
		Build()

	c.RunCLI("audit", "--no-index").MustSucceed(t).AssertIssueCount(t, "freshness", 1)

	c.WriteFile("kbaudit.toml", "strict = true\n")
	c.RunCLI("audit", "--no-index").MustFail(t, "VALIDATION_FAILED")
}

// TestIntegration_IndexLifecycle writes indexes and checks they stay current.
func TestIntegration_IndexLifecycle(t *testing.T) {
	c := twoTopics(t).Build()

	c.RunCLI("index", "--check").MustFail(t, "INDEX_STALE")

	result := c.RunCLI("index")
	result.MustSucceed(t)
	if got := result.DataList("written"); len(got) != 1 || got[0] != "topics/index.md" {
		t.Errorf("written = %v", got)
	}
	c.AssertFileContains("topics/index.md", "# Topics")

	c.RunCLI("index", "--check").MustSucceed(t)
	if got := c.RunCLI("index").MustSucceed(t).DataList("written"); len(got) != 0 {
		t.Errorf("second run wrote %v", got)
	}
}

// TestIntegration_ManifestWrite regenerates a stale manifest.
func TestIntegration_ManifestWrite(t *testing.T) {
	c := twoTopics(t).
		WithFile("manifest.yaml", twoTopicManifest+"  - path: topics/z.md\n    type: topic\n").
		Build()

	result := c.RunCLI("manifest")
	result.MustFail(t, "MANIFEST_STALE")

	c.RunCLI("manifest", "--write").MustSucceed(t)
	c.RunCLI("manifest").MustSucceed(t)
	if strings.Contains(c.ReadFile("manifest.yaml"), "topics/z.md") {
		t.Error("stale entry was not removed")
	}
}

// TestIntegration_NewDocument creates a skeleton that passes per-document checks.
func TestIntegration_NewDocument(t *testing.T) {
	c := testutil.NewTestCorpus(t).Build()

	result := c.RunCLI("new", "decision", "Adopt Go Workspaces", "--dir", "decisions")
	result.MustSucceed(t)
	path := result.DataString("path")
	if !strings.HasPrefix(path, "decisions/") || !strings.HasSuffix(path, "-adopt-go-workspaces.md") {
		t.Fatalf("unexpected path %q", path)
	}
	c.AssertFileContains(path, "## Consequences")

	c.RunCLI("new", "decision", "Adopt Go Workspaces", "--dir", "decisions").MustFail(t, "FILE_EXISTS")
	c.RunCLI("new", "journal", "Today").MustFail(t, "TYPE_NOT_FOUND")
	c.RunCLI("new", "plan", "Later", "--date", "next week").MustFail(t, "INVALID_INPUT")

	dated := c.RunCLI("new", "plan", "Q3 Launch", "--dir", "Team Plans", "--date", "2025-02-03")
	dated.MustSucceed(t)
	if got := dated.DataString("path"); got != "team-plans/2025-02-03-q3-launch.md" {
		t.Errorf("dated path = %q", got)
	}
	c.AssertFileContains("team-plans/2025-02-03-q3-launch.md", "last_updated: 2025-02-03")

	audit := c.RunCLI("audit", "--no-index")
	audit.MustSucceed(t)
	for _, check := range []string{"title", "sections", "size", "sources", "fields"} {
		audit.AssertIssueCount(t, check, 0)
	}
}

// TestIntegration_Types lists the registered types.
func TestIntegration_Types(t *testing.T) {
	c := testutil.NewTestCorpus(t).Build()

	result := c.RunCLI("types")
	result.MustSucceed(t)
	if got := len(result.DataList("types")); got != 6 {
		t.Errorf("expected 6 types, got %d", got)
	}
}

// TestIntegration_MissingRoot reports a structured error.
func TestIntegration_MissingRoot(t *testing.T) {
	c := testutil.NewTestCorpus(t).Build()
	c.Path = c.Path + "/does-not-exist"

	c.RunCLI("audit").MustFail(t, "ROOT_NOT_FOUND")
}
