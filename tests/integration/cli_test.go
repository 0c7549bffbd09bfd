package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the kbctl binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "kbctl-test-*")
	if err != nil {
		buildErr = err
		os.Exit(1)
	}
	kbctlBin = filepath.Join(tmpDir, "kbctl")

	cmd := exec.Command("go", "build", "-o", kbctlBin, "./cmd/kbctl")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func TestInitCreatesConfigAndArchive(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRun("init")
	assert.NotEmpty(t, result.Stdout)

	assert.FileExists(t, filepath.Join(env.ConfigDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(env.DataDir, "snapshots.jsonl"))
}

func TestCheckSampleProblem(t *testing.T) {
	env := NewTestEnv(t)
	problem := env.CopyTestdata("morning.pddl")

	result := env.MustRun("--json", "check", problem)
	res := ParseJSON[CheckResult](t, result.Stdout)

	assert.Equal(t, "morning", res.Report.Problem)
	assert.Equal(t, "delivery", res.Report.Domain)
	assert.Equal(t, 6, res.Report.Instances)
	assert.Equal(t, 3, res.Report.Predicates)
	assert.Equal(t, 3, res.Report.Functions)
	assert.Equal(t, 4, res.Report.Conditionals)
	assert.True(t, res.Report.GoalSet)
	assert.Empty(t, res.Report.Rejected)
	assert.True(t, res.GoalSatisfied)
}

func TestCheckReportsRejections(t *testing.T) {
	env := NewTestEnv(t)
	problem := env.CopyTestdata("evening.pddl")

	result := env.MustRun("check", problem)
	assert.Contains(t, result.Stdout, "rejected instance: d1 - drone")
	assert.Contains(t, result.Stdout, "rejected predicate: (hovering d1)")
	assert.Contains(t, result.Stdout, "goal satisfied: false")

	strict := env.Run("check", "--strict", problem)
	assert.Equal(t, 1, strict.ExitCode)
	assert.Contains(t, strict.Stderr, "2 item(s) rejected")
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name    string
		problem string
		wantErr string
	}{
		{"unbalanced", "(define (problem p) (:domain delivery)", "syntax error"},
		{"wrong domain", "(define (problem p) (:domain patrol) (:objects r1 - robot))", "patrol"},
		{"missing file", "", "read problem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewTestEnv(t)
			path := filepath.Join(env.TempDir, "absent.pddl")
			if tt.problem != "" {
				path = env.WriteFile("problem.pddl", tt.problem)
			}
			result := env.Run("check", path)
			assert.Equal(t, 1, result.ExitCode)
			assert.Contains(t, result.Stderr, tt.wantErr)
		})
	}
}

func TestRenderIsStable(t *testing.T) {
	env := NewTestEnv(t)
	problem := env.CopyTestdata("morning.pddl")

	first := env.MustRun("render", problem)
	assert.NotContains(t, first.Stdout, "dock - location")
	assert.Contains(t, first.Stdout, "(oneof (item_at parcel kitchen) (item_at parcel lab))")

	again := env.WriteFile("rendered.pddl", first.Stdout)
	second := env.MustRun("render", again)
	assert.Equal(t, first.Stdout, second.Stdout)
}

func TestSnapshotRoundTrip(t *testing.T) {
	env := NewTestEnv(t)
	problem := env.CopyTestdata("morning.pddl")

	id := strings.TrimSpace(env.MustRun("snapshot", "save", problem).Stdout)
	second := strings.TrimSpace(env.MustRun("snapshot", "save", "--label", "retry", problem).Stdout)
	require.NotEqual(t, id, second)

	snaps := ParseJSON[[]Snapshot](t, env.MustRun("--json", "snapshot", "list").Stdout)
	require.Len(t, snaps, 2)
	assert.Equal(t, second, snaps[0].SnapshotID, "newest first")
	assert.Equal(t, "retry", snaps[0].Label)
	assert.Equal(t, "morning", snaps[1].Label)

	// The JSONL file is the source of truth; a fresh process rebuilds the
	// archive from it.
	lines, err := os.ReadFile(filepath.Join(env.DataDir, "snapshots.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(lines), "\n"))

	shown := env.MustRun("snapshot", "show", id)
	stored := env.WriteFile("stored.pddl", shown.Stdout)
	res := ParseJSON[CheckResult](t, env.MustRun("--json", "check", stored).Stdout)
	assert.True(t, res.GoalSatisfied)
	assert.Empty(t, res.Report.Rejected)

	env.MustRun("snapshot", "delete", id)
	missing := env.Run("snapshot", "show", id)
	assert.Equal(t, 1, missing.ExitCode)
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRun("version")
	assert.True(t, strings.HasPrefix(result.Stdout, "kbctl v"), result.Stdout)
}
