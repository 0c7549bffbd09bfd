// Package integration provides end-to-end tests for the kbctl binary.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// kbctlBin is the path to the built kbctl binary.
	kbctlBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated environment with its own config and data
// directories and a copy of the sample domain.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataDir   string
	Domain    string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build kbctl: %v", buildErr)
	}
	if kbctlBin == "" {
		t.Fatal("kbctl binary not built (kbctlBin is empty)")
	}

	tempDir := t.TempDir()
	e := &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
	}
	e.Domain = e.CopyTestdata("delivery.yaml")
	return e
}

// CopyTestdata copies a file from testdata/ into the environment and
// returns its path.
func (e *TestEnv) CopyTestdata(name string) string {
	e.t.Helper()
	root, err := FindProjectRoot()
	if err != nil {
		e.t.Fatalf("find project root: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "testdata", name))
	if err != nil {
		e.t.Fatalf("read testdata %s: %v", name, err)
	}
	return e.WriteFile(name, string(data))
}

// WriteFile writes content under the environment's temp directory.
func (e *TestEnv) WriteFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.TempDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// CmdResult holds the result of a kbctl command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes kbctl with the environment's directories and domain.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()
	all := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir, "--domain", e.Domain}, args...)
	return e.RunWith(nil, "", all...)
}

// RunWith executes kbctl with args unchanged, extra environment variables
// and an optional working directory. CONTINGENT_* and XDG_* variables are
// stripped from the inherited environment.
func (e *TestEnv) RunWith(env []string, workDir string, args ...string) CmdResult {
	e.t.Helper()
	cmd := exec.Command(kbctlBin, args...)
	cmd.Env = append(cleanEnv(), env...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run kbctl: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes kbctl and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("kbctl %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Report mirrors the load report printed by check --json.
type Report struct {
	Problem      string `json:"problem"`
	Domain       string `json:"domain"`
	Instances    int    `json:"instances"`
	Predicates   int    `json:"predicates"`
	Functions    int    `json:"functions"`
	Conditionals int    `json:"conditionals"`
	GoalSet      bool   `json:"goal_set"`
	Rejected     []struct {
		Kind string `json:"kind"`
		Item string `json:"item"`
	} `json:"rejected"`
}

// CheckResult mirrors the output of check --json.
type CheckResult struct {
	Report        Report `json:"report"`
	GoalSatisfied bool   `json:"goal_satisfied"`
}

// Snapshot mirrors one archived snapshot in JSON output.
type Snapshot struct {
	SnapshotID string `json:"snapshot_id"`
	Label      string `json:"label"`
	Domain     string `json:"domain"`
	Problem    string `json:"problem"`
	CreatedAt  string `json:"created_at"`
}

// cleanEnv returns os.Environ() without CONTINGENT_* and XDG_* variables.
func cleanEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "CONTINGENT_") || strings.HasPrefix(e, "XDG_") {
			continue
		}
		env = append(env, e)
	}
	return env
}
