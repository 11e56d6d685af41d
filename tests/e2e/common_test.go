package main_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	buildOnce sync.Once
	bviPath   string
	buildErr  error
	buildLog  []byte
)

// buildBviBinary compiles cmd/bvi once per test run and returns its path
func buildBviBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "bvi-e2e-")
		if err != nil {
			buildErr = err
			return
		}
		name := "bvi"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		bviPath = filepath.Join(dir, name)

		cmd := exec.Command("go", "build", "-o", bviPath, "./cmd/bvi")
		cmd.Dir = filepath.Join("..", "..")
		buildLog, buildErr = cmd.CombinedOutput()
	})
	if buildErr != nil {
		t.Fatalf("build bvi: %v\n%s", buildErr, buildLog)
	}
	return bviPath
}

func writeIssuesJSONL(t *testing.T, repoDir, content string) {
	t.Helper()
	beadsDir := filepath.Join(repoDir, ".beads")
	if err := os.MkdirAll(beadsDir, 0o755); err != nil {
		t.Fatalf("mkdir .beads: %v", err)
	}
	if err := os.WriteFile(filepath.Join(beadsDir, "issues.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatalf("write issues.jsonl: %v", err)
	}
}

// runBvi runs the binary in repoDir and returns stdout, stderr and the exit code
func runBvi(t *testing.T, repoDir string, args ...string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(buildBviBinary(t), args...)
	cmd.Dir = repoDir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("run bvi %v: %v", args, err)
	}
	return stdout.String(), stderr.String(), code
}
