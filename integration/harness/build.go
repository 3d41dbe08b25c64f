package harness

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var buildOnce sync.Once
var buildPath string
var buildErr error

var repoRootOnce sync.Once
var repoRoot string
var repoRootErr error

// RepoRoot returns the repository root for the current module.
func RepoRoot(t *testing.T) string {
	t.Helper()
	root, err := repoRootPath()
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	return root
}

func repoRootPath() (string, error) {
	repoRootOnce.Do(func() {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			repoRootErr = fmt.Errorf("runtime.Caller failed")
			return
		}

		root := filepath.Dir(filepath.Dir(filepath.Dir(file)))
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
			repoRootErr = fmt.Errorf("verify repo root: %w", err)
			return
		}
		repoRoot = root
	})
	return repoRoot, repoRootErr
}

// EnvBinary names a prebuilt brewcalc binary to test instead of building one.
const EnvBinary = "BREWCALC_TEST_BIN"

// BuildBinary returns the brewcalc CLI under test: the binary named by
// BREWCALC_TEST_BIN, or one compiled once per test run from ./cmd/brewcalc.
func BuildBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		if prebuilt := os.Getenv(EnvBinary); prebuilt != "" {
			if _, err := os.Stat(prebuilt); err != nil {
				buildErr = fmt.Errorf("%s: %w", EnvBinary, err)
				return
			}
			buildPath = prebuilt
			return
		}
		buildPath, buildErr = compile()
	})
	if buildErr != nil {
		t.Fatalf("build brewcalc binary: %v", buildErr)
	}
	return buildPath
}

func compile() (string, error) {
	root, err := repoRootPath()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "brewcalc-bin-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	outPath := filepath.Join(dir, "brewcalc")

	cmd := exec.Command("go", "build", "-trimpath", "-o", outPath, "./cmd/brewcalc")
	cmd.Dir = root
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("go build ./cmd/brewcalc: %w\n%s", err, output.String())
	}
	return outPath, nil
}
