package harness

import (
	"bytes"
	"os"
	"os/exec"
	"sort"
	"strings"
	"testing"
)

// Result is one CLI invocation's output.
type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// Runner invokes the brewcalc binary from a scratch directory with an
// environment that ignores the caller's BREWCALC_* settings.
type Runner struct {
	t   *testing.T
	Bin string
	Dir string
	Env map[string]string
}

// NewRunner builds the binary once and returns a runner with logging off.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{
		t:   t,
		Bin: BuildBinary(t),
		Dir: t.TempDir(),
		Env: map[string]string{
			"BREWCALC_LOG_MODE": "off",
			"BREWCALC_AUDIT_DB": "",
		},
	}
}

// WithEnv returns a copy of r with the overrides applied on top of its env.
func (r *Runner) WithEnv(overrides map[string]string) *Runner {
	env := make(map[string]string, len(r.Env)+len(overrides))
	for k, v := range r.Env {
		env[k] = v
	}
	for k, v := range overrides {
		env[k] = v
	}
	return &Runner{t: r.t, Bin: r.Bin, Dir: r.Dir, Env: env}
}

// Run executes the CLI and reports its output and exit code.
func (r *Runner) Run(args ...string) Result {
	r.t.Helper()

	cmd := exec.Command(r.Bin, args...)
	cmd.Dir = r.Dir
	cmd.Env = mergeEnv(r.Env)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{}
	if err := cmd.Run(); err != nil {
		ee, ok := err.(*exec.ExitError)
		if !ok {
			r.t.Fatalf("run %s: %v", r.Bin, err)
		}
		res.Code = ee.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

// MustRun executes the CLI, fails the test on a non-zero exit, and returns
// stdout.
func (r *Runner) MustRun(args ...string) string {
	r.t.Helper()
	res := r.Run(args...)
	if res.Code != 0 {
		r.t.Fatalf("brewcalc %s exit code %d\nstdout:\n%s\nstderr:\n%s",
			strings.Join(args, " "), res.Code, res.Stdout, res.Stderr)
	}
	return res.Stdout
}

// mergeEnv overlays overrides on the process environment. An empty value
// removes the variable.
func mergeEnv(overrides map[string]string) []string {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		key, val, _ := strings.Cut(entry, "=")
		env[key] = val
	}
	for k, v := range overrides {
		if v == "" {
			delete(env, k)
			continue
		}
		env[k] = v
	}

	merged := make([]string, 0, len(env))
	for k, v := range env {
		merged = append(merged, k+"="+v)
	}
	sort.Strings(merged)
	return merged
}
