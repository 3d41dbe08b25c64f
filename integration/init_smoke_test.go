package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brewcalc/integration/harness"
)

func TestInitSmoke(t *testing.T) {
	r := harness.NewRunner(t)
	workspaceRoot := filepath.Join(t.TempDir(), "workspace-init")

	out := r.MustRun("init", "--workspace", workspaceRoot)
	if !strings.Contains(out, "Initialized workspace: ") {
		t.Fatalf("init output = %q", out)
	}

	paths := []string{
		filepath.Join(workspaceRoot, "recipes"),
		filepath.Join(workspaceRoot, "catalog"),
		filepath.Join(workspaceRoot, "data"),
		filepath.Join(workspaceRoot, "brewcalc.yml"),
		filepath.Join(workspaceRoot, "catalog", "grains.yml"),
		filepath.Join(workspaceRoot, "catalog", "hops.yml"),
		filepath.Join(workspaceRoot, "catalog", "yeasts.yml"),
		filepath.Join(workspaceRoot, "catalog", "equipment.yml"),
		filepath.Join(workspaceRoot, "catalog", "styles.yml"),
		filepath.Join(workspaceRoot, "recipes", "pale-ale.yml"),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing init path %s: %v", path, err)
		}
	}

	auditPath := filepath.Join(workspaceRoot, "data", "audit.sqlite")
	if _, err := os.Stat(auditPath); err != nil {
		t.Fatalf("audit db not written at %s: %v", auditPath, err)
	}
	requireAuditEvents(t, auditPath, []string{
		"workspace_init_started",
		"workspace_init_finished",
	})

	// A second init keeps edited files.
	recipePath := filepath.Join(workspaceRoot, "recipes", "pale-ale.yml")
	if err := os.WriteFile(recipePath, []byte("name: Edited\n"), 0o644); err != nil {
		t.Fatalf("edit recipe: %v", err)
	}
	r.MustRun("init", "--workspace", workspaceRoot)
	data, err := os.ReadFile(recipePath)
	if err != nil {
		t.Fatalf("read recipe: %v", err)
	}
	if string(data) != "name: Edited\n" {
		t.Fatalf("init overwrote recipe: %q", data)
	}
}
