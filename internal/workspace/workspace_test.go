package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLayout(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ws.RecipesDir != filepath.Join(root, "recipes") || ws.ConfigPath != filepath.Join(root, "brewcalc.yml") {
		t.Fatalf("layout = %+v", ws)
	}
	if filepath.Dir(ws.StoreDBPath) != ws.DataDir || filepath.Dir(ws.AuditDBPath) != ws.DataDir {
		t.Fatalf("databases should live in the data dir: %+v", ws)
	}
	if err := ws.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, dir := range []string{ws.RecipesDir, ws.CatalogDir, ws.DataDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("missing dir %s: %v", dir, err)
		}
	}
}

func TestResolveRejectsFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(file); err == nil {
		t.Fatalf("expected error for non-directory root")
	}
	if _, err := Resolve("  "); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ws.ResolvePath("data/other.db")
	if err != nil || got != filepath.Join(root, "data", "other.db") {
		t.Fatalf("ResolvePath = %q, %v", got, err)
	}
	if got, _ := ws.ResolvePath(""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
}

func TestRecipePath(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(ws.RecipesDir, "pale-ale.yml")
	if err := os.WriteFile(want, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, arg := range []string{"pale-ale", "pale-ale.yml", want} {
		got, err := ws.RecipePath(arg)
		if err != nil || got != want {
			t.Fatalf("RecipePath(%q) = %q, %v", arg, got, err)
		}
	}
	_, err = ws.RecipePath("stout")
	if err == nil || !strings.Contains(err.Error(), "stout") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
