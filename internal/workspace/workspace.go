// Package workspace resolves the brewcalc directory layout: recipe files,
// preset catalog, and the data directory holding the store and brew log.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace defines workspace-relative paths for brewcalc operations.
type Workspace struct {
	Root        string
	RecipesDir  string
	CatalogDir  string
	DataDir     string
	ConfigPath  string
	StoreDBPath string
	AuditDBPath string
}

// Resolve expands and validates the workspace root, ensuring it exists.
func Resolve(root string) (*Workspace, error) {
	abs, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root is not a directory: %s", abs)
	}
	return newWorkspace(abs), nil
}

// ResolveRoot resolves the workspace root without requiring it to exist.
func ResolveRoot(root string) (string, error) {
	return resolveRoot(root)
}

// EnsureDirs creates the standard workspace directories.
func (w *Workspace) EnsureDirs() error {
	if w == nil {
		return fmt.Errorf("workspace is nil")
	}
	dirs := []string{
		w.RecipesDir,
		w.CatalogDir,
		w.DataDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure %s: %w", dir, err)
		}
	}
	return nil
}

// ResolvePath returns an absolute path, resolving relative paths from the workspace root.
func (w *Workspace) ResolvePath(path string) (string, error) {
	if w == nil {
		return "", fmt.Errorf("workspace is nil")
	}
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Abs(filepath.Join(w.Root, expanded))
}

func newWorkspace(root string) *Workspace {
	return &Workspace{
		Root:        root,
		RecipesDir:  filepath.Join(root, "recipes"),
		CatalogDir:  filepath.Join(root, "catalog"),
		DataDir:     filepath.Join(root, "data"),
		ConfigPath:  filepath.Join(root, "brewcalc.yml"),
		StoreDBPath: filepath.Join(root, "data", "brewcalc.sqlite"),
		AuditDBPath: filepath.Join(root, "data", "audit.sqlite"),
	}
}

func resolveRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", fmt.Errorf("workspace root is required")
	}
	expanded, err := expandHome(root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve workspace: %w", err)
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return "", fmt.Errorf("unsupported home expansion: %s", path)
}

// RecipePath locates a recipe file argument. Paths that exist as given win;
// otherwise the name is looked up in RecipesDir, with and without a .yml
// extension.
func (w *Workspace) RecipePath(arg string) (string, error) {
	if w == nil {
		return "", fmt.Errorf("workspace is nil")
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("recipe path is required")
	}
	expanded, err := expandHome(arg)
	if err != nil {
		return "", err
	}
	candidates := []string{expanded}
	if !filepath.IsAbs(expanded) {
		candidates = append(candidates, filepath.Join(w.RecipesDir, expanded))
		if filepath.Ext(expanded) == "" {
			candidates = append(candidates,
				filepath.Join(w.RecipesDir, expanded+".yml"),
				filepath.Join(w.RecipesDir, expanded+".yaml"),
			)
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return filepath.Abs(c)
		}
	}
	return "", fmt.Errorf("recipe %q not found (looked in %s)", arg, w.RecipesDir)
}
