package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"brewcalc/internal/audit"
	"brewcalc/internal/catalog"
	"brewcalc/internal/config"
	"brewcalc/internal/logger"
	"brewcalc/internal/recipe"
	"brewcalc/internal/storage"
	"brewcalc/internal/workspace"
)

const appName = "brewcalc"

func main() {
	flag.String("workspace", "", "Path to workspace root (default: current directory)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: homebrew recipe calculator\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init       Initialize a new workspace")
		fmt.Fprintln(os.Stderr, "  calc       Calculate a recipe's numbers")
		fmt.Fprintln(os.Stderr, "  recipe     Save, show, list, and diff stored recipe versions")
		fmt.Fprintln(os.Stderr, "  checklist  Print the brew-day checklist")
		fmt.Fprintln(os.Stderr, "  mash       Strike, infusion, and schedule calculators")
		fmt.Fprintln(os.Stderr, "  hops       Hop flavor estimate")
		fmt.Fprintln(os.Stderr, "  style      Compare a recipe against a style guideline")
		fmt.Fprintln(os.Stderr, "  catalog    Look up preset ingredients and equipment")
		fmt.Fprintln(os.Stderr, "  session    Record brew sessions")
		fmt.Fprintln(os.Stderr, "  log        Show the brew log")
		fmt.Fprintln(os.Stderr, "  help       Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	commands := map[string]func([]string, string) error{
		"init":      runInit,
		"calc":      runCalc,
		"recipe":    runRecipe,
		"checklist": runChecklist,
		"mash":      runMash,
		"hops":      runHops,
		"style":     runStyle,
		"catalog":   runCatalog,
		"session":   runSession,
		"log":       runLog,
	}
	run, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[1:], workspacePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

// app carries everything a command needs from the workspace.
type app struct {
	ws      *workspace.Workspace
	cfg     *config.Config
	log     *logger.Logger
	audit   *audit.Logger
	catalog *catalog.Provider
	store   *storage.Store
}

func openApp(workspacePath string) (*app, error) {
	if strings.TrimSpace(workspacePath) == "" {
		workspacePath = "."
	}
	ws, err := workspace.Resolve(workspacePath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(ws.ConfigPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	auditPath := ws.AuditDBPath
	if cfg.AuditDB != "" {
		auditPath, err = ws.ResolvePath(cfg.AuditDB)
		if err != nil {
			return nil, fmt.Errorf("resolve audit_db: %w", err)
		}
	}
	catalogDir := ws.CatalogDir
	if cfg.CatalogDir != "" {
		catalogDir, err = ws.ResolvePath(cfg.CatalogDir)
		if err != nil {
			return nil, fmt.Errorf("resolve catalog_dir: %w", err)
		}
	}

	return &app{
		ws:      ws,
		cfg:     cfg,
		log:     log,
		audit:   audit.NewLogger(auditPath),
		catalog: catalog.NewProvider(catalogDir, log.With("component", "catalog")),
	}, nil
}

// openStore opens the recipe/session store on first use.
func (a *app) openStore() (*storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	path := a.ws.StoreDBPath
	if a.cfg.Storage.DBPath != "" {
		var err error
		path, err = a.ws.ResolvePath(a.cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("resolve storage.db_path: %w", err)
		}
	}
	s, err := storage.Open(path,
		storage.WithQuota(a.cfg.Storage.QuotaBytes),
		storage.WithLogger(a.log.With("component", "storage")),
	)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Sync()
}

// commandEvent brackets a command with <name>_started and <name>_finished
// brew log events. Fields added to Payload before finish are logged with
// the finish event.
type commandEvent struct {
	app     *app
	name    string
	Payload map[string]any
}

func (a *app) startEvent(name string, payload map[string]any) *commandEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["workspace"] = a.ws.Root
	if err := a.audit.LogEvent("cli", name+"_started", payload); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}
	finish := make(map[string]any, len(payload))
	for k, v := range payload {
		finish[k] = v
	}
	return &commandEvent{app: a, name: name, Payload: finish}
}

func (e *commandEvent) finish(err error) {
	if err != nil {
		e.Payload["error"] = err.Error()
		e.app.log.Debug("command failed", "command", e.name, "error", err)
	}
	_ = e.app.audit.LogEvent("cli", e.name+"_finished", e.Payload)
}

// recipeSource names where a command reads its recipe from: a YAML file
// argument, or a stored recipe id and version.
type recipeSource struct {
	ID      string
	Version int
}

func (src *recipeSource) register(fs *flag.FlagSet) {
	fs.StringVar(&src.ID, "id", "", "Stored recipe id (instead of a recipe file)")
	fs.IntVar(&src.Version, "version", 0, "Stored recipe version (default: latest)")
}

// loadRecipe reads the recipe named by the positional args or the source
// flags, applies the configured default equipment, and expands presets.
func (a *app) loadRecipe(ctx context.Context, args []string, src recipeSource) (recipe.Recipe, string, error) {
	var r recipe.Recipe
	var label string
	switch {
	case src.ID != "":
		s, err := a.openStore()
		if err != nil {
			return recipe.Recipe{}, "", err
		}
		repo := storage.NewRecipes(s)
		var rv storage.RecipeVersion
		if src.Version > 0 {
			rv, err = repo.Load(ctx, src.ID, src.Version)
		} else {
			rv, err = repo.Latest(ctx, src.ID)
		}
		if err != nil {
			return recipe.Recipe{}, "", err
		}
		r = rv.Recipe
		label = fmt.Sprintf("%s@v%d", rv.ID, rv.Version)
	case len(args) == 1:
		path, err := a.ws.RecipePath(args[0])
		if err != nil {
			return recipe.Recipe{}, "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return recipe.Recipe{}, "", fmt.Errorf("read recipe: %w", err)
		}
		r, err = recipe.ParseDocument(data, path)
		if err != nil {
			return recipe.Recipe{}, "", err
		}
		label = path
	case len(args) == 0:
		return recipe.Recipe{}, "", fmt.Errorf("recipe file or --id is required")
	default:
		return recipe.Recipe{}, "", fmt.Errorf("expected one recipe file, got %d arguments", len(args))
	}

	if r.Equipment.Preset == "" && a.cfg.DefaultEquipment != "" {
		r.Equipment.Preset = a.cfg.DefaultEquipment
	}
	resolved, err := a.catalog.Resolve(r)
	if err != nil {
		return recipe.Recipe{}, "", fmt.Errorf("%s: %w", label, err)
	}
	if err := recipe.Validate(resolved); err != nil {
		return recipe.Recipe{}, "", err
	}
	a.log.Debug("recipe loaded", "source", label, "name", resolved.Name)
	return resolved, label, nil
}
