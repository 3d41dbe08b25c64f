package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"brewcalc/internal/recipe"
	"brewcalc/internal/storage"
)

func runRecipe(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s recipe: missing subcommand", appName)
	}

	switch args[0] {
	case "save":
		return runRecipeSave(args[1:], workspacePath)
	case "show":
		return runRecipeShow(args[1:], workspacePath)
	case "list":
		return runRecipeList(args[1:], workspacePath)
	case "history":
		return runRecipeHistory(args[1:], workspacePath)
	case "diff":
		return runRecipeDiff(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s recipe: unknown subcommand %q", appName, args[0])
	}
}

func runRecipeSave(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("recipe save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("as", "", "Recipe id to save under (default: the file's id, else a new id)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s recipe save [--as id] <recipe.yml>", appName)
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("recipe_save", map[string]any{"file": fs.Arg(0), "as": *id})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	ctx := context.Background()
	r, label, err := a.loadRecipe(ctx, fs.Args(), recipeSource{})
	if err != nil {
		finishErr = err
		return finishErr
	}
	if *id != "" {
		r.ID = strings.TrimSpace(*id)
	}
	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	rv, err := storage.NewRecipes(s).Save(ctx, r)
	if err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["recipe"] = label
	ev.Payload["id"] = rv.ID
	ev.Payload["version"] = rv.Version

	fmt.Fprintf(os.Stdout, "Saved %s as %s version %d\n", r.Name, rv.ID, rv.Version)
	return nil
}

func runRecipeShow(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("recipe show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	version := fs.Int("version", 0, "Version to show (default: latest)")
	asJSON := fs.Bool("json", false, "Print the stored JSON record instead of YAML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s recipe show [--version n] [--json] <id>", appName)
	}
	id := fs.Arg(0)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("recipe_show", map[string]any{"id": id, "version": *version})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	repo := storage.NewRecipes(s)
	ctx := context.Background()
	var rv storage.RecipeVersion
	if *version > 0 {
		rv, err = repo.Load(ctx, id, *version)
	} else {
		rv, err = repo.Latest(ctx, id)
	}
	if err != nil {
		finishErr = err
		return finishErr
	}

	if *asJSON {
		finishErr = writeJSON(os.Stdout, rv)
		return finishErr
	}
	data, err := recipe.Marshal(rv.Recipe)
	if err != nil {
		finishErr = err
		return finishErr
	}
	fmt.Fprintf(os.Stdout, "# %s version %d saved %s\n", rv.ID, rv.Version, rv.SavedAt.Format("2006-01-02 15:04"))
	_, finishErr = os.Stdout.Write(data)
	return finishErr
}

func runRecipeList(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("recipe list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("recipe_list", nil)
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	repo := storage.NewRecipes(s)
	ctx := context.Background()
	ids, err := repo.IDs(ctx)
	if err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["recipes"] = len(ids)
	for _, id := range ids {
		latest, err := repo.Latest(ctx, id)
		if err != nil {
			finishErr = err
			return finishErr
		}
		fmt.Fprintf(os.Stdout, "%-24s v%-3d %s\n", id, latest.Version, latest.Recipe.Name)
	}
	return nil
}

func runRecipeHistory(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("recipe history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s recipe history <id>", appName)
	}
	id := fs.Arg(0)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("recipe_history", map[string]any{"id": id})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	history, err := storage.NewRecipes(s).History(context.Background(), id)
	if err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["versions"] = len(history)
	for _, rv := range history {
		fmt.Fprintf(os.Stdout, "v%-3d %s  %s  %.1f L\n",
			rv.Version, rv.SavedAt.Format("2006-01-02 15:04:05"), rv.Recipe.Name, rv.Recipe.BatchVolumeL)
	}
	return nil
}

func runRecipeDiff(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("recipe diff", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	from := fs.Int("from", 0, "Older version (default: the one before --to)")
	to := fs.Int("to", 0, "Newer version (default: latest)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s recipe diff [--from n] [--to n] <id>", appName)
	}
	id := fs.Arg(0)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("recipe_diff", map[string]any{"id": id, "from": *from, "to": *to})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	repo := storage.NewRecipes(s)
	ctx := context.Background()
	if *to == 0 {
		latest, err := repo.Latest(ctx, id)
		if err != nil {
			finishErr = err
			return finishErr
		}
		*to = latest.Version
	}
	if *from == 0 {
		*from = *to - 1
	}
	if *from < 1 {
		finishErr = fmt.Errorf("%s has only version %d; nothing to diff", id, *to)
		return finishErr
	}

	diff, err := repo.Diff(ctx, id, *from, *to)
	if err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["from"] = *from
	ev.Payload["to"] = *to
	ev.Payload["changed"] = diff != ""
	if diff == "" {
		fmt.Fprintf(os.Stdout, "No differences between v%d and v%d\n", *from, *to)
		return nil
	}
	fmt.Fprint(os.Stdout, diff)
	return nil
}
