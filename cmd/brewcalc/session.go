package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"brewcalc/internal/audit"
	"brewcalc/internal/calc"
	"brewcalc/internal/checklist"
	"brewcalc/internal/storage"
)

func runChecklist(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("checklist", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	sessionID := fs.String("session", "", "Brew session whose overrides to merge (its recipe is used when no file is given)")
	all := fs.Bool("all", false, "Include disabled items")
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	var src recipeSource
	src.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("checklist", map[string]any{"args": fs.Args(), "id": src.ID, "session": *sessionID})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	ctx := context.Background()
	var overrides []checklist.Item
	if *sessionID != "" {
		sess, err := a.loadSession(ctx, *sessionID)
		if err != nil {
			finishErr = err
			return finishErr
		}
		overrides = sess.Checklist
		if fs.NArg() == 0 && src.ID == "" {
			src = recipeSource{ID: sess.RecipeID, Version: sess.RecipeVersion}
		}
	}
	r, label, err := a.loadRecipe(ctx, fs.Args(), src)
	if err != nil {
		finishErr = err
		return finishErr
	}
	items := checklist.Merge(checklist.Generate(r, calc.Calculate(r)), overrides)
	ev.Payload["recipe"] = label
	ev.Payload["items"] = len(items)

	if !*all {
		enabled := make([]checklist.Item, 0, len(items))
		for _, it := range items {
			if it.Enabled {
				enabled = append(enabled, it)
			}
		}
		items = enabled
	}
	if *asJSON {
		finishErr = writeJSON(os.Stdout, items)
		return finishErr
	}
	fmt.Fprintf(os.Stdout, "%s brew day\n", r.Name)
	var stage checklist.Stage
	for _, it := range items {
		if it.Stage != stage {
			stage = it.Stage
			fmt.Fprintf(os.Stdout, "[%s]\n", stage)
		}
		box := "[ ]"
		if !it.Enabled {
			box = "[-]"
		}
		line := fmt.Sprintf("  %s %s", box, it.Label)
		if it.Detail != "" {
			line += ": " + it.Detail
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func runSession(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s session: missing subcommand", appName)
	}

	switch args[0] {
	case "start":
		return runSessionStart(args[1:], workspacePath)
	case "show":
		return runSessionShow(args[1:], workspacePath)
	case "list":
		return runSessionList(args[1:], workspacePath)
	case "add-item":
		return runSessionAddItem(args[1:], workspacePath)
	case "measure":
		return runSessionMeasure(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s session: unknown subcommand %q", appName, args[0])
	}
}

func (a *app) loadSession(ctx context.Context, id string) (storage.Session, error) {
	s, err := a.openStore()
	if err != nil {
		return storage.Session{}, err
	}
	return storage.NewSessions(s).Load(ctx, id)
}

func runSessionStart(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("session start", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	recipeID := fs.String("recipe", "", "Stored recipe id")
	version := fs.Int("version", 0, "Recipe version (default: latest)")
	date := fs.String("date", "", "Brew date YYYY-MM-DD (default: today)")
	notes := fs.String("notes", "", "Session notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *recipeID == "" {
		return fmt.Errorf("--recipe is required")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("session_start", map[string]any{"recipe": *recipeID, "version": *version, "date": *date})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	ctx := context.Background()
	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	repo := storage.NewRecipes(s)
	var rv storage.RecipeVersion
	if *version > 0 {
		rv, err = repo.Load(ctx, *recipeID, *version)
	} else {
		rv, err = repo.Latest(ctx, *recipeID)
	}
	if err != nil {
		finishErr = err
		return finishErr
	}

	sessions := storage.NewSessions(s)
	sess, err := sessions.Start(ctx, rv.ID, rv.Version, *date)
	if err != nil {
		finishErr = err
		return finishErr
	}
	if *notes != "" {
		sess.Notes = *notes
		if err := sessions.Save(ctx, sess); err != nil {
			finishErr = err
			return finishErr
		}
	}
	ev.Payload["session"] = sess.ID

	fmt.Fprintf(os.Stdout, "Started session %s for %s v%d on %s\n", sess.ID, rv.ID, rv.Version, sess.BrewDate)
	return nil
}

func runSessionShow(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("session show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s session show [--json] <session-id>", appName)
	}
	id := fs.Arg(0)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("session_show", map[string]any{"session": id})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	sess, err := a.loadSession(context.Background(), id)
	if err != nil {
		finishErr = err
		return finishErr
	}
	if *asJSON {
		finishErr = writeJSON(os.Stdout, sess)
		return finishErr
	}

	fmt.Fprintf(os.Stdout, "Session %s\n", sess.ID)
	fmt.Fprintf(os.Stdout, "  Recipe:     %s v%d\n", sess.RecipeID, sess.RecipeVersion)
	fmt.Fprintf(os.Stdout, "  Brew date:  %s\n", sess.BrewDate)
	if sess.Notes != "" {
		fmt.Fprintf(os.Stdout, "  Notes:      %s\n", sess.Notes)
	}
	if len(sess.Measurements) > 0 {
		fmt.Fprintln(os.Stdout, "  Measurements:")
		keys := make([]string, 0, len(sess.Measurements))
		for k := range sess.Measurements {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stdout, "    %-20s %g\n", k, sess.Measurements[k])
		}
	}
	if len(sess.Checklist) > 0 {
		fmt.Fprintln(os.Stdout, "  Checklist changes:")
		for _, it := range sess.Checklist {
			state := "on"
			if !it.Enabled {
				state = "off"
			}
			fmt.Fprintf(os.Stdout, "    %-24s %-12s %-3s %s\n", it.ID, it.Stage, state, it.Label)
		}
	}
	return nil
}

func runSessionList(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("session list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("session_list", nil)
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	sessions, err := storage.NewSessions(s).List(context.Background())
	if err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["sessions"] = len(sessions)
	for _, sess := range sessions {
		fmt.Fprintf(os.Stdout, "%s  %s  %s v%d\n", sess.BrewDate, sess.ID, sess.RecipeID, sess.RecipeVersion)
	}
	return nil
}

func runSessionAddItem(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("session add-item", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	itemID := fs.String("item", "", "Checklist item id to override (default: a new item)")
	label := fs.String("label", "", "Item label")
	stage := fs.String("stage", "", "Brew-day stage (water-prep, mash, pre-boil, boil, post-boil, pitch, fermentation, dry-hop, cold-crash, packaging)")
	detail := fs.String("detail", "", "Item detail")
	disabled := fs.Bool("disabled", false, "Hide the item from the checklist")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s session add-item [--item id] --label text --stage stage <session-id>", appName)
	}
	sessionID := fs.Arg(0)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("session_add_item", map[string]any{"session": sessionID, "item": *itemID, "stage": *stage})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	ctx := context.Background()
	sess, err := a.loadSession(ctx, sessionID)
	if err != nil {
		finishErr = err
		return finishErr
	}

	var item checklist.Item
	if *itemID != "" {
		item, err = a.checklistBase(ctx, sess, *itemID)
		if err != nil {
			finishErr = err
			return finishErr
		}
	} else {
		if strings.TrimSpace(*label) == "" || *stage == "" {
			finishErr = fmt.Errorf("--label and --stage are required for a new item")
			return finishErr
		}
		item = checklist.NewItem(strings.TrimSpace(*label), "", *detail)
	}
	if *stage != "" {
		st, err := checklist.ParseStage(*stage)
		if err != nil {
			finishErr = err
			return finishErr
		}
		item.Stage = st
	}
	if strings.TrimSpace(*label) != "" {
		item.Label = strings.TrimSpace(*label)
	}
	if *detail != "" {
		item.Detail = *detail
	}
	item.Enabled = !*disabled

	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	if _, err := storage.NewSessions(s).AddItem(ctx, sessionID, item); err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["item"] = item.ID

	fmt.Fprintf(os.Stdout, "Recorded checklist item %s (%s) on session %s\n", item.ID, item.Stage, sessionID)
	return nil
}

// checklistBase returns the session's current version of item id: an earlier
// override, else the default generated from the session's recipe.
func (a *app) checklistBase(ctx context.Context, sess storage.Session, id string) (checklist.Item, error) {
	for _, it := range sess.Checklist {
		if it.ID == id {
			return it, nil
		}
	}
	r, _, err := a.loadRecipe(ctx, nil, recipeSource{ID: sess.RecipeID, Version: sess.RecipeVersion})
	if err != nil {
		return checklist.Item{}, err
	}
	for _, it := range checklist.Generate(r, calc.Calculate(r)) {
		if it.ID == id {
			return it, nil
		}
	}
	return checklist.Item{}, fmt.Errorf("checklist item %q not found for %s v%d", id, sess.RecipeID, sess.RecipeVersion)
}

func runSessionMeasure(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("session measure", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: %s session measure <session-id> <name> <value>", appName)
	}
	sessionID, name := fs.Arg(0), strings.TrimSpace(fs.Arg(1))
	value, err := strconv.ParseFloat(fs.Arg(2), 64)
	if err != nil {
		return fmt.Errorf("invalid measurement value %q: %w", fs.Arg(2), err)
	}
	if name == "" {
		return fmt.Errorf("measurement name is required")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("session_measure", map[string]any{"session": sessionID, "name": name, "value": value})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	ctx := context.Background()
	s, err := a.openStore()
	if err != nil {
		finishErr = err
		return finishErr
	}
	sess, err := storage.NewSessions(s).Measure(ctx, sessionID, name, value)
	if err != nil {
		finishErr = err
		return finishErr
	}

	fmt.Fprintf(os.Stdout, "Recorded %s = %g on session %s\n", name, value, sess.ID)
	if target, ok := a.measurementTarget(ctx, sess, name); ok {
		fmt.Fprintf(os.Stdout, "Predicted %s: %g\n", name, target)
	}
	return nil
}

// measurementTarget returns the recipe's predicted value for a measurement
// name the calculator knows about.
func (a *app) measurementTarget(ctx context.Context, sess storage.Session, name string) (float64, bool) {
	r, _, err := a.loadRecipe(ctx, nil, recipeSource{ID: sess.RecipeID, Version: sess.RecipeVersion})
	if err != nil {
		a.log.Debug("no prediction for measurement", "session", sess.ID, "error", err)
		return 0, false
	}
	c := calc.Calculate(r)
	switch strings.ToLower(name) {
	case "og":
		return c.OG, true
	case "fg":
		return c.FG, true
	case "pre_boil_gravity", "preboil_gravity":
		return c.PreBoilGravity, true
	case "pre_boil_volume_l", "preboil_volume_l":
		return c.PreBoilVolumeL, true
	case "post_boil_volume_l":
		return c.PostBoilVolumeL, true
	case "mash_ph":
		if c.EstimatedMashPH != nil {
			return *c.EstimatedMashPH, true
		}
	}
	return 0, false
}

// runLog reads the brew log. It records no events of its own.
func runLog(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 20, "Maximum events to show (0 for all)")
	eventType := fs.String("type", "", "Only events of this type")
	prefix := fs.String("prefix", "", "Only events whose type starts with this")
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	events, err := a.audit.Events(audit.Filter{Type: *eventType, Prefix: *prefix, Limit: *limit})
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(os.Stdout, events)
	}
	for _, e := range events {
		fmt.Fprintf(os.Stdout, "%s  %-28s %s\n", e.TS.Local().Format("2006-01-02 15:04:05"), e.Type, e.Payload)
	}
	return nil
}
