package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"brewcalc/internal/calc"
	"brewcalc/internal/hopflavor"
	"brewcalc/internal/mash"
	"brewcalc/internal/style"
)

func runCalc(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
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

	ev := a.startEvent("calc", map[string]any{"args": fs.Args(), "id": src.ID})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	r, label, err := a.loadRecipe(context.Background(), fs.Args(), src)
	if err != nil {
		finishErr = err
		return finishErr
	}
	c := calc.Calculate(r)
	flavor := calc.FlavorProfile(r)
	ev.Payload["recipe"] = label
	ev.Payload["og"] = c.OG
	ev.Payload["ibu"] = c.IBU

	if *asJSON {
		finishErr = writeJSON(os.Stdout, map[string]any{
			"recipe":       r.Name,
			"source":       label,
			"calculations": c,
			"hop_flavor":   flavor,
		})
		return finishErr
	}
	fmt.Fprintf(os.Stdout, "%s (%s)\n", r.Name, label)
	printCalculations(os.Stdout, c)
	return nil
}

func printCalculations(w io.Writer, c calc.Calculations) {
	fmt.Fprintf(w, "  %-16s %.3f\n", "OG", c.OG)
	fmt.Fprintf(w, "  %-16s %.3f\n", "FG", c.FG)
	fmt.Fprintf(w, "  %-16s %.2f%%\n", "ABV", c.ABV)
	fmt.Fprintf(w, "  %-16s %.1f\n", "IBU", c.IBU)
	fmt.Fprintf(w, "  %-16s %.1f (EBC %.1f)\n", "SRM", c.SRM, c.EBC)
	fmt.Fprintf(w, "  %-16s %.2f\n", "BU:GU", c.BuGuRatio)
	fmt.Fprintf(w, "  %-16s %.1f%%\n", "Attenuation", c.AttenuationPct)
	if c.EstimatedMashPH != nil {
		fmt.Fprintf(w, "  %-16s %.2f\n", "Mash pH", *c.EstimatedMashPH)
	}
	fmt.Fprintln(w, "Water and volumes")
	fmt.Fprintf(w, "  %-16s %.1f L at %.1f°C\n", "Strike", c.StrikeWaterL, c.StrikeTempC)
	fmt.Fprintf(w, "  %-16s %.1f L\n", "Sparge", c.SpargeWaterL)
	fmt.Fprintf(w, "  %-16s %.1f L\n", "Total water", c.TotalWaterL)
	fmt.Fprintf(w, "  %-16s %.1f L at %.3f\n", "Pre-boil", c.PreBoilVolumeL, c.PreBoilGravity)
	fmt.Fprintf(w, "  %-16s %.1f L\n", "Post-boil", c.PostBoilVolumeL)
	fmt.Fprintf(w, "  %-16s %.1f L\n", "Batch", c.BatchVolumeL)
}

func runHops(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s hops: missing subcommand", appName)
	}
	switch args[0] {
	case "flavor":
		return runHopsFlavor(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s hops: unknown subcommand %q", appName, args[0])
	}
}

func runHopsFlavor(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("hops flavor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
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

	ev := a.startEvent("hops_flavor", map[string]any{"args": fs.Args(), "id": src.ID})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	r, label, err := a.loadRecipe(context.Background(), fs.Args(), src)
	if err != nil {
		finishErr = err
		return finishErr
	}
	profile := calc.FlavorProfile(r)
	ev.Payload["recipe"] = label

	if *asJSON {
		finishErr = writeJSON(os.Stdout, profile)
		return finishErr
	}
	fmt.Fprintf(os.Stdout, "%s hop flavor\n", r.Name)
	for _, axis := range hopflavor.Axes() {
		v := profile[axis]
		fmt.Fprintf(os.Stdout, "  %-15s %4.2f  %s\n", axis, v, strings.Repeat("#", int(v*4+0.5)))
	}
	return nil
}

func runStyle(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s style: missing subcommand", appName)
	}
	switch args[0] {
	case "check":
		return runStyleCheck(args[1:], workspacePath)
	case "list":
		return runStyleList(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s style: unknown subcommand %q", appName, args[0])
	}
}

func runStyleCheck(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("style check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	styleName := fs.String("style", "", "Style id or name (default: the recipe's style, then default_style)")
	strict := fs.Bool("strict", false, "Exit non-zero when any metric is out of range")
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

	ev := a.startEvent("style_check", map[string]any{"args": fs.Args(), "id": src.ID, "style": *styleName})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	r, label, err := a.loadRecipe(context.Background(), fs.Args(), src)
	if err != nil {
		finishErr = err
		return finishErr
	}
	name := *styleName
	if name == "" {
		name = r.Style
	}
	if name == "" {
		name = a.cfg.DefaultStyle
	}
	if name == "" {
		finishErr = fmt.Errorf("no style given: pass --style, set style in the recipe, or default_style in brewcalc.yml")
		return finishErr
	}
	guideline, err := a.catalog.Style(name)
	if err != nil {
		finishErr = err
		return finishErr
	}

	report := style.Compare(calc.Calculate(r), guideline)
	ev.Payload["recipe"] = label
	ev.Payload["style"] = guideline.ID
	ev.Payload["in_range"] = report.InRange

	if *asJSON {
		if err := writeJSON(os.Stdout, report); err != nil {
			finishErr = err
			return finishErr
		}
	} else {
		fmt.Fprint(os.Stdout, report.Summary())
	}
	if *strict && !report.InRange {
		finishErr = fmt.Errorf("%s is outside %s", r.Name, report.Style)
		return finishErr
	}
	return nil
}

func runStyleList(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("style list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("style_list", nil)
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	styles, err := a.catalog.Styles()
	if err != nil {
		finishErr = err
		return finishErr
	}
	ev.Payload["styles"] = len(styles)
	for _, g := range styles {
		fmt.Fprintf(os.Stdout, "%-6s %s\n", g.ID, g.Name)
	}
	return nil
}

func runCatalog(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s catalog: missing subcommand", appName)
	}
	switch args[0] {
	case "show":
		return runCatalogShow(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s catalog: unknown subcommand %q", appName, args[0])
	}
}

func runCatalogShow(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("catalog show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: %s catalog show grain|hop|yeast|equipment|style <name>", appName)
	}
	kind, name := fs.Arg(0), fs.Arg(1)

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("catalog_show", map[string]any{"kind": kind, "name": name})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	var entry any
	switch kind {
	case "grain":
		entry, err = a.catalog.Grain(name)
	case "hop":
		entry, err = a.catalog.Hop(name)
	case "yeast":
		entry, err = a.catalog.Yeast(name)
	case "equipment":
		entry, err = a.catalog.Equipment(name)
	case "style":
		entry, err = a.catalog.Style(name)
	default:
		err = fmt.Errorf("unknown catalog kind %q (expected grain, hop, yeast, equipment, or style)", kind)
	}
	if err != nil {
		finishErr = err
		return finishErr
	}
	finishErr = writeJSON(os.Stdout, entry)
	return finishErr
}

func runMash(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s mash: missing subcommand", appName)
	}
	switch args[0] {
	case "strike":
		return runMashStrike(args[1:], workspacePath)
	case "infusion":
		return runMashInfusion(args[1:], workspacePath)
	case "schedule":
		return runMashSchedule(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s mash: unknown subcommand %q", appName, args[0])
	}
}

func runMashStrike(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("mash strike", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	target := fs.Float64("target", calc.DefaultMashTempC, "Target mash temperature (°C)")
	thickness := fs.Float64("thickness", calc.DefaultMashThicknessLPerKg, "Mash thickness (L/kg)")
	grainTemp := fs.Float64("grain-temp", mash.DefaultGrainTempC, "Grain temperature (°C)")
	grainKg := fs.Float64("grain-kg", 0, "Grain weight (kg)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("mash_strike", map[string]any{
		"target_c":   *target,
		"thickness":  *thickness,
		"grain_temp": *grainTemp,
		"grain_kg":   *grainKg,
	})
	strike := mash.StrikeTemp(*target, *thickness, *grainTemp, *grainKg)
	ev.Payload["strike_temp_c"] = strike
	ev.finish(nil)

	if *grainKg > 0 {
		fmt.Fprintf(os.Stdout, "Strike water: %.1f L at %.1f°C\n", (*grainKg)*(*thickness), strike)
	} else {
		fmt.Fprintf(os.Stdout, "Strike water temperature: %.1f°C\n", strike)
	}
	return nil
}

func runMashInfusion(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("mash infusion", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	current := fs.Float64("current", 0, "Current mash temperature (°C)")
	target := fs.Float64("target", 0, "Target mash temperature (°C)")
	mashVolume := fs.Float64("mash-volume", 0, "Water already in the mash (L)")
	infusionVolume := fs.Float64("infusion-volume", 0, "Infusion volume (L)")
	grainKg := fs.Float64("grain-kg", 0, "Grain weight (kg)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target <= 0 {
		return fmt.Errorf("--target is required")
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("mash_infusion", map[string]any{
		"current_c":         *current,
		"target_c":          *target,
		"mash_volume_l":     *mashVolume,
		"infusion_volume_l": *infusionVolume,
		"grain_kg":          *grainKg,
	})
	temp := mash.InfusionTemp(*current, *target, *mashVolume, *infusionVolume, *grainKg)
	ev.Payload["infusion_temp_c"] = temp
	ev.finish(nil)

	fmt.Fprintf(os.Stdout, "Infusion water: %.1f L at %.1f°C\n", *infusionVolume, temp)
	return nil
}

func runMashSchedule(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("mash schedule", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	kind := fs.String("type", "single", "Schedule: single or step")
	grainKg := fs.Float64("grain-kg", 0, "Grain weight (kg)")
	thickness := fs.Float64("thickness", calc.DefaultMashThicknessLPerKg, "Mash thickness (L/kg)")
	grainTemp := fs.Float64("grain-temp", mash.DefaultGrainTempC, "Grain temperature (°C)")
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp(workspacePath)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("mash_schedule", map[string]any{"type": *kind, "grain_kg": *grainKg})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	var steps []mash.Step
	switch *kind {
	case "single":
		steps = mash.SingleInfusion(*grainKg, *thickness, *grainTemp)
	case "step":
		steps = mash.StepMash(*grainKg, *thickness, *grainTemp)
	default:
		finishErr = fmt.Errorf("unknown schedule type %q (expected single or step)", *kind)
		return finishErr
	}
	ev.Payload["steps"] = len(steps)

	if *asJSON {
		finishErr = writeJSON(os.Stdout, steps)
		return finishErr
	}
	for i, s := range steps {
		fmt.Fprintf(os.Stdout, "%d. %-22s %5.1f°C %4.0f min  add %.1f L at %.1f°C\n",
			i+1, s.Name, s.TempC, s.DurationMin, s.InfusionVolumeL, s.InfusionTempC)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
