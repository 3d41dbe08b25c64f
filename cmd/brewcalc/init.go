package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"brewcalc/internal/catalog"
	"brewcalc/internal/config"
	"brewcalc/internal/workspace"
)

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	template := fs.String("template", "minimal", "Workspace template (default: minimal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *template != "minimal" {
		return fmt.Errorf("unknown template: %s", *template)
	}
	if strings.TrimSpace(workspacePath) == "" {
		workspacePath = "."
	}

	root, err := workspace.ResolveRoot(workspacePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer a.close()

	ev := a.startEvent("workspace_init", map[string]any{"template": *template})
	var finishErr error
	defer func() { ev.finish(finishErr) }()

	if err := a.ws.EnsureDirs(); err != nil {
		finishErr = err
		return finishErr
	}

	files := []struct {
		path     string
		contents string
	}{
		{a.ws.ConfigPath, minimalConfigTemplate},
		{filepath.Join(a.ws.CatalogDir, catalog.GrainsFile), minimalGrainsTemplate},
		{filepath.Join(a.ws.CatalogDir, catalog.HopsFile), minimalHopsTemplate},
		{filepath.Join(a.ws.CatalogDir, catalog.YeastsFile), minimalYeastsTemplate},
		{filepath.Join(a.ws.CatalogDir, catalog.EquipmentFile), minimalEquipmentTemplate},
		{filepath.Join(a.ws.CatalogDir, catalog.StylesFile), minimalStylesTemplate},
		{filepath.Join(a.ws.RecipesDir, "pale-ale.yml"), minimalRecipeTemplate},
	}
	var written []string
	for _, f := range files {
		created, err := writeFileIfMissing(f.path, f.contents)
		if err != nil {
			finishErr = err
			return finishErr
		}
		if created {
			written = append(written, f.path)
		}
	}
	ev.Payload["files_written"] = len(written)

	fmt.Fprintf(os.Stdout, "Initialized workspace: %s\n", a.ws.Root)
	fmt.Fprintln(os.Stdout, "Next steps:")
	fmt.Fprintf(os.Stdout, "  %s calc --workspace %s pale-ale\n", appName, a.ws.Root)
	fmt.Fprintf(os.Stdout, "  %s recipe save --workspace %s pale-ale\n", appName, a.ws.Root)
	fmt.Fprintf(os.Stdout, "  %s checklist --workspace %s pale-ale\n", appName, a.ws.Root)
	return nil
}

// writeFileIfMissing writes contents to path unless the file exists. It
// reports whether it wrote.
func writeFileIfMissing(path string, contents string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("ensure dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

var minimalConfigTemplate = `# brewcalc workspace settings
default_equipment: kettle-20l
default_style: 18B
# dev | warn | prod | off (` + config.EnvLogMode + ` overrides)
log_mode: warn
storage:
  quota_bytes: 0
`

const minimalGrainsTemplate = `grains:
  - id: pale-2-row
    name: Pale 2-Row
    potential: 1.037
    lovibond: 2
  - id: maris-otter
    name: Maris Otter
    yield: 0.81
    lovibond: 3
  - id: munich
    name: Munich Malt
    potential: 1.037
    lovibond: 9
  - id: crystal-40
    name: Crystal 40
    potential: 1.034
    lovibond: 40
  - id: crystal-60
    name: Crystal 60
    potential: 1.034
    ebc: 118
  - id: chocolate
    name: Chocolate Malt
    potential: 1.028
    lovibond: 350
  - id: roasted-barley
    name: Roasted Barley
    potential: 1.025
    lovibond: 300
  - id: flaked-oats
    name: Flaked Oats
    potential: 1.033
    lovibond: 1
    type: adjunct
  - id: dme-light
    name: Light Dry Malt Extract
    potential: 1.044
    lovibond: 4
    type: extract
  - id: dextrose
    name: Dextrose
    potential_gu: 384
    color: 0
    type: sugar
`

const minimalHopsTemplate = `hops:
  - id: cascade
    name: Cascade
    alpha_pct: 6.5
    flavor:
      citrus: 4
      floral: 3
      grassy: 1
  - id: centennial
    name: Centennial
    alpha_pct: 10
    flavor:
      citrus: 4
      floral: 3
      resinous: 2
  - id: citra
    name: Citra
    alpha: 0.125
    flavor:
      tropical: 5
      citrus: 4
      stone_fruit: 2
  - id: mosaic
    name: Mosaic
    alpha_pct: 12.25
    flavor:
      tropical: 4
      berry: 4
      pine: 2
  - id: magnum
    name: Magnum
    alpha_pct: 14
    flavor:
      herbal: 1
  - id: saaz
    name: Saaz
    alpha_pct: 3.5
    flavor:
      spicy: 3
      herbal: 3
      floral: 2
`

const minimalYeastsTemplate = `yeasts:
  - id: us-05
    name: SafAle US-05
    attenuation_min: 0.78
    attenuation_max: 0.82
    pitch_temp_c: 18
  - id: s-04
    name: SafAle S-04
    attenuation_pct: 75
    pitch_temp_c: 18
  - id: w-34-70
    name: Saflager W-34/70
    attenuation: 0.83
    pitch_temp_c: 12
`

const minimalEquipmentTemplate = `equipment:
  - id: kettle-20l
    name: 20 L all-grain kettle
    mash_tun_deadspace_l: 0.5
    kettle_trub_loss_l: 1
    chiller_loss_l: 0
    fermenter_loss_l: 0.5
    boil_off_rate_l_per_hour: 4
    cooling_shrinkage_pct: 4
    mash_efficiency_pct: 72
    grain_absorption_l_per_kg: 1
    mash_thickness_l_per_kg: 3
    grain_temp_c: 20
`

const minimalStylesTemplate = `styles:
  - id: 18B
    name: American Pale Ale
    category: Pale American Ale
    og: {min: 1.045, max: 1.060}
    fg: {min: 1.010, max: 1.015}
    abv: {min: 4.5, max: 6.2}
    ibu: {min: 30, max: 50}
    srm: {min: 5, max: 10}
  - id: 21A
    name: American IPA
    category: IPA
    og: {min: 1.056, max: 1.070}
    fg: {min: 1.008, max: 1.014}
    abv: {min: 5.5, max: 7.5}
    ibu: {min: 40, max: 70}
    srm: {min: 6, max: 14}
  - id: 20B
    name: American Stout
    category: American Porter and Stout
    og: {min: 1.050, max: 1.075}
    fg: {min: 1.010, max: 1.022}
    abv: {min: 5.0, max: 7.0}
    ibu: {min: 35, max: 75}
    srm: {min: 30, max: 40}
`

const minimalRecipeTemplate = `id: pale-ale
name: House Pale Ale
style: 18B
batch_volume_l: 20
boil_time_min: 60
equipment:
  preset: kettle-20l
fermentables:
  - preset: maris-otter
    weight_kg: 4.2
  - preset: crystal-40
    weight_kg: 0.3
hops:
  - preset: magnum
    grams: 15
    use: boil
    time: 60
  - preset: cascade
    grams: 30
    use: boil
    time: 10
  - preset: citra
    grams: 40
    use: whirlpool
    whirlpool_min: 20
    whirlpool_temp_c: 80
  - preset: citra
    grams: 60
    use: dry_hop
    dry_hop_days: 3
    dry_hop_start_day: 5
yeast:
  preset: us-05
mash_steps:
  - name: Saccharification Rest
    type: infusion
    temp_c: 66
    duration_min: 60
    infusion_volume_l: 13.5
    infusion_temp_c: 72
fermentation_steps:
  - name: Primary
    type: primary
    duration_days: 10
    temp_c: 18
  - name: Cold Crash
    type: cold_crash
    duration_days: 2
    temp_c: 2
water:
  name: Soft tap
  calcium_ppm: 50
  magnesium_ppm: 5
  alkalinity_ppm: 40
`
