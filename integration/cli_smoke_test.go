package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brewcalc/integration/harness"
)

func decodeJSON(t *testing.T, data string, out any) {
	t.Helper()
	if err := json.Unmarshal([]byte(data), out); err != nil {
		t.Fatalf("decode JSON: %v\n%s", err, data)
	}
}

func TestCLISmoke(t *testing.T) {
	r := harness.NewRunner(t)
	workspace := t.TempDir()

	help := r.Run("--help")
	if help.Code != 0 {
		t.Fatalf("brewcalc --help exit code %d\nstdout:\n%s\nstderr:\n%s", help.Code, help.Stdout, help.Stderr)
	}
	if !strings.Contains(help.Stdout+help.Stderr, "homebrew recipe calculator") {
		t.Fatalf("expected help output to include header\nstdout:\n%s\nstderr:\n%s", help.Stdout, help.Stderr)
	}

	r.MustRun("init", "--workspace", workspace)

	var calcOut struct {
		Recipe       string `json:"recipe"`
		Calculations struct {
			OG  float64 `json:"og"`
			FG  float64 `json:"fg"`
			IBU float64 `json:"ibu"`
		} `json:"calculations"`
	}
	decodeJSON(t, r.MustRun("calc", "--workspace", workspace, "--json", "pale-ale"), &calcOut)
	if calcOut.Recipe != "House Pale Ale" {
		t.Fatalf("calc recipe = %q", calcOut.Recipe)
	}
	if calcOut.Calculations.OG < 1.040 || calcOut.Calculations.OG > 1.065 {
		t.Fatalf("pale ale OG = %v", calcOut.Calculations.OG)
	}
	if calcOut.Calculations.FG >= calcOut.Calculations.OG || calcOut.Calculations.IBU <= 0 {
		t.Fatalf("pale ale calculations = %+v", calcOut.Calculations)
	}

	out := r.MustRun("recipe", "save", "--workspace", workspace, "pale-ale")
	if !strings.Contains(out, "as pale-ale version 1") {
		t.Fatalf("first save output = %q", out)
	}

	recipePath := filepath.Join(workspace, "recipes", "pale-ale.yml")
	data, err := os.ReadFile(recipePath)
	if err != nil {
		t.Fatalf("read recipe: %v", err)
	}
	edited := strings.Replace(string(data), "batch_volume_l: 20", "batch_volume_l: 22", 1)
	if err := os.WriteFile(recipePath, []byte(edited), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}
	out = r.MustRun("recipe", "save", "--workspace", workspace, "pale-ale")
	if !strings.Contains(out, "as pale-ale version 2") {
		t.Fatalf("second save output = %q", out)
	}

	out = r.MustRun("recipe", "history", "--workspace", workspace, "pale-ale")
	if !strings.Contains(out, "v1") || !strings.Contains(out, "v2") {
		t.Fatalf("history output = %q", out)
	}
	out = r.MustRun("recipe", "diff", "--workspace", workspace, "pale-ale")
	if !strings.Contains(out, "-batch_volume_l: 20") || !strings.Contains(out, "+batch_volume_l: 22") {
		t.Fatalf("diff output = %q", out)
	}
	out = r.MustRun("recipe", "list", "--workspace", workspace)
	if !strings.Contains(out, "pale-ale") {
		t.Fatalf("list output = %q", out)
	}

	out = r.MustRun("session", "start", "--workspace", workspace, "--recipe", "pale-ale", "--date", "2026-03-14")
	fields := strings.Fields(out)
	if len(fields) < 3 || !strings.HasPrefix(out, "Started session ") || !strings.Contains(out, "pale-ale v2 on 2026-03-14") {
		t.Fatalf("session start output = %q", out)
	}
	sessionID := fields[2]

	r.MustRun("session", "add-item", "--workspace", workspace, "--label", "Add Whirlfloc", "--stage", "boil", sessionID)
	r.MustRun("session", "add-item", "--workspace", workspace, "--item", "mash-ph", "--disabled", sessionID)
	r.MustRun("session", "measure", "--workspace", workspace, sessionID, "og", "1.052")

	var items []struct {
		ID      string `json:"id"`
		Label   string `json:"label"`
		Stage   string `json:"stage"`
		Enabled bool   `json:"enabled"`
	}
	decodeJSON(t, r.MustRun("checklist", "--workspace", workspace, "--json", "--session", sessionID), &items)
	var sawCustom bool
	for _, it := range items {
		if it.ID == "mash-ph" {
			t.Fatalf("disabled item listed: %+v", it)
		}
		if it.Label == "Add Whirlfloc" {
			sawCustom = true
			if it.Stage != "boil" {
				t.Fatalf("custom item stage = %q", it.Stage)
			}
		}
	}
	if !sawCustom {
		t.Fatalf("custom item missing from checklist: %+v", items)
	}

	var sess struct {
		RecipeVersion int                `json:"recipe_version"`
		Measurements  map[string]float64 `json:"measurements"`
	}
	decodeJSON(t, r.MustRun("session", "show", "--workspace", workspace, "--json", sessionID), &sess)
	if sess.RecipeVersion != 2 || sess.Measurements["og"] != 1.052 {
		t.Fatalf("session = %+v", sess)
	}

	var report struct {
		Style   string `json:"style"`
		Results []struct {
			Metric string `json:"metric"`
		} `json:"results"`
	}
	decodeJSON(t, r.MustRun("style", "check", "--workspace", workspace, "--json", "pale-ale"), &report)
	if report.Style != "American Pale Ale" || len(report.Results) == 0 {
		t.Fatalf("style report = %+v", report)
	}

	out = r.MustRun("mash", "strike", "--workspace", workspace, "--grain-kg", "5")
	if !strings.HasPrefix(out, "Strike water: 15.0 L at ") {
		t.Fatalf("mash strike output = %q", out)
	}

	var events []struct {
		Type string `json:"type"`
	}
	decodeJSON(t, r.MustRun("log", "--workspace", workspace, "--json", "--prefix", "recipe_save", "--limit", "0"), &events)
	if len(events) != 4 {
		t.Fatalf("recipe_save events = %+v", events)
	}

	auditPath := filepath.Join(workspace, "data", "audit.sqlite")
	requireAuditEvents(t, auditPath, []string{
		"calc_started",
		"calc_finished",
		"recipe_save_finished",
		"recipe_diff_finished",
		"session_start_finished",
		"session_add_item_finished",
		"checklist_finished",
		"style_check_finished",
		"mash_strike_finished",
	})
	if _, err := os.Stat(filepath.Join(workspace, "data", "brewcalc.sqlite")); err != nil {
		t.Fatalf("store db not written: %v", err)
	}
}

func TestCLIStandaloneRecipe(t *testing.T) {
	r := harness.NewRunner(t)
	workspace := harness.Fixture(t, "single-malt")

	var calcOut struct {
		Calculations struct {
			OG  float64 `json:"og"`
			FG  float64 `json:"fg"`
			SRM float64 `json:"srm"`
			EBC float64 `json:"ebc"`
		} `json:"calculations"`
	}
	decodeJSON(t, r.MustRun("calc", "--workspace", workspace, "--json", "single-malt"), &calcOut)
	c := calcOut.Calculations
	if c.OG != 1.059 || c.FG != 1.015 || c.SRM != 5.4 || c.EBC != 10.7 {
		t.Fatalf("single malt calculations = %+v", c)
	}

	missing := r.Run("calc", "--workspace", workspace, "missing")
	if missing.Code == 0 {
		t.Fatalf("calc on a missing recipe succeeded\nstdout:\n%s", missing.Stdout)
	}
	if !strings.Contains(missing.Stderr, "not found") {
		t.Fatalf("missing recipe stderr = %q", missing.Stderr)
	}

	unsaved := r.Run("recipe", "show", "--workspace", workspace, "single-malt")
	if unsaved.Code == 0 {
		t.Fatalf("show of an unsaved recipe succeeded\nstdout:\n%s", unsaved.Stdout)
	}
	requireAuditEvents(t, filepath.Join(workspace, "data", "audit.sqlite"), []string{
		"calc_finished",
		"recipe_show_finished",
	})
}

func TestCLIEnvOverrides(t *testing.T) {
	workspace := harness.Fixture(t, "single-malt")
	elsewhere := filepath.Join(t.TempDir(), "logs", "brew-log.sqlite")

	// brewcalc.yml in the fixture says log_mode: off; the env wins.
	r := harness.NewRunner(t).WithEnv(map[string]string{
		"BREWCALC_AUDIT_DB": elsewhere,
		"BREWCALC_LOG_MODE": "dev",
	})
	res := r.Run("calc", "--workspace", workspace, "single-malt")
	if res.Code != 0 {
		t.Fatalf("calc exit code %d\nstdout:\n%s\nstderr:\n%s", res.Code, res.Stdout, res.Stderr)
	}
	if !strings.Contains(res.Stderr, "recipe loaded") {
		t.Fatalf("dev log mode should log recipe loading to stderr, got:\n%s", res.Stderr)
	}

	requireAuditEvents(t, elsewhere, []string{"calc_started", "calc_finished"})
	if _, err := os.Stat(filepath.Join(workspace, "data", "audit.sqlite")); !os.IsNotExist(err) {
		t.Fatalf("workspace brew log written despite BREWCALC_AUDIT_DB: %v", err)
	}

	quiet := harness.NewRunner(t).Run("calc", "--workspace", workspace, "single-malt")
	if quiet.Code != 0 || quiet.Stderr != "" {
		t.Fatalf("log_mode off should keep stderr empty, code %d stderr:\n%s", quiet.Code, quiet.Stderr)
	}
}
