package checklist

import (
	"reflect"
	"testing"

	"brewcalc/internal/calc"
	"brewcalc/internal/hops"
	"brewcalc/internal/recipe"
)

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestGenerateDefaults(t *testing.T) {
	r := recipe.Recipe{Name: "Plain", BatchVolumeL: 20, BoilTimeMin: 60}
	items := Generate(r, calc.Calculations{OG: 1.050, FG: 1.010, BatchVolumeL: 20, PreBoilVolumeL: 25})

	want := []string{
		"water-strike-temp",
		"mash-ph",
		"preboil-volume",
		"preboil-gravity",
		"boil-additions",
		"postboil-og",
		"pitch-temp",
		"fermentation-forced-test",
		"fermentation-fg",
	}
	if got := ids(items); !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for _, it := range items {
		if !it.Enabled {
			t.Fatalf("item %s disabled by default", it.ID)
		}
	}
	// 1 + 0.050 * 20 / 25.
	if items[3].Detail != "1.040" {
		t.Fatalf("pre-boil gravity detail = %q, want 1.040", items[3].Detail)
	}
}

func TestGenerateOptionalItems(t *testing.T) {
	start := 5.0
	r := recipe.Recipe{
		BatchVolumeL: 20,
		Hops: []recipe.Hop{
			{Name: "Citra", Grams: 60, Use: hops.DryHop, DryHopDays: 3, DryHopStartDay: &start},
		},
		Yeast: &recipe.Yeast{Name: "US-05", PitchTempC: 17},
		FermentationSteps: []recipe.FermentationStep{
			{Name: "Primary", Type: recipe.Primary, DurationDays: 10, TempC: 19},
			{Name: "Crash", Type: recipe.ColdCrash, DurationDays: 2, TempC: 1},
		},
	}
	items := Generate(r, calc.Calculations{OG: 1.060, FG: 1.012})
	got := ids(items)
	if got[len(got)-2] != "dryhop-addition" || got[len(got)-1] != "coldcrash-temp" {
		t.Fatalf("ids = %v", got)
	}
	if d := items[len(items)-2].Detail; d != "Citra 60g on day 5 for 3 days" {
		t.Fatalf("dry hop detail = %q", d)
	}
	for _, it := range items {
		if it.ID == "pitch-temp" && it.Detail != "US-05 at 17.0°C" {
			t.Fatalf("pitch detail = %q", it.Detail)
		}
	}
}

func TestGenerateIsStageOrdered(t *testing.T) {
	r := recipe.Recipe{
		Hops:              []recipe.Hop{{Name: "Mosaic", Grams: 10, Use: hops.DryHop}},
		FermentationSteps: []recipe.FermentationStep{{Type: recipe.ColdCrash, TempC: 2, DurationDays: 1}},
	}
	items := Generate(r, calc.Calculations{})
	for i := 1; i < len(items); i++ {
		if StageOrder[items[i-1].Stage] > StageOrder[items[i].Stage] {
			t.Fatalf("stage %s before %s", items[i-1].Stage, items[i].Stage)
		}
	}
}

func TestMergeOverridesInPlace(t *testing.T) {
	defaults := []Item{
		{ID: "a", Label: "A", Stage: Mash, Enabled: true},
		{ID: "b", Label: "B", Stage: Boil, Enabled: true},
	}
	user := []Item{{ID: "a", Label: "My A", Stage: Mash, Enabled: false}}

	got := Merge(defaults, user)
	want := []Item{user[0], defaults[1]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged = %+v, want %+v", got, want)
	}
	if defaults[0].Label != "A" {
		t.Fatalf("Merge mutated defaults")
	}
}

func TestMergeInsertsAfterStageGroup(t *testing.T) {
	defaults := []Item{
		{ID: "mash", Stage: Mash},
		{ID: "boil-1", Stage: Boil},
		{ID: "boil-2", Stage: Boil},
		{ID: "og", Stage: PostBoil},
	}
	user := []Item{
		{ID: "whirlfloc", Stage: Boil},
		{ID: "keg", Stage: Packaging},
		{ID: "yeast-nutrient", Stage: Boil},
	}
	got := ids(Merge(defaults, user))
	want := []string{"mash", "boil-1", "boil-2", "whirlfloc", "yeast-nutrient", "og", "keg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged ids = %v, want %v", got, want)
	}
}

func TestMergeWithGeneratedDefaults(t *testing.T) {
	defaults := Generate(recipe.Recipe{BoilTimeMin: 60}, calc.Calculations{})
	extra := NewItem("Add Irish moss", Boil, "15 min before flameout")
	got := Merge(defaults, []Item{extra})

	for i, it := range got {
		if it.ID != extra.ID {
			continue
		}
		if got[i-1].ID != "boil-additions" {
			t.Fatalf("user boil item follows %s, want boil-additions", got[i-1].ID)
		}
		return
	}
	t.Fatalf("user item missing from %v", ids(got))
}

func TestParseStage(t *testing.T) {
	if s, err := ParseStage("Dry-Hop"); err != nil || s != DryHop {
		t.Fatalf("ParseStage = %q, %v", s, err)
	}
	if _, err := ParseStage("lunch"); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
}
