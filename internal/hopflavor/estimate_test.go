package hopflavor

import (
	"encoding/json"
	"math"
	"testing"

	"gopkg.in/yaml.v3"

	"brewcalc/internal/hops"
)

func floatPtr(v float64) *float64 { return &v }

func TestEstimateEmpty(t *testing.T) {
	if got := EstimateRecipe(nil, 20); !got.IsZero() {
		t.Fatalf("empty estimate = %v, want zero", got)
	}
	zeroWeight := []Addition{{Grams: 0, Use: hops.DryHop, Time: 3, Flavor: Profile{5, 5, 5}}}
	if got := EstimateRecipe(zeroWeight, 20); !got.IsZero() {
		t.Fatalf("zero-weight estimate = %v, want zero", got)
	}
	if got := EstimateRecipe([]Addition{{Grams: 50, Use: hops.Boil, Flavor: Profile{5}}}, 0); !got.IsZero() {
		t.Fatalf("zero-volume estimate = %v, want zero", got)
	}
}

func TestBoilAromaFactor(t *testing.T) {
	if got := TimingAromaFactor(hops.Boil, 0, 0, nil, 0, 0); got != 1 {
		t.Fatalf("boil at 0 min = %v, want 1", got)
	}
	if got, want := TimingAromaFactor(hops.Boil, 10, 0, nil, 0, 0), math.Exp(-0.05*10); math.Abs(got-want) > 1e-12 {
		t.Fatalf("boil at 10 min = %v, want %v", got, want)
	}
	if got := TimingAromaFactor(hops.Boil, 120, 0, nil, 0, 0); got != 0.03 {
		t.Fatalf("boil at 120 min = %v, want floor 0.03", got)
	}
}

func TestConstantAromaFactors(t *testing.T) {
	tests := []struct {
		use  hops.Use
		want float64
	}{
		{hops.FirstWort, 0.08},
		{hops.Mash, 0.05},
		{hops.Use("other"), 0.5},
	}
	for _, tt := range tests {
		if got := TimingAromaFactor(tt.use, 60, 0, nil, 0, 0); got != tt.want {
			t.Fatalf("%s factor = %v, want %v", tt.use, got, tt.want)
		}
	}
}

func TestDryHopAromaFactor(t *testing.T) {
	base := func(days float64) float64 { return 0.6 + 0.4*(1-math.Exp(-0.6*math.Min(7, days))) }

	if got := TimingAromaFactor(hops.DryHop, 0, 3, nil, 0, 0); got != base(3) {
		t.Fatalf("3-day dry hop = %v, want %v", got, base(3))
	}
	if got := TimingAromaFactor(hops.DryHop, 4, 0, nil, 0, 0); got != base(4) {
		t.Fatalf("dry hop falls back to time: %v, want %v", got, base(4))
	}
	if got := TimingAromaFactor(hops.DryHop, 0, 30, nil, 0, 0); got != base(7) {
		t.Fatalf("dry hop caps at 7 days: %v, want %v", got, base(7))
	}

	starts := []struct {
		day    float64
		factor float64
	}{
		{1, 0.9},
		{2, 0.9},
		{3, 1.0},
		{7, 1.0},
		{8, 0.95},
		{14, 0.95},
		{15, 0.9},
	}
	for _, s := range starts {
		got := TimingAromaFactor(hops.DryHop, 0, 3, floatPtr(s.day), 0, 0)
		if want := base(3) * s.factor; got != want {
			t.Fatalf("start day %v = %v, want %v", s.day, got, want)
		}
	}
}

func TestWhirlpoolAromaFactor(t *testing.T) {
	got := TimingAromaFactor(hops.Whirlpool, 0, 0, nil, 20, 80)
	tempFactor := 0.6 + 0.4*((95.0-80)/20)
	want := math.Min(1, 0.5+0.5*tempFactor*(1-math.Exp(-0.06*20)))
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("whirlpool = %v, want %v", got, want)
	}
	if unset := TimingAromaFactor(hops.Whirlpool, 20, 0, nil, 0, 0); unset != got {
		t.Fatalf("whirlpool defaults = %v, want %v", unset, want)
	}
	if cold := TimingAromaFactor(hops.Whirlpool, 0, 0, nil, 600, 60); cold > 1 {
		t.Fatalf("whirlpool factor %v exceeds 1", cold)
	}
	if hot := TimingAromaFactor(hops.Whirlpool, 0, 0, nil, 0, 100); hot != 0.5 {
		t.Fatalf("zero-minute whirlpool = %v, want 0.5", hot)
	}
}

func TestEstimateSingleDryHop(t *testing.T) {
	adds := []Addition{{
		Grams:      100,
		Use:        hops.DryHop,
		DryHopDays: 3,
		Flavor:     Profile{Citrus: 5, Floral: 2.5},
	}}
	got := EstimateRecipe(adds, 20)

	weight := 5 * (0.6 + 0.4*(1-math.Exp(-0.6*3)))
	magnitude := 5 * (1 - math.Exp(-0.7*weight))
	if want := magnitude * (weight * 1) / weight; math.Abs(got[Citrus]-want) > 1e-12 {
		t.Fatalf("citrus = %v, want %v", got[Citrus], want)
	}
	if want := magnitude * (weight * 0.5) / weight; math.Abs(got[Floral]-want) > 1e-12 {
		t.Fatalf("floral = %v, want %v", got[Floral], want)
	}
	if got[ResinPine] != 0 {
		t.Fatalf("resin = %v, want 0", got[ResinPine])
	}
}

func TestEstimateBounded(t *testing.T) {
	adds := []Addition{
		{Grams: 500, Use: hops.DryHop, DryHopDays: 5, Flavor: Profile{5, 5, 5, 5, 5, 5, 5, 5, 5}},
		{Grams: 200, Use: hops.Whirlpool, WhirlpoolMin: 30, Flavor: Profile{5, 5, 5, 5, 5, 5, 5, 5, 5}},
	}
	got := EstimateRecipe(adds, 10)
	for _, a := range Axes() {
		if got[a] < 0 || got[a] > 5 {
			t.Fatalf("%s = %v out of range", a, got[a])
		}
	}
}

func TestProfileFromMapAliases(t *testing.T) {
	p, err := ProfileFromMap(map[string]float64{
		"fruity":        3,
		"tropicalFruit": 4,
		"Pine":          2,
		"spicy":         9,
	})
	if err != nil {
		t.Fatalf("ProfileFromMap: %v", err)
	}
	if p[TropicalFruit] != 4 || p[ResinPine] != 2 || p[Spice] != 5 {
		t.Fatalf("profile = %v", p)
	}
	if _, err := ProfileFromMap(map[string]float64{"smoky": 1}); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestProfileEncoding(t *testing.T) {
	p := Profile{Citrus: 4, ResinPine: 1.5}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"citrus":4,"resin_pine":1.5}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}
	var back Profile
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != p {
		t.Fatalf("json round trip = %v, want %v", back, p)
	}

	var fromYAML Profile
	if err := yaml.Unmarshal([]byte("tropical: 3\nstone-fruit: 2\n"), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if fromYAML[TropicalFruit] != 3 || fromYAML[StoneFruit] != 2 {
		t.Fatalf("yaml profile = %v", fromYAML)
	}
}
