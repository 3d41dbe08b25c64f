package gravity

import (
	"math"
	"testing"
)

func TestABVZeroWhenNoFermentation(t *testing.T) {
	for _, og := range []float64{1.000, 1.035, 1.050, 1.092} {
		if got := ABV(og, og); got != 0 {
			t.Fatalf("ABV(%v, %v) = %v, want 0", og, og, got)
		}
	}
}

func TestABVKnownValue(t *testing.T) {
	if got := ABV(1.050, 1.010); math.Abs(got-5.25) > 0.01 {
		t.Fatalf("ABV(1.050, 1.010) = %v, want ~5.25", got)
	}
}

func TestABVLinearIncludingNegative(t *testing.T) {
	for _, delta := range []float64{-0.02, -0.005, 0.01, 0.04} {
		got := ABV(1.040+delta, 1.040)
		if math.Abs(got-delta*131.25) > 1e-9 {
			t.Fatalf("ABV delta %v = %v, want %v", delta, got, delta*131.25)
		}
	}
	if got := ABV(1.010, 1.020); got >= 0 {
		t.Fatalf("ABV with FG > OG = %v, want negative", got)
	}
}

func TestOriginalGravity(t *testing.T) {
	grist := []Extract{
		{WeightKg: 5, PotentialGU: 300, Mashed: true},
	}
	points := TotalPoints(grist, 75)
	if points != 1125 {
		t.Fatalf("points = %v, want 1125", points)
	}
	og := OriginalGravity(points, 19)
	if math.Abs(og-(1+1125.0/19/1000)) > 1e-12 {
		t.Fatalf("OG = %v", og)
	}
	if got := OriginalGravity(points, 0); got != 1 {
		t.Fatalf("OG with zero volume = %v, want 1", got)
	}
	if got := OriginalGravity(0, 19); got != 1 {
		t.Fatalf("OG with no points = %v, want 1", got)
	}
}

func TestExtractIgnoresMashEfficiency(t *testing.T) {
	grist := []Extract{
		{WeightKg: 1, PotentialGU: 384},
		{WeightKg: 1, PotentialGU: 300, Mashed: true},
	}
	if got, want := TotalPoints(grist, 50), 384.0+150; got != want {
		t.Fatalf("points = %v, want %v", got, want)
	}
}

func TestFinalGravityAndPreBoil(t *testing.T) {
	fg := FinalGravity(1.060, 0.75)
	if math.Abs(fg-1.015) > 1e-12 {
		t.Fatalf("FG = %v, want 1.015", fg)
	}
	if got := FinalGravity(1.060, 1.5); got != 1 {
		t.Fatalf("FG clamps attenuation, got %v", got)
	}
	pre := PreBoilGravity(1.060, 19, 28.5)
	if math.Abs(pre-1.040) > 1e-12 {
		t.Fatalf("pre-boil gravity = %v, want 1.040", pre)
	}
	if got := PreBoilGravity(1.060, 19, 0); got != 1.060 {
		t.Fatalf("pre-boil gravity with zero volume = %v", got)
	}
	if got := ApparentAttenuation(1.060, 1.015); math.Abs(got-75) > 1e-9 {
		t.Fatalf("apparent attenuation = %v, want 75", got)
	}
}

func TestEstimateMashPH(t *testing.T) {
	if _, ok := EstimateMashPH(nil, Water{}); ok {
		t.Fatalf("expected no estimate without grain")
	}
	pale, ok := EstimateMashPH([]Grain{{WeightKg: 5, ColorLovibond: 2}}, Water{})
	if !ok || pale != 5.73 {
		t.Fatalf("pale pH = %v (ok=%v), want 5.73", pale, ok)
	}
	dark, _ := EstimateMashPH([]Grain{{WeightKg: 4.5, ColorLovibond: 2}, {WeightKg: 0.5, ColorLovibond: 500}}, Water{})
	if dark >= pale {
		t.Fatalf("roast did not lower pH: %v >= %v", dark, pale)
	}
	hard, _ := EstimateMashPH([]Grain{{WeightKg: 5, ColorLovibond: 2}}, Water{AlkalinityPPM: 200})
	if hard <= pale {
		t.Fatalf("alkalinity did not raise pH: %v <= %v", hard, pale)
	}
}
