package mash

import (
	"math"
	"testing"
)

func TestStrikeTempSimplifiedWithoutGrain(t *testing.T) {
	target, thickness, grainTemp := 66.0, 3.0, 20.0
	want := math.Round(((target-grainTemp)*(0.41/thickness)+target)*10) / 10
	if got := StrikeTemp(target, thickness, grainTemp, 0); got != want {
		t.Fatalf("StrikeTemp without grain = %v, want %v", got, want)
	}
	if got, want := StrikeTemp(target, thickness, grainTemp, 0), 72.3; got != want {
		t.Fatalf("StrikeTemp = %v, want %v", got, want)
	}
}

func TestStrikeTempFullHeatBalance(t *testing.T) {
	// 66 + 5*0.38*46/15
	if got, want := StrikeTemp(66, 3, 20, 5), 71.8; got != want {
		t.Fatalf("StrikeTemp = %v, want %v", got, want)
	}
}

func TestStrikeTempDecreasesAsGrainWarms(t *testing.T) {
	for _, grainKg := range []float64{0, 5} {
		prev := math.Inf(1)
		for grainTemp := 0.0; grainTemp <= 66; grainTemp += 6 {
			got := StrikeTemp(66, 3, grainTemp, grainKg)
			if got > prev {
				t.Fatalf("grainKg=%v grainTemp=%v strike %v rose above %v", grainKg, grainTemp, got, prev)
			}
			prev = got
		}
		if got := StrikeTemp(66, 3, 66, grainKg); got != 66 {
			t.Fatalf("strike at equal grain temp = %v, want 66", got)
		}
	}
}

func TestStrikeTempZeroThickness(t *testing.T) {
	if got := StrikeTemp(66, 0, 20, 5); got != 66 {
		t.Fatalf("StrikeTemp with zero thickness = %v, want target", got)
	}
}

func TestInfusionTemp(t *testing.T) {
	if got := InfusionTemp(50, 66, 15, 0, 5); got != 66 {
		t.Fatalf("InfusionTemp with zero volume = %v, want 66", got)
	}
	// (66-50) * (5*0.41 + 15) / 9.4 + 66
	if got, want := InfusionTemp(50, 66, 15, 9.4, 5), 95.0; got != want {
		t.Fatalf("InfusionTemp = %v, want %v", got, want)
	}
}

func TestMashVolumeAtStep(t *testing.T) {
	steps := []Step{
		{Name: "a", Type: StepInfusion, InfusionVolumeL: 15},
		{Name: "b", Type: StepTemperature},
		{Name: "c", Type: StepDecoction, DecoctionVolumeL: 5},
		{Name: "d", Type: StepInfusion, InfusionVolumeL: 4.5},
	}
	if got, want := MashVolumeAtStep(steps, 5, 1), 14.5; got != want {
		t.Fatalf("MashVolumeAtStep = %v, want %v", got, want)
	}
	if got := MashVolumeAtStep(steps, 50, 1); got != 0 {
		t.Fatalf("MashVolumeAtStep with heavy absorption = %v, want 0", got)
	}
	if got := MashVolumeAtStep(nil, 5, 1); got != 0 {
		t.Fatalf("MashVolumeAtStep(nil) = %v, want 0", got)
	}
}

func TestValidateStep(t *testing.T) {
	valid := Step{Name: "Saccharification", Type: StepInfusion, TempC: 66, DurationMin: 60, InfusionVolumeL: 15, InfusionTempC: 72}
	if errs := ValidateStep(valid); len(errs) != 0 {
		t.Fatalf("valid step errors = %v", errs)
	}

	missingVolume := valid
	missingVolume.InfusionVolumeL = 0
	if errs := ValidateStep(missingVolume); len(errs) != 1 {
		t.Fatalf("missing volume errors = %v, want exactly one", errs)
	}

	tests := []struct {
		name string
		step Step
		want int
	}{
		{"blank name", Step{Name: "  ", Type: StepTemperature, TempC: 66, DurationMin: 10}, 1},
		{"too hot", Step{Name: "x", Type: StepTemperature, TempC: 101, DurationMin: 10}, 1},
		{"no duration", Step{Name: "x", Type: StepTemperature, TempC: 66}, 1},
		{"decoction", Step{Name: "x", Type: StepDecoction, TempC: 66, DurationMin: 10}, 1},
		{"empty infusion", Step{Type: StepInfusion, TempC: -1}, 5},
	}
	for _, tt := range tests {
		if got := ValidateStep(tt.step); len(got) != tt.want {
			t.Fatalf("%s: errors = %v, want %d", tt.name, got, tt.want)
		}
	}
}

func TestParseStepType(t *testing.T) {
	if got, err := ParseStepType("temperature-rest"); err != nil || got != StepTemperature {
		t.Fatalf("ParseStepType = %v, %v", got, err)
	}
	if _, err := ParseStepType("boil"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestSingleInfusionSchedule(t *testing.T) {
	steps := SingleInfusion(5, 3, 20)
	if len(steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(steps))
	}
	s := steps[0]
	if s.TempC != 66 || s.DurationMin != 60 {
		t.Fatalf("unexpected rest %+v", s)
	}
	if s.InfusionVolumeL != 15 || s.InfusionTempC != 71.8 {
		t.Fatalf("strike = %vL @ %vC, want 15L @ 71.8C", s.InfusionVolumeL, s.InfusionTempC)
	}
	if errs := ValidateStep(s); len(errs) != 0 {
		t.Fatalf("default step invalid: %v", errs)
	}
}

func TestStepMashSchedule(t *testing.T) {
	steps := StepMash(5, 3, 20)
	want := []struct {
		name     string
		temp     float64
		duration float64
		volume   float64
		infTemp  float64
	}{
		{"Protein Rest", 50, 15, 15, 53.8},
		{"Saccharification", 66, 45, 9.4, 95.0},
		{"Mash Out", 76, 10, 13.9, 95.0},
	}
	if len(steps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(steps), len(want))
	}
	for i, w := range want {
		s := steps[i]
		if s.Name != w.name || s.TempC != w.temp || s.DurationMin != w.duration {
			t.Fatalf("step %d = %+v, want %s %v/%v", i, s, w.name, w.temp, w.duration)
		}
		if s.InfusionVolumeL != w.volume || s.InfusionTempC != w.infTemp {
			t.Fatalf("step %d infusion = %vL @ %vC, want %vL @ %vC", i, s.InfusionVolumeL, s.InfusionTempC, w.volume, w.infTemp)
		}
	}
}

func TestStepMashWithoutGrain(t *testing.T) {
	steps := StepMash(0, 3, 20)
	if steps[1].InfusionVolumeL != 0 || steps[1].InfusionTempC != 66 {
		t.Fatalf("grainless infusion = %+v", steps[1])
	}
}
