package mash

import "brewcalc/internal/units"

type restSpec struct {
	name     string
	tempC    float64
	duration float64
}

var singleInfusionRests = []restSpec{
	{"Saccharification Rest", 66, 60},
}

var stepMashRests = []restSpec{
	{"Protein Rest", 50, 15},
	{"Saccharification", 66, 45},
	{"Mash Out", 76, 10},
}

// SingleInfusion returns a 66°C/60 min single-infusion schedule whose strike
// volume and temperature are derived from the grain bill.
func SingleInfusion(grainKg, thicknessLPerKg, grainTempC float64) []Step {
	return buildSchedule(singleInfusionRests, grainKg, thicknessLPerKg, grainTempC)
}

// StepMash returns the protein rest, saccharification, mash out schedule.
// The first rest is the strike; later rests infuse near-boiling water.
func StepMash(grainKg, thicknessLPerKg, grainTempC float64) []Step {
	return buildSchedule(stepMashRests, grainKg, thicknessLPerKg, grainTempC)
}

func buildSchedule(rests []restSpec, grainKg, thicknessLPerKg, grainTempC float64) []Step {
	steps := make([]Step, 0, len(rests))
	var mashVolume, currentC float64
	for i, rest := range rests {
		step := Step{
			Name:        rest.name,
			Type:        StepInfusion,
			TempC:       rest.tempC,
			DurationMin: rest.duration,
		}
		if i == 0 {
			step.InfusionVolumeL = units.Round1(units.NonNegative(grainKg * thicknessLPerKg))
			step.InfusionTempC = StrikeTemp(rest.tempC, thicknessLPerKg, grainTempC, grainKg)
		} else {
			step.InfusionVolumeL = infusionVolumeFor(currentC, rest.tempC, mashVolume, grainKg)
			step.InfusionTempC = InfusionTemp(currentC, rest.tempC, mashVolume, step.InfusionVolumeL, grainKg)
		}
		mashVolume += step.InfusionVolumeL
		currentC = rest.tempC
		steps = append(steps, step)
	}
	return steps
}

// infusionVolumeFor solves the infusion heat balance for the volume of
// DefaultInfusionWaterC water that lifts the mash from currentC to targetC.
func infusionVolumeFor(currentC, targetC, mashVolumeL, grainKg float64) float64 {
	heatCapacity := grainKg*GrainHeatCapacitySimplified + mashVolumeL
	vol := units.SafeDiv((targetC-currentC)*heatCapacity, DefaultInfusionWaterC-targetC, 0)
	return units.Round1(units.NonNegative(vol))
}
