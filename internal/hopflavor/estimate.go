// Package hopflavor predicts a recipe's hop flavor radar from its hop
// additions. It is an empirical sensory model: each addition's flavor
// profile is weighted by dose and by how much aroma its timing retains, and
// the combined intensity saturates as total hopping rises.
package hopflavor

import (
	"math"

	"brewcalc/internal/hops"
	"brewcalc/internal/units"
)

// DefaultWhirlpoolTempC applies when a whirlpool addition has no temperature.
const DefaultWhirlpoolTempC = 80.0

// Addition is the subset of a hop addition the flavor model reads.
type Addition struct {
	Grams          float64
	Use            hops.Use
	Time           float64
	DryHopDays     float64
	DryHopStartDay *float64
	WhirlpoolMin   float64
	WhirlpoolTempC float64
	Flavor         Profile
}

// TimingAromaFactor returns the fraction of a hop's aroma that survives its
// addition timing.
func TimingAromaFactor(use hops.Use, time, dryHopDays float64, dryHopStartDay *float64, whirlpoolMin, whirlpoolTempC float64) float64 {
	switch use {
	case hops.DryHop:
		days := dryHopDays
		if days <= 0 {
			days = time
		}
		days = units.NonNegative(days)
		base := 0.6 + 0.4*(1-math.Exp(-0.6*math.Min(7, days)))
		if dryHopStartDay != nil {
			base *= startDayFactor(*dryHopStartDay)
		}
		return base
	case hops.Whirlpool:
		minutes := whirlpoolMin
		if minutes <= 0 {
			minutes = time
		}
		minutes = units.NonNegative(minutes)
		tempC := whirlpoolTempC
		if tempC <= 0 {
			tempC = DefaultWhirlpoolTempC
		}
		tempFactor := 0.6 + 0.4*units.Clamp((95-tempC)/20, 0, 1)
		timeFactor := 1 - math.Exp(-0.06*minutes)
		return math.Min(1, 0.5+0.5*tempFactor*timeFactor)
	case hops.Boil:
		return math.Max(0.03, math.Exp(-0.05*units.NonNegative(time)))
	case hops.FirstWort:
		return 0.08
	case hops.Mash:
		return 0.05
	default:
		return 0.5
	}
}

// startDayFactor penalizes dry hops added during active fermentation (CO2
// scrubbing) and late additions (staling).
func startDayFactor(day float64) float64 {
	switch {
	case day <= 2:
		return 0.9
	case day <= 7:
		return 1.0
	case day <= 14:
		return 0.95
	default:
		return 0.9
	}
}

// EstimateRecipe combines all additions into one predicted profile for a
// batch of batchL litres.
func EstimateRecipe(additions []Addition, batchL float64) Profile {
	var out Profile
	if batchL <= 0 {
		return out
	}

	var overall float64
	var axisSum [NumAxes]float64
	for _, a := range additions {
		if a.Grams <= 0 {
			continue
		}
		dose := a.Grams / batchL
		aroma := TimingAromaFactor(a.Use, a.Time, a.DryHopDays, a.DryHopStartDay, a.WhirlpoolMin, a.WhirlpoolTempC)
		weight := dose * aroma
		overall += weight
		for i := range axisSum {
			axisSum[i] += weight * (a.Flavor[i] / MaxIntensity)
		}
	}
	if overall <= 0 {
		return out
	}

	magnitude := MaxIntensity * (1 - math.Exp(-0.7*overall))
	for i := range out {
		out[i] = units.Clamp(magnitude*axisSum[i]/overall, 0, MaxIntensity)
	}
	return out
}
