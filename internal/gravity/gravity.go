// Package gravity computes original gravity from the grist, final gravity
// from yeast attenuation, and alcohol by volume.
package gravity

import "brewcalc/internal/units"

const (
	// ABVFactor is the slope of the simple ABV formula.
	ABVFactor = 131.25
	// DefaultAttenuationPct applies when a recipe has no yeast.
	DefaultAttenuationPct = 75.0
)

// Extract is one fermentable's contribution to the wort. PotentialGU is in
// gravity units per kilogram per litre. Mashed extracts are scaled by mash
// efficiency; extracts and sugars are taken at 100%.
type Extract struct {
	WeightKg    float64
	PotentialGU float64
	Mashed      bool
}

// TotalPoints returns the gravity-unit litres the grist delivers.
func TotalPoints(grist []Extract, mashEfficiencyPct float64) float64 {
	eff := units.Clamp(mashEfficiencyPct, 0, 100) / 100
	var total float64
	for _, e := range grist {
		points := units.NonNegative(e.WeightKg) * units.NonNegative(e.PotentialGU)
		if e.Mashed {
			points *= eff
		}
		total += points
	}
	return total
}

// OriginalGravity spreads total points over volumeL. Zero or negative volume
// yields 1.000.
func OriginalGravity(totalPoints, volumeL float64) float64 {
	if volumeL <= 0 {
		return 1
	}
	return units.PointsToSG(units.SafeDiv(totalPoints, volumeL, 0))
}

// PreBoilGravity back-calculates kettle gravity before the boil from OG.
func PreBoilGravity(og, batchL, preBoilL float64) float64 {
	if preBoilL <= 0 {
		return og
	}
	return 1 + (og-1)*units.SafeDiv(batchL, preBoilL, 1)
}

// FinalGravity applies an apparent attenuation fraction in [0, 1].
func FinalGravity(og, attenuationFraction float64) float64 {
	return 1 + (og-1)*(1-units.Clamp(attenuationFraction, 0, 1))
}

// ABV uses the simple (OG - FG) * 131.25 formula. FG above OG yields a
// negative value rather than an error.
func ABV(og, fg float64) float64 {
	return (og - fg) * ABVFactor
}

// ApparentAttenuation returns the attenuation implied by OG and FG, in
// percent.
func ApparentAttenuation(og, fg float64) float64 {
	return units.SafeDiv(og-fg, og-1, 0) * 100
}
