// Package color estimates beer colour from the grist with the Morey equation.
package color

import (
	"math"

	"brewcalc/internal/units"
)

// Coefficients parameterize SRM = Scale * MCU^Exponent.
type Coefficients struct {
	Scale    float64
	Exponent float64
}

// Morey is the standard homebrew colour fit.
var Morey = Coefficients{Scale: 1.4922, Exponent: 0.6859}

// Grain is one fermentable's colour contribution.
type Grain struct {
	WeightKg      float64
	ColorLovibond float64
}

// MCU returns malt colour units (lb × °L / gal) for a grist in volumeL.
func MCU(grist []Grain, volumeL float64) float64 {
	gallons := units.LitersToGallons(volumeL)
	if gallons <= 0 {
		return 0
	}
	var sum float64
	for _, g := range grist {
		sum += units.KgToLb(units.NonNegative(g.WeightKg)) * units.NonNegative(g.ColorLovibond)
	}
	return units.SafeDiv(sum, gallons, 0)
}

// SRM maps MCU to SRM. The curve is monotonic and grows sub-linearly.
func (c Coefficients) SRM(mcu float64) float64 {
	if mcu <= 0 {
		return 0
	}
	return units.Finite(c.Scale*math.Pow(mcu, c.Exponent), 0)
}

// SRM computes SRM for a grist with the Morey coefficients.
func SRM(grist []Grain, volumeL float64) float64 {
	return Morey.SRM(MCU(grist, volumeL))
}

// EBC converts SRM to EBC, rounded to one decimal and floored at zero.
func EBC(srm float64) float64 {
	return units.Round1(units.NonNegative(srm * units.EBCPerSRM))
}
