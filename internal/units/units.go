// Package units holds the scalar conversions and numeric guards shared by the
// brewing models. Everything here is a pure function of its arguments.
package units

import "math"

const (
	litersPerGallon = 3.785411784
	poundsPerKg     = 2.20462262185
	gramsPerOunce   = 28.349523125

	// EBCPerSRM converts SRM to EBC.
	EBCPerSRM = 1.97
)

// CToF converts Celsius to Fahrenheit.
func CToF(c float64) float64 { return c*9/5 + 32 }

// FToC converts Fahrenheit to Celsius.
func FToC(f float64) float64 { return (f - 32) * 5 / 9 }

// LitersToGallons converts litres to US gallons.
func LitersToGallons(l float64) float64 { return l / litersPerGallon }

// GallonsToLiters converts US gallons to litres.
func GallonsToLiters(gal float64) float64 { return gal * litersPerGallon }

// KgToLb converts kilograms to pounds.
func KgToLb(kg float64) float64 { return kg * poundsPerKg }

// LbToKg converts pounds to kilograms.
func LbToKg(lb float64) float64 { return lb / poundsPerKg }

// OzToGrams converts ounces to grams.
func OzToGrams(oz float64) float64 { return oz * gramsPerOunce }

// SGToPoints converts a specific gravity such as 1.050 to gravity points (50).
func SGToPoints(sg float64) float64 { return (sg - 1) * 1000 }

// PointsToSG converts gravity points back to specific gravity.
func PointsToSG(points float64) float64 { return 1 + points/1000 }

// SGToPlato approximates degrees Plato for a specific gravity.
func SGToPlato(sg float64) float64 {
	return -616.868 + 1111.14*sg - 630.272*sg*sg + 135.997*sg*sg*sg
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 { return Round(v, 1) }

// Finite returns v, or fallback when v is NaN or infinite.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// SafeDiv divides a by b, returning fallback when b is zero or the result is
// not finite.
func SafeDiv(a, b, fallback float64) float64 {
	if b == 0 {
		return fallback
	}
	return Finite(a/b, fallback)
}

// NonNegative floors v at zero and maps non-finite values to zero.
func NonNegative(v float64) float64 {
	v = Finite(v, 0)
	if v < 0 {
		return 0
	}
	return v
}
