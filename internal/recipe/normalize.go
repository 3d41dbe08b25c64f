package recipe

import "brewcalc/internal/units"

// Ingredient tables report extract, color, and attenuation in several
// incompatible ways. These helpers fold them into the one shape the
// calculators read.
const (
	// SucroseGU is the extract of pure sucrose in GU per kg per litre.
	SucroseGU = 384.0
	// GUPerPPG converts points per pound per gallon to GU per kg per litre.
	GUPerPPG = 8.3454
)

// PotentialGU picks the first usable extract figure: explicit GU, then a
// yield (fraction or percent of sucrose), then a potential expressed as
// specific gravity (1.037) or as points per pound per gallon (37).
func PotentialGU(potentialGU, yield, potential *float64) (float64, bool) {
	if v, ok := positive(potentialGU); ok {
		return v, true
	}
	if v, ok := positive(yield); ok {
		return asFraction(v) * SucroseGU, true
	}
	if v, ok := positive(potential); ok {
		ppg := v
		if v < 2 {
			ppg = units.SGToPoints(v)
		}
		return ppg * GUPerPPG, true
	}
	return 0, false
}

// ColorLovibond picks the first usable color figure: degrees Lovibond,
// then SRM, then EBC. SRM is taken as equal to Lovibond.
func ColorLovibond(lovibond, srm, ebc *float64) (float64, bool) {
	if lovibond != nil && *lovibond >= 0 {
		return *lovibond, true
	}
	if srm != nil && *srm >= 0 {
		return *srm, true
	}
	if ebc != nil && *ebc >= 0 {
		return *ebc / units.EBCPerSRM, true
	}
	return 0, false
}

// AttenuationPct picks an explicit attenuation or the mean of a min/max
// range. Fractions (0.78) are promoted to percent.
func AttenuationPct(attenuation, minimum, maximum *float64) (float64, bool) {
	if v, ok := positive(attenuation); ok {
		return asPercent(v), true
	}
	lo, loOK := positive(minimum)
	hi, hiOK := positive(maximum)
	switch {
	case loOK && hiOK:
		return (asPercent(lo) + asPercent(hi)) / 2, true
	case loOK:
		return asPercent(lo), true
	case hiOK:
		return asPercent(hi), true
	}
	return 0, false
}

// AlphaPct picks the alpha acid percentage. alpha_pct is always a percent,
// so 0.8 stays 0.8%. alpha is a fraction (0.125) unless it is above 1.
func AlphaPct(alphaPct, alpha *float64) (float64, bool) {
	if alphaPct != nil && *alphaPct >= 0 {
		return *alphaPct, true
	}
	if alpha != nil && *alpha >= 0 {
		return asPercent(*alpha), true
	}
	return 0, false
}

func positive(v *float64) (float64, bool) {
	if v == nil || !(*v > 0) {
		return 0, false
	}
	return *v, true
}

func asFraction(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

func asPercent(v float64) float64 {
	if v <= 1 {
		return v * 100
	}
	return v
}
