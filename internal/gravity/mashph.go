package gravity

import "brewcalc/internal/units"

// Grain is a mashed fermentable as seen by the mash pH estimate.
type Grain struct {
	WeightKg      float64
	ColorLovibond float64
}

// Water is the brewing liquor's relevant ion content in ppm. Alkalinity is
// expressed as CaCO3.
type Water struct {
	CalciumPPM    float64
	MagnesiumPPM  float64
	AlkalinityPPM float64
}

// PHPerPPMResidualAlkalinity is the mash pH shift per ppm of residual
// alkalinity (as CaCO3): roughly 0.1 pH per 50 ppm.
const PHPerPPMResidualAlkalinity = 0.002

// ResidualAlkalinity returns Kolbach's residual alkalinity in ppm as CaCO3.
func ResidualAlkalinity(w Water) float64 {
	alkMEq := w.AlkalinityPPM / 50.04
	caMEq := w.CalciumPPM / 20.04
	mgMEq := w.MagnesiumPPM / 12.15
	return (alkMEq - (caMEq/3.5 + mgMEq/7)) * 50.04
}

// DistilledWaterPH approximates a malt's mash pH in distilled water from its
// colour: pale base malts near 5.7, crystal malts dropping with colour, and
// roasted grains near 4.7.
func DistilledWaterPH(lovibond float64) float64 {
	switch {
	case lovibond <= 10:
		return 5.75 - 0.01*units.NonNegative(lovibond)
	case lovibond <= 200:
		return 5.6 - 0.0045*lovibond
	default:
		return 4.7
	}
}

// EstimateMashPH returns the mass-weighted distilled-water pH of the grist
// shifted by the water's residual alkalinity. ok is false when there is no
// grain to weigh.
func EstimateMashPH(grist []Grain, water Water) (ph float64, ok bool) {
	var mass, weighted float64
	for _, g := range grist {
		kg := units.NonNegative(g.WeightKg)
		mass += kg
		weighted += kg * DistilledWaterPH(g.ColorLovibond)
	}
	if mass <= 0 {
		return 0, false
	}
	ph = weighted/mass + ResidualAlkalinity(water)*PHPerPPMResidualAlkalinity
	return units.Round(units.Clamp(ph, 4, 7), 2), true
}
