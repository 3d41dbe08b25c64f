// Package volume tracks wort volume through the brew day: from the batch
// target back through fermenter, chiller, and kettle losses, cooling
// shrinkage, and boil-off, to the pre-boil and total mash water volumes.
package volume

import "brewcalc/internal/units"

// Inputs carries the batch target and equipment losses. All volumes are in
// litres.
type Inputs struct {
	BatchL              float64
	BoilTimeMin         float64
	BoilOffRateLPerHour float64
	CoolingShrinkagePct float64
	FermenterLossL      float64
	ChillerLossL        float64
	KettleTrubLossL     float64
	MashTunDeadspaceL   float64

	GrainKg               float64
	GrainAbsorptionLPerKg float64
	MashThicknessLPerKg   float64
}

// Result is the derived volume ladder.
type Result struct {
	PostBoilL   float64
	PreBoilL    float64
	BoilOffL    float64
	ShrinkageL  float64
	AbsorptionL float64
	TotalWaterL float64
	StrikeL     float64
	SpargeL     float64
}

// PostBoil returns the volume needed at knockout to deliver the batch after
// fermenter, chiller, and kettle losses.
func PostBoil(in Inputs) float64 {
	return units.NonNegative(in.BatchL) +
		units.NonNegative(in.FermenterLossL) +
		units.NonNegative(in.ChillerLossL) +
		units.NonNegative(in.KettleTrubLossL)
}

// PreBoil returns the kettle volume before the boil for a given post-boil
// volume: undo cooling shrinkage, then add back boil-off.
func PreBoil(postBoilL float64, in Inputs) float64 {
	return postBoilL/(1-shrinkageFraction(in.CoolingShrinkagePct)) + boilOff(in)
}

// Compute derives the full volume ladder.
func Compute(in Inputs) Result {
	post := PostBoil(in)
	pre := PreBoil(post, in)
	absorption := units.NonNegative(in.GrainKg) * units.NonNegative(in.GrainAbsorptionLPerKg)
	total := pre + absorption + units.NonNegative(in.MashTunDeadspaceL)

	strike := units.NonNegative(in.GrainKg) * units.NonNegative(in.MashThicknessLPerKg)
	if strike > total {
		strike = total
	}

	return Result{
		PostBoilL:   post,
		PreBoilL:    pre,
		BoilOffL:    boilOff(in),
		ShrinkageL:  pre - boilOff(in) - post,
		AbsorptionL: absorption,
		TotalWaterL: total,
		StrikeL:     strike,
		SpargeL:     units.NonNegative(total - strike),
	}
}

func boilOff(in Inputs) float64 {
	return units.NonNegative(in.BoilOffRateLPerHour) * units.NonNegative(in.BoilTimeMin) / 60
}

// shrinkageFraction maps a percentage to [0, 1); anything outside [0, 100)
// is treated as no shrinkage.
func shrinkageFraction(pct float64) float64 {
	pct = units.Finite(pct, 0)
	if pct < 0 || pct >= 100 {
		return 0
	}
	return pct / 100
}
