// Package calc turns a recipe into its predicted brewing numbers. Calculate
// is a pure function: it never fails, never returns NaN or Inf, and leaves
// the recipe untouched.
package calc

import (
	"brewcalc/internal/bitterness"
	"brewcalc/internal/color"
	"brewcalc/internal/gravity"
	"brewcalc/internal/hopflavor"
	"brewcalc/internal/hops"
	"brewcalc/internal/mash"
	"brewcalc/internal/recipe"
	"brewcalc/internal/units"
	"brewcalc/internal/volume"
)

// Defaults applied when the recipe's equipment leaves a figure at zero.
const (
	DefaultMashEfficiencyPct     = 75.0
	DefaultMashThicknessLPerKg   = 3.0
	DefaultGrainAbsorptionLPerKg = 1.0
	DefaultMashTempC             = 66.0
)

// Calculations is the derived view of one recipe.
type Calculations struct {
	PreBoilVolumeL  float64  `json:"pre_boil_volume_l"`
	PostBoilVolumeL float64  `json:"post_boil_volume_l"`
	BatchVolumeL    float64  `json:"batch_volume_l"`
	TotalWaterL     float64  `json:"total_water_l"`
	StrikeWaterL    float64  `json:"strike_water_l"`
	SpargeWaterL    float64  `json:"sparge_water_l"`
	StrikeTempC     float64  `json:"strike_temp_c"`
	PreBoilGravity  float64  `json:"pre_boil_gravity"`
	OG              float64  `json:"og"`
	FG              float64  `json:"fg"`
	ABV             float64  `json:"abv"`
	IBU             float64  `json:"ibu"`
	SRM             float64  `json:"srm"`
	EBC             float64  `json:"ebc"`
	EstimatedMashPH *float64 `json:"estimated_mash_ph,omitempty"`
	BuGuRatio       float64  `json:"bu_gu_ratio"`
	AttenuationPct  float64  `json:"attenuation_pct"`
}

// Models holds the configurable curves used by Calculate.
type Models struct {
	Bitterness bitterness.Coefficients
	Color      color.Coefficients
}

// DefaultModels are Tinseth bitterness and Morey colour.
var DefaultModels = Models{
	Bitterness: bitterness.DefaultCoefficients,
	Color:      color.Morey,
}

// Calculate derives every output with DefaultModels.
func Calculate(r recipe.Recipe) Calculations {
	return DefaultModels.Calculate(r)
}

// Calculate derives volumes, then OG, FG, ABV, IBU, SRM, and mash pH, each
// stage reading the outputs of the ones before it.
func (m Models) Calculate(r recipe.Recipe) Calculations {
	eq := r.Equipment
	efficiency := orDefault(eq.MashEfficiencyPct, DefaultMashEfficiencyPct)
	thickness := orDefault(eq.MashThicknessLPerKg, DefaultMashThicknessLPerKg)
	absorption := orDefault(eq.GrainAbsorptionLPerKg, DefaultGrainAbsorptionLPerKg)
	grainTemp := mash.DefaultGrainTempC
	if eq.GrainTempC != nil {
		grainTemp = units.Finite(*eq.GrainTempC, mash.DefaultGrainTempC)
	}
	batchL := units.NonNegative(units.Finite(r.BatchVolumeL, 0))
	boilMin := units.NonNegative(units.Finite(r.BoilTimeMin, 0))
	grainKg := units.NonNegative(r.GrainKg())

	vol := volume.Compute(volume.Inputs{
		BatchL:                batchL,
		BoilTimeMin:           boilMin,
		BoilOffRateLPerHour:   eq.BoilOffRateLPerHour,
		CoolingShrinkagePct:   eq.CoolingShrinkagePct,
		FermenterLossL:        eq.FermenterLossL,
		ChillerLossL:          eq.ChillerLossL,
		KettleTrubLossL:       eq.KettleTrubLossL,
		MashTunDeadspaceL:     eq.MashTunDeadspaceL,
		GrainKg:               grainKg,
		GrainAbsorptionLPerKg: absorption,
		MashThicknessLPerKg:   thickness,
	})

	targetC := DefaultMashTempC
	if len(r.MashSteps) > 0 && r.MashSteps[0].TempC > 0 {
		targetC = r.MashSteps[0].TempC
	}
	strikeC := mash.StrikeTemp(targetC, thickness, grainTemp, grainKg)

	og := gravity.OriginalGravity(gravity.TotalPoints(extracts(r.Fermentables), efficiency), batchL)
	preBoilSG := gravity.PreBoilGravity(og, batchL, vol.PreBoilL)

	attenuation := gravity.DefaultAttenuationPct
	if r.Yeast != nil {
		attenuation = units.Clamp(r.Yeast.EffectiveAttenuationPct(), 0, 100)
	}
	fg := gravity.FinalGravity(og, attenuation/100)
	abv := gravity.ABV(og, fg)

	ibu := m.Bitterness.TotalIBU(bitternessAdditions(r.Hops), og, batchL, boilMin)

	srm := m.Color.SRM(color.MCU(colorGrist(r.Fermentables), batchL))

	out := Calculations{
		PreBoilVolumeL:  roundVolume(vol.PreBoilL),
		PostBoilVolumeL: roundVolume(vol.PostBoilL),
		BatchVolumeL:    roundVolume(batchL),
		TotalWaterL:     roundVolume(vol.TotalWaterL),
		StrikeWaterL:    roundVolume(vol.StrikeL),
		SpargeWaterL:    roundVolume(vol.SpargeL),
		StrikeTempC:     units.Round1(units.Finite(strikeC, targetC)),
		PreBoilGravity:  roundGravity(preBoilSG),
		OG:              roundGravity(og),
		FG:              roundGravity(fg),
		ABV:             units.Round(units.Finite(abv, 0), 2),
		IBU:             units.Round1(units.Finite(ibu, 0)),
		SRM:             units.Round1(units.Finite(srm, 0)),
		EBC:             color.EBC(units.Finite(srm, 0)),
		AttenuationPct:  units.Round1(attenuation),
	}
	if gu := units.SGToPoints(og); gu > 0 {
		out.BuGuRatio = units.Round(units.Finite(ibu/gu, 0), 2)
	}
	if r.Water != nil {
		if ph, ok := gravity.EstimateMashPH(phGrist(r.Fermentables), gravity.Water{
			CalciumPPM:    r.Water.CalciumPPM,
			MagnesiumPPM:  r.Water.MagnesiumPPM,
			AlkalinityPPM: r.Water.AlkalinityPPM,
		}); ok {
			ph = units.Finite(ph, 0)
			out.EstimatedMashPH = &ph
		}
	}
	return out
}

// FlavorProfile predicts the recipe's hop flavor radar.
func FlavorProfile(r recipe.Recipe) hopflavor.Profile {
	adds := make([]hopflavor.Addition, 0, len(r.Hops))
	for _, h := range r.Hops {
		adds = append(adds, hopflavor.Addition{
			Grams:          h.Grams,
			Use:            h.Use,
			Time:           h.Time,
			DryHopDays:     h.DryHopDays,
			DryHopStartDay: h.DryHopStartDay,
			WhirlpoolMin:   h.WhirlpoolMin,
			WhirlpoolTempC: h.WhirlpoolTempC,
			Flavor:         h.Flavor,
		})
	}
	return hopflavor.EstimateRecipe(adds, r.BatchVolumeL)
}

func extracts(fs []recipe.Fermentable) []gravity.Extract {
	out := make([]gravity.Extract, 0, len(fs))
	for _, f := range fs {
		out = append(out, gravity.Extract{
			WeightKg:    units.Finite(f.WeightKg, 0),
			PotentialGU: units.Finite(f.PotentialGU, 0),
			Mashed:      f.Type.Mashed(),
		})
	}
	return out
}

func colorGrist(fs []recipe.Fermentable) []color.Grain {
	out := make([]color.Grain, 0, len(fs))
	for _, f := range fs {
		out = append(out, color.Grain{
			WeightKg:      units.Finite(f.WeightKg, 0),
			ColorLovibond: units.Finite(f.ColorLovibond, 0),
		})
	}
	return out
}

func phGrist(fs []recipe.Fermentable) []gravity.Grain {
	var out []gravity.Grain
	for _, f := range fs {
		if !f.Type.Mashed() {
			continue
		}
		out = append(out, gravity.Grain{
			WeightKg:      units.Finite(f.WeightKg, 0),
			ColorLovibond: units.Finite(f.ColorLovibond, 0),
		})
	}
	return out
}

func bitternessAdditions(hs []recipe.Hop) []bitterness.Addition {
	out := make([]bitterness.Addition, 0, len(hs))
	for _, h := range hs {
		minutes := h.Time
		if h.Use == hops.Whirlpool && h.WhirlpoolMin > 0 {
			minutes = h.WhirlpoolMin
		}
		out = append(out, bitterness.Addition{
			Grams:    units.Finite(h.Grams, 0),
			AlphaPct: units.Finite(h.AlphaPct, 0),
			Use:      h.Use,
			Minutes:  units.Finite(minutes, 0),
			TempC:    h.WhirlpoolTempC,
		})
	}
	return out
}

func orDefault(v, fallback float64) float64 {
	v = units.Finite(v, 0)
	if v <= 0 {
		return fallback
	}
	return v
}

func roundGravity(sg float64) float64 {
	return units.Round(units.Finite(sg, 1), 3)
}

func roundVolume(l float64) float64 {
	return units.Round1(units.Finite(l, 0))
}
