package recipe

import "fmt"

// Presets supplies ingredient and equipment defaults by name.
type Presets interface {
	Grain(name string) (Fermentable, error)
	Hop(name string) (Hop, error)
	Yeast(name string) (Yeast, error)
	Equipment(name string) (Equipment, error)
}

// Resolve returns a copy of r with every preset reference expanded. Figures
// already present in the recipe win over the preset's; a zero figure counts
// as absent.
func Resolve(r Recipe, p Presets) (Recipe, error) {
	out := r
	out.Fermentables = append([]Fermentable(nil), r.Fermentables...)
	out.Hops = append([]Hop(nil), r.Hops...)

	if r.Equipment.Preset != "" {
		preset, err := p.Equipment(r.Equipment.Preset)
		if err != nil {
			return Recipe{}, fmt.Errorf("equipment: %w", err)
		}
		out.Equipment = mergeEquipment(r.Equipment, preset)
	}
	for i, f := range out.Fermentables {
		if f.Preset == "" {
			continue
		}
		preset, err := p.Grain(f.Preset)
		if err != nil {
			return Recipe{}, fmt.Errorf("fermentables[%d]: %w", i, err)
		}
		f.Name = presetName(f.Name, f.Preset, preset.Name)
		if f.PotentialGU == 0 {
			f.PotentialGU = preset.PotentialGU
		}
		if f.ColorLovibond == 0 {
			f.ColorLovibond = preset.ColorLovibond
		}
		if f.Type == "" || (f.Type == Grain && preset.Type != "") {
			f.Type = preset.Type
		}
		out.Fermentables[i] = f
	}
	for i, h := range out.Hops {
		if h.Preset == "" {
			continue
		}
		preset, err := p.Hop(h.Preset)
		if err != nil {
			return Recipe{}, fmt.Errorf("hops[%d]: %w", i, err)
		}
		h.Name = presetName(h.Name, h.Preset, preset.Name)
		if h.AlphaPct == 0 {
			h.AlphaPct = preset.AlphaPct
		}
		if h.Flavor.IsZero() {
			h.Flavor = preset.Flavor
		}
		out.Hops[i] = h
	}
	if r.Yeast != nil && r.Yeast.Preset != "" {
		preset, err := p.Yeast(r.Yeast.Preset)
		if err != nil {
			return Recipe{}, fmt.Errorf("yeast: %w", err)
		}
		y := *r.Yeast
		y.Name = presetName(y.Name, y.Preset, preset.Name)
		if y.AttenuationPct == 0 {
			y.AttenuationPct = preset.AttenuationPct
		}
		if y.PitchTempC == 0 {
			y.PitchTempC = preset.PitchTempC
		}
		out.Yeast = &y
	}
	return out, nil
}

// presetName swaps a name that merely repeats the preset reference for the
// preset's display name.
func presetName(name, ref, display string) string {
	if (name == "" || name == ref) && display != "" {
		return display
	}
	return name
}

func mergeEquipment(e, preset Equipment) Equipment {
	pick := func(v, fallback float64) float64 {
		if v == 0 {
			return fallback
		}
		return v
	}
	out := e
	if out.Name == "" {
		out.Name = preset.Name
	}
	out.MashTunDeadspaceL = pick(e.MashTunDeadspaceL, preset.MashTunDeadspaceL)
	out.KettleTrubLossL = pick(e.KettleTrubLossL, preset.KettleTrubLossL)
	out.ChillerLossL = pick(e.ChillerLossL, preset.ChillerLossL)
	out.FermenterLossL = pick(e.FermenterLossL, preset.FermenterLossL)
	out.BoilOffRateLPerHour = pick(e.BoilOffRateLPerHour, preset.BoilOffRateLPerHour)
	out.CoolingShrinkagePct = pick(e.CoolingShrinkagePct, preset.CoolingShrinkagePct)
	out.MashEfficiencyPct = pick(e.MashEfficiencyPct, preset.MashEfficiencyPct)
	out.GrainAbsorptionLPerKg = pick(e.GrainAbsorptionLPerKg, preset.GrainAbsorptionLPerKg)
	out.MashThicknessLPerKg = pick(e.MashThicknessLPerKg, preset.MashThicknessLPerKg)
	if out.GrainTempC == nil {
		out.GrainTempC = preset.GrainTempC
	}
	return out
}
