// Package recipe defines the brewing recipe record consumed by the
// calculation engine, and parses recipe YAML documents into it.
package recipe

import (
	"brewcalc/internal/hopflavor"
	"brewcalc/internal/hops"
	"brewcalc/internal/mash"
)

// FermentableType controls how a fermentable's extract is credited.
type FermentableType string

const (
	Grain   FermentableType = "grain"
	Adjunct FermentableType = "adjunct"
	Extract FermentableType = "extract"
	Sugar   FermentableType = "sugar"
)

// Mashed reports whether the fermentable goes through the mash and is
// therefore subject to mash efficiency. Untyped fermentables count as grain.
func (t FermentableType) Mashed() bool {
	return t == Grain || t == Adjunct || t == ""
}

// FermentationType identifies a fermentation schedule stage.
type FermentationType string

const (
	Primary      FermentationType = "primary"
	Secondary    FermentationType = "secondary"
	DiacetylRest FermentationType = "diacetyl_rest"
	ColdCrash    FermentationType = "cold_crash"
	Conditioning FermentationType = "conditioning"
)

// Recipe is the full input to a calculation. It is treated as read-only by
// the engine.
type Recipe struct {
	ID                string             `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string             `json:"name" yaml:"name"`
	Style             string             `json:"style,omitempty" yaml:"style,omitempty"`
	BatchVolumeL      float64            `json:"batch_volume_l" yaml:"batch_volume_l"`
	BoilTimeMin       float64            `json:"boil_time_min" yaml:"boil_time_min"`
	Equipment         Equipment          `json:"equipment" yaml:"equipment"`
	Fermentables      []Fermentable      `json:"fermentables" yaml:"fermentables"`
	Hops              []Hop              `json:"hops" yaml:"hops"`
	Yeast             *Yeast             `json:"yeast,omitempty" yaml:"yeast,omitempty"`
	MashSteps         []mash.Step        `json:"mash_steps" yaml:"mash_steps"`
	FermentationSteps []FermentationStep `json:"fermentation_steps" yaml:"fermentation_steps"`
	Water             *WaterProfile      `json:"water,omitempty" yaml:"water,omitempty"`
	Notes             string             `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Equipment holds losses and process constants. Efficiency, thickness, and
// absorption of zero mean "use the default".
type Equipment struct {
	Name                  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Preset                string   `json:"preset,omitempty" yaml:"preset,omitempty"`
	MashTunDeadspaceL     float64  `json:"mash_tun_deadspace_l" yaml:"mash_tun_deadspace_l"`
	KettleTrubLossL       float64  `json:"kettle_trub_loss_l" yaml:"kettle_trub_loss_l"`
	ChillerLossL          float64  `json:"chiller_loss_l" yaml:"chiller_loss_l"`
	FermenterLossL        float64  `json:"fermenter_loss_l" yaml:"fermenter_loss_l"`
	BoilOffRateLPerHour   float64  `json:"boil_off_rate_l_per_hour" yaml:"boil_off_rate_l_per_hour"`
	CoolingShrinkagePct   float64  `json:"cooling_shrinkage_pct" yaml:"cooling_shrinkage_pct"`
	// MashEfficiencyPct acts as brewhouse efficiency: OG credits these
	// points to the batch volume, after all kettle and fermenter losses.
	MashEfficiencyPct     float64  `json:"mash_efficiency_pct" yaml:"mash_efficiency_pct"`
	GrainAbsorptionLPerKg float64  `json:"grain_absorption_l_per_kg" yaml:"grain_absorption_l_per_kg"`
	MashThicknessLPerKg   float64  `json:"mash_thickness_l_per_kg" yaml:"mash_thickness_l_per_kg"`
	GrainTempC            *float64 `json:"grain_temp_c,omitempty" yaml:"grain_temp_c,omitempty"`
}

// Fermentable is one grist or kettle extract item. PotentialGU is gravity
// units per kilogram per litre.
type Fermentable struct {
	Name          string          `json:"name" yaml:"name"`
	Preset        string          `json:"preset,omitempty" yaml:"preset,omitempty"`
	WeightKg      float64         `json:"weight_kg" yaml:"weight_kg"`
	ColorLovibond float64         `json:"color_lovibond" yaml:"color_lovibond"`
	PotentialGU   float64         `json:"potential_gu" yaml:"potential_gu"`
	Type          FermentableType `json:"type" yaml:"type"`
}

// Hop is one hop addition. Time is boil minutes remaining for boil
// additions and days for dry hops.
type Hop struct {
	Name           string            `json:"name" yaml:"name"`
	Preset         string            `json:"preset,omitempty" yaml:"preset,omitempty"`
	Grams          float64           `json:"grams" yaml:"grams"`
	AlphaPct       float64           `json:"alpha_pct" yaml:"alpha_pct"`
	Use            hops.Use          `json:"use" yaml:"use"`
	Time           float64           `json:"time" yaml:"time"`
	DryHopDays     float64           `json:"dry_hop_days,omitempty" yaml:"dry_hop_days,omitempty"`
	DryHopStartDay *float64          `json:"dry_hop_start_day,omitempty" yaml:"dry_hop_start_day,omitempty"`
	WhirlpoolMin   float64           `json:"whirlpool_min,omitempty" yaml:"whirlpool_min,omitempty"`
	WhirlpoolTempC float64           `json:"whirlpool_temp_c,omitempty" yaml:"whirlpool_temp_c,omitempty"`
	Flavor         hopflavor.Profile `json:"flavor" yaml:"flavor,omitempty"`
}

// Yeast is the selected yeast and its apparent attenuation.
type Yeast struct {
	Name                   string   `json:"name" yaml:"name"`
	Preset                 string   `json:"preset,omitempty" yaml:"preset,omitempty"`
	AttenuationPct         float64  `json:"attenuation_pct" yaml:"attenuation_pct"`
	AttenuationOverridePct *float64 `json:"attenuation_override_pct,omitempty" yaml:"attenuation_override_pct,omitempty"`
	PitchTempC             float64  `json:"pitch_temp_c,omitempty" yaml:"pitch_temp_c,omitempty"`
}

// EffectiveAttenuationPct returns the override when set, otherwise the
// yeast's attenuation.
func (y *Yeast) EffectiveAttenuationPct() float64 {
	if y == nil {
		return 0
	}
	if y.AttenuationOverridePct != nil {
		return *y.AttenuationOverridePct
	}
	return y.AttenuationPct
}

// FermentationStep is one stage of the fermentation schedule.
type FermentationStep struct {
	Name         string           `json:"name" yaml:"name"`
	Type         FermentationType `json:"type" yaml:"type"`
	DurationDays float64          `json:"duration_days" yaml:"duration_days"`
	TempC        float64          `json:"temp_c" yaml:"temp_c"`
	Notes        string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// WaterProfile is the brewing liquor's ion content in ppm. Alkalinity is as
// CaCO3.
type WaterProfile struct {
	Name          string  `json:"name,omitempty" yaml:"name,omitempty"`
	CalciumPPM    float64 `json:"calcium_ppm" yaml:"calcium_ppm"`
	MagnesiumPPM  float64 `json:"magnesium_ppm" yaml:"magnesium_ppm"`
	AlkalinityPPM float64 `json:"alkalinity_ppm" yaml:"alkalinity_ppm"`
}

// GrainKg returns the total mashed grain weight.
func (r Recipe) GrainKg() float64 {
	var total float64
	for _, f := range r.Fermentables {
		if f.Type.Mashed() && f.WeightKg > 0 {
			total += f.WeightKg
		}
	}
	return total
}

// DryHops returns the dry-hop additions in order.
func (r Recipe) DryHops() []Hop {
	var out []Hop
	for _, h := range r.Hops {
		if h.Use == hops.DryHop {
			out = append(out, h)
		}
	}
	return out
}
