package recipe

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"brewcalc/internal/hopflavor"
	"brewcalc/internal/hops"
	"brewcalc/internal/mash"
)

// DefaultBoilTimeMin applies when a recipe file omits boil_time_min.
const DefaultBoilTimeMin = 60.0

type rawRecipe struct {
	ID                string                `yaml:"id"`
	Name              string                `yaml:"name"`
	Style             string                `yaml:"style"`
	BatchVolumeL      *float64              `yaml:"batch_volume_l"`
	BoilTimeMin       *float64              `yaml:"boil_time_min"`
	Equipment         rawEquipment          `yaml:"equipment"`
	Fermentables      []rawFermentable      `yaml:"fermentables"`
	Hops              []rawHop              `yaml:"hops"`
	Yeast             *rawYeast             `yaml:"yeast"`
	MashSteps         []rawMashStep         `yaml:"mash_steps"`
	FermentationSteps []rawFermentationStep `yaml:"fermentation_steps"`
	Water             *WaterProfile         `yaml:"water"`
	Notes             string                `yaml:"notes"`
}

type rawEquipment struct {
	Name                  string   `yaml:"name"`
	Preset                string   `yaml:"preset"`
	MashTunDeadspaceL     float64  `yaml:"mash_tun_deadspace_l"`
	KettleTrubLossL       float64  `yaml:"kettle_trub_loss_l"`
	ChillerLossL          float64  `yaml:"chiller_loss_l"`
	FermenterLossL        float64  `yaml:"fermenter_loss_l"`
	BoilOffRateLPerHour   float64  `yaml:"boil_off_rate_l_per_hour"`
	CoolingShrinkagePct   float64  `yaml:"cooling_shrinkage_pct"`
	MashEfficiencyPct     float64  `yaml:"mash_efficiency_pct"`
	GrainAbsorptionLPerKg float64  `yaml:"grain_absorption_l_per_kg"`
	MashThicknessLPerKg   float64  `yaml:"mash_thickness_l_per_kg"`
	GrainTempC            *float64 `yaml:"grain_temp_c"`
}

type rawFermentable struct {
	Name          string   `yaml:"name"`
	Preset        string   `yaml:"preset"`
	WeightKg      *float64 `yaml:"weight_kg"`
	ColorLovibond *float64 `yaml:"color_lovibond"`
	SRM           *float64 `yaml:"srm"`
	EBC           *float64 `yaml:"ebc"`
	PotentialGU   *float64 `yaml:"potential_gu"`
	Yield         *float64 `yaml:"yield"`
	Potential     *float64 `yaml:"potential"`
	Type          string   `yaml:"type"`
}

type rawHop struct {
	Name           string             `yaml:"name"`
	Preset         string             `yaml:"preset"`
	Grams          *float64           `yaml:"grams"`
	AlphaPct       *float64           `yaml:"alpha_pct"`
	Use            string             `yaml:"use"`
	Time           float64            `yaml:"time"`
	DryHopDays     float64            `yaml:"dry_hop_days"`
	DryHopStartDay *float64           `yaml:"dry_hop_start_day"`
	WhirlpoolMin   float64            `yaml:"whirlpool_min"`
	WhirlpoolTempC float64            `yaml:"whirlpool_temp_c"`
	Flavor         map[string]float64 `yaml:"flavor"`
}

type rawYeast struct {
	Name                   string   `yaml:"name"`
	Preset                 string   `yaml:"preset"`
	AttenuationPct         *float64 `yaml:"attenuation_pct"`
	AttenuationMinPct      *float64 `yaml:"attenuation_min_pct"`
	AttenuationMaxPct      *float64 `yaml:"attenuation_max_pct"`
	AttenuationOverridePct *float64 `yaml:"attenuation_override_pct"`
	PitchTempC             float64  `yaml:"pitch_temp_c"`
}

type rawMashStep struct {
	Name             string  `yaml:"name"`
	Type             string  `yaml:"type"`
	TempC            float64 `yaml:"temp_c"`
	DurationMin      float64 `yaml:"duration_min"`
	InfusionVolumeL  float64 `yaml:"infusion_volume_l"`
	InfusionTempC    float64 `yaml:"infusion_temp_c"`
	DecoctionVolumeL float64 `yaml:"decoction_volume_l"`
}

type rawFermentationStep struct {
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"`
	DurationDays float64 `yaml:"duration_days"`
	TempC        float64 `yaml:"temp_c"`
	Notes        string  `yaml:"notes"`
}

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// ParseDocument unmarshals and validates a YAML recipe. Ingredients that name
// a preset may omit the figures the preset supplies; call Resolve before
// calculating.
func ParseDocument(data []byte, source string) (Recipe, error) {
	var raw rawRecipe
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Recipe{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	return validateRawRecipe(raw, source)
}

// Marshal renders a recipe as YAML that ParseDocument accepts.
func Marshal(r Recipe) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal recipe %q: %w", r.Name, err)
	}
	return data, nil
}

func validateRawRecipe(raw rawRecipe, source string) (Recipe, error) {
	v := validator{source: source}

	r := Recipe{
		ID:    strings.TrimSpace(raw.ID),
		Name:  strings.TrimSpace(raw.Name),
		Style: strings.TrimSpace(raw.Style),
		Notes: strings.TrimSpace(raw.Notes),
		Water: raw.Water,
	}
	if r.Name == "" {
		v.add("name", "name is required")
	}
	if raw.BatchVolumeL == nil {
		v.add("batch_volume_l", "batch_volume_l is required")
	} else {
		r.BatchVolumeL = *raw.BatchVolumeL
	}
	r.BoilTimeMin = DefaultBoilTimeMin
	if raw.BoilTimeMin != nil {
		r.BoilTimeMin = *raw.BoilTimeMin
	}

	r.Equipment = Equipment(raw.Equipment)

	for idx, rf := range raw.Fermentables {
		r.Fermentables = append(r.Fermentables, v.fermentable(rf, fmt.Sprintf("fermentables[%d]", idx)))
	}
	for idx, rh := range raw.Hops {
		r.Hops = append(r.Hops, v.hop(rh, fmt.Sprintf("hops[%d]", idx)))
	}
	if raw.Yeast != nil {
		y := v.yeast(*raw.Yeast, "yeast")
		r.Yeast = &y
	}
	for idx, rs := range raw.MashSteps {
		path := fmt.Sprintf("mash_steps[%d]", idx)
		stepType, err := mash.ParseStepType(rs.Type)
		if err != nil {
			v.add(path+".type", err.Error())
		}
		r.MashSteps = append(r.MashSteps, mash.Step{
			Name:             strings.TrimSpace(rs.Name),
			Type:             stepType,
			TempC:            rs.TempC,
			DurationMin:      rs.DurationMin,
			InfusionVolumeL:  rs.InfusionVolumeL,
			InfusionTempC:    rs.InfusionTempC,
			DecoctionVolumeL: rs.DecoctionVolumeL,
		})
	}
	for idx, rs := range raw.FermentationSteps {
		path := fmt.Sprintf("fermentation_steps[%d]", idx)
		stepType, err := ParseFermentationType(rs.Type)
		if err != nil {
			v.add(path+".type", err.Error())
		}
		r.FermentationSteps = append(r.FermentationSteps, FermentationStep{
			Name:         strings.TrimSpace(rs.Name),
			Type:         stepType,
			DurationDays: rs.DurationDays,
			TempC:        rs.TempC,
			Notes:        strings.TrimSpace(rs.Notes),
		})
	}

	v.errs = append(v.errs, validateValues(r, source)...)
	if len(v.errs) > 0 {
		return Recipe{}, v.errs
	}
	return r, nil
}

type validator struct {
	source string
	errs   ValidationErrors
}

func (v *validator) add(field, message string) {
	v.errs = append(v.errs, ValidationError{File: v.source, Field: field, Message: message})
}

func (v *validator) fermentable(raw rawFermentable, path string) Fermentable {
	f := Fermentable{
		Name:   strings.TrimSpace(raw.Name),
		Preset: strings.TrimSpace(raw.Preset),
	}
	if f.Name == "" && f.Preset == "" {
		v.add(path+".name", "name or preset is required")
	}
	if f.Name == "" {
		f.Name = f.Preset
	}
	if raw.WeightKg == nil {
		v.add(path+".weight_kg", "weight_kg is required")
	} else {
		f.WeightKg = *raw.WeightKg
	}
	if gu, ok := PotentialGU(raw.PotentialGU, raw.Yield, raw.Potential); ok {
		f.PotentialGU = gu
	} else if f.Preset == "" {
		v.add(path+".potential_gu", "potential_gu, yield, or potential is required unless a preset is given")
	}
	if color, ok := ColorLovibond(raw.ColorLovibond, raw.SRM, raw.EBC); ok {
		f.ColorLovibond = color
	}
	t, err := ParseFermentableType(raw.Type)
	if err != nil {
		v.add(path+".type", err.Error())
	}
	f.Type = t
	return f
}

func (v *validator) hop(raw rawHop, path string) Hop {
	h := Hop{
		Name:           strings.TrimSpace(raw.Name),
		Preset:         strings.TrimSpace(raw.Preset),
		Time:           raw.Time,
		DryHopDays:     raw.DryHopDays,
		DryHopStartDay: raw.DryHopStartDay,
		WhirlpoolMin:   raw.WhirlpoolMin,
		WhirlpoolTempC: raw.WhirlpoolTempC,
	}
	if h.Name == "" && h.Preset == "" {
		v.add(path+".name", "name or preset is required")
	}
	if h.Name == "" {
		h.Name = h.Preset
	}
	if raw.Grams == nil {
		v.add(path+".grams", "grams is required")
	} else {
		h.Grams = *raw.Grams
	}
	if alpha, ok := AlphaPct(raw.AlphaPct, nil); ok {
		h.AlphaPct = alpha
	} else if raw.AlphaPct != nil {
		h.AlphaPct = *raw.AlphaPct
	} else if h.Preset == "" {
		v.add(path+".alpha_pct", "alpha_pct is required unless a preset is given")
	}
	use, err := hops.ParseUse(raw.Use)
	if err != nil {
		v.add(path+".use", err.Error())
	}
	h.Use = use
	if len(raw.Flavor) > 0 {
		profile, err := hopflavor.ProfileFromMap(raw.Flavor)
		if err != nil {
			v.add(path+".flavor", err.Error())
		}
		h.Flavor = profile
	}
	return h
}

func (v *validator) yeast(raw rawYeast, path string) Yeast {
	y := Yeast{
		Name:                   strings.TrimSpace(raw.Name),
		Preset:                 strings.TrimSpace(raw.Preset),
		AttenuationOverridePct: raw.AttenuationOverridePct,
		PitchTempC:             raw.PitchTempC,
	}
	if y.Name == "" && y.Preset == "" {
		v.add(path+".name", "name or preset is required")
	}
	if y.Name == "" {
		y.Name = y.Preset
	}
	if pct, ok := AttenuationPct(raw.AttenuationPct, raw.AttenuationMinPct, raw.AttenuationMaxPct); ok {
		y.AttenuationPct = pct
	} else if y.Preset == "" && raw.AttenuationOverridePct == nil {
		v.add(path+".attenuation_pct", "attenuation_pct is required unless a preset or override is given")
	}
	return y
}

// Validate checks the numeric ranges of an already-built recipe.
func Validate(r Recipe) error {
	if errs := validateValues(r, "recipe"); len(errs) > 0 {
		return errs
	}
	return nil
}

func validateValues(r Recipe, source string) ValidationErrors {
	v := validator{source: source}

	if r.BatchVolumeL < 0 {
		v.add("batch_volume_l", "must be >= 0")
	}
	if r.BoilTimeMin < 0 {
		v.add("boil_time_min", "must be >= 0")
	}

	eq := r.Equipment
	nonNegative := []struct {
		field string
		value float64
	}{
		{"equipment.mash_tun_deadspace_l", eq.MashTunDeadspaceL},
		{"equipment.kettle_trub_loss_l", eq.KettleTrubLossL},
		{"equipment.chiller_loss_l", eq.ChillerLossL},
		{"equipment.fermenter_loss_l", eq.FermenterLossL},
		{"equipment.boil_off_rate_l_per_hour", eq.BoilOffRateLPerHour},
		{"equipment.grain_absorption_l_per_kg", eq.GrainAbsorptionLPerKg},
		{"equipment.mash_thickness_l_per_kg", eq.MashThicknessLPerKg},
	}
	for _, nn := range nonNegative {
		if nn.value < 0 {
			v.add(nn.field, "must be >= 0")
		}
	}
	if eq.CoolingShrinkagePct < 0 || eq.CoolingShrinkagePct >= 100 {
		v.add("equipment.cooling_shrinkage_pct", "must be in [0, 100)")
	}
	if eq.MashEfficiencyPct < 0 || eq.MashEfficiencyPct > 100 {
		v.add("equipment.mash_efficiency_pct", "must be between 0 and 100")
	}

	for idx, f := range r.Fermentables {
		path := fmt.Sprintf("fermentables[%d]", idx)
		if f.WeightKg < 0 {
			v.add(path+".weight_kg", "must be >= 0")
		}
		if f.ColorLovibond < 0 {
			v.add(path+".color_lovibond", "must be >= 0")
		}
		if f.PotentialGU < 0 {
			v.add(path+".potential_gu", "must be >= 0")
		}
	}
	for idx, h := range r.Hops {
		path := fmt.Sprintf("hops[%d]", idx)
		if h.Grams < 0 {
			v.add(path+".grams", "must be >= 0")
		}
		if h.AlphaPct < 0 || h.AlphaPct > 100 {
			v.add(path+".alpha_pct", "must be between 0 and 100")
		}
		if h.Time < 0 {
			v.add(path+".time", "must be >= 0")
		}
	}
	if r.Yeast != nil {
		if pct := r.Yeast.EffectiveAttenuationPct(); pct < 0 || pct > 100 {
			v.add("yeast.attenuation_pct", "must be between 0 and 100")
		}
	}
	for idx, step := range r.MashSteps {
		path := fmt.Sprintf("mash_steps[%d]", idx)
		for _, msg := range mash.ValidateStep(step) {
			v.add(path, msg)
		}
	}
	for idx, step := range r.FermentationSteps {
		path := fmt.Sprintf("fermentation_steps[%d]", idx)
		if step.DurationDays < 0 {
			v.add(path+".duration_days", "must be >= 0")
		}
		if step.TempC < -5 || step.TempC > 40 {
			v.add(path+".temp_c", "must be between -5 and 40°C")
		}
	}
	if w := r.Water; w != nil {
		if w.CalciumPPM < 0 || w.MagnesiumPPM < 0 {
			v.add("water", "ion concentrations must be >= 0")
		}
	}
	return v.errs
}

// ParseFermentableType maps recipe spellings onto the four credited kinds.
// An empty type means grain.
func ParseFermentableType(value string) (FermentableType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "grain", "base", "specialty", "malt":
		return Grain, nil
	case "adjunct":
		return Adjunct, nil
	case "extract", "dry_extract", "dry extract", "liquid_extract", "liquid extract", "dme", "lme":
		return Extract, nil
	case "sugar", "honey", "syrup":
		return Sugar, nil
	default:
		return FermentableType(value), fmt.Errorf("invalid fermentable type %q (expected grain, adjunct, extract, or sugar)", value)
	}
}

// ParseFermentationType accepts the canonical names with either hyphens,
// spaces, or underscores.
func ParseFermentationType(value string) (FermentationType, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	switch FermentationType(v) {
	case "":
		return Primary, nil
	case Primary, Secondary, DiacetylRest, ColdCrash, Conditioning:
		return FermentationType(v), nil
	case "d_rest", "diacetyl":
		return DiacetylRest, nil
	case "crash":
		return ColdCrash, nil
	default:
		return FermentationType(value), fmt.Errorf("invalid fermentation step type %q", value)
	}
}
