// Package mash implements the mash-schedule heat balance: strike and infusion
// water temperatures, mash water volume, step validation, and the default
// schedules used to pre-populate new recipes.
package mash

import (
	"fmt"
	"strings"

	"brewcalc/internal/units"
)

// StepType identifies how a mash step reaches its temperature.
type StepType string

const (
	StepInfusion    StepType = "infusion"
	StepTemperature StepType = "temperature"
	StepDecoction   StepType = "decoction"
)

// Grain heat capacity relative to water. The simplified single-infusion
// formula and the full heat balance have always used different values; both
// are kept so existing schedules reproduce.
const (
	GrainHeatCapacitySimplified = 0.41
	GrainHeatCapacityFull       = 0.38

	DefaultGrainTempC = 20.0
	// Near-boiling water used for step infusions in the default schedules.
	DefaultInfusionWaterC = 95.0
)

// Step is one rest in a mash schedule. InfusionVolumeL and InfusionTempC
// apply to infusion steps, DecoctionVolumeL to decoction steps.
type Step struct {
	Name             string   `json:"name" yaml:"name"`
	Type             StepType `json:"type" yaml:"type"`
	TempC            float64  `json:"temp_c" yaml:"temp_c"`
	DurationMin      float64  `json:"duration_min" yaml:"duration_min"`
	InfusionVolumeL  float64  `json:"infusion_volume_l,omitempty" yaml:"infusion_volume_l,omitempty"`
	InfusionTempC    float64  `json:"infusion_temp_c,omitempty" yaml:"infusion_temp_c,omitempty"`
	DecoctionVolumeL float64  `json:"decoction_volume_l,omitempty" yaml:"decoction_volume_l,omitempty"`
}

// ParseStepType accepts the canonical names plus the hyphenated spellings
// found in older recipe files.
func ParseStepType(value string) (StepType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "infusion":
		return StepInfusion, nil
	case "temperature", "temperature-rest", "temperature_rest", "temp":
		return StepTemperature, nil
	case "decoction":
		return StepDecoction, nil
	default:
		return StepType(value), fmt.Errorf("invalid mash step type %q (expected infusion, temperature, or decoction)", value)
	}
}

// StrikeTemp returns the strike water temperature needed to land the mash at
// targetC. With no grain bill the simplified single-infusion formula is used;
// otherwise the full heat balance with water mass = grain × thickness.
func StrikeTemp(targetC, thicknessLPerKg, grainTempC, grainKg float64) float64 {
	if thicknessLPerKg <= 0 {
		return targetC
	}
	waterKg := grainKg * thicknessLPerKg
	if grainKg <= 0 || waterKg <= 0 {
		strike := (targetC-grainTempC)*(GrainHeatCapacitySimplified/thicknessLPerKg) + targetC
		return units.Round1(strike)
	}
	strike := targetC + (grainKg*GrainHeatCapacityFull*(targetC-grainTempC))/(waterKg*1.0)
	return units.Round1(strike)
}

// InfusionTemp returns the water temperature required to raise the mash from
// currentC to targetC by adding infusionVolumeL of water.
func InfusionTemp(currentC, targetC, mashVolumeL, infusionVolumeL, grainKg float64) float64 {
	if infusionVolumeL <= 0 {
		return targetC
	}
	heatCapacity := grainKg*GrainHeatCapacitySimplified + mashVolumeL
	temp := (targetC-currentC)*heatCapacity/infusionVolumeL + targetC
	return units.Round1(temp)
}

// MashVolumeAtStep returns the free water in the mash: all infusion volumes
// less grain absorption, floored at zero.
func MashVolumeAtStep(steps []Step, grainKg, absorptionLPerKg float64) float64 {
	var infused float64
	for _, step := range steps {
		if step.Type == StepInfusion {
			infused += step.InfusionVolumeL
		}
	}
	vol := infused - grainKg*absorptionLPerKg
	if vol < 0 {
		vol = 0
	}
	return units.Round1(vol)
}

// ValidateStep returns human-readable problems with a step. An empty slice
// means the step is valid.
func ValidateStep(step Step) []string {
	var errs []string
	if strings.TrimSpace(step.Name) == "" {
		errs = append(errs, "Step name is required")
	}
	if step.TempC < 0 || step.TempC > 100 {
		errs = append(errs, "Temperature must be between 0 and 100°C")
	}
	if step.DurationMin <= 0 {
		errs = append(errs, "Duration must be greater than 0")
	}
	switch step.Type {
	case StepInfusion:
		if step.InfusionVolumeL <= 0 {
			errs = append(errs, "Infusion volume must be greater than 0")
		}
		if step.InfusionTempC <= 0 {
			errs = append(errs, "Infusion temperature must be greater than 0")
		}
	case StepDecoction:
		if step.DecoctionVolumeL <= 0 {
			errs = append(errs, "Decoction volume must be greater than 0")
		}
	}
	return errs
}
