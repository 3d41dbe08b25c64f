package catalog

import (
	"fmt"
	"strings"

	"brewcalc/internal/hopflavor"
	"brewcalc/internal/recipe"
)

// GrainEntry is a grains.yml row as published by the various source tables.
type GrainEntry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	PotentialGU *float64 `yaml:"potential_gu"`
	Yield       *float64 `yaml:"yield"`
	Potential   *float64 `yaml:"potential"`
	Lovibond    *float64 `yaml:"lovibond"`
	Color       *float64 `yaml:"color"`
	EBC         *float64 `yaml:"ebc"`
	Type        string   `yaml:"type"`
}

// HopEntry is a hops.yml row.
type HopEntry struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	AlphaPct *float64           `yaml:"alpha_pct"`
	Alpha    *float64           `yaml:"alpha"`
	Flavor   map[string]float64 `yaml:"flavor"`
}

// YeastEntry is a yeasts.yml row.
type YeastEntry struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Attenuation    *float64 `yaml:"attenuation"`
	AttenuationPct *float64 `yaml:"attenuation_pct"`
	AttenuationMin *float64 `yaml:"attenuation_min"`
	AttenuationMax *float64 `yaml:"attenuation_max"`
	PitchTempC     float64  `yaml:"pitch_temp_c"`
}

// NormalizeGrain coalesces a grain row into a fermentable.
func NormalizeGrain(e GrainEntry) (recipe.Fermentable, error) {
	f := recipe.Fermentable{Name: displayName(e.ID, e.Name)}
	gu, ok := recipe.PotentialGU(e.PotentialGU, e.Yield, e.Potential)
	if !ok {
		return f, fmt.Errorf("no potential_gu, yield, or potential")
	}
	f.PotentialGU = gu
	color, _ := recipe.ColorLovibond(e.Lovibond, e.Color, e.EBC)
	f.ColorLovibond = color
	t, err := recipe.ParseFermentableType(e.Type)
	if err != nil {
		return f, err
	}
	f.Type = t
	return f, nil
}

// NormalizeHop coalesces a hop row. alpha_pct is a percent, alpha a
// fraction, and flavor keys go through the axis alias table.
func NormalizeHop(e HopEntry) (recipe.Hop, error) {
	h := recipe.Hop{Name: displayName(e.ID, e.Name)}
	alpha, ok := recipe.AlphaPct(e.AlphaPct, e.Alpha)
	if !ok {
		return h, fmt.Errorf("no alpha_pct or alpha")
	}
	h.AlphaPct = alpha
	if len(e.Flavor) > 0 {
		profile, err := hopflavor.ProfileFromMap(e.Flavor)
		if err != nil {
			return h, err
		}
		h.Flavor = profile
	}
	return h, nil
}

// NormalizeYeast coalesces a yeast row.
func NormalizeYeast(e YeastEntry) (recipe.Yeast, error) {
	y := recipe.Yeast{Name: displayName(e.ID, e.Name), PitchTempC: e.PitchTempC}
	att := e.AttenuationPct
	if att == nil {
		att = e.Attenuation
	}
	pct, ok := recipe.AttenuationPct(att, e.AttenuationMin, e.AttenuationMax)
	if !ok {
		return y, fmt.Errorf("no attenuation, attenuation_pct, or attenuation_min/max")
	}
	y.AttenuationPct = pct
	return y, nil
}

func displayName(id, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(id)
}

// Key folds a preset id or display name to its lookup form:
// "Maris Otter" and "maris_otter" both become "maris-otter".
func Key(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
