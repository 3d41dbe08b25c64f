// Package checklist derives the brew-day measurement checklist from a recipe
// and its calculations, and merges user customizations over it.
package checklist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"brewcalc/internal/calc"
	"brewcalc/internal/gravity"
	"brewcalc/internal/hops"
	"brewcalc/internal/recipe"
)

// Stage tags where on brew day an item belongs.
type Stage string

const (
	WaterPrep    Stage = "water-prep"
	Mash         Stage = "mash"
	PreBoil      Stage = "pre-boil"
	Boil         Stage = "boil"
	PostBoil     Stage = "post-boil"
	Pitch        Stage = "pitch"
	Fermentation Stage = "fermentation"
	DryHop       Stage = "dry-hop"
	ColdCrash    Stage = "cold-crash"
	Packaging    Stage = "packaging"
)

// StageOrder ranks stages in brew-day order.
var StageOrder = map[Stage]int{
	WaterPrep:    0,
	Mash:         1,
	PreBoil:      2,
	Boil:         3,
	PostBoil:     4,
	Pitch:        5,
	Fermentation: 6,
	DryHop:       7,
	ColdCrash:    8,
	Packaging:    9,
}

// Mash pH target window.
const (
	MashPHLow  = 5.2
	MashPHHigh = 5.6

	DefaultPitchTempC = 18.0
)

// Item is one checklist entry.
type Item struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Stage   Stage  `json:"stage"`
	Detail  string `json:"detail"`
	Enabled bool   `json:"enabled"`
}

// ParseStage validates a stage tag.
func ParseStage(value string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := StageOrder[s]; !ok {
		return s, fmt.Errorf("invalid stage %q", value)
	}
	return s, nil
}

// NewItem returns an enabled user item with a fresh id.
func NewItem(label string, stage Stage, detail string) Item {
	return Item{
		ID:      uuid.NewString(),
		Label:   label,
		Stage:   stage,
		Detail:  detail,
		Enabled: true,
	}
}

// Generate returns the default checklist in stage order. Item ids are stable
// across calls so user overrides can target them.
func Generate(r recipe.Recipe, c calc.Calculations) []Item {
	items := []Item{
		{
			ID:     "water-strike-temp",
			Label:  "Heat strike water",
			Stage:  WaterPrep,
			Detail: fmt.Sprintf("%.1f L at %.1f°C", c.StrikeWaterL, c.StrikeTempC),
		},
		{
			ID:     "mash-ph",
			Label:  "Check mash pH",
			Stage:  Mash,
			Detail: mashPHDetail(c),
		},
		{
			ID:     "preboil-volume",
			Label:  "Measure pre-boil volume",
			Stage:  PreBoil,
			Detail: fmt.Sprintf("%.1f L", c.PreBoilVolumeL),
		},
		{
			ID:     "preboil-gravity",
			Label:  "Measure pre-boil gravity",
			Stage:  PreBoil,
			Detail: fmt.Sprintf("%.3f", gravity.PreBoilGravity(c.OG, c.BatchVolumeL, c.PreBoilVolumeL)),
		},
		{
			ID:     "boil-additions",
			Label:  "Boil and hop additions",
			Stage:  Boil,
			Detail: boilDetail(r),
		},
		{
			ID:     "postboil-og",
			Label:  "Measure original gravity",
			Stage:  PostBoil,
			Detail: fmt.Sprintf("%.3f", c.OG),
		},
		{
			ID:     "pitch-temp",
			Label:  "Pitch yeast",
			Stage:  Pitch,
			Detail: pitchDetail(r),
		},
		{
			ID:     "fermentation-forced-test",
			Label:  "Start forced fermentation test",
			Stage:  Fermentation,
			Detail: fmt.Sprintf("Warm sample with extra yeast; expect about %.3f", c.FG),
		},
		{
			ID:     "fermentation-fg",
			Label:  "Confirm final gravity",
			Stage:  Fermentation,
			Detail: fmt.Sprintf("%.3f, stable over 3 days", c.FG),
		},
	}

	if dry := r.DryHops(); len(dry) > 0 {
		items = append(items, Item{
			ID:     "dryhop-addition",
			Label:  "Add dry hops",
			Stage:  DryHop,
			Detail: dryHopDetail(dry),
		})
	}
	for _, step := range r.FermentationSteps {
		if step.Type != recipe.ColdCrash {
			continue
		}
		items = append(items, Item{
			ID:     "coldcrash-temp",
			Label:  "Cold crash",
			Stage:  ColdCrash,
			Detail: fmt.Sprintf("%.1f°C for %g days", step.TempC, step.DurationDays),
		})
		break
	}

	for i := range items {
		items[i].Enabled = true
	}
	sort.SliceStable(items, func(i, j int) bool {
		return StageOrder[items[i].Stage] < StageOrder[items[j].Stage]
	})
	return items
}

// Merge overlays user items on the defaults. A user item whose id matches an
// existing item replaces it in place. Any other user item is inserted after
// the last item of its stage, or appended when its stage has no items yet.
// Neither input is modified.
func Merge(defaults, user []Item) []Item {
	out := append([]Item(nil), defaults...)
	for _, u := range user {
		if idx := indexOf(out, u.ID); idx >= 0 {
			out[idx] = u
			continue
		}
		last := -1
		for i, it := range out {
			if it.Stage == u.Stage {
				last = i
			}
		}
		if last < 0 {
			out = append(out, u)
			continue
		}
		out = append(out, Item{})
		copy(out[last+2:], out[last+1:])
		out[last+1] = u
	}
	return out
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func mashPHDetail(c calc.Calculations) string {
	detail := fmt.Sprintf("%.1f to %.1f", MashPHLow, MashPHHigh)
	if c.EstimatedMashPH != nil {
		detail += fmt.Sprintf(" (estimated %.2f)", *c.EstimatedMashPH)
	}
	return detail
}

func boilDetail(r recipe.Recipe) string {
	var adds []string
	for _, h := range r.Hops {
		switch h.Use {
		case hops.Boil:
			adds = append(adds, fmt.Sprintf("%s %gg at %g min", h.Name, h.Grams, h.Time))
		case hops.FirstWort:
			adds = append(adds, fmt.Sprintf("%s %gg first wort", h.Name, h.Grams))
		case hops.Whirlpool:
			adds = append(adds, fmt.Sprintf("%s %gg whirlpool", h.Name, h.Grams))
		}
	}
	detail := fmt.Sprintf("%g min boil", r.BoilTimeMin)
	if len(adds) > 0 {
		detail += ": " + strings.Join(adds, ", ")
	}
	return detail
}

func pitchDetail(r recipe.Recipe) string {
	temp := DefaultPitchTempC
	switch {
	case r.Yeast != nil && r.Yeast.PitchTempC > 0:
		temp = r.Yeast.PitchTempC
	case len(r.FermentationSteps) > 0 && r.FermentationSteps[0].TempC > 0:
		temp = r.FermentationSteps[0].TempC
	}
	if r.Yeast != nil && r.Yeast.Name != "" {
		return fmt.Sprintf("%s at %.1f°C", r.Yeast.Name, temp)
	}
	return fmt.Sprintf("%.1f°C", temp)
}

func dryHopDetail(dry []recipe.Hop) string {
	parts := make([]string, 0, len(dry))
	for _, h := range dry {
		part := fmt.Sprintf("%s %gg", h.Name, h.Grams)
		if h.DryHopStartDay != nil {
			part += fmt.Sprintf(" on day %g", *h.DryHopStartDay)
		}
		days := h.DryHopDays
		if days <= 0 {
			days = h.Time
		}
		if days > 0 {
			part += fmt.Sprintf(" for %g days", days)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
