// Package catalog serves ingredient, equipment, and style presets read from
// a workspace's catalog directory. A Provider caches what it reads until
// Invalidate is called; nothing here is package-level state.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"brewcalc/internal/logger"
	"brewcalc/internal/recipe"
	"brewcalc/internal/style"
)

// ErrPresetNotFound is returned, wrapped, by every lookup that misses.
var ErrPresetNotFound = errors.New("preset not found")

// Catalog file names inside the catalog directory.
const (
	GrainsFile    = "grains.yml"
	HopsFile      = "hops.yml"
	YeastsFile    = "yeasts.yml"
	EquipmentFile = "equipment.yml"
	StylesFile    = "styles.yml"
)

type equipmentEntry struct {
	ID                    string   `yaml:"id"`
	Name                  string   `yaml:"name"`
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

type tables struct {
	grains    map[string]recipe.Fermentable
	hops      map[string]recipe.Hop
	yeasts    map[string]recipe.Yeast
	equipment map[string]recipe.Equipment
	styles    map[string]style.Guideline
}

// Provider loads catalog files lazily and caches them.
type Provider struct {
	dir string
	log *logger.Logger

	mu     sync.RWMutex
	cached *tables
}

// NewProvider returns a provider over dir. A nil logger discards output.
func NewProvider(dir string, log *logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &Provider{dir: dir, log: log}
}

// Invalidate drops the cache; the next lookup re-reads the files.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
	p.log.Debug("catalog cache invalidated", "dir", p.dir)
}

func (p *Provider) load() (*tables, error) {
	p.mu.RLock()
	t := p.cached
	p.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached != nil {
		return p.cached, nil
	}
	t, err := loadTables(p.dir)
	if err != nil {
		return nil, err
	}
	p.log.Debug("catalog loaded",
		"dir", p.dir,
		"grains", len(t.grains),
		"hops", len(t.hops),
		"yeasts", len(t.yeasts),
		"equipment", len(t.equipment),
		"styles", len(t.styles),
	)
	p.cached = t
	return t, nil
}

// Grain looks up a fermentable preset by id or name.
func (p *Provider) Grain(name string) (recipe.Fermentable, error) {
	t, err := p.load()
	if err != nil {
		return recipe.Fermentable{}, err
	}
	f, ok := t.grains[Key(name)]
	if !ok {
		return recipe.Fermentable{}, fmt.Errorf("grain %q: %w", name, ErrPresetNotFound)
	}
	return f, nil
}

// Hop looks up a hop preset by id or name.
func (p *Provider) Hop(name string) (recipe.Hop, error) {
	t, err := p.load()
	if err != nil {
		return recipe.Hop{}, err
	}
	h, ok := t.hops[Key(name)]
	if !ok {
		return recipe.Hop{}, fmt.Errorf("hop %q: %w", name, ErrPresetNotFound)
	}
	return h, nil
}

// Yeast looks up a yeast preset by id or name.
func (p *Provider) Yeast(name string) (recipe.Yeast, error) {
	t, err := p.load()
	if err != nil {
		return recipe.Yeast{}, err
	}
	y, ok := t.yeasts[Key(name)]
	if !ok {
		return recipe.Yeast{}, fmt.Errorf("yeast %q: %w", name, ErrPresetNotFound)
	}
	return y, nil
}

// Equipment looks up an equipment profile by id or name.
func (p *Provider) Equipment(name string) (recipe.Equipment, error) {
	t, err := p.load()
	if err != nil {
		return recipe.Equipment{}, err
	}
	e, ok := t.equipment[Key(name)]
	if !ok {
		return recipe.Equipment{}, fmt.Errorf("equipment %q: %w", name, ErrPresetNotFound)
	}
	return e, nil
}

// Style looks up a style guideline by id (e.g. "18B") or name.
func (p *Provider) Style(name string) (style.Guideline, error) {
	t, err := p.load()
	if err != nil {
		return style.Guideline{}, err
	}
	g, ok := t.styles[Key(name)]
	if !ok {
		return style.Guideline{}, fmt.Errorf("style %q: %w", name, ErrPresetNotFound)
	}
	return g, nil
}

// Styles returns every guideline sorted by id.
func (p *Provider) Styles() ([]style.Guideline, error) {
	t, err := p.load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []style.Guideline
	for _, g := range t.styles {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Resolve expands every preset reference in r.
func (p *Provider) Resolve(r recipe.Recipe) (recipe.Recipe, error) {
	return recipe.Resolve(r, p)
}

func loadTables(dir string) (*tables, error) {
	t := &tables{
		grains:    make(map[string]recipe.Fermentable),
		hops:      make(map[string]recipe.Hop),
		yeasts:    make(map[string]recipe.Yeast),
		equipment: make(map[string]recipe.Equipment),
		styles:    make(map[string]style.Guideline),
	}
	var vErrs recipe.ValidationErrors

	var grains struct {
		Grains []GrainEntry `yaml:"grains"`
	}
	if err := readYAML(dir, GrainsFile, &grains); err != nil {
		return nil, err
	}
	for idx, e := range grains.Grains {
		f, err := NormalizeGrain(e)
		if err != nil {
			vErrs = append(vErrs, entryError(dir, GrainsFile, "grains", idx, err))
			continue
		}
		f.Preset = firstKey(e.ID, e.Name)
		vErrs = append(vErrs, index(t.grains, e.ID, f.Name, f, dir, GrainsFile, "grains", idx)...)
	}

	var hops struct {
		Hops []HopEntry `yaml:"hops"`
	}
	if err := readYAML(dir, HopsFile, &hops); err != nil {
		return nil, err
	}
	for idx, e := range hops.Hops {
		h, err := NormalizeHop(e)
		if err != nil {
			vErrs = append(vErrs, entryError(dir, HopsFile, "hops", idx, err))
			continue
		}
		h.Preset = firstKey(e.ID, e.Name)
		vErrs = append(vErrs, index(t.hops, e.ID, h.Name, h, dir, HopsFile, "hops", idx)...)
	}

	var yeasts struct {
		Yeasts []YeastEntry `yaml:"yeasts"`
	}
	if err := readYAML(dir, YeastsFile, &yeasts); err != nil {
		return nil, err
	}
	for idx, e := range yeasts.Yeasts {
		y, err := NormalizeYeast(e)
		if err != nil {
			vErrs = append(vErrs, entryError(dir, YeastsFile, "yeasts", idx, err))
			continue
		}
		y.Preset = firstKey(e.ID, e.Name)
		vErrs = append(vErrs, index(t.yeasts, e.ID, y.Name, y, dir, YeastsFile, "yeasts", idx)...)
	}

	var equipment struct {
		Equipment []equipmentEntry `yaml:"equipment"`
	}
	if err := readYAML(dir, EquipmentFile, &equipment); err != nil {
		return nil, err
	}
	for idx, e := range equipment.Equipment {
		eq := recipe.Equipment{
			Name:                  displayName(e.ID, e.Name),
			MashTunDeadspaceL:     e.MashTunDeadspaceL,
			KettleTrubLossL:       e.KettleTrubLossL,
			ChillerLossL:          e.ChillerLossL,
			FermenterLossL:        e.FermenterLossL,
			BoilOffRateLPerHour:   e.BoilOffRateLPerHour,
			CoolingShrinkagePct:   e.CoolingShrinkagePct,
			MashEfficiencyPct:     e.MashEfficiencyPct,
			GrainAbsorptionLPerKg: e.GrainAbsorptionLPerKg,
			MashThicknessLPerKg:   e.MashThicknessLPerKg,
			GrainTempC:            e.GrainTempC,
		}
		vErrs = append(vErrs, index(t.equipment, e.ID, eq.Name, eq, dir, EquipmentFile, "equipment", idx)...)
	}

	var styles struct {
		Styles []style.Guideline `yaml:"styles"`
	}
	if err := readYAML(dir, StylesFile, &styles); err != nil {
		return nil, err
	}
	for idx, g := range styles.Styles {
		if g.ID == "" {
			g.ID = Key(g.Name)
		}
		vErrs = append(vErrs, index(t.styles, g.ID, g.Name, g, dir, StylesFile, "styles", idx)...)
	}

	if len(vErrs) > 0 {
		return nil, vErrs
	}
	return t, nil
}

// readYAML decodes one catalog file. A missing file is an empty table.
func readYAML(dir, name string, out any) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return recipe.ValidationErrors{{File: path, Field: "yaml", Message: err.Error()}}
	}
	return nil
}

// index registers v under its id and its name. A second entry claiming the
// same id is a validation error; name collisions keep the first entry.
func index[T any](m map[string]T, id, name string, v T, dir, file, list string, idx int) recipe.ValidationErrors {
	idKey := Key(id)
	nameKey := Key(name)
	if idKey == "" && nameKey == "" {
		return recipe.ValidationErrors{entryError(dir, file, list, idx, fmt.Errorf("id or name is required"))}
	}
	if idKey != "" {
		if _, exists := m[idKey]; exists {
			return recipe.ValidationErrors{entryError(dir, file, list, idx, fmt.Errorf("duplicate id %q", id))}
		}
		m[idKey] = v
	}
	if _, exists := m[nameKey]; !exists && nameKey != "" {
		m[nameKey] = v
	}
	return nil
}

func entryError(dir, file, list string, idx int, err error) recipe.ValidationError {
	return recipe.ValidationError{
		File:    filepath.Join(dir, file),
		Field:   fmt.Sprintf("%s[%d]", list, idx),
		Message: err.Error(),
	}
}

func firstKey(id, name string) string {
	if k := Key(id); k != "" {
		return k
	}
	return Key(name)
}
