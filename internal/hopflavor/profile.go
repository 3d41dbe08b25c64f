package hopflavor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"brewcalc/internal/units"
)

// Axis is one sensory dimension of a hop flavor profile.
type Axis int

const (
	Citrus Axis = iota
	TropicalFruit
	StoneFruit
	Berry
	Floral
	Grassy
	Herbal
	Spice
	ResinPine

	NumAxes = 9
)

// MaxIntensity is the top of the 0–5 intensity scale.
const MaxIntensity = 5.0

var axisNames = [NumAxes]string{
	"citrus",
	"tropical_fruit",
	"stone_fruit",
	"berry",
	"floral",
	"grassy",
	"herbal",
	"spice",
	"resin_pine",
}

// Preset tables disagree on key names; every spelling seen is folded here.
var axisAliases = map[string]Axis{
	"citrus":        Citrus,
	"citrusy":       Citrus,
	"lemon":         Citrus,
	"grapefruit":    Citrus,
	"orange":        Citrus,
	"lime":          Citrus,
	"tropicalfruit": TropicalFruit,
	"tropical":      TropicalFruit,
	"fruity":        TropicalFruit,
	"stonefruit":    StoneFruit,
	"stone":         StoneFruit,
	"berry":         Berry,
	"berries":       Berry,
	"redberry":      Berry,
	"floral":        Floral,
	"flowery":       Floral,
	"grassy":        Grassy,
	"grass":         Grassy,
	"herbal":        Herbal,
	"herb":          Herbal,
	"earthy":        Herbal,
	"spice":         Spice,
	"spicy":         Spice,
	"peppery":       Spice,
	"resinpine":     ResinPine,
	"resin":         ResinPine,
	"resinous":      ResinPine,
	"pine":          ResinPine,
	"piney":         ResinPine,
	"dank":          ResinPine,
}

func (a Axis) String() string {
	if a < 0 || int(a) >= NumAxes {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// Axes lists every axis in display order.
func Axes() []Axis {
	out := make([]Axis, NumAxes)
	for i := range out {
		out[i] = Axis(i)
	}
	return out
}

// LookupAxis resolves a flavor key, accepting aliases, case, and separator
// variations ("tropicalFruit", "tropical-fruit", "fruity").
func LookupAxis(name string) (Axis, bool) {
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
	a, ok := axisAliases[key]
	return a, ok
}

// Profile holds an intensity in [0, 5] per axis.
type Profile [NumAxes]float64

// Get returns the intensity for an axis.
func (p Profile) Get(a Axis) float64 { return p[a] }

// IsZero reports whether every axis is zero.
func (p Profile) IsZero() bool { return p == Profile{} }

// ProfileFromMap builds a profile from loosely keyed values. Aliased keys
// that land on the same axis keep the larger value. Values are clamped to
// the 0–5 scale.
func ProfileFromMap(m map[string]float64) (Profile, error) {
	var p Profile
	var unknown []string
	for k, v := range m {
		a, ok := LookupAxis(k)
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		v = units.Clamp(v, 0, MaxIntensity)
		if v > p[a] {
			p[a] = v
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return p, fmt.Errorf("unknown flavor keys: %s", strings.Join(unknown, ", "))
	}
	return p, nil
}

// Map returns the non-zero axes keyed by canonical name.
func (p Profile) Map() map[string]float64 {
	out := make(map[string]float64)
	for i, v := range p {
		if v != 0 {
			out[axisNames[i]] = v
		}
	}
	return out
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := ProfileFromMap(m)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Profile) MarshalYAML() (any, error) {
	return p.Map(), nil
}

func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]float64
	if err := value.Decode(&m); err != nil {
		return err
	}
	parsed, err := ProfileFromMap(m)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
