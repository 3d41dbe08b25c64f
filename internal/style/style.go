// Package style scores a recipe's calculated numbers against a style
// guideline's vital-statistic ranges.
package style

import (
	"fmt"
	"math"
	"strings"

	"brewcalc/internal/calc"
)

// Range is an inclusive min/max window.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Guideline holds a style's vital statistics.
type Guideline struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	OG       Range  `json:"og" yaml:"og"`
	FG       Range  `json:"fg" yaml:"fg"`
	ABV      Range  `json:"abv" yaml:"abv"`
	IBU      Range  `json:"ibu" yaml:"ibu"`
	SRM      Range  `json:"srm" yaml:"srm"`
}

// Metric names, in report order.
const (
	MetricOG  = "og"
	MetricFG  = "fg"
	MetricABV = "abv"
	MetricIBU = "ibu"
	MetricSRM = "srm"
)

// MetricScore is one metric compared against its style range.
type MetricScore struct {
	Metric      string  `json:"metric"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Actual      float64 `json:"actual"`
	InRange     bool    `json:"in_range"`
	PositionPct float64 `json:"position_pct"`
}

// Report is the result of Compare.
type Report struct {
	SchemaVersion int           `json:"schema_version"`
	Style         string        `json:"style"`
	Results       []MetricScore `json:"results"`
	InRange       bool          `json:"in_range"`
	Skipped       []string      `json:"skipped,omitempty"`
}

// ReportSchemaVersion is the version of the Report JSON shape.
const ReportSchemaVersion = 1

// Compare scores each metric the guideline defines. Metrics whose range is
// unset are listed in Skipped.
func Compare(c calc.Calculations, g Guideline) Report {
	metrics := []struct {
		name   string
		rng    Range
		actual float64
	}{
		{MetricOG, g.OG, c.OG},
		{MetricFG, g.FG, c.FG},
		{MetricABV, g.ABV, c.ABV},
		{MetricIBU, g.IBU, c.IBU},
		{MetricSRM, g.SRM, c.SRM},
	}

	report := Report{
		SchemaVersion: ReportSchemaVersion,
		Style:         g.Name,
		InRange:       true,
	}
	for _, m := range metrics {
		if m.rng.IsZero() {
			report.Skipped = append(report.Skipped, m.name)
			continue
		}
		score := MetricScore{
			Metric:      m.name,
			Min:         m.rng.Min,
			Max:         m.rng.Max,
			Actual:      m.actual,
			InRange:     m.rng.Contains(m.actual),
			PositionPct: positionInRange(m.rng.Min, m.rng.Max, m.actual),
		}
		if !score.InRange {
			report.InRange = false
		}
		report.Results = append(report.Results, score)
	}
	return report
}

// positionInRange places current within [lo, hi] as a 0-100 percentage.
func positionInRange(lo, hi, current float64) float64 {
	if lo == hi {
		if current >= hi {
			return 100
		}
		return 0
	}

	progress := (current - lo) / (hi - lo)
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		return 0
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return progress * 100
}

// Summary renders the report as aligned text lines.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Style)
	for _, m := range r.Results {
		mark := "ok"
		if !m.InRange {
			mark = "OUT"
		}
		fmt.Fprintf(&b, "  %-4s %8s  [%s, %s]  %3.0f%%  %s\n",
			m.Metric, format(m.Metric, m.Actual), format(m.Metric, m.Min), format(m.Metric, m.Max), m.PositionPct, mark)
	}
	return b.String()
}

func format(metric string, v float64) string {
	switch metric {
	case MetricOG, MetricFG:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
