// Package bitterness estimates IBU from hop additions with the Tinseth
// utilization curve. Whirlpool and first-wort additions get their own
// utilization adjustments; mash and dry-hop additions add no bitterness.
package bitterness

import (
	"math"

	"brewcalc/internal/hops"
	"brewcalc/internal/units"
)

// Coefficients parameterize the utilization curve.
type Coefficients struct {
	BignessBase     float64 // 1.65
	BignessExponent float64 // 0.000125
	TimeRate        float64 // 0.04
	TimeDivisor     float64 // 4.15

	FirstWortFactor float64

	// Whirlpool utilization scales linearly from 0 at WhirlpoolFloorC to 1
	// at WhirlpoolCeilingC.
	WhirlpoolFloorC   float64
	WhirlpoolCeilingC float64
	WhirlpoolDefaultC float64
}

// DefaultCoefficients are Tinseth's published constants.
var DefaultCoefficients = Coefficients{
	BignessBase:       1.65,
	BignessExponent:   0.000125,
	TimeRate:          0.04,
	TimeDivisor:       4.15,
	FirstWortFactor:   1.1,
	WhirlpoolFloorC:   74,
	WhirlpoolCeilingC: 100,
	WhirlpoolDefaultC: 80,
}

// Addition is one hop addition. Minutes is boil time remaining for boil
// additions and steep time for whirlpool additions.
type Addition struct {
	Grams    float64
	AlphaPct float64
	Use      hops.Use
	Minutes  float64
	TempC    float64
}

// Utilization returns the Tinseth utilization fraction for a boil of
// minutes at wort gravity sg.
func (c Coefficients) Utilization(minutes, sg float64) float64 {
	minutes = units.NonNegative(minutes)
	bigness := c.BignessBase * math.Pow(c.BignessExponent, sg-1)
	boilFactor := (1 - math.Exp(-c.TimeRate*minutes)) / c.TimeDivisor
	return units.Finite(bigness*boilFactor, 0)
}

// WhirlpoolFactor returns the fraction of boil utilization achieved at
// tempC. Zero temperature means unset and uses the default.
func (c Coefficients) WhirlpoolFactor(tempC float64) float64 {
	if tempC <= 0 {
		tempC = c.WhirlpoolDefaultC
	}
	span := c.WhirlpoolCeilingC - c.WhirlpoolFloorC
	return units.Clamp(units.SafeDiv(tempC-c.WhirlpoolFloorC, span, 0), 0, 1)
}

// AdditionIBU returns one addition's IBU contribution.
func (c Coefficients) AdditionIBU(a Addition, sg, volumeL, boilTimeMin float64) float64 {
	if volumeL <= 0 {
		return 0
	}
	var util float64
	switch a.Use {
	case hops.Boil:
		util = c.Utilization(a.Minutes, sg)
	case hops.FirstWort:
		util = c.Utilization(boilTimeMin, sg) * c.FirstWortFactor
	case hops.Whirlpool:
		util = c.Utilization(a.Minutes, sg) * c.WhirlpoolFactor(a.TempC)
	default:
		return 0
	}
	alphaMgPerL := units.NonNegative(a.AlphaPct) / 100 * units.NonNegative(a.Grams) * 1000 / volumeL
	return units.Finite(util*alphaMgPerL, 0)
}

// TotalIBU sums all additions.
func (c Coefficients) TotalIBU(additions []Addition, sg, volumeL, boilTimeMin float64) float64 {
	var total float64
	for _, a := range additions {
		total += c.AdditionIBU(a, sg, volumeL, boilTimeMin)
	}
	return total
}

// TotalIBU sums all additions with DefaultCoefficients.
func TotalIBU(additions []Addition, sg, volumeL, boilTimeMin float64) float64 {
	return DefaultCoefficients.TotalIBU(additions, sg, volumeL, boilTimeMin)
}
