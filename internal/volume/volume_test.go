package volume

import (
	"math"
	"testing"
)

func baseInputs() Inputs {
	return Inputs{
		BatchL:                19,
		BoilTimeMin:           60,
		BoilOffRateLPerHour:   4,
		CoolingShrinkagePct:   4,
		FermenterLossL:        1,
		ChillerLossL:          0.5,
		KettleTrubLossL:       1.5,
		MashTunDeadspaceL:     1,
		GrainKg:               5,
		GrainAbsorptionLPerKg: 1,
		MashThicknessLPerKg:   3,
	}
}

func TestComputeLadder(t *testing.T) {
	res := Compute(baseInputs())
	if got, want := res.PostBoilL, 22.0; got != want {
		t.Fatalf("post-boil = %v, want %v", got, want)
	}
	wantPre := 22/0.96 + 4
	if math.Abs(res.PreBoilL-wantPre) > 1e-9 {
		t.Fatalf("pre-boil = %v, want %v", res.PreBoilL, wantPre)
	}
	if got, want := res.BoilOffL, 4.0; got != want {
		t.Fatalf("boil-off = %v, want %v", got, want)
	}
	if math.Abs(res.TotalWaterL-(wantPre+5+1)) > 1e-9 {
		t.Fatalf("total water = %v", res.TotalWaterL)
	}
	if res.StrikeL != 15 {
		t.Fatalf("strike = %v, want 15", res.StrikeL)
	}
	if math.Abs(res.StrikeL+res.SpargeL-res.TotalWaterL) > 1e-9 {
		t.Fatalf("strike+sparge %v != total %v", res.StrikeL+res.SpargeL, res.TotalWaterL)
	}
}

func TestPreBoilMonotonicInEveryLoss(t *testing.T) {
	base := Compute(baseInputs()).PreBoilL
	bumps := map[string]func(*Inputs){
		"fermenter": func(in *Inputs) { in.FermenterLossL += 0.5 },
		"chiller":   func(in *Inputs) { in.ChillerLossL += 0.5 },
		"kettle":    func(in *Inputs) { in.KettleTrubLossL += 0.5 },
		"shrinkage": func(in *Inputs) { in.CoolingShrinkagePct += 1 },
		"boil-off":  func(in *Inputs) { in.BoilOffRateLPerHour += 0.5 },
		"boil time": func(in *Inputs) { in.BoilTimeMin += 15 },
	}
	for name, bump := range bumps {
		in := baseInputs()
		bump(&in)
		if got := Compute(in).PreBoilL; got <= base {
			t.Fatalf("%s: pre-boil %v did not increase from %v", name, got, base)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	res := Compute(Inputs{})
	if res.PreBoilL != 0 || res.PostBoilL != 0 || res.TotalWaterL != 0 {
		t.Fatalf("zero inputs gave %+v", res)
	}
	res = Compute(Inputs{BatchL: 10, CoolingShrinkagePct: 100})
	if res.PreBoilL != 10 {
		t.Fatalf("shrinkage 100%% pre-boil = %v, want 10", res.PreBoilL)
	}
	res = Compute(Inputs{BatchL: 10, GrainKg: 5, MashThicknessLPerKg: 4})
	if res.StrikeL != res.TotalWaterL || res.SpargeL != 0 {
		t.Fatalf("strike not capped at total water: %+v", res)
	}
}
