package units

import (
	"math"
	"testing"
)

func TestTemperatureRoundTrip(t *testing.T) {
	if got, want := CToF(100), 212.0; got != want {
		t.Fatalf("CToF(100) = %v, want %v", got, want)
	}
	if got, want := FToC(32), 0.0; got != want {
		t.Fatalf("FToC(32) = %v, want %v", got, want)
	}
	if got := FToC(CToF(66)); math.Abs(got-66) > 1e-9 {
		t.Fatalf("round trip 66C = %v", got)
	}
}

func TestVolumeAndMass(t *testing.T) {
	if got := GallonsToLiters(LitersToGallons(19)); math.Abs(got-19) > 1e-9 {
		t.Fatalf("gallon round trip = %v", got)
	}
	if got := LbToKg(KgToLb(5)); math.Abs(got-5) > 1e-9 {
		t.Fatalf("pound round trip = %v", got)
	}
}

func TestGravityPoints(t *testing.T) {
	if got := SGToPoints(1.050); math.Abs(got-50) > 1e-9 {
		t.Fatalf("SGToPoints(1.050) = %v, want 50", got)
	}
	if got := PointsToSG(50); math.Abs(got-1.050) > 1e-12 {
		t.Fatalf("PointsToSG(50) = %v, want 1.050", got)
	}
	if got := SGToPlato(1.048); math.Abs(got-11.9) > 0.1 {
		t.Fatalf("SGToPlato(1.048) = %v, want ~11.9", got)
	}
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"clamp low", Clamp(-1, 0, 5), 0},
		{"clamp high", Clamp(6, 0, 5), 5},
		{"clamp nan", Clamp(math.NaN(), 0, 5), 0},
		{"round1", Round1(66.44), 66.4},
		{"round3", Round(1.05921, 3), 1.059},
		{"safe div zero", SafeDiv(1, 0, 7), 7},
		{"safe div", SafeDiv(1, 4, 7), 0.25},
		{"finite inf", Finite(math.Inf(1), 3), 3},
		{"non negative", NonNegative(-2), 0},
		{"non negative nan", NonNegative(math.NaN()), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
