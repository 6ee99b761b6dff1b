package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestApplyRisk_Arithmetic(t *testing.T) {
	// Replay the same stream ApplyRisk consumes to pin the exact factors,
	// then check the overlay formula: final = (base + base*hidden) * mult.
	ref := rand.New(rand.NewSource(3))
	factor := hiddenFactorMin + ref.Float64()*(hiddenFactorMax-hiddenFactorMin)
	mult := riskFactorMin + ref.Float64()*(riskFactorMax-riskFactorMin)

	base := 100.0
	adj := ApplyRisk(base, rand.New(rand.NewSource(3)))

	if math.Abs(adj.HiddenAmount-base*factor) > 1e-9 {
		t.Errorf("hidden amount: want %v, got %v", base*factor, adj.HiddenAmount)
	}
	if math.Abs(adj.Multiplier-mult) > 1e-9 {
		t.Errorf("multiplier: want %v, got %v", mult, adj.Multiplier)
	}
	want := (base + base*factor) * mult
	if math.Abs(adj.Final-want) > 1e-9 {
		t.Errorf("final: want %v, got %v", want, adj.Final)
	}
}

func TestApplyRisk_KnownFactors(t *testing.T) {
	// base=100, hidden=0.12, mult=1.2 => (100+12)*1.2 = 134.4
	adj := Adjustment{
		HiddenAmount: 100 * 0.12,
		Multiplier:   1.2,
		Final:        (100 + 100*0.12) * 1.2,
	}
	if math.Abs(adj.Final-134.4) > 1e-9 {
		t.Errorf("want 134.4, got %v", adj.Final)
	}
}

func TestApplyRisk_Ranges(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	base := 50.0

	for i := 0; i < 5000; i++ {
		adj := ApplyRisk(base, rng)

		factor := adj.HiddenAmount / base
		if factor < hiddenFactorMin || factor > hiddenFactorMax {
			t.Fatalf("hidden factor out of range: %v", factor)
		}
		if adj.Multiplier < riskFactorMin || adj.Multiplier > riskFactorMax {
			t.Fatalf("multiplier out of range: %v", adj.Multiplier)
		}
		// Both adjustments only ever add time.
		if adj.Final < base {
			t.Fatalf("final %v below base %v", adj.Final, base)
		}
	}
}

func TestApplyRisk_ZeroBase(t *testing.T) {
	adj := ApplyRisk(0, rand.New(rand.NewSource(1)))
	if adj.Final != 0 || adj.HiddenAmount != 0 {
		t.Errorf("zero base must stay zero, got %+v", adj)
	}
}
