package physics

import (
	"math"
	"testing"
)

func TestMinettiCost(t *testing.T) {
	tests := []struct {
		name     string
		gradient float64
		check    func(t *testing.T, cost float64)
	}{
		{
			name:     "flat cost matches published constant",
			gradient: 0,
			check: func(t *testing.T, cost float64) {
				if cost != 3.6 {
					t.Errorf("MinettiCost(0) = %v, want 3.6", cost)
				}
			},
		},
		{
			name:     "uphill costs more than flat",
			gradient: 0.05,
			check: func(t *testing.T, cost float64) {
				if cost <= 3.6 {
					t.Errorf("MinettiCost(0.05) = %v, want > 3.6", cost)
				}
			},
		},
		{
			name:     "gentle downhill costs less than flat",
			gradient: -0.05,
			check: func(t *testing.T, cost float64) {
				if cost >= 3.6 {
					t.Errorf("MinettiCost(-0.05) = %v, want < 3.6", cost)
				}
			},
		},
		{
			name:     "steep uphill clamps to domain edge",
			gradient: 1.5,
			check: func(t *testing.T, cost float64) {
				if cost != MinettiCost(MaxGradient) {
					t.Errorf("MinettiCost(1.5) = %v, want clamped value %v", cost, MinettiCost(MaxGradient))
				}
			},
		},
		{
			name:     "steep downhill clamps to domain edge",
			gradient: -1.5,
			check: func(t *testing.T, cost float64) {
				if cost != MinettiCost(MinGradient) {
					t.Errorf("MinettiCost(-1.5) = %v, want clamped value %v", cost, MinettiCost(MinGradient))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MinettiCost(tt.gradient))
		})
	}
}

func TestMinettiCostMonotonicUphill(t *testing.T) {
	prev := MinettiCost(0)
	for g := 0.01; g <= 0.45; g += 0.01 {
		cost := MinettiCost(g)
		if cost <= prev {
			t.Fatalf("cost not increasing at gradient %.2f: %v <= %v", g, cost, prev)
		}
		prev = cost
	}
}

func TestAirDensity(t *testing.T) {
	tests := []struct {
		tempC float64
		want  float64
	}{
		{15, 1.225},
		{0, 1.292},
		{30, 1.164},
	}
	for _, tt := range tests {
		got := AirDensity(tt.tempC)
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("AirDensity(%v) = %v, want %v", tt.tempC, got, tt.want)
		}
	}
}

func TestDragPowerDirection(t *testing.T) {
	area := FrontalArea(ReferenceMass)
	rho := AirDensity(15)

	calm := DragPower(4.0, 0, area, rho)
	headwind := DragPower(4.0, -2.0, area, rho)
	tailwind := DragPower(4.0, 2.0, area, rho)

	if headwind <= calm {
		t.Errorf("headwind power %v should exceed calm power %v", headwind, calm)
	}
	if tailwind >= calm {
		t.Errorf("tailwind power %v should be below calm power %v", tailwind, calm)
	}

	// A tailwind faster than the runner pushes: negative power.
	pushed := DragPower(3.0, 6.0, area, rho)
	if pushed >= 0 {
		t.Errorf("overtaking tailwind power = %v, want negative", pushed)
	}
}

func TestMetabolicPowerColdAirCostsMore(t *testing.T) {
	warm := MetabolicPower(4.0, 0, 0, 30, 65)
	cold := MetabolicPower(4.0, 0, 0, 0, 65)
	if cold <= warm {
		t.Errorf("denser cold air should cost more: cold %v <= warm %v", cold, warm)
	}
}

func TestSpeedForPower(t *testing.T) {
	const mass = 65.0

	baseSpeed := FlatSpeedFromVDOT(50)
	basePower := MetabolicPower(baseSpeed, 0, 0, 15, mass)

	t.Run("round trips the flat speed", func(t *testing.T) {
		got := SpeedForPower(basePower, 0, 0, 15, mass)
		if math.Abs(got-baseSpeed) > 1e-9 {
			t.Errorf("SpeedForPower = %v, want %v", got, baseSpeed)
		}
	})

	t.Run("uphill is slower at equal power", func(t *testing.T) {
		got := SpeedForPower(basePower, 0.05, 0, 15, mass)
		if got >= baseSpeed {
			t.Errorf("uphill speed %v should be below flat speed %v", got, baseSpeed)
		}
	})

	t.Run("headwind is slower at equal power", func(t *testing.T) {
		got := SpeedForPower(basePower, 0, -5.0, 15, mass)
		if got >= baseSpeed {
			t.Errorf("headwind speed %v should be below flat speed %v", got, baseSpeed)
		}
	})

	t.Run("tailwind is faster at equal power", func(t *testing.T) {
		got := SpeedForPower(basePower, 0, 5.0, 15, mass)
		if got <= baseSpeed {
			t.Errorf("tailwind speed %v should exceed flat speed %v", got, baseSpeed)
		}
	})

	t.Run("impossible effort pins to MinSpeed", func(t *testing.T) {
		got := SpeedForPower(1.0, 0.45, -10.0, 15, mass)
		if got != MinSpeed {
			t.Errorf("SpeedForPower = %v, want MinSpeed %v", got, MinSpeed)
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		a := SpeedForPower(basePower, 0.03, -2.0, 10, mass)
		b := SpeedForPower(basePower, 0.03, -2.0, 10, mass)
		if a != b {
			t.Errorf("results differ: %v vs %v", a, b)
		}
	})
}

func TestFlatSpeedFromVDOT(t *testing.T) {
	// VDOT 50 corresponds to roughly a 2:55 marathon; sustainable flat VO2max
	// velocity should land in the 4.5-5 m/s band.
	v := FlatSpeedFromVDOT(50)
	if v < 4.0 || v > 5.5 {
		t.Errorf("FlatSpeedFromVDOT(50) = %v, want within [4.0, 5.5]", v)
	}

	// Higher VDOT means faster.
	if FlatSpeedFromVDOT(60) <= FlatSpeedFromVDOT(40) {
		t.Error("VDOT 60 should be faster than VDOT 40")
	}
}

func TestSanityCheckFlatCost(t *testing.T) {
	cost := MinettiCost(0)
	if cost < 3.5 || cost > 4.2 {
		t.Errorf("flat running cost %v outside physically reasonable range", cost)
	}
}
