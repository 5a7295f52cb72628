// Package physics models the metabolic cost of running over gradients and
// through wind, based on Minetti et al. (2002) and standard aerodynamic drag.
// All functions are pure and deterministic.
package physics

import "math"

const (
	// DragCoeff is the drag coefficient for an upright runner.
	DragCoeff = 0.9

	// ReferenceMass is the body mass (kg) the default frontal area is
	// calibrated against. Frontal area scales with mass^(2/3) from here.
	ReferenceMass = 65.0

	// DefaultFrontalArea is the frontal area (m^2) at ReferenceMass.
	DefaultFrontalArea = 0.4

	// GrossEfficiency converts mechanical work against drag into the
	// metabolic energy the body actually spends producing it.
	GrossEfficiency = 0.25

	// MinGradient and MaxGradient bound the calibrated domain of the
	// Minetti cost polynomial. Inputs outside are clamped, never
	// extrapolated: the fifth-order fit diverges quickly beyond them.
	MinGradient = -0.45
	MaxGradient = 0.45

	// MinSpeed and MaxSpeed bracket the speed solver. 0.1 m/s is a crawl,
	// 10 m/s is sprint world-record territory.
	MinSpeed = 0.1
	MaxSpeed = 10.0

	seaLevelPressure = 101325.0 // Pa
	dryAirGasConst   = 287.05   // J/(kg*K)
)

// ClampGradient restricts a gradient to the valid domain of the cost model.
func ClampGradient(gradient float64) float64 {
	if gradient < MinGradient {
		return MinGradient
	}
	if gradient > MaxGradient {
		return MaxGradient
	}
	return gradient
}

// MinettiCost returns the metabolic cost of running (J/kg/m) at a gradient
// (rise/run). The 3.6 J/kg/m constant term is level treadmill running, i.e.
// without air resistance; drag is accounted for separately.
//
// Cr = 155.4i^5 - 30.4i^4 - 43.3i^3 + 46.3i^2 + 19.5i + 3.6
func MinettiCost(gradient float64) float64 {
	i := ClampGradient(gradient)
	return ((((155.4*i-30.4)*i-43.3)*i+46.3)*i+19.5)*i + 3.6
}

// AirDensity returns air density (kg/m^3) at sea-level pressure for the
// given temperature via the ideal gas law. 15 degrees C yields 1.225.
func AirDensity(tempC float64) float64 {
	return seaLevelPressure / (dryAirGasConst * (tempC + 273.15))
}

// FrontalArea returns the drag frontal area (m^2) for a runner of the given
// mass, scaled from the reference runner by the square-cube law.
func FrontalArea(massKG float64) float64 {
	return DefaultFrontalArea * math.Pow(massKG/ReferenceMass, 2.0/3.0)
}

// DragPower returns the mechanical power (W) spent against air resistance at
// ground speed v. windParallel is the wind component along the direction of
// travel: positive is tailwind, negative headwind. A tailwind faster than the
// runner yields negative power (the wind does work on the runner).
func DragPower(v, windParallel, frontalArea, rho float64) float64 {
	vRel := v - windParallel
	force := 0.5 * rho * DragCoeff * frontalArea * vRel * vRel
	if vRel < 0 {
		force = -force
	}
	return force * v
}

// MetabolicPower returns the total metabolic power (W) required to run at
// ground speed v on the given gradient, with the given parallel wind
// component and air temperature.
func MetabolicPower(v, gradient, windParallel, tempC, massKG float64) float64 {
	if v <= 0 {
		return 0
	}
	base := MinettiCost(gradient) * massKG * v
	drag := DragPower(v, windParallel, FrontalArea(massKG), AirDensity(tempC))
	return base + drag/GrossEfficiency
}

// SpeedForPower inverts MetabolicPower: it finds the ground speed (m/s) that
// demands the given metabolic power under the given conditions. Power is
// strictly increasing in speed over [MinSpeed, MaxSpeed], so a bisection
// converges; the iteration count is fixed for bit-reproducible results.
//
// If even MinSpeed demands more than the target power (extreme gradients),
// MinSpeed is returned; if MaxSpeed demands less, MaxSpeed is returned.
func SpeedForPower(power, gradient, windParallel, tempC, massKG float64) float64 {
	f := func(v float64) float64 {
		return MetabolicPower(v, gradient, windParallel, tempC, massKG) - power
	}

	lo, hi := MinSpeed, MaxSpeed
	if f(lo) > 0 {
		return MinSpeed
	}
	if f(hi) < 0 {
		return MaxSpeed
	}

	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		if f(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}

// FlatSpeedFromVDOT converts a Daniels VDOT value to a sustainable flat
// velocity (m/s) by inverting the Daniels-Gilbert oxygen cost equation
// VO2 = -4.60 + 0.182258v + 0.000104v^2, v in m/min.
func FlatSpeedFromVDOT(vdot float64) float64 {
	const (
		a = 0.000104
		b = 0.182258
	)
	c := -(vdot + 4.60)
	vMin := (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
	return vMin / 60.0
}
