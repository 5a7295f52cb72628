// Package pacing computes constant-effort race plans: per-point target
// speeds over a course such that physiological effort stays level through
// hills and wind while the plan lands exactly on the target finish time.
package pacing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"marathon-pacer/internal/course"
	"marathon-pacer/internal/physics"
)

// SplitStrategy shapes how effort is distributed over the race distance.
type SplitStrategy string

const (
	// SplitEven holds effort level from start to finish.
	SplitEven SplitStrategy = "even"
	// SplitPositive banks effort early: 105% at the start ramping to 95%.
	SplitPositive SplitStrategy = "positive"
	// SplitNegative saves effort early: 95% at the start ramping to 105%.
	SplitNegative SplitStrategy = "negative"
)

// Hill preference bounds: the effort level on a +5% grade, as a percentage
// of flat effort.
const (
	MinHillPower     = 70.0
	MaxHillPower     = 130.0
	DefaultHillPower = 100.0
)

// Temperature bounds for a plausible race day.
const (
	MinTempC = -25.0
	MaxTempC = 45.0
)

// DefaultSampleMeters is the simulation resolution.
const DefaultSampleMeters = 5.0

// downhillBraking scales negative gradients before the cost lookup:
// eccentric braking keeps runners from banking the full downhill discount.
const downhillBraking = 0.6

// ErrInvalidParameter is returned when runner or environment parameters
// fail validation.
var ErrInvalidParameter = errors.New("invalid parameter")

// Wind describes race-day wind. FromDeg is the direction the wind blows
// from (meteorological convention: 0 = from the north).
type Wind struct {
	SpeedMS float64
	FromDeg float64
}

// Params are the runner and environment inputs for one simulation.
type Params struct {
	MassKG     float64
	TargetTime time.Duration
	Wind       Wind
	TempC      float64

	// HillPower is the effort on a +5% grade as a percent of flat effort
	// (70-130). Zero means DefaultHillPower.
	HillPower float64

	// Split is the effort distribution over distance. Empty means SplitEven.
	Split SplitStrategy

	// SampleMeters is the simulation resolution. Zero means
	// DefaultSampleMeters.
	SampleMeters float64
}

// Strategy is a validated, ready-to-run simulation configuration.
type Strategy struct {
	params Params
}

// New validates params and returns a Strategy. Defaults are applied for
// zero-valued HillPower, Split, and SampleMeters.
func New(p Params) (*Strategy, error) {
	if p.MassKG <= 0 {
		return nil, fmt.Errorf("%w: mass must be positive, got %v kg", ErrInvalidParameter, p.MassKG)
	}
	if p.TargetTime <= 0 {
		return nil, fmt.Errorf("%w: target time must be positive, got %v", ErrInvalidParameter, p.TargetTime)
	}
	if p.Wind.SpeedMS < 0 {
		return nil, fmt.Errorf("%w: wind speed must be non-negative, got %v m/s", ErrInvalidParameter, p.Wind.SpeedMS)
	}
	if p.TempC < MinTempC || p.TempC > MaxTempC {
		return nil, fmt.Errorf("%w: temperature %v outside [%v, %v] C", ErrInvalidParameter, p.TempC, MinTempC, MaxTempC)
	}

	if p.HillPower == 0 {
		p.HillPower = DefaultHillPower
	}
	if p.HillPower < MinHillPower || p.HillPower > MaxHillPower {
		return nil, fmt.Errorf("%w: hill power %v outside [%v, %v]", ErrInvalidParameter, p.HillPower, MinHillPower, MaxHillPower)
	}

	if p.Split == "" {
		p.Split = SplitEven
	}
	switch p.Split {
	case SplitEven, SplitPositive, SplitNegative:
	default:
		return nil, fmt.Errorf("%w: unknown split strategy %q", ErrInvalidParameter, p.Split)
	}

	if p.SampleMeters == 0 {
		p.SampleMeters = DefaultSampleMeters
	}
	if p.SampleMeters < 0 {
		return nil, fmt.Errorf("%w: sample interval must be positive, got %v m", ErrInvalidParameter, p.SampleMeters)
	}

	return &Strategy{params: p}, nil
}

// Params returns the validated parameters, defaults applied.
func (s *Strategy) Params() Params {
	return s.params
}

// Simulate computes the constant-effort plan for a course. It is pure:
// identical inputs always produce identical output, and nothing is mutated.
func (s *Strategy) Simulate(c *course.Course) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := s.params
	totalKM := c.DistanceKM()
	baseSpeed := totalKM * 1000 / p.TargetTime.Seconds()
	if baseSpeed <= physics.MinSpeed || baseSpeed >= physics.MaxSpeed {
		return nil, fmt.Errorf("%w: target time %v over %.3f km implies speed %.2f m/s outside (%v, %v)",
			ErrInvalidParameter, p.TargetTime, totalKM, baseSpeed, physics.MinSpeed, physics.MaxSpeed)
	}

	points := c.Sample(p.SampleMeters)
	mults := s.multipliers(points, totalKM)
	winds := s.windComponents(points)
	grads := effectiveGradients(points)

	// Calibrate the effort level so the summed time hits the target.
	// The flat-ground power for the naive average speed seeds the bracket.
	target := p.TargetTime.Seconds()
	seed := physics.MetabolicPower(baseSpeed, 0, 0, p.TempC, p.MassKG)
	power := s.calibrate(points, mults, winds, grads, seed, target)

	result := &Result{
		CourseName:  c.Name,
		DistanceKM:  totalKM,
		BaseSpeedMS: baseSpeed,
		EffortPower: power,
		Points:      make([]PointResult, 0, len(points)),
	}

	cumulative := 0.0
	for i, pt := range points {
		speed := physics.SpeedForPower(power*mults[i], grads[i], winds[i], p.TempC, p.MassKG)
		timeSec := 0.0
		if pt.DistanceM > 0 {
			timeSec = pt.DistanceM / speed
		}
		cumulative += timeSec

		result.Points = append(result.Points, PointResult{
			KM:            pt.KM,
			DistanceM:     pt.DistanceM,
			Gradient:      pt.Gradient,
			Name:          pt.Name,
			SpeedMS:       speed,
			PaceSecPerKM:  1000 / speed,
			TimeSec:       timeSec,
			CumulativeSec: cumulative,
		})
	}

	result.TotalSeconds = cumulative
	if totalKM > 0 {
		result.AvgPaceSecPerKM = cumulative / totalKM
	}
	return result, nil
}

// multipliers builds the per-point effort profile: split strategy times
// hill strategy, normalized to a distance-weighted mean of 1 so the profile
// redistributes the energy budget without changing it.
func (s *Strategy) multipliers(points []course.Point, totalKM float64) []float64 {
	p := s.params
	hillK := (p.HillPower/100 - 1) / 0.05

	mults := make([]float64, len(points))
	weighted, distSum := 0.0, 0.0
	for i, pt := range points {
		split := 1.0
		switch p.Split {
		case SplitPositive:
			split = 1.05 - 0.10*(pt.KM/totalKM)
		case SplitNegative:
			split = 0.95 + 0.10*(pt.KM/totalKM)
		}

		m := split * (1 + pt.Gradient*hillK)
		mults[i] = m
		weighted += m * pt.DistanceM
		distSum += pt.DistanceM
	}

	if distSum > 0 {
		mean := weighted / distSum
		for i := range mults {
			mults[i] /= mean
		}
	}
	return mults
}

// windComponents projects the wind vector onto each point's direction of
// travel. Positive is tailwind. Sheltered points feel no wind; a wind
// perpendicular to the bearing contributes nothing.
func (s *Strategy) windComponents(points []course.Point) []float64 {
	p := s.params
	winds := make([]float64, len(points))
	if p.Wind.SpeedMS == 0 {
		return winds
	}

	// The wind blows FROM FromDeg, so the vector points the opposite way.
	vectorDeg := p.Wind.FromDeg + 180
	for i, pt := range points {
		if !pt.Exposed {
			continue
		}
		rad := (vectorDeg - pt.Bearing) * math.Pi / 180
		winds[i] = p.Wind.SpeedMS * math.Cos(rad)
	}
	return winds
}

// effectiveGradients applies the downhill braking penalty and clamps to the
// cost model's calibrated domain.
func effectiveGradients(points []course.Point) []float64 {
	grads := make([]float64, len(points))
	for i, pt := range points {
		g := pt.Gradient
		if g < 0 {
			g *= downhillBraking
		}
		grads[i] = physics.ClampGradient(g)
	}
	return grads
}

// calibrate finds the effort level (metabolic watts at multiplier 1) whose
// simulated total time equals the target. Total time decreases strictly as
// power rises, so after bracketing the root a fixed-iteration bisection
// converges deterministically.
func (s *Strategy) calibrate(points []course.Point, mults, winds, grads []float64, seed, target float64) float64 {
	totalTime := func(power float64) float64 {
		sum := 0.0
		for i, pt := range points {
			if pt.DistanceM == 0 {
				continue
			}
			v := physics.SpeedForPower(power*mults[i], grads[i], winds[i], s.params.TempC, s.params.MassKG)
			sum += pt.DistanceM / v
		}
		return sum
	}

	lo, hi := seed, seed
	for totalTime(lo) < target && lo > 1e-3 {
		lo /= 2
	}
	for totalTime(hi) > target && hi < 1e6 {
		hi *= 2
	}

	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if totalTime(mid) > target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
