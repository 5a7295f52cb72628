// Package course models a race course as an ordered sequence of segments
// with gradient, bearing, and wind exposure, plus sampling and terrain
// metrics used by the pacing simulator.
package course

import (
	"errors"
	"fmt"
	"math"
)

// MarathonMeters is the official marathon distance.
const MarathonMeters = 42195.0

// Gradient plausibility bounds for course data. Steeper values are almost
// always GPS noise on a road course.
const (
	MinPlausibleGradient = -0.2
	MaxPlausibleGradient = 0.2
)

// ErrInvalidCourse is returned when course data fails validation.
var ErrInvalidCourse = errors.New("invalid course")

// Segment is one stretch of the course with uniform terrain.
type Segment struct {
	StartKM    float64 // distance from the start, km
	EndKM      float64
	Gradient   float64 // rise/run, negative downhill
	BearingDeg float64 // direction of travel, 0 = north, 90 = east
	Exposed    bool    // open to wind (coastline, bridges)
	Name       string
}

// DistanceKM returns the segment length in kilometers.
func (s Segment) DistanceKM() float64 {
	return s.EndKM - s.StartKM
}

// Course is an ordered, contiguous sequence of segments from start to finish.
type Course struct {
	Name     string
	Segments []Segment

	// Start coordinates when known (from GPX), used for weather lookup.
	StartLat *float64
	StartLon *float64
}

// DistanceKM returns the total course length in kilometers.
func (c *Course) DistanceKM() float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	return c.Segments[len(c.Segments)-1].EndKM
}

// Validate checks the course invariants: non-empty, non-negative segment
// lengths, contiguous coverage from zero, and plausible gradients.
// Zero-length segments are tolerated; they contribute nothing when sampled.
func (c *Course) Validate() error {
	if len(c.Segments) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidCourse)
	}

	prevEnd := 0.0
	for i, seg := range c.Segments {
		if seg.EndKM < seg.StartKM {
			return fmt.Errorf("%w: segment %d has negative length (%.3f-%.3f km)",
				ErrInvalidCourse, i, seg.StartKM, seg.EndKM)
		}
		if math.Abs(seg.StartKM-prevEnd) > 1e-6 {
			return fmt.Errorf("%w: segment %d starts at %.3f km, expected %.3f km",
				ErrInvalidCourse, i, seg.StartKM, prevEnd)
		}
		if seg.Gradient < MinPlausibleGradient || seg.Gradient > MaxPlausibleGradient {
			return fmt.Errorf("%w: segment %d gradient %.3f outside [%.1f, %.1f]",
				ErrInvalidCourse, i, seg.Gradient, MinPlausibleGradient, MaxPlausibleGradient)
		}
		prevEnd = seg.EndKM
	}

	return nil
}

// Point is one sampled location on the course.
type Point struct {
	KM        float64 // distance from the start to the beginning of this sample
	DistanceM float64 // length covered by this sample
	Gradient  float64
	Bearing   float64
	Exposed   bool
	Name      string
}

// Sample walks the course at the given interval and returns one point per
// step. Each point carries its true length: the final point is truncated so
// the distances sum to exactly the course length.
func (c *Course) Sample(intervalM float64) []Point {
	totalKM := c.DistanceKM()
	if totalKM <= 0 || intervalM <= 0 {
		return nil
	}

	var points []Point
	currentKM := 0.0
	segIdx := 0

	for currentKM < totalKM-1e-9 {
		stepM := math.Min(intervalM, (totalKM-currentKM)*1000)

		// Segments are contiguous and ordered, so advance sequentially.
		for segIdx < len(c.Segments)-1 && c.Segments[segIdx].EndKM <= currentKM {
			segIdx++
		}
		seg := c.Segments[segIdx]

		points = append(points, Point{
			KM:        currentKM,
			DistanceM: stepM,
			Gradient:  seg.Gradient,
			Bearing:   seg.BearingDeg,
			Exposed:   seg.Exposed,
			Name:      seg.Name,
		})

		currentKM += stepM / 1000
	}

	return points
}

// ElevationGain returns the total climb in meters (descents ignored).
func (c *Course) ElevationGain() float64 {
	gain := 0.0
	for _, seg := range c.Segments {
		if seg.Gradient > 0 {
			gain += seg.Gradient * seg.DistanceKM() * 1000
		}
	}
	return gain
}

// Toughness scores course difficulty: elevation gain per kilometer plus a
// penalty of 5 points per kilometer of climbing at 3% or steeper. Rounded to
// one decimal.
func (c *Course) Toughness() float64 {
	total := c.DistanceKM()
	if total <= 0 {
		return 0
	}

	steepKM := 0.0
	for _, seg := range c.Segments {
		if seg.Gradient >= 0.03 {
			steepKM += seg.DistanceKM()
		}
	}

	score := c.ElevationGain()/total + steepKM*5
	return math.Round(score*10) / 10
}
