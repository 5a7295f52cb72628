package pacing

import (
	"fmt"
	"math"
)

// PointResult is the computed plan at one sampled course point.
type PointResult struct {
	KM            float64
	DistanceM     float64
	Gradient      float64
	Name          string
	SpeedMS       float64
	PaceSecPerKM  float64
	TimeSec       float64
	CumulativeSec float64
}

// Result is a complete pacing plan for one course and parameter set.
type Result struct {
	CourseName      string
	DistanceKM      float64
	BaseSpeedMS     float64 // flat-equivalent speed the plan is built around
	EffortPower     float64 // calibrated metabolic watts at multiplier 1
	TotalSeconds    float64
	AvgPaceSecPerKM float64
	Points          []PointResult
}

// Split is a per-kilometer aggregation of the plan.
type Split struct {
	Label         string
	StartKM       float64
	DistanceKM    float64
	TimeSec       float64
	CumulativeSec float64
	PaceSecPerKM  float64
}

// Splits aggregates the point series into kilometer laps. The final lap
// covers whatever remains past the last whole kilometer (e.g. 42-42.195 km).
func (r *Result) Splits() []Split {
	if len(r.Points) == 0 {
		return nil
	}

	var splits []Split
	current := Split{Label: splitLabel(0, r.DistanceKM), StartKM: 0}

	for _, p := range r.Points {
		bin := math.Floor(p.KM)
		if bin > current.StartKM {
			splits = append(splits, current)
			current = Split{
				Label:         splitLabel(bin, r.DistanceKM),
				StartKM:       bin,
				CumulativeSec: splits[len(splits)-1].CumulativeSec,
			}
		}
		current.DistanceKM += p.DistanceM / 1000
		current.TimeSec += p.TimeSec
		current.CumulativeSec += p.TimeSec
	}
	splits = append(splits, current)

	for i := range splits {
		if splits[i].DistanceKM > 0 {
			splits[i].PaceSecPerKM = splits[i].TimeSec / splits[i].DistanceKM
		}
	}
	return splits
}

// PaceSeries returns the per-point pace in minutes per kilometer, optionally
// smoothed with a centered moving average over the given window, for charting.
func (r *Result) PaceSeries(window int) []float64 {
	series := make([]float64, len(r.Points))
	for i, p := range r.Points {
		series[i] = p.PaceSecPerKM / 60
	}
	if window <= 1 {
		return series
	}

	smoothed := make([]float64, len(series))
	half := window / 2
	for i := range series {
		lo := max(0, i-half)
		hi := min(len(series), i+half+1)
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += series[j]
		}
		smoothed[i] = sum / float64(hi-lo)
	}
	return smoothed
}

// ElevationSeries reconstructs relative elevation (meters) from the point
// gradients, for charting alongside the pace.
func (r *Result) ElevationSeries() []float64 {
	series := make([]float64, len(r.Points))
	ele := 0.0
	for i, p := range r.Points {
		series[i] = ele
		ele += p.Gradient * p.DistanceM
	}
	return series
}

func splitLabel(startKM, totalKM float64) string {
	end := startKM + 1
	if end > totalKM {
		return fmt.Sprintf("%.0f - %.3f km", startKM, totalKM)
	}
	return fmt.Sprintf("%.0f - %.0f km", startKM, end)
}

// FormatDuration renders seconds as h:mm:ss.
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatPace renders seconds-per-kilometer as m:ss.
func FormatPace(secPerKM float64) string {
	total := int(math.Round(secPerKM))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
