package pacing

import (
	"math"
	"testing"

	"marathon-pacer/internal/course"
)

func TestSplits(t *testing.T) {
	p := baseParams()
	r := mustSimulate(t, p, course.EhimeMarathon())

	splits := r.Splits()
	if len(splits) != 43 {
		t.Fatalf("got %d splits, want 43 (42 full km + finish)", len(splits))
	}

	// Distances cover the whole course.
	sum := 0.0
	for _, s := range splits {
		sum += s.DistanceKM
	}
	if math.Abs(sum-42.195) > 1e-6 {
		t.Errorf("split distances sum to %v, want 42.195", sum)
	}

	// Final lap is the 195 m runt.
	last := splits[len(splits)-1]
	if last.Label != "42 - 42.195 km" {
		t.Errorf("final label = %q", last.Label)
	}
	if math.Abs(last.DistanceKM-0.195) > 1e-6 {
		t.Errorf("final distance = %v, want 0.195", last.DistanceKM)
	}

	// Cumulative time of the last split matches the total.
	if math.Abs(last.CumulativeSec-r.TotalSeconds) > 1e-9 {
		t.Errorf("final cumulative %v, want total %v", last.CumulativeSec, r.TotalSeconds)
	}
}

func TestPaceSeriesSmoothing(t *testing.T) {
	p := baseParams()
	r := mustSimulate(t, p, course.EhimeMarathon())

	raw := r.PaceSeries(1)
	if len(raw) != len(r.Points) {
		t.Fatalf("series length %d, want %d", len(raw), len(r.Points))
	}

	smoothed := r.PaceSeries(9)
	if len(smoothed) != len(raw) {
		t.Fatalf("smoothed length %d, want %d", len(smoothed), len(raw))
	}

	// Smoothing cannot create values outside the raw range.
	rawMin, rawMax := raw[0], raw[0]
	for _, v := range raw {
		rawMin = math.Min(rawMin, v)
		rawMax = math.Max(rawMax, v)
	}
	for i, v := range smoothed {
		if v < rawMin-1e-9 || v > rawMax+1e-9 {
			t.Errorf("smoothed[%d] = %v outside raw range [%v, %v]", i, v, rawMin, rawMax)
		}
	}
}

func TestElevationSeries(t *testing.T) {
	p := baseParams()
	r := mustSimulate(t, p, course.EhimeMarathon())

	series := r.ElevationSeries()
	if len(series) != len(r.Points) {
		t.Fatalf("series length %d, want %d", len(series), len(r.Points))
	}
	if series[0] != 0 {
		t.Errorf("elevation starts at %v, want 0", series[0])
	}

	// The Hirata hill (7-8 km at 4%) climbs about 40 m.
	var before, after float64
	for i, pt := range r.Points {
		if pt.KM <= 7 {
			before = series[i]
		}
		if pt.KM <= 8 {
			after = series[i]
		}
	}
	climb := after - before
	if climb < 30 || climb > 45 {
		t.Errorf("Hirata climb = %v m, want roughly 40", climb)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{12600, "3:30:00"},
		{10494, "2:54:54"},
		{59.4, "0:00:59"},
		{3661, "1:01:01"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatPace(t *testing.T) {
	tests := []struct {
		secPerKM float64
		want     string
	}{
		{298, "4:58"},
		{360, "6:00"},
		{299.6, "5:00"},
	}
	for _, tt := range tests {
		if got := FormatPace(tt.secPerKM); got != tt.want {
			t.Errorf("FormatPace(%v) = %q, want %q", tt.secPerKM, got, tt.want)
		}
	}
}
