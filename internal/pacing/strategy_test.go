package pacing

import (
	"errors"
	"math"
	"testing"
	"time"

	"marathon-pacer/internal/course"
)

func flatCourse(km float64) *course.Course {
	return &course.Course{
		Name:     "flat",
		Segments: []course.Segment{{StartKM: 0, EndKM: km, Gradient: 0, BearingDeg: 0, Exposed: true}},
	}
}

func baseParams() Params {
	return Params{
		MassKG:       60,
		TargetTime:   3*time.Hour + 30*time.Minute,
		TempC:        15,
		SampleMeters: 500,
	}
}

func mustSimulate(t *testing.T, p Params, c *course.Course) *Result {
	t.Helper()
	s, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, err := s.Simulate(c)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	return r
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"non-positive mass", func(p *Params) { p.MassKG = 0 }},
		{"negative mass", func(p *Params) { p.MassKG = -60 }},
		{"non-positive target time", func(p *Params) { p.TargetTime = 0 }},
		{"negative wind speed", func(p *Params) { p.Wind.SpeedMS = -1 }},
		{"temperature too cold", func(p *Params) { p.TempC = -40 }},
		{"temperature too hot", func(p *Params) { p.TempC = 50 }},
		{"hill power too low", func(p *Params) { p.HillPower = 50 }},
		{"hill power too high", func(p *Params) { p.HillPower = 150 }},
		{"unknown split strategy", func(p *Params) { p.Split = "banked" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			_, err := New(p)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("New() error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s, err := New(Params{MassKG: 60, TargetTime: 3 * time.Hour, TempC: 15})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := s.Params()
	if got.HillPower != DefaultHillPower {
		t.Errorf("HillPower = %v, want %v", got.HillPower, DefaultHillPower)
	}
	if got.Split != SplitEven {
		t.Errorf("Split = %q, want %q", got.Split, SplitEven)
	}
	if got.SampleMeters != DefaultSampleMeters {
		t.Errorf("SampleMeters = %v, want %v", got.SampleMeters, DefaultSampleMeters)
	}
}

func TestSimulateRejectsInvalidCourse(t *testing.T) {
	s, err := New(baseParams())
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Simulate(&course.Course{Name: "empty"})
	if !errors.Is(err, course.ErrInvalidCourse) {
		t.Errorf("Simulate(empty) error = %v, want ErrInvalidCourse", err)
	}
}

func TestSimulateRejectsUnattainableTarget(t *testing.T) {
	p := baseParams()
	p.TargetTime = 30 * time.Minute // 42.195 km in 30 min is beyond MaxSpeed

	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Simulate(course.EhimeMarathon())
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Simulate error = %v, want ErrInvalidParameter", err)
	}
}

func TestFlatCalmCourseRunsAtBaseSpeed(t *testing.T) {
	p := baseParams()
	r := mustSimulate(t, p, flatCourse(42.195))

	want := 42195.0 / p.TargetTime.Seconds()
	for _, pt := range r.Points {
		if math.Abs(pt.SpeedMS-want) > 1e-6 {
			t.Fatalf("point at %v km speed = %v, want %v", pt.KM, pt.SpeedMS, want)
		}
	}
}

func TestTotalTimeMatchesTarget(t *testing.T) {
	courses := map[string]*course.Course{
		"flat":  flatCourse(42.195),
		"ehime": course.EhimeMarathon(),
	}

	for name, c := range courses {
		t.Run(name, func(t *testing.T) {
			p := baseParams()
			p.Wind = Wind{SpeedMS: 3, FromDeg: 45}
			r := mustSimulate(t, p, c)

			target := p.TargetTime.Seconds()
			if rel := math.Abs(r.TotalSeconds-target) / target; rel > 1e-6 {
				t.Errorf("total %v vs target %v, relative error %v", r.TotalSeconds, target, rel)
			}
		})
	}
}

func TestUphillMonotonicity(t *testing.T) {
	build := func(gradient float64) *course.Course {
		return &course.Course{Segments: []course.Segment{
			{StartKM: 0, EndKM: 10, Gradient: 0},
			{StartKM: 10, EndKM: 12, Gradient: gradient},
			{StartKM: 12, EndKM: 42.195, Gradient: 0},
		}}
	}

	speedAt := func(r *Result, km float64) float64 {
		for _, pt := range r.Points {
			if pt.KM >= km {
				return pt.SpeedMS
			}
		}
		t.Fatalf("no point at %v km", km)
		return 0
	}

	p := baseParams()
	gentle := mustSimulate(t, p, build(0.02))
	steep := mustSimulate(t, p, build(0.05))

	// The steeper hill is run slower...
	if s1, s2 := speedAt(gentle, 11), speedAt(steep, 11); s2 >= s1 {
		t.Errorf("hill speed did not drop: %v%% grade %v m/s, steeper %v m/s", 2, s1, s2)
	}
	// ...and the flat sections speed up to hold the total on target.
	if f1, f2 := speedAt(gentle, 30), speedAt(steep, 30); f2 <= f1 {
		t.Errorf("flat speed did not rise to compensate: %v vs %v m/s", f1, f2)
	}
}

func TestWindRedistributesSpeed(t *testing.T) {
	// Out-and-back along the north-south axis: first half due north,
	// second half due south.
	outAndBack := &course.Course{Segments: []course.Segment{
		{StartKM: 0, EndKM: 21, BearingDeg: 0, Exposed: true, Name: "out"},
		{StartKM: 21, EndKM: 42, BearingDeg: 180, Exposed: true, Name: "back"},
	}}

	p := baseParams()
	calm := mustSimulate(t, p, outAndBack)

	p.Wind = Wind{SpeedMS: 4, FromDeg: 0} // from the north: headwind out, tailwind back
	windy := mustSimulate(t, p, outAndBack)

	calmSpeed := calm.Points[0].SpeedMS
	var outSpeed, backSpeed float64
	for _, pt := range windy.Points {
		if pt.KM < 21 {
			outSpeed = pt.SpeedMS
		} else if backSpeed == 0 {
			backSpeed = pt.SpeedMS
		}
	}

	if outSpeed >= calmSpeed {
		t.Errorf("headwind leg speed %v should be below calm speed %v", outSpeed, calmSpeed)
	}
	if backSpeed <= calmSpeed {
		t.Errorf("tailwind leg speed %v should exceed calm speed %v", backSpeed, calmSpeed)
	}
	// Holding effort through wind costs more overall.
	if windy.EffortPower <= calm.EffortPower {
		t.Errorf("windy effort %v W should exceed calm effort %v W", windy.EffortPower, calm.EffortPower)
	}
}

func TestPerpendicularWindHasNoEffect(t *testing.T) {
	eastbound := &course.Course{Segments: []course.Segment{
		{StartKM: 0, EndKM: 42, BearingDeg: 90, Exposed: true},
	}}

	p := baseParams()
	calm := mustSimulate(t, p, eastbound)

	p.Wind = Wind{SpeedMS: 5, FromDeg: 0} // due crosswind
	cross := mustSimulate(t, p, eastbound)

	if math.Abs(calm.EffortPower-cross.EffortPower) > 1e-6 {
		t.Errorf("crosswind changed effort: %v vs %v W", calm.EffortPower, cross.EffortPower)
	}
}

func TestShelteredSegmentsIgnoreWind(t *testing.T) {
	sheltered := &course.Course{Segments: []course.Segment{
		{StartKM: 0, EndKM: 42, BearingDeg: 0, Exposed: false},
	}}

	p := baseParams()
	calm := mustSimulate(t, p, sheltered)

	p.Wind = Wind{SpeedMS: 8, FromDeg: 0}
	windy := mustSimulate(t, p, sheltered)

	if math.Abs(calm.EffortPower-windy.EffortPower) > 1e-6 {
		t.Errorf("sheltered course felt wind: %v vs %v W", calm.EffortPower, windy.EffortPower)
	}
}

func TestIdempotence(t *testing.T) {
	p := baseParams()
	p.Wind = Wind{SpeedMS: 3, FromDeg: 270}
	p.HillPower = 110
	p.Split = SplitNegative

	a := mustSimulate(t, p, course.EhimeMarathon())
	b := mustSimulate(t, p, course.EhimeMarathon())

	if a.TotalSeconds != b.TotalSeconds || a.EffortPower != b.EffortPower {
		t.Fatalf("totals differ: %v/%v vs %v/%v", a.TotalSeconds, a.EffortPower, b.TotalSeconds, b.EffortPower)
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, a.Points[i], b.Points[i])
		}
	}
}

func TestSingleSegmentExactTime(t *testing.T) {
	const km = 10.0
	p := baseParams()
	p.TargetTime = 50 * time.Minute // 3.333 m/s

	r := mustSimulate(t, p, flatCourse(km))

	want := p.TargetTime.Seconds()
	if rel := math.Abs(r.TotalSeconds-want) / want; rel > 1e-6 {
		t.Errorf("total = %v, want %v (D/V)", r.TotalSeconds, want)
	}
}

func TestZeroDistanceSegmentContributesNothing(t *testing.T) {
	withZero := &course.Course{Segments: []course.Segment{
		{StartKM: 0, EndKM: 21, Gradient: 0},
		{StartKM: 21, EndKM: 21, Gradient: 0.1, Name: "timing mat"},
		{StartKM: 21, EndKM: 42.195, Gradient: 0},
	}}

	p := baseParams()
	r := mustSimulate(t, p, withZero)

	target := p.TargetTime.Seconds()
	if rel := math.Abs(r.TotalSeconds-target) / target; rel > 1e-6 {
		t.Errorf("total %v, want %v", r.TotalSeconds, target)
	}
	for _, pt := range r.Points {
		if math.IsInf(pt.TimeSec, 0) || math.IsNaN(pt.TimeSec) {
			t.Fatalf("point at %v km has invalid time %v", pt.KM, pt.TimeSec)
		}
	}
}

func TestHillPowerShiftsEffortUphill(t *testing.T) {
	hilly := &course.Course{Segments: []course.Segment{
		{StartKM: 0, EndKM: 20, Gradient: 0},
		{StartKM: 20, EndKM: 22, Gradient: 0.05},
		{StartKM: 22, EndKM: 42.195, Gradient: 0},
	}}

	speedAt := func(r *Result, km float64) float64 {
		for _, pt := range r.Points {
			if pt.KM >= km {
				return pt.SpeedMS
			}
		}
		return 0
	}

	p := baseParams()
	p.HillPower = 80
	saver := mustSimulate(t, p, hilly)

	p.HillPower = 120
	pusher := mustSimulate(t, p, hilly)

	if pusher, savers := speedAt(pusher, 21), speedAt(saver, 21); pusher <= savers {
		t.Errorf("120%% hill power uphill speed %v should exceed 80%% speed %v", pusher, savers)
	}
}

func TestSplitStrategies(t *testing.T) {
	firstLastPace := func(r *Result) (first, last float64) {
		return r.Points[0].PaceSecPerKM, r.Points[len(r.Points)-1].PaceSecPerKM
	}

	p := baseParams()
	p.Split = SplitPositive
	pos := mustSimulate(t, p, flatCourse(42.195))
	first, last := firstLastPace(pos)
	if first >= last {
		t.Errorf("positive split: first pace %v should be faster (smaller) than last %v", first, last)
	}

	p.Split = SplitNegative
	neg := mustSimulate(t, p, flatCourse(42.195))
	first, last = firstLastPace(neg)
	if first <= last {
		t.Errorf("negative split: first pace %v should be slower (larger) than last %v", first, last)
	}
}
