package store

import "time"

// Auth holds Strava OAuth tokens for the single configured athlete.
type Auth struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// CourseRecord is a stored course header. Segment geometry lives in
// SegmentRecord rows.
type CourseRecord struct {
	ID         int64
	Name       string
	Source     string // "builtin", "gpx", "yaml", or "strava"
	DistanceKM float64
	StartLat   *float64
	StartLon   *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SegmentRecord is one stored course segment.
type SegmentRecord struct {
	CourseID   int64
	Seq        int
	StartKM    float64
	EndKM      float64
	Gradient   float64
	BearingDeg float64
	Exposed    bool
	Name       string
}

// PlanRecord is a saved pacing plan: the simulation inputs plus summary
// outputs. Splits live in SplitRecord rows.
type PlanRecord struct {
	ID              int64
	CourseID        int64
	Name            string
	TargetSeconds   float64
	MassKG          float64
	TempC           float64
	WindSpeedMS     float64
	WindFromDeg     float64
	HillPower       float64
	SplitStrategy   string
	EffortPower     float64
	TotalSeconds    float64
	AvgPaceSecPerKM float64
	CreatedAt       time.Time
}

// SplitRecord is one stored kilometer lap of a plan.
type SplitRecord struct {
	PlanID        int64
	Seq           int
	Label         string
	StartKM       float64
	DistanceKM    float64
	TimeSec       float64
	CumulativeSec float64
	PaceSecPerKM  float64
}
