package strava

import "time"

// Route represents a Strava route from the API
type Route struct {
	ID            int64     `json:"id"`
	Athlete       Athlete   `json:"athlete"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Type          int       `json:"type"`     // 1 = ride, 2 = run
	SubType       int       `json:"sub_type"` // 1 = road, 2 = mtb, 3 = cx, 4 = trail, 5 = mixed
	Distance      float64   `json:"distance"`       // meters
	ElevationGain float64   `json:"elevation_gain"` // meters
	Private       bool      `json:"private"`
	Starred       bool      `json:"starred"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Athlete represents a Strava athlete (minimal info in route response)
type Athlete struct {
	ID int64 `json:"id"`
}

// IsRun reports whether the route is a running route.
func (r Route) IsRun() bool {
	return r.Type == 2
}
