package course

// EhimeMarathon returns the built-in simplified model of the Ehime Marathon:
// flat start in Matsuyama, the steep Hirata hill near 7 km and again on the
// return near 36 km, a long wind-exposed coastal stretch out to the Hojo
// turnaround, and a gradual uphill finish.
func EhimeMarathon() *Course {
	lat, lon := 33.8392, 132.7657
	return &Course{
		Name:     "Ehime Marathon",
		StartLat: &lat,
		StartLon: &lon,
		Segments: []Segment{
			{StartKM: 0, EndKM: 7, Gradient: 0, BearingDeg: 10, Exposed: false, Name: "Start Flat"},
			{StartKM: 7, EndKM: 8, Gradient: 0.04, BearingDeg: 20, Exposed: true, Name: "Hirata Hill (Out)"},
			{StartKM: 8, EndKM: 10, Gradient: -0.02, BearingDeg: 30, Exposed: false, Name: "Descent to Coast"},
			{StartKM: 10, EndKM: 25, Gradient: 0, BearingDeg: 45, Exposed: true, Name: "Coastal Outbound"},
			{StartKM: 25, EndKM: 34, Gradient: 0, BearingDeg: 225, Exposed: true, Name: "Coastal Inbound"},
			{StartKM: 34, EndKM: 36, Gradient: 0.01, BearingDeg: 200, Exposed: false, Name: "Approach Hirata"},
			{StartKM: 36, EndKM: 37, Gradient: 0.04, BearingDeg: 200, Exposed: true, Name: "Hirata Hill (Return)"},
			{StartKM: 37, EndKM: 42.195, Gradient: 0.01, BearingDeg: 190, Exposed: false, Name: "Gradual Uphill to Goal"},
		},
	}
}
