// Package gpx reads GPS track files and converts them into course models:
// haversine distances, travel bearings, smoothed elevation-derived gradients,
// and fixed-length segmentation.
package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"marathon-pacer/internal/course"
)

// ErrNoTrackPoints is returned when a GPX file contains no usable points.
var ErrNoTrackPoints = errors.New("gpx file has no track points")

const (
	earthRadiusM = 6371000.0

	// SegmentMeters is the resolution of the generated course segments.
	SegmentMeters = 5.0

	// Tracks close to marathon length are rescaled to exactly 42.195 km:
	// GPS weave makes raw tracks measure long, which would otherwise push
	// the simulated finish past the real line.
	marathonDetectM = 40000.0

	// DefaultSmoothingMeters is the elevation smoothing window. Raw GPX
	// elevation is noisy enough to make unsmoothed gradients useless.
	DefaultSmoothingMeters = 130.0
)

// TrackPoint is one parsed GPX point with derived track geometry.
type TrackPoint struct {
	Lat       float64
	Lon       float64
	Elevation float64
	DistanceM float64 // cumulative from the start
	Bearing   float64 // from the previous point, degrees
	Gradient  float64 // smoothed, clipped
}

// gpxDoc mirrors the subset of the GPX 1.1 schema we read.
type gpxDoc struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
	Ele float64 `xml:"ele"`
}

// Options control the GPX-to-course conversion.
type Options struct {
	// Name for the resulting course. Empty falls back to the track name.
	Name string

	// SmoothingMeters is the elevation smoothing window. Zero means
	// DefaultSmoothingMeters.
	SmoothingMeters float64

	// ShelteredRanges marks stretches (start km, end km) that are shielded
	// from wind. Everything else is treated as exposed: with no local
	// knowledge, assuming exposure is the conservative choice.
	ShelteredRanges [][2]float64
}

// Parse reads a GPX stream into track points with derived distances,
// bearings, and smoothed gradients. The second return value is the track
// name, when the file carries one.
func Parse(r io.Reader, smoothingMeters float64) ([]TrackPoint, string, error) {
	var doc gpxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decoding gpx: %w", err)
	}

	name := ""
	if len(doc.Tracks) > 0 {
		name = doc.Tracks[0].Name
	}

	var points []TrackPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				points = append(points, TrackPoint{Lat: p.Lat, Lon: p.Lon, Elevation: p.Ele})
			}
		}
	}
	if len(points) < 2 {
		return nil, name, ErrNoTrackPoints
	}

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		d := Haversine(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
		points[i].DistanceM = prev.DistanceM + d
		points[i].Bearing = Bearing(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
	}
	points[0].Bearing = points[1].Bearing

	normalizeMarathonDistance(points)

	if smoothingMeters <= 0 {
		smoothingMeters = DefaultSmoothingMeters
	}
	deriveGradients(points, smoothingMeters)

	return points, name, nil
}

// ParseFile reads a GPX file into track points.
func ParseFile(path string, smoothingMeters float64) ([]TrackPoint, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening gpx file: %w", err)
	}
	defer f.Close()
	return Parse(f, smoothingMeters)
}

// ToCourse chunks parsed track points into fixed-length course segments with
// averaged gradient and bearing.
func ToCourse(points []TrackPoint, opts Options) (*course.Course, error) {
	if len(points) < 2 {
		return nil, ErrNoTrackPoints
	}

	totalM := points[len(points)-1].DistanceM
	c := &course.Course{Name: opts.Name}
	startLat, startLon := points[0].Lat, points[0].Lon
	c.StartLat = &startLat
	c.StartLon = &startLon

	idx := 0
	for startM := 0.0; startM < totalM; startM += SegmentMeters {
		endM := math.Min(startM+SegmentMeters, totalM)

		var gradSum, count float64
		sinSum, cosSum := 0.0, 0.0
		for idx < len(points) && points[idx].DistanceM < endM {
			if points[idx].DistanceM >= startM {
				gradSum += points[idx].Gradient
				rad := points[idx].Bearing * math.Pi / 180
				sinSum += math.Sin(rad)
				cosSum += math.Cos(rad)
				count++
			}
			idx++
		}

		startKM, endKM := startM/1000, endM/1000
		seg := course.Segment{
			StartKM: startKM,
			EndKM:   endKM,
			Exposed: !inRanges(startKM, opts.ShelteredRanges),
		}
		if count > 0 {
			seg.Gradient = clipGradient(gradSum / count)
			seg.BearingDeg = math.Mod(math.Atan2(sinSum, cosSum)*180/math.Pi+360, 360)
		} else if n := len(c.Segments); n > 0 {
			// No raw points in this chunk: carry the previous terrain.
			seg.Gradient = c.Segments[n-1].Gradient
			seg.BearingDeg = c.Segments[n-1].BearingDeg
		}
		c.Segments = append(c.Segments, seg)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load parses a GPX file and converts it into a course in one step.
func Load(path string, opts Options) (*course.Course, error) {
	points, trackName, err := ParseFile(path, opts.SmoothingMeters)
	if err != nil {
		return nil, err
	}
	if opts.Name == "" {
		opts.Name = trackName
	}
	return ToCourse(points, opts)
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Bearing returns the forward azimuth in degrees from point 1 to point 2.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// normalizeMarathonDistance rescales tracks that look like marathons to the
// official distance.
func normalizeMarathonDistance(points []TrackPoint) {
	raw := points[len(points)-1].DistanceM
	if raw <= marathonDetectM {
		return
	}
	scale := course.MarathonMeters / raw
	for i := range points {
		points[i].DistanceM *= scale
	}
}

// deriveGradients smooths elevation over a distance window, differentiates
// against distance, clips outliers, and smooths the gradient again.
func deriveGradients(points []TrackPoint, windowM float64) {
	n := len(points)

	smoothed := movingAverageByDistance(points, windowM, func(p TrackPoint) float64 {
		return p.Elevation
	})

	for i := 1; i < n; i++ {
		dd := points[i].DistanceM - points[i-1].DistanceM
		if dd > 0 {
			points[i].Gradient = clipGradient((smoothed[i] - smoothed[i-1]) / dd)
		} else {
			points[i].Gradient = points[i-1].Gradient
		}
	}
	points[0].Gradient = points[1].Gradient

	// Second pass over twice the window settles residual jitter.
	final := movingAverageByDistance(points, windowM*2, func(p TrackPoint) float64 {
		return p.Gradient
	})
	for i := range points {
		points[i].Gradient = clipGradient(final[i])
	}
}

// movingAverageByDistance computes a centered moving average of value over a
// window measured in meters of track distance.
func movingAverageByDistance(points []TrackPoint, windowM float64, value func(TrackPoint) float64) []float64 {
	n := len(points)
	out := make([]float64, n)
	half := windowM / 2

	lo, hi := 0, 0
	sum, count := 0.0, 0
	for i := 0; i < n; i++ {
		center := points[i].DistanceM
		for hi < n && points[hi].DistanceM <= center+half {
			sum += value(points[hi])
			count++
			hi++
		}
		for lo < n && points[lo].DistanceM < center-half {
			sum -= value(points[lo])
			count--
			lo++
		}
		if count > 0 {
			out[i] = sum / float64(count)
		} else {
			out[i] = value(points[i])
		}
	}
	return out
}

func clipGradient(g float64) float64 {
	if g < course.MinPlausibleGradient {
		return course.MinPlausibleGradient
	}
	if g > course.MaxPlausibleGradient {
		return course.MaxPlausibleGradient
	}
	return g
}

func inRanges(km float64, ranges [][2]float64) bool {
	for _, r := range ranges {
		if km >= r[0] && km < r[1] {
			return true
		}
	}
	return false
}
