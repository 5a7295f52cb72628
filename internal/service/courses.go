// Package service orchestrates course imports and pacing simulations on top
// of the store.
package service

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"marathon-pacer/internal/course"
	"marathon-pacer/internal/gpx"
	"marathon-pacer/internal/store"
	"marathon-pacer/internal/strava"
)

// Course sources as stored in the database.
const (
	SourceBuiltin = "builtin"
	SourceGPX     = "gpx"
	SourceYAML    = "yaml"
	SourceStrava  = "strava"
)

// CourseService manages stored courses and imports from GPX files, YAML
// files, and Strava routes.
type CourseService struct {
	store  *store.DB
	logger *zap.Logger
}

// NewCourseService creates a course service.
func NewCourseService(db *store.DB, logger *zap.Logger) *CourseService {
	return &CourseService{store: db, logger: logger}
}

// SeedBuiltins stores the bundled courses if they aren't already present.
func (s *CourseService) SeedBuiltins() error {
	ehime := course.EhimeMarathon()
	if _, err := s.store.GetCourseByName(ehime.Name); err == nil {
		return nil
	}
	if _, err := s.Save(ehime, SourceBuiltin); err != nil {
		return fmt.Errorf("seeding builtin course: %w", err)
	}
	s.logger.Info("seeded builtin course", zap.String("name", ehime.Name))
	return nil
}

// Save validates and stores a course, returning its ID.
func (s *CourseService) Save(c *course.Course, source string) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	rec, segs := toRecords(c, source)
	id, err := s.store.SaveCourse(rec, segs)
	if err != nil {
		return 0, fmt.Errorf("storing course %q: %w", c.Name, err)
	}
	s.logger.Info("saved course",
		zap.String("name", c.Name),
		zap.String("source", source),
		zap.Float64("distance_km", c.DistanceKM()),
		zap.Int("segments", len(c.Segments)))
	return id, nil
}

// ImportGPX parses a GPX file and stores the resulting course. An empty name
// falls back to the GPX track name.
func (s *CourseService) ImportGPX(path, name string, sheltered [][2]float64) (*course.Course, error) {
	c, err := gpx.Load(path, gpx.Options{Name: name, ShelteredRanges: sheltered})
	if err != nil {
		return nil, fmt.Errorf("importing gpx %q: %w", path, err)
	}
	if c.Name == "" {
		c.Name = path
	}
	if _, err := s.Save(c, SourceGPX); err != nil {
		return nil, err
	}
	return c, nil
}

// ImportYAML loads a YAML course file and stores it.
func (s *CourseService) ImportYAML(path string) (*course.Course, error) {
	c, err := course.LoadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("importing yaml %q: %w", path, err)
	}
	if _, err := s.Save(c, SourceYAML); err != nil {
		return nil, err
	}
	return c, nil
}

// ImportStravaRoute downloads a route's GPX export and stores it as a course.
func (s *CourseService) ImportStravaRoute(ctx context.Context, client *strava.Client, routeID int64, name string) (*course.Course, error) {
	data, err := client.ExportRouteGPX(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("exporting route %d: %w", routeID, err)
	}

	points, trackName, err := gpx.Parse(bytes.NewReader(data), 0)
	if err != nil {
		return nil, fmt.Errorf("parsing route %d: %w", routeID, err)
	}
	if name == "" {
		name = trackName
	}

	c, err := gpx.ToCourse(points, gpx.Options{Name: name})
	if err != nil {
		return nil, fmt.Errorf("converting route %d: %w", routeID, err)
	}
	if _, err := s.Save(c, SourceStrava); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the stored course headers.
func (s *CourseService) List() ([]store.CourseRecord, error) {
	return s.store.ListCourses()
}

// Get loads a full course by name.
func (s *CourseService) Get(name string) (*course.Course, error) {
	rec, err := s.store.GetCourseByName(name)
	if err != nil {
		return nil, err
	}
	segs, err := s.store.GetCourseSegments(rec.ID)
	if err != nil {
		return nil, err
	}
	return fromRecords(rec, segs), nil
}

// ExportYAML writes a stored course out as a YAML definition file.
func (s *CourseService) ExportYAML(name, path string) error {
	c, err := s.Get(name)
	if err != nil {
		return err
	}
	return course.SaveYAML(c, path)
}

// Delete removes a stored course and its plans.
func (s *CourseService) Delete(name string) error {
	rec, err := s.store.GetCourseByName(name)
	if err != nil {
		return err
	}
	return s.store.DeleteCourse(rec.ID)
}

// toRecords converts a course model into storage records.
func toRecords(c *course.Course, source string) (*store.CourseRecord, []store.SegmentRecord) {
	rec := &store.CourseRecord{
		Name:       c.Name,
		Source:     source,
		DistanceKM: c.DistanceKM(),
		StartLat:   c.StartLat,
		StartLon:   c.StartLon,
	}
	segs := make([]store.SegmentRecord, len(c.Segments))
	for i, seg := range c.Segments {
		segs[i] = store.SegmentRecord{
			Seq:        i,
			StartKM:    seg.StartKM,
			EndKM:      seg.EndKM,
			Gradient:   seg.Gradient,
			BearingDeg: seg.BearingDeg,
			Exposed:    seg.Exposed,
			Name:       seg.Name,
		}
	}
	return rec, segs
}

// fromRecords rebuilds a course model from storage records.
func fromRecords(rec *store.CourseRecord, segs []store.SegmentRecord) *course.Course {
	c := &course.Course{
		Name:     rec.Name,
		StartLat: rec.StartLat,
		StartLon: rec.StartLon,
	}
	for _, s := range segs {
		c.Segments = append(c.Segments, course.Segment{
			StartKM:    s.StartKM,
			EndKM:      s.EndKM,
			Gradient:   s.Gradient,
			BearingDeg: s.BearingDeg,
			Exposed:    s.Exposed,
			Name:       s.Name,
		})
	}
	return c
}
