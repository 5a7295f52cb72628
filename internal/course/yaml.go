package course

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// courseFile is the on-disk YAML representation of a course.
type courseFile struct {
	Name     string        `yaml:"name"`
	StartLat *float64      `yaml:"start_lat,omitempty"`
	StartLon *float64      `yaml:"start_lon,omitempty"`
	Segments []segmentYAML `yaml:"segments"`
}

type segmentYAML struct {
	StartKM  float64 `yaml:"start_km"`
	EndKM    float64 `yaml:"end_km"`
	Gradient float64 `yaml:"gradient"`
	Bearing  float64 `yaml:"bearing"`
	Exposed  bool    `yaml:"exposed"`
	Name     string  `yaml:"name,omitempty"`
}

// LoadYAML reads a course definition file and validates it.
func LoadYAML(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading course file: %w", err)
	}

	var cf courseFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing course file %s: %w", path, err)
	}

	c := &Course{
		Name:     cf.Name,
		StartLat: cf.StartLat,
		StartLon: cf.StartLon,
	}
	for _, s := range cf.Segments {
		c.Segments = append(c.Segments, Segment{
			StartKM:    s.StartKM,
			EndKM:      s.EndKM,
			Gradient:   s.Gradient,
			BearingDeg: s.Bearing,
			Exposed:    s.Exposed,
			Name:       s.Name,
		})
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("course file %s: %w", path, err)
	}
	return c, nil
}

// SaveYAML writes a course definition file.
func SaveYAML(c *Course, path string) error {
	cf := courseFile{
		Name:     c.Name,
		StartLat: c.StartLat,
		StartLon: c.StartLon,
	}
	for _, s := range c.Segments {
		cf.Segments = append(cf.Segments, segmentYAML{
			StartKM:  s.StartKM,
			EndKM:    s.EndKM,
			Gradient: s.Gradient,
			Bearing:  s.BearingDeg,
			Exposed:  s.Exposed,
			Name:     s.Name,
		})
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("encoding course: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing course file: %w", err)
	}
	return nil
}
