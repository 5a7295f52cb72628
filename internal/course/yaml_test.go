package course

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")

	content := `name: Test Loop
start_lat: 35.0
start_lon: 139.0
segments:
  - start_km: 0
    end_km: 5
    gradient: 0.0
    bearing: 90
    exposed: true
    name: Riverside
  - start_km: 5
    end_km: 10
    gradient: 0.02
    bearing: 270
    name: Climb Back
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	if c.Name != "Test Loop" {
		t.Errorf("Name = %q, want %q", c.Name, "Test Loop")
	}
	if len(c.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(c.Segments))
	}
	if !c.Segments[0].Exposed || c.Segments[1].Exposed {
		t.Error("exposure flags not preserved")
	}
	if c.StartLat == nil || *c.StartLat != 35.0 {
		t.Error("start_lat not preserved")
	}
}

func TestLoadYAMLRejectsInvalidCourse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	content := `name: Broken
segments:
  - start_km: 0
    end_km: 5
  - start_km: 7
    end_km: 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadYAML(path)
	if !errors.Is(err, ErrInvalidCourse) {
		t.Errorf("LoadYAML error = %v, want ErrInvalidCourse", err)
	}
}

func TestSaveYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ehime.yaml")

	original := EhimeMarathon()
	if err := SaveYAML(original, path); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	loaded, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	if loaded.Name != original.Name {
		t.Errorf("Name = %q, want %q", loaded.Name, original.Name)
	}
	if len(loaded.Segments) != len(original.Segments) {
		t.Fatalf("got %d segments, want %d", len(loaded.Segments), len(original.Segments))
	}
	for i := range loaded.Segments {
		if loaded.Segments[i] != original.Segments[i] {
			t.Errorf("segment %d = %+v, want %+v", i, loaded.Segments[i], original.Segments[i])
		}
	}
}
