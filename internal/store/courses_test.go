package store

import (
	"errors"
	"testing"
)

func sampleCourse() (*CourseRecord, []SegmentRecord) {
	lat, lon := 33.8392, 132.7657
	c := &CourseRecord{
		Name:       "Ehime Marathon",
		Source:     "builtin",
		DistanceKM: 42.195,
		StartLat:   &lat,
		StartLon:   &lon,
	}
	segs := []SegmentRecord{
		{StartKM: 0, EndKM: 7, Gradient: 0, BearingDeg: 90, Exposed: false, Name: "City"},
		{StartKM: 7, EndKM: 8, Gradient: 0.04, BearingDeg: 90, Exposed: true, Name: "Hirata hill"},
		{StartKM: 8, EndKM: 42.195, Gradient: 0, BearingDeg: 45, Exposed: true},
	}
	return c, segs
}

func TestSaveAndGetCourse(t *testing.T) {
	db := NewTestDB(t)
	c, segs := sampleCourse()

	id, err := db.SaveCourse(c, segs)
	if err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}

	got, err := db.GetCourse(id)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if got.Name != "Ehime Marathon" || got.Source != "builtin" {
		t.Errorf("got %q/%q", got.Name, got.Source)
	}
	if got.StartLat == nil || *got.StartLat != 33.8392 {
		t.Error("start latitude not round-tripped")
	}

	gotSegs, err := db.GetCourseSegments(id)
	if err != nil {
		t.Fatalf("GetCourseSegments: %v", err)
	}
	if len(gotSegs) != 3 {
		t.Fatalf("got %d segments, want 3", len(gotSegs))
	}
	if gotSegs[1].Name != "Hirata hill" || !gotSegs[1].Exposed || gotSegs[1].Gradient != 0.04 {
		t.Errorf("segment 1 = %+v", gotSegs[1])
	}
	if gotSegs[2].Exposed != true || gotSegs[2].Name != "" {
		t.Errorf("segment 2 = %+v", gotSegs[2])
	}
}

func TestSaveCourseReplacesByName(t *testing.T) {
	db := NewTestDB(t)
	c, segs := sampleCourse()

	id1, err := db.SaveCourse(c, segs)
	if err != nil {
		t.Fatalf("first SaveCourse: %v", err)
	}

	c.Source = "gpx"
	id2, err := db.SaveCourse(c, segs[:1])
	if err != nil {
		t.Fatalf("second SaveCourse: %v", err)
	}
	if id1 != id2 {
		t.Errorf("re-save created a new course: %d vs %d", id1, id2)
	}

	got, err := db.GetCourseByName("Ehime Marathon")
	if err != nil {
		t.Fatalf("GetCourseByName: %v", err)
	}
	if got.Source != "gpx" {
		t.Errorf("source = %q, want gpx", got.Source)
	}

	gotSegs, err := db.GetCourseSegments(id1)
	if err != nil {
		t.Fatalf("GetCourseSegments: %v", err)
	}
	if len(gotSegs) != 1 {
		t.Errorf("got %d segments after replace, want 1", len(gotSegs))
	}
}

func TestListCourses(t *testing.T) {
	db := NewTestDB(t)

	for _, name := range []string{"Zed Loop", "Alpha Trail"} {
		c := &CourseRecord{Name: name, Source: "yaml", DistanceKM: 10}
		if _, err := db.SaveCourse(c, nil); err != nil {
			t.Fatalf("SaveCourse(%q): %v", name, err)
		}
	}

	courses, err := db.ListCourses()
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses", len(courses))
	}
	if courses[0].Name != "Alpha Trail" {
		t.Errorf("courses not ordered by name: %q first", courses[0].Name)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	db := NewTestDB(t)
	if _, err := db.GetCourse(99); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
	if _, err := db.GetCourseByName("nope"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	db := NewTestDB(t)
	c, segs := sampleCourse()
	id, err := db.SaveCourse(c, segs)
	if err != nil {
		t.Fatalf("SaveCourse: %v", err)
	}

	if err := db.DeleteCourse(id); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}
	if err := db.DeleteCourse(id); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("second delete err = %v, want ErrCourseNotFound", err)
	}

	gotSegs, err := db.GetCourseSegments(id)
	if err != nil {
		t.Fatalf("GetCourseSegments: %v", err)
	}
	if len(gotSegs) != 0 {
		t.Errorf("segments survived course deletion: %d", len(gotSegs))
	}
}
