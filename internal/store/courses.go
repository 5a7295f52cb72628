package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveCourse inserts or replaces a course and its segments by name. Segments
// are rewritten wholesale so the stored geometry always matches the input.
func (db *DB) SaveCourse(c *CourseRecord, segments []SegmentRecord) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO courses (name, source, distance_km, start_lat, start_lon, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			distance_km = excluded.distance_km,
			start_lat = excluded.start_lat,
			start_lon = excluded.start_lon,
			updated_at = CURRENT_TIMESTAMP
	`, c.Name, c.Source, c.DistanceKM, c.StartLat, c.StartLon); err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM courses WHERE name = ?`, c.Name).Scan(&id); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`DELETE FROM course_segments WHERE course_id = ?`, id); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO course_segments (course_id, seq, start_km, end_km, gradient, bearing_deg, exposed, name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, seg := range segments {
		if _, err := stmt.Exec(id, i, seg.StartKM, seg.EndKM, seg.Gradient, seg.BearingDeg, boolToInt(seg.Exposed), seg.Name); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetCourse retrieves a course header by ID.
func (db *DB) GetCourse(id int64) (*CourseRecord, error) {
	row := db.QueryRow(`
		SELECT id, name, source, distance_km, start_lat, start_lon, created_at, updated_at
		FROM courses
		WHERE id = ?
	`, id)
	return scanCourse(row)
}

// GetCourseByName retrieves a course header by its unique name.
func (db *DB) GetCourseByName(name string) (*CourseRecord, error) {
	row := db.QueryRow(`
		SELECT id, name, source, distance_km, start_lat, start_lon, created_at, updated_at
		FROM courses
		WHERE name = ?
	`, name)
	return scanCourse(row)
}

// ListCourses returns all stored courses ordered by name.
func (db *DB) ListCourses() ([]CourseRecord, error) {
	rows, err := db.Query(`
		SELECT id, name, source, distance_km, start_lat, start_lon, created_at, updated_at
		FROM courses
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []CourseRecord
	for rows.Next() {
		var c CourseRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Source, &c.DistanceKM, &c.StartLat, &c.StartLon, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetCourseSegments retrieves the ordered segments of a course.
func (db *DB) GetCourseSegments(courseID int64) ([]SegmentRecord, error) {
	rows, err := db.Query(`
		SELECT course_id, seq, start_km, end_km, gradient, bearing_deg, exposed, name
		FROM course_segments
		WHERE course_id = ?
		ORDER BY seq
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []SegmentRecord
	for rows.Next() {
		var s SegmentRecord
		var exposed int
		var name sql.NullString
		if err := rows.Scan(&s.CourseID, &s.Seq, &s.StartKM, &s.EndKM, &s.Gradient, &s.BearingDeg, &exposed, &name); err != nil {
			return nil, err
		}
		s.Exposed = exposed == 1
		s.Name = name.String
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// DeleteCourse removes a course and its segments and plans.
func (db *DB) DeleteCourse(id int64) error {
	result, err := db.Exec(`DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// scanCourse scans a single course from a row
func scanCourse(row *sql.Row) (*CourseRecord, error) {
	var c CourseRecord
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.Name, &c.Source, &c.DistanceKM, &c.StartLat, &c.StartLon, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// parseTimestamp reads SQLite's CURRENT_TIMESTAMP format, falling back to
// RFC 3339 for rows written by the application.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
