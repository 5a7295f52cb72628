package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Courses (imported from GPX, YAML, or Strava routes)
		`CREATE TABLE IF NOT EXISTS courses (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			distance_km REAL NOT NULL,
			start_lat REAL,
			start_lon REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_courses_name ON courses(name)`,

		// Course segments (ordered geometry)
		`CREATE TABLE IF NOT EXISTS course_segments (
			course_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			start_km REAL NOT NULL,
			end_km REAL NOT NULL,
			gradient REAL NOT NULL,
			bearing_deg REAL NOT NULL,
			exposed INTEGER NOT NULL,
			name TEXT,
			PRIMARY KEY (course_id, seq),
			FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
		)`,

		// Saved pacing plans (simulation inputs and summary outputs)
		`CREATE TABLE IF NOT EXISTS plans (
			id INTEGER PRIMARY KEY,
			course_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			target_seconds REAL NOT NULL,
			mass_kg REAL NOT NULL,
			temp_c REAL NOT NULL,
			wind_speed_ms REAL NOT NULL,
			wind_from_deg REAL NOT NULL,
			hill_power REAL NOT NULL,
			split_strategy TEXT NOT NULL,
			effort_power REAL NOT NULL,
			total_seconds REAL NOT NULL,
			avg_pace_sec_per_km REAL NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plans_course ON plans(course_id)`,

		// Per-kilometer splits of a saved plan
		`CREATE TABLE IF NOT EXISTS plan_splits (
			plan_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			label TEXT NOT NULL,
			start_km REAL NOT NULL,
			distance_km REAL NOT NULL,
			time_sec REAL NOT NULL,
			cumulative_sec REAL NOT NULL,
			pace_sec_per_km REAL NOT NULL,
			PRIMARY KEY (plan_id, seq),
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
