package store

import (
	"database/sql"
	"errors"
)

// SavePlan stores a pacing plan and its splits, returning the new plan ID.
func (db *DB) SavePlan(p *PlanRecord, splits []SplitRecord) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO plans (
			course_id, name, target_seconds, mass_kg, temp_c,
			wind_speed_ms, wind_from_deg, hill_power, split_strategy,
			effort_power, total_seconds, avg_pace_sec_per_km
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.CourseID, p.Name, p.TargetSeconds, p.MassKG, p.TempC,
		p.WindSpeedMS, p.WindFromDeg, p.HillPower, p.SplitStrategy,
		p.EffortPower, p.TotalSeconds, p.AvgPaceSecPerKM,
	)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO plan_splits (plan_id, seq, label, start_km, distance_km, time_sec, cumulative_sec, pace_sec_per_km)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, s := range splits {
		if _, err := stmt.Exec(id, i, s.Label, s.StartKM, s.DistanceKM, s.TimeSec, s.CumulativeSec, s.PaceSecPerKM); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetPlan retrieves a plan by ID.
func (db *DB) GetPlan(id int64) (*PlanRecord, error) {
	row := db.QueryRow(`
		SELECT id, course_id, name, target_seconds, mass_kg, temp_c,
			wind_speed_ms, wind_from_deg, hill_power, split_strategy,
			effort_power, total_seconds, avg_pace_sec_per_km, created_at
		FROM plans
		WHERE id = ?
	`, id)
	return scanPlan(row)
}

// ListPlans returns plans for a course, newest first. A zero courseID lists
// every plan.
func (db *DB) ListPlans(courseID int64) ([]PlanRecord, error) {
	query := `
		SELECT id, course_id, name, target_seconds, mass_kg, temp_c,
			wind_speed_ms, wind_from_deg, hill_power, split_strategy,
			effort_power, total_seconds, avg_pace_sec_per_km, created_at
		FROM plans
	`
	var args []any
	if courseID != 0 {
		query += ` WHERE course_id = ?`
		args = append(args, courseID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		var p PlanRecord
		var createdAt string
		err := rows.Scan(
			&p.ID, &p.CourseID, &p.Name, &p.TargetSeconds, &p.MassKG, &p.TempC,
			&p.WindSpeedMS, &p.WindFromDeg, &p.HillPower, &p.SplitStrategy,
			&p.EffortPower, &p.TotalSeconds, &p.AvgPaceSecPerKM, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetPlanSplits retrieves the ordered kilometer splits of a plan.
func (db *DB) GetPlanSplits(planID int64) ([]SplitRecord, error) {
	rows, err := db.Query(`
		SELECT plan_id, seq, label, start_km, distance_km, time_sec, cumulative_sec, pace_sec_per_km
		FROM plan_splits
		WHERE plan_id = ?
		ORDER BY seq
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []SplitRecord
	for rows.Next() {
		var s SplitRecord
		if err := rows.Scan(&s.PlanID, &s.Seq, &s.Label, &s.StartKM, &s.DistanceKM, &s.TimeSec, &s.CumulativeSec, &s.PaceSecPerKM); err != nil {
			return nil, err
		}
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

// DeletePlan removes a plan and its splits.
func (db *DB) DeletePlan(id int64) error {
	result, err := db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// scanPlan scans a single plan from a row
func scanPlan(row *sql.Row) (*PlanRecord, error) {
	var p PlanRecord
	var createdAt string

	err := row.Scan(
		&p.ID, &p.CourseID, &p.Name, &p.TargetSeconds, &p.MassKG, &p.TempC,
		&p.WindSpeedMS, &p.WindFromDeg, &p.HillPower, &p.SplitStrategy,
		&p.EffortPower, &p.TotalSeconds, &p.AvgPaceSecPerKM, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}
