package service

import (
	"fmt"

	"go.uber.org/zap"

	"marathon-pacer/internal/course"
	"marathon-pacer/internal/pacing"
	"marathon-pacer/internal/store"
)

// PlanService runs simulations and persists the resulting plans.
type PlanService struct {
	store  *store.DB
	logger *zap.Logger
}

// NewPlanService creates a plan service.
func NewPlanService(db *store.DB, logger *zap.Logger) *PlanService {
	return &PlanService{store: db, logger: logger}
}

// Simulate builds a pacing plan for a course.
func (s *PlanService) Simulate(c *course.Course, params pacing.Params) (*pacing.Result, error) {
	strategy, err := pacing.New(params)
	if err != nil {
		return nil, err
	}

	result, err := strategy.Simulate(c)
	if err != nil {
		return nil, err
	}

	s.logger.Info("simulation complete",
		zap.String("course", c.Name),
		zap.Float64("target_seconds", params.TargetTime.Seconds()),
		zap.Float64("total_seconds", result.TotalSeconds),
		zap.Float64("effort_power", result.EffortPower))
	return result, nil
}

// SavePlan persists a simulation result under a name. The course must already
// be stored.
func (s *PlanService) SavePlan(name string, params pacing.Params, result *pacing.Result) (int64, error) {
	rec, err := s.store.GetCourseByName(result.CourseName)
	if err != nil {
		return 0, fmt.Errorf("looking up course %q: %w", result.CourseName, err)
	}

	plan := &store.PlanRecord{
		CourseID:        rec.ID,
		Name:            name,
		TargetSeconds:   params.TargetTime.Seconds(),
		MassKG:          params.MassKG,
		TempC:           params.TempC,
		WindSpeedMS:     params.Wind.SpeedMS,
		WindFromDeg:     params.Wind.FromDeg,
		HillPower:       params.HillPower,
		SplitStrategy:   string(params.Split),
		EffortPower:     result.EffortPower,
		TotalSeconds:    result.TotalSeconds,
		AvgPaceSecPerKM: result.AvgPaceSecPerKM,
	}

	var splits []store.SplitRecord
	for i, sp := range result.Splits() {
		splits = append(splits, store.SplitRecord{
			Seq:           i,
			Label:         sp.Label,
			StartKM:       sp.StartKM,
			DistanceKM:    sp.DistanceKM,
			TimeSec:       sp.TimeSec,
			CumulativeSec: sp.CumulativeSec,
			PaceSecPerKM:  sp.PaceSecPerKM,
		})
	}

	id, err := s.store.SavePlan(plan, splits)
	if err != nil {
		return 0, fmt.Errorf("storing plan %q: %w", name, err)
	}
	s.logger.Info("saved plan",
		zap.String("name", name),
		zap.String("course", result.CourseName),
		zap.Int("splits", len(splits)))
	return id, nil
}

// ListPlans returns saved plans for a course name, or all plans when the
// name is empty.
func (s *PlanService) ListPlans(courseName string) ([]store.PlanRecord, error) {
	var courseID int64
	if courseName != "" {
		rec, err := s.store.GetCourseByName(courseName)
		if err != nil {
			return nil, err
		}
		courseID = rec.ID
	}
	return s.store.ListPlans(courseID)
}

// GetPlanSplits returns the stored kilometer splits of a plan.
func (s *PlanService) GetPlanSplits(planID int64) ([]store.SplitRecord, error) {
	return s.store.GetPlanSplits(planID)
}
