package tui

import (
	"fmt"
	"math"

	"marathon-pacer/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.2f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.2f km", meters/metersPerKm)
}

// FormatPaceSeconds formats a pace given in seconds per kilometer.
func (u Units) FormatPaceSeconds(secPerKM float64) string {
	if secPerKM <= 0 {
		return "-"
	}

	pace := secPerKM
	if u.cfg.PaceUnit == "min/mi" {
		pace = secPerKM * metersPerMile / metersPerKm
	}

	total := int(math.Round(pace))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// PaceLabel returns the pace unit label ("min/mi" or "min/km")
func (u Units) PaceLabel() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "min/mi"
	}
	return "min/km"
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}

// ConvertPaceSeries converts a min/km chart series to the preferred unit.
func (u Units) ConvertPaceSeries(minPerKM []float64) []float64 {
	if u.cfg.PaceUnit != "min/mi" {
		return minPerKM
	}
	converted := make([]float64, len(minPerKM))
	for i, p := range minPerKM {
		converted[i] = p * metersPerMile / metersPerKm
	}
	return converted
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}
