// Package units provides shared constants and validation for angle units
package units

import "math"

// Unit constants
const (
	DEG = "deg"
	RAD = "rad"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{DEG, RAD}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "deg, rad"
}

// ConvertAngle converts an angle from degrees to the target units.
// The angle engine and the database always work in degrees.
func ConvertAngle(angleDeg float64, targetUnits string) float64 {
	switch targetUnits {
	case RAD:
		return angleDeg * math.Pi / 180.0
	case DEG:
		return angleDeg
	default:
		return angleDeg // default to degrees if unknown unit
	}
}

// ConvertToDegrees converts an angle in the given units back to degrees.
func ConvertToDegrees(angle float64, fromUnits string) float64 {
	switch fromUnits {
	case RAD:
		return angle * 180.0 / math.Pi
	case DEG:
		return angle
	default:
		return angle
	}
}
