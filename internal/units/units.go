// Package units provides shared constants and validation for pupil diameter units
package units

// Unit constants
const (
	MM = "mm"
	PX = "px"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MM, PX}

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
	return "mm, px"
}

// DiameterColumn returns the pupil_positions.csv column carrying diameters in
// the given unit. The exporter writes the image-space diameter under
// "diameter" and the eye-model diameter under "diameter_3d".
func DiameterColumn(unit string) string {
	switch unit {
	case PX:
		return "diameter"
	default:
		return "diameter_3d"
	}
}

// Label returns an axis or report label for pupil diameters in the given unit.
func Label(unit string) string {
	switch unit {
	case PX:
		return "pupil diameter (px)"
	default:
		return "pupil diameter (mm)"
	}
}
