// Package exports reads and writes the CSV files of a Pupil-style surface
// export. Readers are header-driven: required columns are located by name,
// everything else in the file is ignored, and malformed content fails fast
// with an error naming the offending field. A load either returns the whole
// dataset or an error, never a silently truncated slice.
package exports

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Logical file names used in errors.
const (
	pupilFile    = "pupil_positions"
	fixationFile = "fixations_on_surface"
)

// ErrMissingColumn marks a required column absent from a CSV header.
var ErrMissingColumn = errors.New("missing required column")

var errNotFinite = errors.New("value is not finite")

// FieldError reports a missing or malformed field in an export CSV.
type FieldError struct {
	File  string // logical file name, e.g. "pupil_positions"
	Line  int    // 1-based line in the file; 0 for header-level problems
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: column %q: %v", e.File, e.Field, e.Err)
	}
	return fmt.Sprintf("%s line %d: field %q: %v", e.File, e.Line, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ResolveExportPaths derives the two input paths inside a Pupil export
// directory: pupil_positions.csv at the export root, and the per-surface
// fixation file under surfaces/.
func ResolveExportPaths(exportDir, surface string) (pupilCSV, fixationsCSV string) {
	pupilCSV = filepath.Join(exportDir, "pupil_positions.csv")
	fixationsCSV = filepath.Join(exportDir, "surfaces", "fixations_on_surface_"+surface+".csv")
	return pupilCSV, fixationsCSV
}
