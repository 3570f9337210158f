package exports

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
)

// WriteSummaries writes per-fixation results as CSV. Undefined means become
// empty cells, never zero, so downstream tooling cannot mistake a missing
// mean for a measured one.
func WriteSummaries(path string, summaries []gaze.FixationSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"fixation_id", "mean_diameter", "sample_count"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, s := range summaries {
		mean := ""
		if v, ok := s.Mean(); ok {
			mean = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row := []string{strconv.Itoa(s.FixationID), mean, strconv.Itoa(s.SampleCount)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}
	return f.Close()
}
