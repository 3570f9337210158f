// Package report summarises a single analysis pass: how many rows went in,
// how many fixations came out, and where data was dropped along the way.
// The counts exist so an off-surface skip or an empty selection never
// disappears silently.
package report

import (
	"log"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
)

// Run describes one completed aggregation pass.
type Run struct {
	MinConfidence float64 `json:"min_confidence"`

	SamplesSeen      int `json:"samples_seen"`
	FixationRowsSeen int `json:"fixation_rows_seen"`
	FixationGroups   int `json:"fixation_groups"`
	SkippedOffSurf   int `json:"skipped_off_surface"`
	SummariesEmitted int `json:"summaries_emitted"`
	UndefinedMeans   int `json:"undefined_means"`

	// Distribution over the defined means only. Nil when no fixation
	// produced a defined mean.
	Stats *MeanStats `json:"stats,omitempty"`
}

// MeanStats carries distribution statistics over the defined mean diameters.
type MeanStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
}

// Build derives the run report from the aggregator's inputs and output.
func Build(samples []gaze.PupilSample, fixations []gaze.FixationRecord, summaries []gaze.FixationSummary, minConfidence float64) Run {
	groups := gaze.GroupFixations(fixations)

	run := Run{
		MinConfidence:    minConfidence,
		SamplesSeen:      len(samples),
		FixationRowsSeen: len(fixations),
		FixationGroups:   len(groups),
		SkippedOffSurf:   len(groups) - len(summaries),
		SummariesEmitted: len(summaries),
	}

	var means []float64
	for _, s := range summaries {
		if v, ok := s.Mean(); ok {
			means = append(means, v)
		} else {
			run.UndefinedMeans++
		}
	}

	if len(means) > 0 {
		sort.Float64s(means)
		// StdDev needs at least two values; JSON cannot carry NaN.
		sd := 0.0
		if len(means) > 1 {
			sd = stat.StdDev(means, nil)
		}
		run.Stats = &MeanStats{
			Mean:   stat.Mean(means, nil),
			StdDev: sd,
			Min:    means[0],
			Max:    means[len(means)-1],
			Median: stat.Quantile(0.5, stat.Empirical, means, nil),
			P95:    stat.Quantile(0.95, stat.Empirical, means, nil),
		}
	}

	return run
}

// Log prints the run counts through the standard logger.
func (r Run) Log() {
	log.Printf("pupil samples: %d", r.SamplesSeen)
	log.Printf("fixation rows: %d (%d distinct fixations)", r.FixationRowsSeen, r.FixationGroups)
	log.Printf("fixations skipped off-surface: %d", r.SkippedOffSurf)
	log.Printf("fixations summarised: %d (%d with undefined mean, min confidence %.2f)",
		r.SummariesEmitted, r.UndefinedMeans, r.MinConfidence)
	if r.Stats != nil {
		log.Printf("mean diameter: mean=%.3f sd=%.3f min=%.3f max=%.3f median=%.3f p95=%.3f",
			r.Stats.Mean, r.Stats.StdDev, r.Stats.Min, r.Stats.Max, r.Stats.Median, r.Stats.P95)
	}
}
