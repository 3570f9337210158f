// Package gaze computes per-fixation pupil diameter summaries from
// Pupil-style surface exports: fixation rows define time windows, pupil
// samples supply the diameters.
package gaze

// PupilSample is a single pupillometry reading from the eye camera pipeline.
type PupilSample struct {
	Timestamp  float64 `json:"timestamp"`  // recording clock, seconds
	Diameter   float64 `json:"diameter"`   // in the units chosen at load time
	Confidence float64 `json:"confidence"` // detector confidence, nominally [0,1]
}

// FixationRecord is one exporter row for a detected fixation. The exporter
// emits one row per surface-detection frame, so the same FixationID can
// appear on several rows; start and duration repeat, OnSurface may differ.
type FixationRecord struct {
	FixationID     int     `json:"fixation_id"`
	StartTimestamp float64 `json:"start_timestamp"` // recording clock, seconds
	DurationMs     float64 `json:"duration_ms"`
	OnSurface      bool    `json:"on_surface"`
}

// FixationSummary is the aggregation result for one fixation.
type FixationSummary struct {
	FixationID int `json:"fixation_id"`
	// MeanDiameter is nil when no sample passed the window and confidence
	// filters. It is never NaN and never a stand-in zero.
	MeanDiameter *float64 `json:"mean_diameter"`
	SampleCount  int      `json:"sample_count"`
}

// Mean returns the mean diameter and whether it is defined.
func (s FixationSummary) Mean() (float64, bool) {
	if s.MeanDiameter == nil {
		return 0, false
	}
	return *s.MeanDiameter, true
}
