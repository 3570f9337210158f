package gaze

// DefaultMinConfidence is the detector confidence cutoff used when the caller
// has no configured value. 0.8 is the exporter's own high-confidence mark.
const DefaultMinConfidence = 0.8

// GroupFixations reduces exporter rows to one representative row per fixation
// id, in first-appearance order. The first row encountered for an id wins;
// later rows are dropped even when their OnSurface flag differs, so a later
// on-surface row cannot rescue a fixation whose first row was off-surface.
func GroupFixations(records []FixationRecord) []FixationRecord {
	seen := make(map[int]bool, len(records))
	reps := make([]FixationRecord, 0, len(records))
	for _, r := range records {
		if seen[r.FixationID] {
			continue
		}
		seen[r.FixationID] = true
		reps = append(reps, r)
	}
	return reps
}

// Aggregate computes the mean pupil diameter inside each on-surface
// fixation's time window. A sample qualifies when its timestamp lies in
// [start, start+durationMs/1000], both bounds inclusive, and its confidence
// is at least minConfidence. Fixations whose representative row is
// off-surface are skipped entirely; on-surface fixations with no qualifying
// samples get a nil mean. Output order follows first appearance in records.
//
// The scan is a plain per-fixation pass over all samples. Fixation windows
// rarely overlap but nothing here assumes they don't.
func Aggregate(samples []PupilSample, fixations []FixationRecord, minConfidence float64) []FixationSummary {
	var summaries []FixationSummary
	for _, f := range GroupFixations(fixations) {
		if !f.OnSurface {
			continue
		}
		start := f.StartTimestamp
		end := start + f.DurationMs/1000.0

		var sum float64
		var n int
		for _, s := range samples {
			if s.Timestamp < start || s.Timestamp > end {
				continue
			}
			if s.Confidence < minConfidence {
				continue
			}
			sum += s.Diameter
			n++
		}

		summary := FixationSummary{FixationID: f.FixationID, SampleCount: n}
		if n > 0 {
			mean := sum / float64(n)
			summary.MeanDiameter = &mean
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
