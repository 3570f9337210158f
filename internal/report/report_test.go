package report

import (
	"math"
	"testing"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestBuildCounts(t *testing.T) {
	samples := []gaze.PupilSample{
		{Timestamp: 1.0, Diameter: 4.0, Confidence: 0.9},
		{Timestamp: 1.1, Diameter: 4.2, Confidence: 0.9},
		{Timestamp: 1.2, Diameter: 4.4, Confidence: 0.5},
	}
	fixations := []gaze.FixationRecord{
		{FixationID: 1, StartTimestamp: 1.0, DurationMs: 300, OnSurface: true},
		{FixationID: 1, StartTimestamp: 1.0, DurationMs: 300, OnSurface: false},
		{FixationID: 2, StartTimestamp: 5.0, DurationMs: 300, OnSurface: true},
		{FixationID: 3, StartTimestamp: 9.0, DurationMs: 300, OnSurface: false},
	}
	summaries := gaze.Aggregate(samples, fixations, 0.8)

	run := Build(samples, fixations, summaries, 0.8)

	if run.SamplesSeen != 3 {
		t.Errorf("SamplesSeen = %d, want 3", run.SamplesSeen)
	}
	if run.FixationRowsSeen != 4 {
		t.Errorf("FixationRowsSeen = %d, want 4", run.FixationRowsSeen)
	}
	if run.FixationGroups != 3 {
		t.Errorf("FixationGroups = %d, want 3", run.FixationGroups)
	}
	if run.SkippedOffSurf != 1 {
		t.Errorf("SkippedOffSurf = %d, want 1", run.SkippedOffSurf)
	}
	if run.SummariesEmitted != 2 {
		t.Errorf("SummariesEmitted = %d, want 2", run.SummariesEmitted)
	}
	// Fixation 2's window is empty.
	if run.UndefinedMeans != 1 {
		t.Errorf("UndefinedMeans = %d, want 1", run.UndefinedMeans)
	}
}

func TestBuildStats(t *testing.T) {
	summaries := []gaze.FixationSummary{
		{FixationID: 1, MeanDiameter: floatPtr(4.0), SampleCount: 2},
		{FixationID: 2, MeanDiameter: floatPtr(5.0), SampleCount: 3},
		{FixationID: 3, MeanDiameter: floatPtr(6.0), SampleCount: 1},
		{FixationID: 4, MeanDiameter: nil, SampleCount: 0},
	}

	run := Build(nil, nil, summaries, 0.8)

	if run.Stats == nil {
		t.Fatal("Stats = nil, want populated")
	}
	if math.Abs(run.Stats.Mean-5.0) > 1e-9 {
		t.Errorf("Stats.Mean = %f, want 5.0", run.Stats.Mean)
	}
	if math.Abs(run.Stats.StdDev-1.0) > 1e-9 {
		t.Errorf("Stats.StdDev = %f, want 1.0", run.Stats.StdDev)
	}
	if run.Stats.Min != 4.0 || run.Stats.Max != 6.0 {
		t.Errorf("Stats min/max = %f/%f, want 4.0/6.0", run.Stats.Min, run.Stats.Max)
	}
	if run.Stats.Median != 5.0 {
		t.Errorf("Stats.Median = %f, want 5.0", run.Stats.Median)
	}
}

func TestBuildNoDefinedMeans(t *testing.T) {
	summaries := []gaze.FixationSummary{
		{FixationID: 1, MeanDiameter: nil, SampleCount: 0},
	}

	run := Build(nil, nil, summaries, 0.8)

	if run.Stats != nil {
		t.Errorf("Stats = %+v, want nil", run.Stats)
	}
	if run.UndefinedMeans != 1 {
		t.Errorf("UndefinedMeans = %d, want 1", run.UndefinedMeans)
	}
}

func TestBuildSingleMeanHasZeroStdDev(t *testing.T) {
	summaries := []gaze.FixationSummary{
		{FixationID: 1, MeanDiameter: floatPtr(4.5), SampleCount: 2},
	}

	run := Build(nil, nil, summaries, 0.8)

	if run.Stats == nil {
		t.Fatal("Stats = nil, want populated")
	}
	if run.Stats.StdDev != 0 {
		t.Errorf("Stats.StdDev = %f, want 0", run.Stats.StdDev)
	}
}
