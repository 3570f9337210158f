package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
)

// AnalysisRun is one stored aggregation pass over a recording.
type AnalysisRun struct {
	RunID          string    `json:"run_id"`
	Recording      string    `json:"recording"`
	Surface        string    `json:"surface"`
	DiameterUnits  string    `json:"diameter_units"`
	MinConfidence  float64   `json:"min_confidence"`
	SamplesSeen    int       `json:"samples_seen"`
	FixationRows   int       `json:"fixation_rows"`
	FixationGroups int       `json:"fixation_groups"`
	SkippedOffSurf int       `json:"skipped_off_surface"`
	UndefinedMeans int       `json:"undefined_means"`
	CreatedAt      time.Time `json:"created_at"`
}

// SaveRun stores a run and its per-fixation summaries in one transaction.
// A missing RunID is filled in with a fresh uuid. Undefined means are stored
// as SQL NULL so they round-trip as nil, never as zero.
func (s *Store) SaveRun(run *AnalysisRun, summaries []gaze.FixationSummary) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO analysis_runs (
			run_id, recording, surface, diameter_units, min_confidence,
			samples_seen, fixation_rows, fixation_groups, skipped_off_surf, undefined_means
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Recording, run.Surface, run.DiameterUnits, run.MinConfidence,
		run.SamplesSeen, run.FixationRows, run.FixationGroups, run.SkippedOffSurf, run.UndefinedMeans,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO fixation_means (run_id, fixation_id, mean_diameter, sample_count)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fixation insert: %w", err)
	}
	defer stmt.Close()

	for _, summary := range summaries {
		var mean sql.NullFloat64
		if v, ok := summary.Mean(); ok {
			mean = sql.NullFloat64{Float64: v, Valid: true}
		}
		if _, err := stmt.Exec(run.RunID, summary.FixationID, mean, summary.SampleCount); err != nil {
			return fmt.Errorf("failed to insert fixation %d: %w", summary.FixationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recently stored runs, newest first.
func (s *Store) RecentRuns(limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Query(`SELECT run_id, recording, surface, diameter_units, min_confidence,
			samples_seen, fixation_rows, fixation_groups, skipped_off_surf, undefined_means, created_at
		FROM analysis_runs ORDER BY created_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var r AnalysisRun
		if err := rows.Scan(
			&r.RunID, &r.Recording, &r.Surface, &r.DiameterUnits, &r.MinConfidence,
			&r.SamplesSeen, &r.FixationRows, &r.FixationGroups, &r.SkippedOffSurf,
			&r.UndefinedMeans, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Run returns a single run by id.
func (s *Store) Run(runID string) (*AnalysisRun, error) {
	var r AnalysisRun
	err := s.QueryRow(`SELECT run_id, recording, surface, diameter_units, min_confidence,
			samples_seen, fixation_rows, fixation_groups, skipped_off_surf, undefined_means, created_at
		FROM analysis_runs WHERE run_id = ?`, runID).Scan(
		&r.RunID, &r.Recording, &r.Surface, &r.DiameterUnits, &r.MinConfidence,
		&r.SamplesSeen, &r.FixationRows, &r.FixationGroups, &r.SkippedOffSurf,
		&r.UndefinedMeans, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return &r, nil
}

// RunSummaries returns the stored per-fixation summaries for a run, in
// fixation id order. A NULL mean comes back as a nil MeanDiameter.
func (s *Store) RunSummaries(runID string) ([]gaze.FixationSummary, error) {
	rows, err := s.Query(`SELECT fixation_id, mean_diameter, sample_count
		FROM fixation_means WHERE run_id = ? ORDER BY fixation_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixation means: %w", err)
	}
	defer rows.Close()

	var summaries []gaze.FixationSummary
	for rows.Next() {
		var summary gaze.FixationSummary
		var mean sql.NullFloat64
		if err := rows.Scan(&summary.FixationID, &mean, &summary.SampleCount); err != nil {
			return nil, fmt.Errorf("failed to scan fixation mean: %w", err)
		}
		if mean.Valid {
			v := mean.Float64
			summary.MeanDiameter = &v
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// LatestRunID returns the id of the most recently stored run.
func (s *Store) LatestRunID() (string, error) {
	var runID string
	err := s.QueryRow(`SELECT run_id FROM analysis_runs
		ORDER BY created_at DESC, run_id DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no runs stored yet")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}
