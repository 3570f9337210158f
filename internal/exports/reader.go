package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
	"github.com/WeiFangping/pupil-tutorials/internal/units"
)

// LoadPupilPositions reads a pupil_positions.csv export. The diameter column
// is selected by unit: units.MM reads the eye-model diameter_3d column,
// units.PX the image-space diameter column. Rows come back in file order.
func LoadPupilPositions(path, diameterUnits string) ([]gaze.PupilSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pupil positions: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", pupilFile, err)
	}
	idx := columnIndex(header)
	diameterCol := units.DiameterColumn(diameterUnits)
	if err := requireColumns(pupilFile, idx, "pupil_timestamp", "confidence", diameterCol); err != nil {
		return nil, err
	}

	var samples []gaze.PupilSample
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pupilFile, err)
		}
		line++

		ts, err := parseFiniteFloat(pupilFile, line, "pupil_timestamp", record[idx["pupil_timestamp"]])
		if err != nil {
			return nil, err
		}
		confidence, err := parseFiniteFloat(pupilFile, line, "confidence", record[idx["confidence"]])
		if err != nil {
			return nil, err
		}
		diameter, err := parseFiniteFloat(pupilFile, line, diameterCol, record[idx[diameterCol]])
		if err != nil {
			return nil, err
		}

		samples = append(samples, gaze.PupilSample{
			Timestamp:  ts,
			Diameter:   diameter,
			Confidence: confidence,
		})
	}
	return samples, nil
}

// LoadSurfaceFixations reads a fixations_on_surface_<name>.csv export. The
// duration column is in milliseconds, as the exporter writes it. Duplicate
// fixation ids are returned as-is; grouping is the aggregator's concern.
func LoadSurfaceFixations(path string) ([]gaze.FixationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open surface fixations: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", fixationFile, err)
	}
	idx := columnIndex(header)
	if err := requireColumns(fixationFile, idx, "fixation_id", "start_timestamp", "duration", "on_surf"); err != nil {
		return nil, err
	}

	var records []gaze.FixationRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fixationFile, err)
		}
		line++

		id, err := strconv.Atoi(strings.TrimSpace(record[idx["fixation_id"]]))
		if err != nil {
			return nil, &FieldError{File: fixationFile, Line: line, Field: "fixation_id", Err: err}
		}
		start, err := parseFiniteFloat(fixationFile, line, "start_timestamp", record[idx["start_timestamp"]])
		if err != nil {
			return nil, err
		}
		duration, err := parseFiniteFloat(fixationFile, line, "duration", record[idx["duration"]])
		if err != nil {
			return nil, err
		}
		onSurf, err := parseBool(fixationFile, line, "on_surf", record[idx["on_surf"]])
		if err != nil {
			return nil, err
		}

		records = append(records, gaze.FixationRecord{
			FixationID:     id,
			StartTimestamp: start,
			DurationMs:     duration,
			OnSurface:      onSurf,
		})
	}
	return records, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func requireColumns(file string, idx map[string]int, names ...string) error {
	for _, name := range names {
		if _, ok := idx[name]; !ok {
			return &FieldError{File: file, Field: name, Err: ErrMissingColumn}
		}
	}
	return nil
}

// parseFiniteFloat rejects NaN and infinities so they can never reach the
// aggregation arithmetic.
func parseFiniteFloat(file string, line int, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &FieldError{File: file, Line: line, Field: field, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldError{File: file, Line: line, Field: field, Err: errNotFinite}
	}
	return v, nil
}

// parseBool accepts the exporter's Python-style True/False plus 0/1.
func parseBool(file string, line int, field, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, &FieldError{File: file, Line: line, Field: field, Err: fmt.Errorf("unrecognised boolean %q", raw)}
}
