package exports

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
	"github.com/WeiFangping/pupil-tutorials/internal/units"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadPupilPositions(t *testing.T) {
	// Column order differs from the loader's field order and extra columns
	// are present; both must be handled by header lookup.
	path := writeTempCSV(t, "pupil_positions.csv",
		"eye_id,confidence,pupil_timestamp,diameter,diameter_3d\n"+
			"0,0.95,12.5,46.2,4.01\n"+
			"1,0.40,12.6,47.0,4.08\n")

	got, err := LoadPupilPositions(path, units.MM)
	if err != nil {
		t.Fatalf("LoadPupilPositions failed: %v", err)
	}

	want := []gaze.PupilSample{
		{Timestamp: 12.5, Diameter: 4.01, Confidence: 0.95},
		{Timestamp: 12.6, Diameter: 4.08, Confidence: 0.40},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPupilPositionsPixelUnits(t *testing.T) {
	path := writeTempCSV(t, "pupil_positions.csv",
		"pupil_timestamp,confidence,diameter,diameter_3d\n"+
			"12.5,0.95,46.2,4.01\n")

	got, err := LoadPupilPositions(path, units.PX)
	if err != nil {
		t.Fatalf("LoadPupilPositions failed: %v", err)
	}
	if got[0].Diameter != 46.2 {
		t.Errorf("px diameter = %v, want 46.2 (image-space column)", got[0].Diameter)
	}
}

func TestLoadPupilPositionsMissingColumn(t *testing.T) {
	path := writeTempCSV(t, "pupil_positions.csv",
		"pupil_timestamp,confidence,diameter\n12.5,0.95,46.2\n")

	_, err := LoadPupilPositions(path, units.MM)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("err = %T, want *FieldError", err)
	}
	if fieldErr.Field != "diameter_3d" {
		t.Errorf("FieldError.Field = %q, want diameter_3d", fieldErr.Field)
	}
}

func TestLoadPupilPositionsBadValues(t *testing.T) {
	tests := []struct {
		name      string
		row       string
		wantField string
	}{
		{"unparseable timestamp", "oops,0.9,4.0", "pupil_timestamp"},
		{"unparseable confidence", "12.5,high,4.0", "confidence"},
		{"NaN diameter", "12.5,0.9,NaN", "diameter_3d"},
		{"infinite diameter", "12.5,0.9,+Inf", "diameter_3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, "pupil_positions.csv",
				"pupil_timestamp,confidence,diameter_3d\n"+tt.row+"\n")

			_, err := LoadPupilPositions(path, units.MM)
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("err = %v, want *FieldError", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("FieldError.Field = %q, want %q", fieldErr.Field, tt.wantField)
			}
			if fieldErr.Line != 2 {
				t.Errorf("FieldError.Line = %d, want 2", fieldErr.Line)
			}
		})
	}
}

func TestLoadPupilPositionsNoPartialResult(t *testing.T) {
	// Valid first row, broken second: the loader must return nothing.
	path := writeTempCSV(t, "pupil_positions.csv",
		"pupil_timestamp,confidence,diameter_3d\n"+
			"12.5,0.95,4.01\n"+
			"12.6,broken,4.08\n")

	got, err := LoadPupilPositions(path, units.MM)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got != nil {
		t.Errorf("got %d samples alongside an error, want none", len(got))
	}
}

func TestLoadSurfaceFixations(t *testing.T) {
	path := writeTempCSV(t, "fixations_on_surface_screen.csv",
		"world_index,fixation_id,start_timestamp,duration,on_surf\n"+
			"0,10,1.0,1000,True\n"+
			"1,10,1.0,1000,False\n"+
			"2,11,5.0,500.5,1\n")

	got, err := LoadSurfaceFixations(path)
	if err != nil {
		t.Fatalf("LoadSurfaceFixations failed: %v", err)
	}

	want := []gaze.FixationRecord{
		{FixationID: 10, StartTimestamp: 1.0, DurationMs: 1000, OnSurface: true},
		{FixationID: 10, StartTimestamp: 1.0, DurationMs: 1000, OnSurface: false},
		{FixationID: 11, StartTimestamp: 5.0, DurationMs: 500.5, OnSurface: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSurfaceFixationsBadValues(t *testing.T) {
	tests := []struct {
		name      string
		row       string
		wantField string
	}{
		{"non-integer fixation id", "x,1.0,100,True", "fixation_id"},
		{"bad start", "7,soon,100,True", "start_timestamp"},
		{"bad duration", "7,1.0,long,True", "duration"},
		{"bad flag", "7,1.0,100,maybe", "on_surf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, "fixations.csv",
				"fixation_id,start_timestamp,duration,on_surf\n"+tt.row+"\n")

			_, err := LoadSurfaceFixations(path)
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("err = %v, want *FieldError", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("FieldError.Field = %q, want %q", fieldErr.Field, tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q should name field %q", err, tt.wantField)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadPupilPositions(filepath.Join(t.TempDir(), "absent.csv"), units.MM); err == nil {
		t.Error("expected error for missing pupil positions file")
	}
	if _, err := LoadSurfaceFixations(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing fixation file")
	}
}

func TestResolveExportPaths(t *testing.T) {
	pupil, fixations := ResolveExportPaths(filepath.Join("exports", "000"), "screen")

	if want := filepath.Join("exports", "000", "pupil_positions.csv"); pupil != want {
		t.Errorf("pupil path = %s, want %s", pupil, want)
	}
	if want := filepath.Join("exports", "000", "surfaces", "fixations_on_surface_screen.csv"); fixations != want {
		t.Errorf("fixations path = %s, want %s", fixations, want)
	}
}
