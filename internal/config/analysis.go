package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
	"github.com/WeiFangping/pupil-tutorials/internal/units"
)

// AnalysisConfig holds the tunable defaults for a pupil analysis run.
// Fields are pointers so a partial JSON file only overrides what it names;
// the Get* methods supply fallbacks for anything left unset. CLI flags
// override config values, config values override built-in defaults.
type AnalysisConfig struct {
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	DiameterUnits *string  `json:"diameter_units,omitempty"`
	Surface       *string  `json:"surface,omitempty"`
}

// EmptyAnalysisConfig returns an AnalysisConfig with all fields unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON retain their defaults, so
// partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.MinConfidence != nil {
		if *c.MinConfidence < 0 || *c.MinConfidence > 1 {
			return fmt.Errorf("min_confidence must be between 0 and 1, got %f", *c.MinConfidence)
		}
	}

	if c.DiameterUnits != nil {
		if !units.IsValid(*c.DiameterUnits) {
			return fmt.Errorf("diameter_units must be one of %s, got %q",
				units.GetValidUnitsString(), *c.DiameterUnits)
		}
	}

	if c.Surface != nil && *c.Surface == "" {
		return fmt.Errorf("surface must not be empty when set")
	}

	return nil
}

// GetMinConfidence returns the min_confidence value or the default.
func (c *AnalysisConfig) GetMinConfidence() float64 {
	if c.MinConfidence == nil {
		return gaze.DefaultMinConfidence
	}
	return *c.MinConfidence
}

// GetDiameterUnits returns the diameter_units value or the default.
func (c *AnalysisConfig) GetDiameterUnits() string {
	if c.DiameterUnits == nil {
		return units.MM
	}
	return *c.DiameterUnits
}

// GetSurface returns the surface name or the default.
func (c *AnalysisConfig) GetSurface() string {
	if c.Surface == nil {
		return "unnamed"
	}
	return *c.Surface
}
