package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/biomech-data/biomech.coach/internal/units"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// The schema matches the /config endpoint so the same JSON can be used for
// both startup configuration and runtime inspection. All fields are
// pointers so a partial config file only overrides what it names.
type TuningConfig struct {
	// Measurement params
	MinKeypointScore *float64 `json:"min_keypoint_score,omitempty"`
	AngleUnits       *string  `json:"angle_units,omitempty"`

	// Capture defaults, used when a session is created without dimensions
	DefaultFrameWidth  *int `json:"default_frame_width,omitempty"`
	DefaultFrameHeight *int `json:"default_frame_height,omitempty"`

	// Summary params
	SummaryFlushInterval *string `json:"summary_flush_interval,omitempty"` // duration string like "60s"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a config file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MinKeypointScore != nil {
		if *c.MinKeypointScore < 0 || *c.MinKeypointScore > 1 {
			return fmt.Errorf("min_keypoint_score must be between 0 and 1, got %f", *c.MinKeypointScore)
		}
	}

	if c.AngleUnits != nil && !units.IsValid(*c.AngleUnits) {
		return fmt.Errorf("invalid angle_units '%s': valid units are %s",
			*c.AngleUnits, units.GetValidUnitsString())
	}

	if c.DefaultFrameWidth != nil && *c.DefaultFrameWidth <= 0 {
		return fmt.Errorf("default_frame_width must be positive, got %d", *c.DefaultFrameWidth)
	}
	if c.DefaultFrameHeight != nil && *c.DefaultFrameHeight <= 0 {
		return fmt.Errorf("default_frame_height must be positive, got %d", *c.DefaultFrameHeight)
	}

	if c.SummaryFlushInterval != nil && *c.SummaryFlushInterval != "" {
		if _, err := time.ParseDuration(*c.SummaryFlushInterval); err != nil {
			return fmt.Errorf("invalid summary_flush_interval '%s': %w", *c.SummaryFlushInterval, err)
		}
	}

	return nil
}

// GetMinKeypointScore returns the min_keypoint_score value or the default.
func (c *TuningConfig) GetMinKeypointScore() float64 {
	if c.MinKeypointScore == nil {
		return 0.5 // default
	}
	return *c.MinKeypointScore
}

// GetAngleUnits returns the angle_units value or the default.
func (c *TuningConfig) GetAngleUnits() string {
	if c.AngleUnits == nil {
		return units.DEG // default
	}
	return *c.AngleUnits
}

// GetDefaultFrameWidth returns the default_frame_width value or the default.
func (c *TuningConfig) GetDefaultFrameWidth() int {
	if c.DefaultFrameWidth == nil {
		return 640
	}
	return *c.DefaultFrameWidth
}

// GetDefaultFrameHeight returns the default_frame_height value or the default.
func (c *TuningConfig) GetDefaultFrameHeight() int {
	if c.DefaultFrameHeight == nil {
		return 720
	}
	return *c.DefaultFrameHeight
}

// GetSummaryFlushInterval parses and returns the SummaryFlushInterval as a
// time.Duration.
func (c *TuningConfig) GetSummaryFlushInterval() time.Duration {
	if c.SummaryFlushInterval == nil || *c.SummaryFlushInterval == "" {
		return 60 * time.Second // default
	}
	d, err := time.ParseDuration(*c.SummaryFlushInterval)
	if err != nil {
		return 60 * time.Second // default on parse error
	}
	return d
}
