package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestEmptyTuningConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetMinKeypointScore(); got != 0.5 {
		t.Errorf("GetMinKeypointScore() = %v, want 0.5", got)
	}
	if got := cfg.GetAngleUnits(); got != "deg" {
		t.Errorf("GetAngleUnits() = %v, want deg", got)
	}
	if got := cfg.GetDefaultFrameWidth(); got != 640 {
		t.Errorf("GetDefaultFrameWidth() = %v, want 640", got)
	}
	if got := cfg.GetDefaultFrameHeight(); got != 720 {
		t.Errorf("GetDefaultFrameHeight() = %v, want 720", got)
	}
	if got := cfg.GetSummaryFlushInterval(); got != 60*time.Second {
		t.Errorf("GetSummaryFlushInterval() = %v, want 60s", got)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, `{
		"min_keypoint_score": 0.7,
		"angle_units": "rad",
		"default_frame_width": 1280,
		"summary_flush_interval": "30s"
	}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	if got := cfg.GetMinKeypointScore(); got != 0.7 {
		t.Errorf("GetMinKeypointScore() = %v, want 0.7", got)
	}
	if got := cfg.GetAngleUnits(); got != "rad" {
		t.Errorf("GetAngleUnits() = %v, want rad", got)
	}
	if got := cfg.GetDefaultFrameWidth(); got != 1280 {
		t.Errorf("GetDefaultFrameWidth() = %v, want 1280", got)
	}
	// Omitted field falls back to the default.
	if got := cfg.GetDefaultFrameHeight(); got != 720 {
		t.Errorf("GetDefaultFrameHeight() = %v, want 720", got)
	}
	if got := cfg.GetSummaryFlushInterval(); got != 30*time.Second {
		t.Errorf("GetSummaryFlushInterval() = %v, want 30s", got)
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	path := writeConfig(t, `{"min_keypoint_score": 0.25}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	if got := cfg.GetMinKeypointScore(); got != 0.25 {
		t.Errorf("GetMinKeypointScore() = %v, want 0.25", got)
	}
	if cfg.AngleUnits != nil {
		t.Errorf("AngleUnits should be nil for a partial config, got %v", *cfg.AngleUnits)
	}
}

func TestLoadTuningConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{"bad json", `{nope`, "failed to parse config JSON"},
		{"score too high", `{"min_keypoint_score": 1.5}`, "min_keypoint_score"},
		{"score negative", `{"min_keypoint_score": -0.1}`, "min_keypoint_score"},
		{"bad units", `{"angle_units": "furlongs"}`, "angle_units"},
		{"zero width", `{"default_frame_width": 0}`, "default_frame_width"},
		{"negative height", `{"default_frame_height": -720}`, "default_frame_height"},
		{"bad interval", `{"summary_flush_interval": "soon"}`, "summary_flush_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.contents)
			_, err := LoadTuningConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTuningConfigRequiresJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadTuningConfig(path); err == nil {
		t.Fatal("expected extension error, got nil")
	}
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected stat error, got nil")
	}
}

func TestValidateDirect(t *testing.T) {
	cfg := &TuningConfig{
		MinKeypointScore:     ptrFloat64(0.8),
		AngleUnits:           ptrString("deg"),
		DefaultFrameWidth:    ptrInt(1920),
		DefaultFrameHeight:   ptrInt(1080),
		SummaryFlushInterval: ptrString("2m"),
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if got := cfg.GetSummaryFlushInterval(); got != 2*time.Minute {
		t.Errorf("GetSummaryFlushInterval() = %v, want 2m", got)
	}
}
