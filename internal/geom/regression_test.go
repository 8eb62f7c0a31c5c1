package geom

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/biomech-data/biomech.coach/internal/pose"
)

// knownIssues mirrors testdata/known_issues.yaml: each case pins the
// behaviour that fixed a documented production bug.
type knownIssues struct {
	MirrorCases []struct {
		ID         string  `yaml:"id"`
		OriginalX  float64 `yaml:"original_x"`
		FrameWidth int     `yaml:"frame_width"`
		Expected   float64 `yaml:"expected"`
	} `yaml:"mirror_cases"`
	DoubleMirrorCases []struct {
		ID         string  `yaml:"id"`
		OriginalX  float64 `yaml:"original_x"`
		FrameWidth int     `yaml:"frame_width"`
	} `yaml:"double_mirror_cases"`
	AngleCases []struct {
		ID       string       `yaml:"id"`
		A        pose.Point2D `yaml:"a"`
		B        pose.Point2D `yaml:"b"`
		C        pose.Point2D `yaml:"c"`
		Expected float64      `yaml:"expected"`
	} `yaml:"angle_cases"`
	DegenerateAngleCases []struct {
		ID string       `yaml:"id"`
		A  pose.Point2D `yaml:"a"`
		B  pose.Point2D `yaml:"b"`
		C  pose.Point2D `yaml:"c"`
	} `yaml:"degenerate_angle_cases"`
	LeanCases []struct {
		ID       string       `yaml:"id"`
		Top      pose.Point2D `yaml:"top"`
		Bottom   pose.Point2D `yaml:"bottom"`
		Expected float64      `yaml:"expected"`
	} `yaml:"lean_cases"`
}

func loadKnownIssues(t *testing.T) knownIssues {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "known_issues.yaml"))
	if err != nil {
		t.Fatalf("read known issues: %v", err)
	}
	var issues knownIssues
	if err := yaml.Unmarshal(data, &issues); err != nil {
		t.Fatalf("parse known issues: %v", err)
	}
	return issues
}

func TestKnownIssueRegressions(t *testing.T) {
	issues := loadKnownIssues(t)

	for i, tc := range issues.MirrorCases {
		t.Run(fmt.Sprintf("%s/%d", tc.ID, i), func(t *testing.T) {
			got := MirrorX(tc.OriginalX, tc.FrameWidth)
			if math.Abs(got-tc.Expected) > tolerance {
				t.Errorf("MirrorX(%v, %d) = %v, want %v", tc.OriginalX, tc.FrameWidth, got, tc.Expected)
			}
		})
	}

	for i, tc := range issues.DoubleMirrorCases {
		t.Run(fmt.Sprintf("%s/%d", tc.ID, i), func(t *testing.T) {
			got := MirrorX(MirrorX(tc.OriginalX, tc.FrameWidth), tc.FrameWidth)
			if math.Abs(got-tc.OriginalX) > tolerance {
				t.Errorf("double mirror of %v = %v", tc.OriginalX, got)
			}
		})
	}

	for i, tc := range issues.AngleCases {
		t.Run(fmt.Sprintf("%s/%d", tc.ID, i), func(t *testing.T) {
			got := AngleBetweenPoints(tc.A, tc.B, tc.C)
			if math.IsNaN(got) {
				t.Fatalf("AngleBetweenPoints(%v, %v, %v) = NaN", tc.A, tc.B, tc.C)
			}
			if math.Abs(got-tc.Expected) > 0.1 {
				t.Errorf("AngleBetweenPoints(%v, %v, %v) = %v, want %v", tc.A, tc.B, tc.C, got, tc.Expected)
			}
		})
	}

	for i, tc := range issues.DegenerateAngleCases {
		t.Run(fmt.Sprintf("%s/%d", tc.ID, i), func(t *testing.T) {
			got := AngleBetweenPoints(tc.A, tc.B, tc.C)
			if got != 0 {
				t.Errorf("degenerate AngleBetweenPoints = %v, want 0 sentinel", got)
			}
			if _, ok := AngleAtVertex(tc.A, tc.B, tc.C); ok {
				t.Error("AngleAtVertex reported degenerate geometry as defined")
			}
		})
	}

	for i, tc := range issues.LeanCases {
		t.Run(fmt.Sprintf("%s/%d", tc.ID, i), func(t *testing.T) {
			got := AngleFromVertical(tc.Top, tc.Bottom)
			if math.Abs(got-tc.Expected) > tolerance {
				t.Errorf("AngleFromVertical(%v, %v) = %v, want %v", tc.Top, tc.Bottom, got, tc.Expected)
			}
		})
	}
}

// referencePose mirrors testdata/reference_pose_standing.json, a snapshot
// of a standing pose and its known-correct mirrored form.
type referencePose struct {
	FrameWidth       int        `json:"frame_width"`
	FrameHeight      int        `json:"frame_height"`
	Pose             pose.Frame `json:"pose"`
	ExpectedMirrored pose.Frame `json:"expected_mirrored"`
}

func TestMirrorFrameMatchesReference(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "reference_pose_standing.json"))
	if err != nil {
		t.Fatalf("read reference fixture: %v", err)
	}
	var ref referencePose
	if err := json.Unmarshal(data, &ref); err != nil {
		t.Fatalf("parse reference fixture: %v", err)
	}
	if len(ref.Pose.Keypoints) != pose.NumLandmarks {
		t.Fatalf("reference pose has %d keypoints, want %d", len(ref.Pose.Keypoints), pose.NumLandmarks)
	}

	got := MirrorFrame(ref.Pose, ref.FrameWidth)
	if diff := cmp.Diff(ref.ExpectedMirrored, got); diff != "" {
		t.Errorf("mirrored frame diverged from reference (-want +got):\n%s", diff)
	}

	restored := MirrorFrame(got, ref.FrameWidth)
	if diff := cmp.Diff(ref.Pose, restored); diff != "" {
		t.Errorf("double mirror diverged from original (-want +got):\n%s", diff)
	}
}
