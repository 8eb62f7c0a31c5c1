package pose

import (
	"encoding/json"
	"testing"
)

func TestFrameWireShape(t *testing.T) {
	// The JSON field names are a fixed contract with the upstream estimator.
	f := Frame{
		Timestamp: 1000.0,
		IsValid:   true,
		Keypoints: []Keypoint{
			{Name: "nose", X: 320.0, Y: 100.0, Score: 0.95},
		},
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}

	want := `{"timestamp":1000,"isValid":true,"keypoints":[{"name":"nose","x":320,"y":100,"score":0.95}]}`
	if string(data) != want {
		t.Errorf("wire shape changed:\ngot  %s\nwant %s", data, want)
	}

	var back Frame
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if back.Timestamp != f.Timestamp || back.IsValid != f.IsValid {
		t.Errorf("round-trip mismatch: got %+v, want %+v", back, f)
	}
}

func TestFrameClone(t *testing.T) {
	f := Frame{
		Timestamp: 42.0,
		IsValid:   true,
		Keypoints: []Keypoint{
			{Name: "nose", X: 1.0, Y: 2.0, Score: 0.9},
			{Name: "left_shoulder", X: 3.0, Y: 4.0, Score: 0.8},
		},
	}

	c := f.Clone()
	c.Keypoints[0].X = 99.0

	if f.Keypoints[0].X != 1.0 {
		t.Errorf("mutating clone changed original: X = %v", f.Keypoints[0].X)
	}
	if len(c.Keypoints) != len(f.Keypoints) {
		t.Errorf("clone keypoint count = %d, want %d", len(c.Keypoints), len(f.Keypoints))
	}
}

func TestKeypointByName(t *testing.T) {
	f := Frame{
		Keypoints: []Keypoint{
			{Name: "nose", X: 1.0, Y: 2.0},
			{Name: "left_hip", X: 3.0, Y: 4.0},
		},
	}

	kp, ok := f.KeypointByName("left_hip")
	if !ok {
		t.Fatal("expected to find left_hip")
	}
	if kp.X != 3.0 || kp.Y != 4.0 {
		t.Errorf("KeypointByName(left_hip) = %+v", kp)
	}

	if _, ok := f.KeypointByName("right_knee"); ok {
		t.Error("found keypoint that is not in the frame")
	}
}
