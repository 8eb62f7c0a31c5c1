// Package analysis derives named biomechanical measurements from pose
// frames: joint angles at anatomical vertices and lean angles against the
// vertical axis, plus per-session statistics over those measurements.
package analysis

import (
	"github.com/biomech-data/biomech.coach/internal/geom"
	"github.com/biomech-data/biomech.coach/internal/pose"
)

// JointSpec names an interior joint angle. The angle is computed at the
// Vertex landmark between the rays towards A and C, so the landmark order
// is anatomically significant and must not be shuffled.
type JointSpec struct {
	Name   string
	A      int // first ray endpoint landmark index
	Vertex int // landmark the angle is measured at
	C      int // second ray endpoint landmark index
}

// LeanSpec names a deviation-from-vertical measurement over a two-landmark
// segment.
type LeanSpec struct {
	Name   string
	Top    int
	Bottom int
}

// Joints is the catalogue of joint angles computed for every ingested
// frame. Names are stable identifiers used as measurement keys in the
// database and the API.
var Joints = []JointSpec{
	{Name: "left_knee", A: pose.LeftHip, Vertex: pose.LeftKnee, C: pose.LeftAnkle},
	{Name: "right_knee", A: pose.RightHip, Vertex: pose.RightKnee, C: pose.RightAnkle},
	{Name: "left_elbow", A: pose.LeftShoulder, Vertex: pose.LeftElbow, C: pose.LeftWrist},
	{Name: "right_elbow", A: pose.RightShoulder, Vertex: pose.RightElbow, C: pose.RightWrist},
	{Name: "left_hip", A: pose.LeftShoulder, Vertex: pose.LeftHip, C: pose.LeftKnee},
	{Name: "right_hip", A: pose.RightShoulder, Vertex: pose.RightHip, C: pose.RightKnee},
	{Name: "left_shoulder", A: pose.LeftElbow, Vertex: pose.LeftShoulder, C: pose.LeftHip},
	{Name: "right_shoulder", A: pose.RightElbow, Vertex: pose.RightShoulder, C: pose.RightHip},
}

// Leans is the catalogue of segment lean measurements.
var Leans = []LeanSpec{
	{Name: "left_shin_lean", Top: pose.LeftKnee, Bottom: pose.LeftAnkle},
	{Name: "right_shin_lean", Top: pose.RightKnee, Bottom: pose.RightAnkle},
}

// TrunkLean is the measurement key for the torso's deviation from vertical,
// measured from the shoulder midpoint to the hip midpoint.
const TrunkLean = "trunk_lean"

// keypointAt returns the keypoint at a landmark index when it exists and
// meets the confidence floor.
func keypointAt(f pose.Frame, idx int, minScore float64) (pose.Keypoint, bool) {
	if idx < 0 || idx >= len(f.Keypoints) {
		return pose.Keypoint{}, false
	}
	kp := f.Keypoints[idx]
	if kp.Score < minScore {
		return pose.Keypoint{}, false
	}
	return kp, true
}

// FrameMeasurements computes every catalogue measurement available in the
// frame, in degrees. A measurement is omitted from the result, rather than
// reported as zero, when any contributing keypoint is missing or below
// minScore, or when the joint geometry is degenerate.
func FrameMeasurements(f pose.Frame, minScore float64) map[string]float64 {
	out := make(map[string]float64, len(Joints)+len(Leans)+1)

	for _, j := range Joints {
		a, okA := keypointAt(f, j.A, minScore)
		b, okB := keypointAt(f, j.Vertex, minScore)
		c, okC := keypointAt(f, j.C, minScore)
		if !okA || !okB || !okC {
			continue
		}
		deg, ok := geom.AngleAtVertex(a.Point(), b.Point(), c.Point())
		if !ok {
			continue
		}
		out[j.Name] = deg
	}

	for _, l := range Leans {
		top, okT := keypointAt(f, l.Top, minScore)
		bottom, okB := keypointAt(f, l.Bottom, minScore)
		if !okT || !okB {
			continue
		}
		out[l.Name] = geom.AngleFromVertical(top.Point(), bottom.Point())
	}

	if lean, ok := trunkLean(f, minScore); ok {
		out[TrunkLean] = lean
	}

	return out
}

// trunkLean measures the shoulder-midpoint to hip-midpoint segment against
// the vertical. All four contributing keypoints must clear the confidence
// floor.
func trunkLean(f pose.Frame, minScore float64) (float64, bool) {
	ls, ok1 := keypointAt(f, pose.LeftShoulder, minScore)
	rs, ok2 := keypointAt(f, pose.RightShoulder, minScore)
	lh, ok3 := keypointAt(f, pose.LeftHip, minScore)
	rh, ok4 := keypointAt(f, pose.RightHip, minScore)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}

	shoulderMid := pose.Point2D{X: (ls.X + rs.X) / 2, Y: (ls.Y + rs.Y) / 2}
	hipMid := pose.Point2D{X: (lh.X + rh.X) / 2, Y: (lh.Y + rh.Y) / 2}
	return geom.AngleFromVertical(shoulderMid, hipMid), true
}
