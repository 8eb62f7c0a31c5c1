// Package pose defines the shared pose-frame data model consumed by the
// transform and analysis layers. Frames are produced upstream by a body-pose
// estimator and are treated as read-only here: every transform constructs a
// fresh output frame.
package pose

// Keypoint is a single detected anatomical landmark in a frame.
// X and Y are pixel coordinates unless the whole frame has been explicitly
// normalized; Score is the detector confidence in [0,1].
//
// The JSON field names are part of the agreed wire shape shared with the
// upstream estimator and downstream consumers. Do not rename them.
type Keypoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score"`
}

// Frame is one captured pose sample. Keypoints are in a fixed canonical
// order that is stable across all frames of a session, so index i always
// denotes the same anatomical landmark.
type Frame struct {
	Timestamp float64    `json:"timestamp"`
	IsValid   bool       `json:"isValid"`
	Keypoints []Keypoint `json:"keypoints"`
}

// Dimensions carries the pixel bounds of the image a frame was captured
// from. It is required context for mirroring and normalization and is
// always passed alongside a frame, never stored on it.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point2D is a bare coordinate pair. The angle engine operates on points
// extracted from keypoints by the caller; both points of a pair (or all
// three of a triple) must be in the same coordinate space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point returns the keypoint position as a Point2D.
func (k Keypoint) Point() Point2D {
	return Point2D{X: k.X, Y: k.Y}
}

// Clone returns a deep copy of the frame. Mutating the copy never affects
// the original.
func (f Frame) Clone() Frame {
	out := Frame{
		Timestamp: f.Timestamp,
		IsValid:   f.IsValid,
		Keypoints: make([]Keypoint, len(f.Keypoints)),
	}
	copy(out.Keypoints, f.Keypoints)
	return out
}

// KeypointByName returns the first keypoint with the given landmark name.
// The second return is false when the frame does not contain it.
func (f Frame) KeypointByName(name string) (Keypoint, bool) {
	for _, kp := range f.Keypoints {
		if kp.Name == name {
			return kp, true
		}
	}
	return Keypoint{}, false
}
