// Package geom implements the coordinate transforms and planar angle
// computations at the core of the pose pipeline. All functions are pure:
// they read their arguments, allocate a fresh result, and hold no state,
// so they are safe to call from any number of goroutines.
package geom

import (
	"errors"
	"fmt"

	"github.com/biomech-data/biomech.coach/internal/pose"
)

// ErrInvalidDimension is returned when a (de)normalization is asked to
// divide or multiply by a non-positive frame dimension.
var ErrInvalidDimension = errors.New("frame dimension must be positive")

// MirrorX reflects an X coordinate about the frame's vertical midline:
// mirrored = frameWidth - x. Inputs outside [0, frameWidth] are accepted
// and produce outside-range outputs; mirroring is a reflection, not a
// clamp. Applying MirrorX twice restores the original value and the
// midline frameWidth/2 is a fixed point.
func MirrorX(x float64, frameWidth int) float64 {
	return float64(frameWidth) - x
}

// MirrorFrame returns a new frame with every keypoint's X mirrored about
// the vertical midline. Timestamp, validity, keypoint order, names, scores
// and Y coordinates are copied unchanged; the input frame is never mutated.
//
// Left/right-named keypoints are NOT relabelled. After mirroring, the
// keypoint named "left_shoulder" is still the subject's left shoulder;
// only its geometry has been reflected.
func MirrorFrame(f pose.Frame, frameWidth int) pose.Frame {
	out := f.Clone()
	for i := range out.Keypoints {
		out.Keypoints[i].X = MirrorX(out.Keypoints[i].X, frameWidth)
	}
	return out
}

// Normalize converts a pixel coordinate into the [0,1] range as a fraction
// of the given frame dimension. A non-positive dimension is a precondition
// violation and returns ErrInvalidDimension rather than a silent Inf/NaN.
func Normalize(pixel float64, dimension int) (float64, error) {
	if dimension <= 0 {
		return 0, fmt.Errorf("normalize: %w (got %d)", ErrInvalidDimension, dimension)
	}
	return pixel / float64(dimension), nil
}

// Denormalize converts a normalized coordinate back to pixel space.
// Denormalize(Normalize(p, d), d) == p within 1e-3 for any d > 0.
func Denormalize(normalized float64, dimension int) (float64, error) {
	if dimension <= 0 {
		return 0, fmt.Errorf("denormalize: %w (got %d)", ErrInvalidDimension, dimension)
	}
	return normalized * float64(dimension), nil
}

// NormalizeFrame returns a new frame with all keypoint coordinates
// expressed as fractions of the given dimensions.
func NormalizeFrame(f pose.Frame, dims pose.Dimensions) (pose.Frame, error) {
	out := f.Clone()
	for i := range out.Keypoints {
		x, err := Normalize(out.Keypoints[i].X, dims.Width)
		if err != nil {
			return pose.Frame{}, err
		}
		y, err := Normalize(out.Keypoints[i].Y, dims.Height)
		if err != nil {
			return pose.Frame{}, err
		}
		out.Keypoints[i].X = x
		out.Keypoints[i].Y = y
	}
	return out, nil
}

// DenormalizeFrame returns a new frame with all keypoint coordinates
// converted from normalized space back to pixels.
func DenormalizeFrame(f pose.Frame, dims pose.Dimensions) (pose.Frame, error) {
	out := f.Clone()
	for i := range out.Keypoints {
		x, err := Denormalize(out.Keypoints[i].X, dims.Width)
		if err != nil {
			return pose.Frame{}, err
		}
		y, err := Denormalize(out.Keypoints[i].Y, dims.Height)
		if err != nil {
			return pose.Frame{}, err
		}
		out.Keypoints[i].X = x
		out.Keypoints[i].Y = y
	}
	return out, nil
}
