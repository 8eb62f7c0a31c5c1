package geom

import (
	"math"

	"github.com/biomech-data/biomech.coach/internal/pose"
)

const radToDeg = 180.0 / math.Pi

// AngleAtVertex computes the interior angle, in degrees [0,180], at vertex b
// formed by the rays b→a and b→c. The cosine argument is clamped to [-1,1]
// to guard against floating-point drift.
//
// When either ray has zero length (a or c coincides with b) the angle is
// undefined and ok is false. Callers that only need the legacy numeric
// contract can use AngleBetweenPoints.
func AngleAtVertex(a, b, c pose.Point2D) (deg float64, ok bool) {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	magBA := math.Hypot(bax, bay)
	magBC := math.Hypot(bcx, bcy)
	if magBA == 0 || magBC == 0 {
		return 0, false
	}

	cos := (bax*bcx + bay*bcy) / (magBA * magBC)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * radToDeg, true
}

// AngleBetweenPoints is the numeric form of AngleAtVertex: it returns 0 when
// the angle is undefined (zero-length ray) instead of reporting the
// degenerate case. A returned 0 from near-coincident points is a sentinel,
// not a geometric truth; callers that must distinguish "measured 0°" from
// "undefined" should use AngleAtVertex.
//
// The angle is always at the middle argument: AngleBetweenPoints(a, b, c)
// and AngleBetweenPoints(b, c, a) generally differ. Pass points in
// anatomical order, e.g. hip, knee, ankle for a knee angle.
func AngleBetweenPoints(a, b, c pose.Point2D) float64 {
	deg, ok := AngleAtVertex(a, b, c)
	if !ok {
		return 0
	}
	return deg
}

// AngleFromVertical measures how far the top→bottom segment deviates from
// the vertical axis, in degrees [0,90]: 0 is perfectly vertical, 90 is
// perfectly horizontal. The sign of the lean (left vs right) is discarded;
// only the magnitude is reported.
func AngleFromVertical(top, bottom pose.Point2D) float64 {
	dx := bottom.X - top.X
	dy := bottom.Y - top.Y

	if dy == 0 {
		return 90
	}
	return math.Atan(math.Abs(dx)/math.Abs(dy)) * radToDeg
}
