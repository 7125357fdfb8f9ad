package sprig

import "math"

// Stroke smoothing: raw pointer points become a Catmull-Rom curve sampled
// adaptively, with the subdivision count per segment derived from segment
// length over the minimum sample spacing. The curve interpolates its control
// points, so the first sample is always the first input point and the last
// sample the final input point — a drained stroke never drifts off the
// user's hand.

// smoothStroke samples a smoothed curve through pts. smoothing in [0, 1]
// scales the tangents (0 produces straight polyline segments); minSpacing is
// the densest sample distance in pixels and must be > 0.
func smoothStroke(pts []Point, smoothing, minSpacing float64) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := []Point{pts[0]}
	if len(pts) == 1 {
		return out
	}

	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[maxInt(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[minInt(i+2, len(pts)-1)]

		steps := int(math.Ceil(math.Hypot(p2.X-p1.X, p2.Y-p1.Y) / minSpacing))
		if steps < 1 {
			steps = 1
		}
		for s := 1; s <= steps; s++ {
			out = append(out, catmullRom(p0, p1, p2, p3, smoothing, float64(s)/float64(steps)))
		}
	}
	return out
}

// catmullRom evaluates a cubic Hermite segment from p1 to p2 at parameter u,
// with tangents derived from the neighbor points scaled by the smoothing
// factor. u=0 yields p1 exactly and u=1 yields p2 exactly.
func catmullRom(p0, p1, p2, p3 Point, smoothing, u float64) Point {
	k := smoothing * 0.5
	m1x := (p2.X - p0.X) * k
	m1y := (p2.Y - p0.Y) * k
	m2x := (p3.X - p1.X) * k
	m2y := (p3.Y - p1.Y) * k

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	return Point{
		X: h00*p1.X + h10*m1x + h01*p2.X + h11*m2x,
		Y: h00*p1.Y + h10*m1y + h01*p2.Y + h11*m2y,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
