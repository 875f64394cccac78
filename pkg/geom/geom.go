// Package geom provides the 2D tests used to bucket polygons into terrain
// cells: point in polygon, segment intersection and axis-aligned boxes.
package geom

import (
	gomath "math"

	"github.com/Faultbox/bndtool/pkg/math"
)

// ParallelTolerance is the smallest |determinant| treated as a real
// crossing by SegmentsIntersect. Anything smaller counts as parallel.
const ParallelTolerance = 0.001

// PointInPolygon reports whether p lies inside the polygon using an even-odd
// ray cast towards +X.
//
// Edges are half-open in Y: an edge counts when exactly one endpoint lies
// strictly above p. A point on a left or bottom edge is therefore inside and
// a point on a right or top edge is outside, so two polygons sharing an edge
// never both claim a point on it.
func PointInPolygon(p math.Vec2, vertices []math.Vec2) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := vertices[i], vertices[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SegmentsIntersect reports whether the open segments ab and cd cross.
// Shared endpoints do not count, and near-parallel pairs (including
// zero-length segments) report false.
func SegmentsIntersect(a, b, c, d math.Vec2) bool {
	r := b.Sub(a)
	s := d.Sub(c)
	det := r.Cross(s)
	if gomath.Abs(float64(det)) < ParallelTolerance {
		return false
	}

	ac := c.Sub(a)
	t := ac.Cross(s) / det
	u := ac.Cross(r) / det
	return t > 0 && t < 1 && u > 0 && u < 1
}

// AABBOverlap reports whether two boxes overlap. Touching boxes overlap.
func AABBOverlap(minA, maxA, minB, maxB math.Vec2) bool {
	return minA.X <= maxB.X && maxA.X >= minB.X &&
		minA.Y <= maxB.Y && maxA.Y >= minB.Y
}

// PointInAABB reports whether p lies in the box, boundary included.
func PointInAABB(lo, hi, p math.Vec2) bool {
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}
