package geom

import "github.com/Faultbox/bndtool/pkg/math"

// Segment is a 2D line segment.
type Segment struct {
	A, B math.Vec2
}

// Degenerate reports whether both endpoints coincide.
func (s Segment) Degenerate() bool {
	return s.A == s.B
}

// Intersects reports whether s and other cross (see SegmentsIntersect).
func (s Segment) Intersects(other Segment) bool {
	return SegmentsIntersect(s.A, s.B, other.A, other.B)
}

// Rect is an axis-aligned 2D box.
type Rect struct {
	Min, Max math.Vec2
}

// BoundsOf returns the smallest Rect containing all points.
func BoundsOf(points []math.Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min = r.Min.Min(p)
		r.Max = r.Max.Max(p)
	}
	return r
}

// Inflate grows the box by d on every side.
func (r Rect) Inflate(d float32) Rect {
	return Rect{
		Min: math.Vec2{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: math.Vec2{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Overlaps reports whether r and other overlap, boundaries included.
func (r Rect) Overlaps(other Rect) bool {
	return AABBOverlap(r.Min, r.Max, other.Min, other.Max)
}

// Contains reports whether p lies in r, boundaries included.
func (r Rect) Contains(p math.Vec2) bool {
	return PointInAABB(r.Min, r.Max, p)
}

// Corners returns the four corners counter-clockwise from Min.
func (r Rect) Corners() [4]math.Vec2 {
	return [4]math.Vec2{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Edges returns the four boundary edges in corner order.
func (r Rect) Edges() [4]Segment {
	c := r.Corners()
	return [4]Segment{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
}
