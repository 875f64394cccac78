// Package math provides the small vector types shared by the bound codecs.
package math

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// XZ returns the XZ components as Vec2.
// Bound files keep Y as the up axis, so this is the ground-plane projection.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}

// Bounds returns the component-wise minimum and maximum of points.
// Returns zero vectors for an empty slice.
func Bounds(points []Vec3) (lo, hi Vec3) {
	if len(points) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}
