package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Sub(t *testing.T) {
	got := Vec2{5, 1}.Sub(Vec2{2, 3})
	want := Vec2{3, -2}
	if got != want {
		t.Errorf("Vec2.Sub() = %v, want %v", got, want)
	}
}

func TestVec2Cross(t *testing.T) {
	x := Vec2{1, 0}
	y := Vec2{0, 1}
	if got := x.Cross(y); got != 1 {
		t.Errorf("Vec2.Cross() = %v, want 1", got)
	}
	if got := y.Cross(x); got != -1 {
		t.Errorf("Vec2.Cross() = %v, want -1", got)
	}
}

func TestVec3XZ(t *testing.T) {
	v := Vec3{1, 2, 3}
	want := Vec2{1, 3}
	if got := v.XZ(); got != want {
		t.Errorf("Vec3.XZ() = %v, want %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	points := []Vec3{
		{1, -2, 3},
		{-4, 5, 0},
		{2, 1, -6},
	}
	lo, hi := Bounds(points)
	if lo != (Vec3{-4, -2, -6}) {
		t.Errorf("Bounds() min = %v, want (-4,-2,-6)", lo)
	}
	if hi != (Vec3{2, 5, 3}) {
		t.Errorf("Bounds() max = %v, want (2,5,3)", hi)
	}

	lo, hi = Bounds(nil)
	if lo != (Vec3{}) || hi != (Vec3{}) {
		t.Errorf("Bounds(nil) = %v, %v, want zero vectors", lo, hi)
	}
}
