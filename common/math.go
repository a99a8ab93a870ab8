package common

import "math"

// Vec2 is a position or direction in tile units.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Dist2 returns the squared distance between v and o.
func (v Vec2) Dist2(o Vec2) float64 {
	dx := o.X - v.X
	dy := o.Y - v.Y
	return dx*dx + dy*dy
}

// Cell returns the grid cell containing v.
func (v Vec2) Cell() Cell {
	return Cell{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// FromAngle returns a unit vector pointing along angle (radians).
func FromAngle(angle float64) Vec2 {
	return Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Cell is an integer grid coordinate.
type Cell struct {
	X int
	Y int
}

// Center returns the world-space center of the cell.
func (c Cell) Center() Vec2 {
	return Vec2{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
}

// Add offsets the cell by dx, dy.
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of an int.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
