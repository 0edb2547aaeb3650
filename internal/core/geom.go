// Package core provides fundamental types and utilities for the flappy
// simulation and its terminal front end. It contains no external
// dependencies (especially no Bubble Tea) to keep game logic pure and testable.
package core

// Rect is an axis-aligned box in world space.
// X, Y is the top-left corner; Y grows downward.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Circle is a round footprint in world space.
type Circle struct {
	X, Y float64 // Center
	R    float64 // Radius
}

// Bounds returns the circle's bounding box.
func (c Circle) Bounds() Rect {
	return NewRect(c.X-c.R, c.Y-c.R, 2*c.R, 2*c.R)
}

// IntersectsRect reports whether the circle overlaps the rectangle, using the
// closest point on the rectangle to the circle's center.
// A circle exactly tangent to the rectangle (distance == radius) does not intersect.
func (c Circle) IntersectsRect(r Rect) bool {
	if r.Empty() {
		return false
	}
	nx := ClampF(c.X, r.X, r.Right())
	ny := ClampF(c.Y, r.Y, r.Bottom())
	dx := c.X - nx
	dy := c.Y - ny
	return dx*dx+dy*dy < c.R*c.R
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
