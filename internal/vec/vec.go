// Package vec provides 2-D and 3-D vector values for model code.
//
// The types are mathgl's float64 vectors, so componentwise Add/Sub,
// scalar Mul, Dot, Len and Normalize come from mgl64. This package adds
// the conveniences the models need: polar constructors, a checked unit
// direction, and scalar division.
package vec

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrZeroVector is returned when a unit direction is requested for a
// vector of zero magnitude.
var ErrZeroVector = errors.New("vec: unit direction of zero vector")

type (
	Vec2 = mgl64.Vec2
	Vec3 = mgl64.Vec3
)

// New2 builds a 2-D vector from Cartesian components.
func New2(x, y float64) Vec2 { return Vec2{x, y} }

// New3 builds a 3-D vector from Cartesian components.
func New3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// FromPolar builds the 2-D vector with the given angle (radians,
// measured from the positive x axis) and magnitude.
func FromPolar(theta, r float64) Vec2 {
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// ToPolar returns the magnitude and angle of v. The angle follows the
// atan2 convention, in (-pi, pi].
func ToPolar(v Vec2) (r, theta float64) {
	return v.Len(), math.Atan2(v.Y(), v.X())
}

// Unit2 returns v scaled to unit length. A zero vector has no
// direction, so it reports ErrZeroVector instead of dividing by zero.
func Unit2(v Vec2) (Vec2, error) {
	n := v.Len()
	if n == 0 {
		return Vec2{}, ErrZeroVector
	}
	return v.Mul(1 / n), nil
}

// Unit3 is Unit2 for 3-D vectors.
func Unit3(v Vec3) (Vec3, error) {
	n := v.Len()
	if n == 0 {
		return Vec3{}, ErrZeroVector
	}
	return v.Mul(1 / n), nil
}

// Div2 divides every component of v by k.
func Div2(v Vec2, k float64) Vec2 { return v.Mul(1 / k) }

// Div3 divides every component of v by k.
func Div3(v Vec3, k float64) Vec3 { return v.Mul(1 / k) }
