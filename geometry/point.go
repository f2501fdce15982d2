package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point is a 3 component vector used both as a position and as a direction.
type Point mgl64.Vec3

func NewPoint(x, y, z float64) Point {
	return Point{x, y, z}
}

// GeneratePoint returns a point whose components are the results of three
// successive calls to fn.
func GeneratePoint(fn func() float64) Point {
	x := fn()
	y := fn()
	z := fn()
	return Point{x, y, z}
}

func (p Point) X() float64 {
	return p[0]
}

func (p Point) Y() float64 {
	return p[1]
}

func (p Point) Z() float64 {
	return p[2]
}

func (p Point) Vec() mgl64.Vec3 {
	return mgl64.Vec3(p)
}

func (p Point) Add(o Point) Point {
	return Point(mgl64.Vec3(p).Add(mgl64.Vec3(o)))
}

func (p Point) Sub(o Point) Point {
	return Point(mgl64.Vec3(p).Sub(mgl64.Vec3(o)))
}

func (p Point) Mul(s float64) Point {
	return Point(mgl64.Vec3(p).Mul(s))
}

func (p Point) Dot(o Point) float64 {
	return mgl64.Vec3(p).Dot(mgl64.Vec3(o))
}

func (p Point) Cross(o Point) Point {
	return Point(mgl64.Vec3(p).Cross(mgl64.Vec3(o)))
}

func (p Point) Length() float64 {
	return mgl64.Vec3(p).Len()
}

func (p Point) IsZero() bool {
	return p == Point{}
}

// IsFinite reports whether no component is NaN or infinite.
func (p Point) IsFinite() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Point) EqualWithEpsilon(o Point, epsilon float64) bool {
	return EqualWithEpsilon(p[0], o[0], epsilon) &&
		EqualWithEpsilon(p[1], o[1], epsilon) &&
		EqualWithEpsilon(p[2], o[2], epsilon)
}

func EqualWithEpsilon(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
