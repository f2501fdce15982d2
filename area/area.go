package area

import "github.com/Project-Cepi/Rayfast/geometry"

// Area is the interface that describes an arbitrary 3d volume that can be
// tested against a line.
type Area interface {
	// Returns the intersection between the line pos + t*dir and the area. The
	// boolean is false when there is none.
	Intersection(pos, dir geometry.Point) (geometry.Point, bool)
}

// Intersector is implemented by areas that can tell whether a line hits them
// faster than computing the intersection. Implementations must agree with
// Intersection.
type Intersector interface {
	Intersects(pos, dir geometry.Point) bool
}

// Intersects reports whether the line intersects the area.
func Intersects(a Area, pos, dir geometry.Point) bool {
	if i, ok := a.(Intersector); ok {
		return i.Intersects(pos, dir)
	}

	_, ok := a.Intersection(pos, dir)
	return ok
}

// Combined is an area made of other areas. The intersection is the one of the
// first area, in order, that is intersected.
type Combined struct {
	areas []Area
}

// Combine returns an area combining the given ones. A slice can be passed with
// Combine(areas...).
func Combine(areas ...Area) *Combined {
	return &Combined{
		areas: append([]Area(nil), areas...),
	}
}

func (c *Combined) Intersection(pos, dir geometry.Point) (geometry.Point, bool) {
	for _, a := range c.areas {
		if hit, ok := a.Intersection(pos, dir); ok {
			return hit, true
		}
	}
	return geometry.Point{}, false
}

func (c *Combined) Intersects(pos, dir geometry.Point) bool {
	for _, a := range c.areas {
		if Intersects(a, pos, dir) {
			return true
		}
	}
	return false
}

func (c *Combined) Areas() []Area {
	return append([]Area(nil), c.areas...)
}

func (c *Combined) Len() int {
	return len(c.areas)
}
