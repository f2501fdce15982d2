package area

import "github.com/Project-Cepi/Rayfast/geometry"

// Box is implemented by objects that expose the opposite corners of an axis
// aligned box. Corners are read on every intersection, so they can change over
// time.
type Box interface {
	Min() geometry.Point
	Max() geometry.Point
}

// RectangularPrism is a static axis aligned box.
type RectangularPrism struct {
	Min geometry.Point
	Max geometry.Point
}

func (p RectangularPrism) Intersection(pos, dir geometry.Point) (geometry.Point, bool) {
	return PrismIntersection(p.Min, p.Max, pos, dir)
}

// BoxArea returns an area backed by the live corners of b.
func BoxArea(b Box) Area {
	return boxArea{box: b}
}

type boxArea struct {
	box Box
}

func (a boxArea) Intersection(pos, dir geometry.Point) (geometry.Point, bool) {
	return PrismIntersection(a.box.Min(), a.box.Max(), pos, dir)
}

// Wrap returns an area whose corners are read from obj with the given getters
// on every intersection.
//
// Implementing Box directly on the object avoids the indirection.
func Wrap[T any](obj T, minGetter, maxGetter func(T) geometry.Point) Area {
	return &wrapper[T]{
		obj:       obj,
		minGetter: minGetter,
		maxGetter: maxGetter,
	}
}

type wrapper[T any] struct {
	obj       T
	minGetter func(T) geometry.Point
	maxGetter func(T) geometry.Point
}

func (w *wrapper[T]) Intersection(pos, dir geometry.Point) (geometry.Point, bool) {
	return PrismIntersection(w.minGetter(w.obj), w.maxGetter(w.obj), pos, dir)
}

// PrismIntersection returns the first forward intersection of the line with
// the faces of the box in the order front, back, left, right, top, bottom.
//
// The order wins over the distance: a line that could hit two faces returns
// the one that comes first.
func PrismIntersection(min, max, pos, dir geometry.Point) (geometry.Point, bool) {
	faces := [6]geometry.Quad{
		// front (min z)
		{
			Min:      geometry.Point{min[0], min[1], min[2]},
			Adjacent: geometry.Point{min[0], max[1], min[2]},
			Max:      geometry.Point{max[0], max[1], min[2]},
		},
		// back (max z)
		{
			Min:      geometry.Point{min[0], min[1], max[2]},
			Adjacent: geometry.Point{min[0], max[1], max[2]},
			Max:      geometry.Point{max[0], max[1], max[2]},
		},
		// left (min x)
		{
			Min:      geometry.Point{min[0], min[1], min[2]},
			Adjacent: geometry.Point{min[0], max[1], min[2]},
			Max:      geometry.Point{min[0], max[1], max[2]},
		},
		// right (max x)
		{
			Min:      geometry.Point{max[0], min[1], min[2]},
			Adjacent: geometry.Point{max[0], max[1], min[2]},
			Max:      geometry.Point{max[0], max[1], max[2]},
		},
		// top (max y)
		{
			Min:      geometry.Point{min[0], max[1], min[2]},
			Adjacent: geometry.Point{max[0], max[1], min[2]},
			Max:      geometry.Point{max[0], max[1], max[2]},
		},
		// bottom (min y)
		{
			Min:      geometry.Point{min[0], min[1], min[2]},
			Adjacent: geometry.Point{max[0], min[1], min[2]},
			Max:      geometry.Point{max[0], min[1], max[2]},
		},
	}

	for _, f := range faces {
		if hit, ok := f.ForwardIntersection(pos, dir); ok {
			return hit, true
		}
	}
	return geometry.Point{}, false
}
