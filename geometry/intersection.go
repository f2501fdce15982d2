package geometry

// Quad is a bounded region of a plane. Min-Adjacent and Min-Max are the two
// edge vectors spanning the plane.
//
// Bounds are only checked per axis, so a quad is expected to be an axis
// aligned rectangle.
type Quad struct {
	Min      Point
	Adjacent Point
	Max      Point
}

func NewQuad(min, adjacent, max Point) Quad {
	return Quad{
		Min:      min,
		Adjacent: adjacent,
		Max:      max,
	}
}

// Normal returns the (non normalized) plane normal of the quad.
func (q Quad) Normal() Point {
	return quadNormal(q.Min, q.Adjacent, q.Max)
}

// Valid reports whether Min and Max differ on at least two axes.
func (q Quad) Valid() bool {
	differing := 0
	for i := range q.Min {
		if q.Min[i] != q.Max[i] {
			differing++
		}
	}
	return differing >= 2
}

func (q Quad) Intersection(pos, dir Point) (Point, bool) {
	return QuadIntersection(pos, dir, q.Min, q.Adjacent, q.Max)
}

func (q Quad) ForwardIntersection(pos, dir Point) (Point, bool) {
	return ForwardQuadIntersection(pos, dir, q.Min, q.Adjacent, q.Max)
}

// PlaneLineIntersection returns where the line pos + t*dir meets the plane
// going through planePoint with the given normal.
//
// A line parallel to the plane produces infinite or NaN components.
func PlaneLineIntersection(pos, dir, planePoint, planeNormal Point) Point {
	t := (planeNormal.Dot(planePoint) - planeNormal.Dot(pos)) / planeNormal.Dot(dir)
	return pos.Add(dir.Mul(t))
}

// QuadIntersection returns the intersection of the line with the plane of the
// quad when the hit lies within the quad bounds on at least 2 of the axes
// where min and max differ. Axes where min == max are not checked.
func QuadIntersection(pos, dir, min, adjacent, max Point) (Point, bool) {
	hit := PlaneLineIntersection(pos, dir, min, quadNormal(min, adjacent, max))

	fits := 0
	for i := range hit {
		if min[i] != max[i] && IsBetweenUnordered(hit[i], min[i], max[i]) {
			fits++
		}
	}
	if fits < 2 {
		return Point{}, false
	}
	return hit, true
}

// ForwardQuadIntersection is QuadIntersection restricted to hits strictly in
// front of pos.
func ForwardQuadIntersection(pos, dir, min, adjacent, max Point) (Point, bool) {
	hit, ok := QuadIntersection(pos, dir, min, adjacent, max)
	if !ok {
		return Point{}, false
	}

	if dir.Dot(hit.Sub(pos)) <= 0 {
		return Point{}, false
	}
	return hit, true
}

// IntersectPlanes returns the unbounded plane intersection of the line with
// each of the quads, in order.
func IntersectPlanes(pos, dir Point, quads ...Quad) []Point {
	positions := make([]Point, len(quads))
	for i, q := range quads {
		positions[i] = PlaneLineIntersection(pos, dir, q.Min, q.Normal())
	}
	return positions
}

func IsBetween(v, min, max float64) bool {
	return v >= min && v <= max
}

func IsBetweenUnordered(v, a, b float64) bool {
	if a > b {
		return IsBetween(v, b, a)
	}
	return IsBetween(v, a, b)
}

func quadNormal(min, adjacent, max Point) Point {
	return min.Sub(adjacent).Cross(min.Sub(max))
}
