package area

import (
	"testing"

	"github.com/Project-Cepi/Rayfast/geometry"
	"github.com/stretchr/testify/require"
)

type countingArea struct {
	Area
	calls int
}

func (a *countingArea) Intersection(pos, dir geometry.Point) (geometry.Point, bool) {
	a.calls++
	return a.Area.Intersection(pos, dir)
}

type overridingArea struct {
	countingArea
	intersectsCalls int
}

func (a *overridingArea) Intersects(pos, dir geometry.Point) bool {
	a.intersectsCalls++
	_, ok := a.Area.Intersection(pos, dir)
	return ok
}

func TestIntersects(t *testing.T) {
	box := RectangularPrism{Min: geometry.Point{0, 0, 0}, Max: geometry.Point{2, 2, 2}}

	t.Run("derived from the intersection", func(t *testing.T) {
		a := &countingArea{Area: box}
		require.True(t, Intersects(a, geometry.Point{1, 1, -5}, geometry.Point{0, 0, 1}))
		require.False(t, Intersects(a, geometry.Point{5, 5, -5}, geometry.Point{0, 0, 1}))
		require.Equal(t, 2, a.calls)
	})

	t.Run("override is used", func(t *testing.T) {
		a := &overridingArea{countingArea: countingArea{Area: box}}
		require.True(t, Intersects(a, geometry.Point{1, 1, -5}, geometry.Point{0, 0, 1}))
		require.Equal(t, 1, a.intersectsCalls)
		require.Zero(t, a.calls)
	})
}

func TestCombined(t *testing.T) {
	pos := geometry.Point{11, 1, -5}
	dir := geometry.Point{0, 0, 1}

	boxA := RectangularPrism{Min: geometry.Point{0, 0, 0}, Max: geometry.Point{2, 2, 2}}
	boxB := RectangularPrism{Min: geometry.Point{10, 0, 0}, Max: geometry.Point{12, 2, 2}}
	boxC := RectangularPrism{Min: geometry.Point{20, 0, 0}, Max: geometry.Point{22, 2, 2}}

	t.Run("single intersecting area at any position", func(t *testing.T) {
		orders := [][]Area{
			{boxB, boxA, boxC},
			{boxA, boxB, boxC},
			{boxA, boxC, boxB},
		}

		for _, areas := range orders {
			hit, ok := Combine(areas...).Intersection(pos, dir)
			require.True(t, ok)
			require.Equal(t, geometry.Point{11, 1, 0}, hit)
		}
	})

	t.Run("no intersecting area", func(t *testing.T) {
		c := Combine(boxA, boxC)
		_, ok := c.Intersection(pos, dir)
		require.False(t, ok)
		require.False(t, Intersects(c, pos, dir))
	})

	t.Run("empty", func(t *testing.T) {
		c := Combine()
		require.Zero(t, c.Len())
		_, ok := c.Intersection(pos, dir)
		require.False(t, ok)
	})

	t.Run("first of overlapping areas wins", func(t *testing.T) {
		near := RectangularPrism{Min: geometry.Point{0, 0, 0}, Max: geometry.Point{2, 2, 2}}
		far := RectangularPrism{Min: geometry.Point{0, 0, 1}, Max: geometry.Point{2, 2, 3}}
		pos := geometry.Point{1, 1, -5}

		hit, ok := Combine(near, far).Intersection(pos, dir)
		require.True(t, ok)
		require.Equal(t, geometry.Point{1, 1, 0}, hit)

		hit, ok = Combine(far, near).Intersection(pos, dir)
		require.True(t, ok)
		require.Equal(t, geometry.Point{1, 1, 1}, hit)
	})

	t.Run("areas after a match are not evaluated", func(t *testing.T) {
		first := &countingArea{Area: boxB}
		second := &countingArea{Area: boxB}

		c := Combine(first, second)
		_, ok := c.Intersection(pos, dir)
		require.True(t, ok)
		require.True(t, Intersects(c, pos, dir))
		require.Equal(t, 2, first.calls)
		require.Zero(t, second.calls)
	})

	t.Run("areas are copied", func(t *testing.T) {
		areas := []Area{boxA}
		c := Combine(areas...)
		areas[0] = boxB

		_, ok := c.Intersection(pos, dir)
		require.False(t, ok)
		require.Equal(t, []Area{boxA}, c.Areas())
	})
}
