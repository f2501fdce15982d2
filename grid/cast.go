// Package grid walks the cells of a regular 3d grid crossed by a ray.
package grid

import (
	"iter"
	"math"

	"github.com/Project-Cepi/Rayfast/geometry"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeInvalidArgument = "invalid_argument"

	DefaultCellSize  = 1.0
	DefaultMaxLength = math.MaxFloat64
)

// Emitter turns the position reached after a step into the value returned by
// the iterator.
type Emitter func(pos geometry.Point, cellSize float64) geometry.Point

// Snapped emits the corner of the cell that was reached.
func Snapped(pos geometry.Point, cellSize float64) geometry.Point {
	return geometry.Point{
		pos[0] - math.Mod(pos[0], cellSize),
		pos[1] - math.Mod(pos[1], cellSize),
		pos[2] - math.Mod(pos[2], cellSize),
	}
}

// Exact emits the position where the cell boundary was crossed.
func Exact(pos geometry.Point, cellSize float64) geometry.Point {
	return pos
}

// Option configures an iterator.
type Option func(*Iterator)

// WithCellSize sets the size of a grid cell. Defaults to 1.
func WithCellSize(v float64) Option {
	return func(it *Iterator) {
		it.cellSize = v
	}
}

// WithMaxLength sets the length after which the iterator stops. Defaults to
// math.MaxFloat64.
func WithMaxLength(v float64) Option {
	return func(it *Iterator) {
		it.maxLength = v
	}
}

// WithExactPositions makes the iterator return the crossing positions instead
// of the cells.
func WithExactPositions() Option {
	return WithEmitter(Exact)
}

func WithEmitter(e Emitter) Option {
	return func(it *Iterator) {
		it.emit = e
	}
}

// Iterator lazily steps along a ray from one grid boundary crossing to the
// next until the traveled length reaches the max length.
//
// An Iterator must not be advanced concurrently.
type Iterator struct {
	pos       geometry.Point
	dir       geometry.Point
	cellSize  float64
	maxLength float64
	traveled  float64
	emit      Emitter
}

// NewIterator creates an iterator starting at start and going toward dir.
//
// A zero direction component means the ray never crosses a boundary on that
// axis. A zero direction, non finite coordinates or a non positive cell size
// return an error.
func NewIterator(start, dir geometry.Point, options ...Option) (*Iterator, error) {
	it := &Iterator{
		pos:       start,
		dir:       dir,
		cellSize:  DefaultCellSize,
		maxLength: DefaultMaxLength,
		emit:      Snapped,
	}

	for _, o := range options {
		o(it)
	}

	if !start.IsFinite() {
		return nil, errors.New("start position is not finite").
			WithType(ErrTypeInvalidArgument).
			WithTag("start", start)
	}
	if !dir.IsFinite() || dir.IsZero() {
		return nil, errors.New("invalid direction").
			WithType(ErrTypeInvalidArgument).
			WithTag("direction", dir)
	}
	if !(it.cellSize > 0) || math.IsInf(it.cellSize, 0) {
		return nil, errors.New("cell size must be positive").
			WithType(ErrTypeInvalidArgument).
			WithTag("cell_size", it.cellSize)
	}
	if math.IsNaN(it.maxLength) {
		return nil, errors.New("max length is not a number").
			WithType(ErrTypeInvalidArgument)
	}
	if it.emit == nil {
		return nil, errors.New("nil emitter").
			WithType(ErrTypeInvalidArgument)
	}

	return it, nil
}

// Cells returns an iterator over the cells crossed by the ray.
func Cells(start, dir geometry.Point, cellSize, maxLength float64) (*Iterator, error) {
	return NewIterator(start, dir,
		WithCellSize(cellSize),
		WithMaxLength(maxLength),
	)
}

// ExactCells returns an iterator over the positions where the ray crosses cell
// boundaries.
func ExactCells(start, dir geometry.Point, cellSize, maxLength float64) (*Iterator, error) {
	return NewIterator(start, dir,
		WithCellSize(cellSize),
		WithMaxLength(maxLength),
		WithExactPositions(),
	)
}

func (it *Iterator) HasNext() bool {
	return it.traveled < it.maxLength
}

// Next steps to the next cell boundary and returns the emitted position.
//
// Next does not check HasNext: stepping past the max length keeps going.
func (it *Iterator) Next() geometry.Point {
	step := math.Inf(1)
	for i := range it.pos {
		// Division by a zero component gives +Inf.
		length := (it.cellSize - math.Mod(math.Abs(it.pos[i]), it.cellSize)) / math.Abs(it.dir[i])
		step = math.Min(step, length)
	}

	it.pos = it.pos.Add(it.dir.Mul(step))
	it.traveled += step
	return it.emit(it.pos, it.cellSize)
}

// Traveled returns the sum of the step lengths so far.
func (it *Iterator) Traveled() float64 {
	return it.traveled
}

// Position returns the unsnapped position reached by the last step.
func (it *Iterator) Position() geometry.Point {
	return it.pos
}

// All returns a sequence that consumes the iterator.
func (it *Iterator) All() iter.Seq[geometry.Point] {
	return func(yield func(geometry.Point) bool) {
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}
