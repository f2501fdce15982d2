package models

import (
	"sort"
	"sync"

	"github.com/Project-Cepi/Rayfast/area"
	"github.com/Project-Cepi/Rayfast/geometry"
)

// Entity is an object that moves while its bounding box keeps the same size.
type Entity struct {
	ID uint32

	// Half of the bounding box width, height and depth.
	HalfExtents geometry.Point

	mutex    sync.RWMutex
	position geometry.Point
}

func NewEntity(id uint32, width, height, depth float64) *Entity {
	return &Entity{
		ID:          id,
		HalfExtents: geometry.Point{width / 2, height / 2, depth / 2},
	}
}

func (e *Entity) SetPosition(v geometry.Point) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.position = v
}

func (e *Entity) Position() geometry.Point {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.position
}

// BoundingBox returns the box around the entity. Its corners follow the
// entity position.
func (e *Entity) BoundingBox() BoundingBox {
	return BoundingBox{entity: e}
}

// Area returns the entity bounding box as an area.
func (e *Entity) Area() area.Area {
	return area.BoxArea(e.BoundingBox())
}

type BoundingBox struct {
	entity *Entity
}

func (b BoundingBox) Min() geometry.Point {
	return b.entity.Position().Sub(b.entity.HalfExtents)
}

func (b BoundingBox) Max() geometry.Point {
	return b.entity.Position().Add(b.entity.HalfExtents)
}

// RegisterConverters registers the conversion of entities, and of any type
// embedding an entity, to areas.
func RegisterConverters(c *area.Converter[area.Area]) {
	area.Register(c, func(e *Entity) area.Area {
		return e.Area()
	})
}

// EntityStore is a store that keeps track of entities.
type EntityStore struct {
	ids      SequentialIDGenerator
	mutex    sync.RWMutex
	entities map[uint32]*Entity
}

// Add creates an entity with the given bounding box size at the given
// position.
func (s *EntityStore) Add(width, height, depth float64, position geometry.Point) *Entity {
	e := NewEntity(s.ids.New(), width, height, depth)
	e.SetPosition(position)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.entities == nil {
		s.entities = make(map[uint32]*Entity)
	}
	s.entities[e.ID] = e
	return e
}

// Remove removes the entity with the given id. Its id can be given to a new
// entity.
func (s *EntityStore) Remove(id uint32) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.entities[id]; !ok {
		return false
	}

	delete(s.entities, id)
	s.ids.Reuse(id)
	return true
}

func (s *EntityStore) ByID(id uint32) (*Entity, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, ok := s.entities[id]
	return e, ok
}

// List returns the entities ordered by id.
func (s *EntityStore) List() []*Entity {
	s.mutex.RLock()
	entities := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		entities = append(entities, e)
	}
	s.mutex.RUnlock()

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})
	return entities
}

func (s *EntityStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.entities)
}

// Areas converts the entities, ordered by id, with the given converter.
func (s *EntityStore) Areas(c *area.Converter[area.Area]) ([]area.Area, error) {
	entities := s.List()

	areas := make([]area.Area, len(entities))
	for i, e := range entities {
		a, err := c.From(e)
		if err != nil {
			return nil, err
		}
		areas[i] = a
	}
	return areas, nil
}
