package area

import (
	"reflect"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const (
	ErrTypeNoConverterRegistered = "no_converter_registered"
	ErrTypeNilAncestor           = "nil_ancestor"
)

// Converters is the converter used to turn application objects into areas.
var Converters = NewConverter[Area]()

// Converter converts objects to C using functions registered by type.
//
// When no function is registered for the exact type of an object, the
// converter looks at the ancestors of the type: the ancestor of a struct (or
// pointer to struct) is its first exported embedded struct field. Interfaces
// are never considered. A function found on an ancestor is cached for the
// original type.
//
// The zero value is ready to use. A Converter is safe for concurrent use.
type Converter[C any] struct {
	mutex   sync.RWMutex
	entries map[reflect.Type]converterEntry[C]
}

type converterEntry[C any] struct {
	convert func(reflect.Value) C

	// Embedded field indexes leading from the looked up type to the type the
	// function was registered for.
	path []int
}

func NewConverter[C any]() *Converter[C] {
	return &Converter[C]{
		entries: make(map[reflect.Type]converterEntry[C]),
	}
}

// Register registers fn as the conversion function for values of type T,
// replacing any previous one.
func Register[T, C any](c *Converter[C], fn func(T) C) {
	c.set(reflect.TypeFor[T](), converterEntry[C]{
		convert: func(v reflect.Value) C {
			return fn(v.Interface().(T))
		},
	})
}

// RegisterType registers fn as the conversion function for values of type t,
// replacing any previous one.
func RegisterType[C any](c *Converter[C], t reflect.Type, fn func(any) C) {
	c.set(t, converterEntry[C]{
		convert: func(v reflect.Value) C {
			return fn(v.Interface())
		},
	})
}

// From converts obj with the function registered for its type or for the
// closest ancestor of its type.
func (c *Converter[C]) From(obj any) (C, error) {
	var zero C

	if obj == nil {
		instrumentConverterLookup(lookupResultMiss)
		return zero, errors.New("no converter registered").
			WithType(ErrTypeNoConverterRegistered).
			WithTag("type", "nil")
	}

	v := reflect.ValueOf(obj)
	originalType := v.Type()

	if e, ok := c.get(originalType); ok {
		if len(e.path) == 0 {
			instrumentConverterLookup(lookupResultExact)
		} else {
			instrumentConverterLookup(lookupResultCached)
		}
		return e.apply(v, originalType)
	}

	visited := map[reflect.Type]struct{}{originalType: {}}
	var path []int

	for t := originalType; ; {
		parent, index, ok := ancestorType(t)
		if !ok {
			break
		}
		if _, ok := visited[parent]; ok {
			break
		}
		visited[parent] = struct{}{}
		path = append(path, index)
		t = parent

		e, ok := c.get(t)
		if !ok {
			continue
		}

		cached := converterEntry[C]{
			convert: e.convert,
			path:    append(append([]int(nil), path...), e.path...),
		}
		c.set(originalType, cached)

		instrumentConverterLookup(lookupResultAncestor)
		logs.WithTag("type", originalType.String()).
			WithTag("ancestor", t.String()).
			Debug("converter found on ancestor type")

		return cached.apply(v, originalType)
	}

	instrumentConverterLookup(lookupResultMiss)
	return zero, errors.New("no converter registered").
		WithType(ErrTypeNoConverterRegistered).
		WithTag("type", originalType.String())
}

func (c *Converter[C]) get(t reflect.Type) (converterEntry[C], bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.entries[t]
	return e, ok
}

func (c *Converter[C]) set(t reflect.Type, e converterEntry[C]) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.entries == nil {
		c.entries = make(map[reflect.Type]converterEntry[C])
	}
	c.entries[t] = e
}

func (e converterEntry[C]) apply(v reflect.Value, originalType reflect.Type) (C, error) {
	for _, index := range e.path {
		var ok bool
		if v, ok = ancestorValue(v, index); !ok {
			var zero C
			return zero, errors.New("ancestor value is nil").
				WithType(ErrTypeNilAncestor).
				WithTag("type", originalType.String()).
				WithTag("ancestor", v.Type().String())
		}
	}
	return e.convert(v), nil
}

// ancestorType returns the type of the first exported embedded struct field
// of t along with the field index. Embedded values of a pointer to struct are
// reached through their address.
func ancestorType(t reflect.Type) (reflect.Type, int, bool) {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, 0, false
	}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}

		switch {
		case f.Type.Kind() == reflect.Struct:
			if t.Kind() == reflect.Pointer {
				return reflect.PointerTo(f.Type), i, true
			}
			return f.Type, i, true

		case f.Type.Kind() == reflect.Pointer && f.Type.Elem().Kind() == reflect.Struct:
			return f.Type, i, true
		}
	}

	return nil, 0, false
}

func ancestorValue(v reflect.Value, index int) (reflect.Value, bool) {
	if v.Kind() != reflect.Pointer {
		return v.Field(index), true
	}
	if v.IsNil() {
		return v, false
	}

	f := v.Elem().Field(index)
	if f.Kind() == reflect.Struct {
		return f.Addr(), true
	}
	return f, true
}
