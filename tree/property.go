// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"log/slog"
	"maps"
	"slices"

	"cogentcore.org/datamodel/serial"
)

// Property is the storage slot of one field on one node. The concrete
// types are [ScalarProperty], [ArrayProperty], [MapProperty],
// [NodeProperty], [NodeArrayProperty] and [NodeMapProperty];
// no other types implement it.
//
// Values are only changed through the Set method of the concrete type,
// which is a no-op for an equal value and otherwise marks the node as
// changed and raises its change events.
type Property interface {

	// Field returns the field descriptor of the property.
	Field() *Field

	// Any returns a copy of the current value.
	Any() any

	// Reset sets the property back to its default value through Set.
	Reset(n *Node)

	// Serialize writes the value of the property of n.
	Serialize(n *Node, s serial.Serializer)

	// Deserialize reads the value of the property of n. On a mismatch
	// it logs a warning and keeps the previous value.
	Deserialize(n *Node, d serial.Deserializer)

	isProperty()
}

// nodeHolder is implemented by the node shaped properties.
type nodeHolder interface {
	nodes() []*Node
}

// Keyed is implemented by the keyed properties.
type Keyed interface {
	Property

	// Keys returns the keys in sorted order.
	Keys() []string

	// Has returns whether there is a value with the given key.
	Has(key string) bool
}

// mismatch reports a value of the stream that can't be read into field f of n.
func mismatch(n *Node, f *Field) {
	slog.Warn("tree: can't deserialize field", "class", n.class.Name, "field", f.Name, "type", f.Type, "shape", f.Shape, "path", n.Path())
}

// ScalarProperty holds one value of a scalar [Type].
type ScalarProperty[T comparable] struct {
	field *Field
	typ   Type[T]
	value T
}

func (p *ScalarProperty[T]) isProperty()   {}
func (p *ScalarProperty[T]) Field() *Field { return p.field }
func (p *ScalarProperty[T]) Any() any      { return p.value }

// Get returns the value.
func (p *ScalarProperty[T]) Get() T { return p.value }

// Set sets the value of the property of n.
func (p *ScalarProperty[T]) Set(n *Node, v T) {
	if p.typ.Equal(p.value, v) {
		return
	}
	p.value = v
	n.propertyChanged(p.field)
}

func (p *ScalarProperty[T]) Reset(n *Node) { p.Set(n, p.typ.Default()) }

func (p *ScalarProperty[T]) Serialize(n *Node, s serial.Serializer) {
	p.typ.Write(s, p.value)
}

func (p *ScalarProperty[T]) Deserialize(n *Node, d serial.Deserializer) {
	v, ok := p.typ.Read(d, p.value)
	if !ok {
		mismatch(n, p.field)
		return
	}
	p.Set(n, v)
}

// ArrayProperty holds a sequence of values of a scalar [Type].
type ArrayProperty[T comparable] struct {
	field  *Field
	typ    Type[T]
	values []T
}

func (p *ArrayProperty[T]) isProperty()   {}
func (p *ArrayProperty[T]) Field() *Field { return p.field }
func (p *ArrayProperty[T]) Any() any      { return p.Get() }

// Get returns a copy of the values.
func (p *ArrayProperty[T]) Get() []T { return slices.Clone(p.values) }

// Len returns the number of values.
func (p *ArrayProperty[T]) Len() int { return len(p.values) }

// At returns the value at the given index.
func (p *ArrayProperty[T]) At(i int) T { return p.values[i] }

// Set sets the values of the property of n. The slice is copied.
func (p *ArrayProperty[T]) Set(n *Node, vs []T) {
	if slices.EqualFunc(p.values, vs, p.typ.Equal) {
		return
	}
	p.values = slices.Clone(vs)
	n.propertyChanged(p.field)
}

func (p *ArrayProperty[T]) Reset(n *Node) { p.Set(n, nil) }

func (p *ArrayProperty[T]) Serialize(n *Node, s serial.Serializer) {
	s.WriteArray()
	for _, v := range p.values {
		p.typ.Write(s, v)
	}
	s.PopArray()
}

// Deserialize reads the array, seeding each element with the previous
// value at the same index. Previous values beyond the new length are dropped.
func (p *ArrayProperty[T]) Deserialize(n *Node, d serial.Deserializer) {
	if !d.ReadArray() {
		mismatch(n, p.field)
		return
	}
	var vs []T
	for d.ReadIndex() {
		seed := p.typ.Default()
		if i := len(vs); i < len(p.values) {
			seed = p.values[i]
		}
		v, ok := p.typ.Read(d, seed)
		if !ok {
			mismatch(n, p.field)
			v = seed
		}
		vs = append(vs, v)
		d.PopIndex()
	}
	d.PopArray()
	p.Set(n, vs)
}

// MapProperty holds string keyed values of a scalar [Type],
// kept in sorted key order.
type MapProperty[T comparable] struct {
	field  *Field
	typ    Type[T]
	keys   []string
	values map[string]T
}

func (p *MapProperty[T]) isProperty()   {}
func (p *MapProperty[T]) Field() *Field { return p.field }
func (p *MapProperty[T]) Any() any      { return p.Get() }

// Get returns a copy of the values.
func (p *MapProperty[T]) Get() map[string]T { return maps.Clone(p.values) }

func (p *MapProperty[T]) Keys() []string { return slices.Clone(p.keys) }

func (p *MapProperty[T]) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Value returns the value with the given key.
func (p *MapProperty[T]) Value(key string) (T, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set sets the values of the property of n. The map is copied.
// Maps with the same entries are equal regardless of order.
func (p *MapProperty[T]) Set(n *Node, vs map[string]T) {
	if maps.EqualFunc(p.values, vs, p.typ.Equal) {
		return
	}
	p.values = maps.Clone(vs)
	if p.values == nil {
		p.values = map[string]T{}
	}
	p.keys = slices.Sorted(maps.Keys(p.values))
	n.propertyChanged(p.field)
}

func (p *MapProperty[T]) Reset(n *Node) { p.Set(n, nil) }

func (p *MapProperty[T]) Serialize(n *Node, s serial.Serializer) {
	s.WriteObject()
	for _, k := range p.keys {
		s.WriteKey(k)
		p.typ.Write(s, p.values[k])
		s.PopKey(k)
	}
	s.PopObject()
}

// Deserialize replaces the map with the keys in the stream, each seeded
// with the previous value under the same key.
func (p *MapProperty[T]) Deserialize(n *Node, d serial.Deserializer) {
	if !d.ReadObject() {
		mismatch(n, p.field)
		return
	}
	vs := map[string]T{}
	var key string
	for d.ReadKey(&key) {
		seed, has := p.values[key]
		if !has {
			seed = p.typ.Default()
		}
		v, ok := p.typ.Read(d, seed)
		if !ok {
			mismatch(n, p.field)
			v = seed
		}
		if ok || has {
			vs[key] = v
		}
		d.PopKey(key)
	}
	d.PopObject()
	p.Set(n, vs)
}
