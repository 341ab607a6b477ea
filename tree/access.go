// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"
)

// Properties returns the properties of the node in field order.
func (n *Node) Properties() []Property { return slices.Clone(n.props) }

// NumProperties returns the number of properties of the node.
func (n *Node) NumProperties() int { return len(n.props) }

// LookupProperty returns the property for the field with the given name.
func (n *Node) LookupProperty(name string) (Property, bool) {
	f := n.class.Field(name)
	if f == nil {
		return nil, false
	}
	return n.props[f.Index], true
}

// Property returns the property for the field with the given name.
// It panics if the class has no such field.
func (n *Node) Property(name string) Property {
	p, ok := n.LookupProperty(name)
	if !ok {
		panic(fmt.Sprintf("tree.Node.Property: class %s has no field %q", n.class.Name, name))
	}
	return p
}

// PropertyAt returns the property for the field with the given index.
// It panics if the index is out of range.
func (n *Node) PropertyAt(index int) Property {
	if index < 0 || index >= len(n.props) {
		panic(fmt.Sprintf("tree.Node.PropertyAt: class %s has no field at index %d", n.class.Name, index))
	}
	return n.props[index]
}

// PropertyByHash returns the property for the field with the given
// name hash (see [HashName]). It panics if the class has no such field.
func (n *Node) PropertyByHash(hash uint32) Property {
	f := n.class.FieldByHash(hash)
	if f == nil {
		panic(fmt.Sprintf("tree.Node.PropertyByHash: class %s has no field with hash %#x", n.class.Name, hash))
	}
	return n.props[f.Index]
}

// as returns p as the property type P, panicking on a mismatch.
func as[P Property](op string, p Property) P {
	t, ok := p.(P)
	if !ok {
		var want P
		panic(fmt.Sprintf("tree.%s: field %v is a %s of %s, not %T", op, p.Field(), p.Field().Shape, p.Field().Type, want))
	}
	return t
}

// Get returns the value of the scalar field with the given name.
// It panics if there is no such field or it is not a scalar of T.
func Get[T comparable](n *Node, name string) T {
	return as[*ScalarProperty[T]]("Get", n.Property(name)).Get()
}

// Set sets the value of the scalar field with the given name.
// It panics if there is no such field or it is not a scalar of T.
func Set[T comparable](n *Node, name string, v T) {
	as[*ScalarProperty[T]]("Set", n.Property(name)).Set(n, v)
}

// GetByHash is like [Get] with a field name hash.
func GetByHash[T comparable](n *Node, hash uint32) T {
	return as[*ScalarProperty[T]]("GetByHash", n.PropertyByHash(hash)).Get()
}

// SetByHash is like [Set] with a field name hash.
func SetByHash[T comparable](n *Node, hash uint32, v T) {
	as[*ScalarProperty[T]]("SetByHash", n.PropertyByHash(hash)).Set(n, v)
}

// GetArray returns a copy of the values of the array field with the given name.
func GetArray[T comparable](n *Node, name string) []T {
	return as[*ArrayProperty[T]]("GetArray", n.Property(name)).Get()
}

// SetArray sets the values of the array field with the given name.
func SetArray[T comparable](n *Node, name string, vs []T) {
	as[*ArrayProperty[T]]("SetArray", n.Property(name)).Set(n, vs)
}

// GetMap returns a copy of the values of the map field with the given name.
func GetMap[T comparable](n *Node, name string) map[string]T {
	return as[*MapProperty[T]]("GetMap", n.Property(name)).Get()
}

// SetMap sets the values of the map field with the given name.
func SetMap[T comparable](n *Node, name string, vs map[string]T) {
	as[*MapProperty[T]]("SetMap", n.Property(name)).Set(n, vs)
}

// Child returns the node owned by the node field with the given name.
func (n *Node) Child(name string) *Node {
	return as[*NodeProperty]("Child", n.Property(name)).Get()
}

// SetChild sets the node owned by the node field with the given name.
// See [NodeProperty.Set].
func (n *Node) SetChild(name string, child *Node) {
	as[*NodeProperty]("SetChild", n.Property(name)).Set(n, child)
}

// ChildArray returns a copy of the nodes owned by
// the node array field with the given name.
func (n *Node) ChildArray(name string) []*Node {
	return as[*NodeArrayProperty]("ChildArray", n.Property(name)).Get()
}

// SetChildArray sets the nodes owned by the node array field
// with the given name. See [NodeArrayProperty.Set].
func (n *Node) SetChildArray(name string, children []*Node) {
	as[*NodeArrayProperty]("SetChildArray", n.Property(name)).Set(n, children)
}

// ChildMap returns a copy of the nodes owned by
// the node map field with the given name.
func (n *Node) ChildMap(name string) map[string]*Node {
	return as[*NodeMapProperty]("ChildMap", n.Property(name)).Get()
}

// SetChildMap sets the nodes owned by the node map field
// with the given name. See [NodeMapProperty.Set].
func (n *Node) SetChildMap(name string, children map[string]*Node) {
	as[*NodeMapProperty]("SetChildMap", n.Property(name)).Set(n, children)
}
