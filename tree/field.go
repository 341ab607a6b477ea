// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"hash/crc32"
	"sync"
)

// Shape is the storage shape of a [Field].
type Shape int32

const (
	// ShapeScalar holds one value of a scalar [Type].
	ShapeScalar Shape = iota

	// ShapeArray holds an ordered sequence of scalar values.
	ShapeArray

	// ShapeMap holds string keyed scalar values, kept in key order.
	ShapeMap

	// ShapeNode holds one owned child node, or nil.
	ShapeNode

	// ShapeNodeArray holds an ordered sequence of owned child nodes.
	ShapeNodeArray

	// ShapeNodeMap holds string keyed owned child nodes, kept in key order.
	ShapeNodeMap
)

var shapeNames = [...]string{"scalar", "array", "map", "node", "node-array", "node-map"}

func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", int32(s))
}

// ParseShape returns the shape with the given name.
func ParseShape(name string) (Shape, error) {
	for i, nm := range shapeNames {
		if nm == name {
			return Shape(i), nil
		}
	}
	return ShapeScalar, fmt.Errorf("tree: unknown shape %q", name)
}

// IsNode returns whether the shape holds owned nodes.
func (s Shape) IsNode() bool {
	return s >= ShapeNode
}

// IsKeyed returns whether the shape is a string keyed collection.
func (s Shape) IsKeyed() bool {
	return s == ShapeMap || s == ShapeNodeMap
}

// Meta are the bit flags of a [Field].
type Meta uint8

const (
	// Strict node fields can never hold nil. They are filled with a
	// freshly allocated node on creation and on reset.
	Strict Meta = 1 << iota

	// Nullable link fields may be empty.
	Nullable

	// Abstract link fields are declared but must not be used.
	Abstract
)

// Field is the descriptor of one declared field of a [Class].
// Fields are created by [Registry.Register] and are read only after that.
type Field struct {

	// Name is the name of the field, unique within its class.
	Name string

	// Index is the position of the field in its class.
	Index int

	// Hash is the CRC-32 of the name, for lookups by callers
	// that do not carry strings.
	Hash uint32

	// Shape is the storage shape.
	Shape Shape

	// Type is the name of the scalar [Type] for scalar shapes,
	// and the name of the element [Class] for node shapes.
	Type string

	// Meta has the field flags.
	Meta Meta

	// LinkPath is the dotted path from the tree root to the keyed
	// collection that the values of this field refer to.
	// It is empty for fields that are not links.
	LinkPath string

	class   *Class
	newProp func(f *Field) Property

	targetOnce sync.Once
	target     *Class
}

// HashName returns the field hash of the given name.
func HashName(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(name))
}

// Class returns the class that declares the field.
func (f *Field) Class() *Class { return f.class }

// IsStrict returns whether the field has the [Strict] flag.
func (f *Field) IsStrict() bool { return f.Meta&Strict != 0 }

// IsNullable returns whether the field has the [Nullable] flag.
func (f *Field) IsNullable() bool { return f.Meta&Nullable != 0 }

// IsAbstract returns whether the field has the [Abstract] flag.
func (f *Field) IsAbstract() bool { return f.Meta&Abstract != 0 }

// IsLink returns whether the field refers to keys of a collection.
func (f *Field) IsLink() bool { return f.LinkPath != "" }

// IsCollectionLink returns whether the field is a link holding an
// array of keys rather than a single key.
func (f *Field) IsCollectionLink() bool {
	return f.IsLink() && f.Shape == ShapeArray
}

// ChangedEvent returns the name of the event raised
// on a node when this field changes.
func (f *Field) ChangedEvent() string {
	return f.Name + "Changed"
}

// Target returns the element class of a node shaped field,
// and nil for scalar shapes. It panics if the class is not registered.
func (f *Field) Target() *Class {
	if !f.Shape.IsNode() {
		return nil
	}
	f.targetOnce.Do(func() {
		f.target = f.class.registry.Class(f.Type)
	})
	if f.target == nil {
		panic(fmt.Sprintf("tree: field %s.%s refers to unknown class %q", f.class.Name, f.Name, f.Type))
	}
	return f.target
}

func (f *Field) String() string {
	if f.class == nil {
		return f.Name
	}
	return f.class.Name + "." + f.Name
}
