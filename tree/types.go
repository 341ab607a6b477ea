// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"math"

	"cogentcore.org/datamodel/serial"
)

// Type is a scalar value type that can be stored in
// scalar, array and map shaped fields.
type Type[T comparable] interface {

	// Name is the type tag recorded in [Field.Type].
	Name() string

	// Default is the value of a reset field.
	Default() T

	// Equal returns whether setting b over a is not a change.
	Equal(a, b T) bool

	// Write writes one value.
	Write(s serial.Serializer, v T)

	// Read reads one value. The previous value is passed for types
	// that merge into an existing value. It returns false if the
	// stream does not hold a value of this type.
	Read(d serial.Deserializer, prev T) (T, bool)
}

// The built in scalar types.
var (
	Bool     Type[bool]           = boolType{}
	Int32    Type[int32]          = intType[int32]{"int32", math.MinInt32, math.MaxInt32}
	Int64    Type[int64]          = intType[int64]{"int64", math.MinInt64, math.MaxInt64}
	Uint8    Type[uint8]          = uintType[uint8]{"uint8", math.MaxUint8}
	Float32  Type[float32]        = floatType[float32]{"float32"}
	Float64  Type[float64]        = floatType[float64]{"float64"}
	String   Type[string]         = stringType{}
	SoftPath Type[SoftObjectPath] = softPathType{}
)

type boolType struct{}

func (boolType) Name() string                      { return "bool" }
func (boolType) Default() bool                     { return false }
func (boolType) Equal(a, b bool) bool              { return a == b }
func (boolType) Write(s serial.Serializer, v bool) { s.WriteBool(v) }
func (boolType) Read(d serial.Deserializer, _ bool) (bool, bool) {
	var v bool
	ok := d.ReadBool(&v)
	return v, ok
}

type intType[T int32 | int64] struct {
	name     string
	min, max int64
}

func (t intType[T]) Name() string                 { return t.name }
func (intType[T]) Default() T                     { return 0 }
func (intType[T]) Equal(a, b T) bool              { return a == b }
func (intType[T]) Write(s serial.Serializer, v T) { s.WriteInt(int64(v)) }
func (t intType[T]) Read(d serial.Deserializer, prev T) (T, bool) {
	var v int64
	if !d.ReadInt(&v) || v < t.min || v > t.max {
		return prev, false
	}
	return T(v), true
}

type uintType[T uint8 | uint32 | uint64] struct {
	name string
	max  uint64
}

func (t uintType[T]) Name() string                 { return t.name }
func (uintType[T]) Default() T                     { return 0 }
func (uintType[T]) Equal(a, b T) bool              { return a == b }
func (uintType[T]) Write(s serial.Serializer, v T) { s.WriteUint(uint64(v)) }
func (t uintType[T]) Read(d serial.Deserializer, prev T) (T, bool) {
	var v uint64
	if !d.ReadUint(&v) || v > t.max {
		return prev, false
	}
	return T(v), true
}

type floatType[T float32 | float64] struct {
	name string
}

func (t floatType[T]) Name() string                 { return t.name }
func (floatType[T]) Default() T                     { return 0 }
func (floatType[T]) Write(s serial.Serializer, v T) { s.WriteFloat(float64(v)) }

// Equal treats NaN as equal to NaN, so that storing
// NaN again is not a change.
func (floatType[T]) Equal(a, b T) bool {
	return a == b || (a != a && b != b)
}

func (floatType[T]) Read(d serial.Deserializer, prev T) (T, bool) {
	var v float64
	if !d.ReadFloat(&v) {
		return prev, false
	}
	return T(v), true
}

type stringType struct{}

func (stringType) Name() string                        { return "string" }
func (stringType) Default() string                     { return "" }
func (stringType) Equal(a, b string) bool              { return a == b }
func (stringType) Write(s serial.Serializer, v string) { s.WriteString(v) }
func (stringType) Read(d serial.Deserializer, prev string) (string, bool) {
	v := prev
	ok := d.ReadString(&v)
	return v, ok
}

// SoftObjectPath is a lazy reference to an asset by path,
// with an optional sub object path inside the asset.
type SoftObjectPath struct {
	AssetPath string
	SubPath   string
}

// IsZero returns whether the path is empty.
func (p SoftObjectPath) IsZero() bool { return p == SoftObjectPath{} }

func (p SoftObjectPath) String() string {
	if p.SubPath == "" {
		return p.AssetPath
	}
	return p.AssetPath + ":" + p.SubPath
}

const (
	softAssetKey = "AssetPathName"
	softSubKey   = "SubPathString"
)

type softPathType struct{}

func (softPathType) Name() string                   { return "softpath" }
func (softPathType) Default() SoftObjectPath        { return SoftObjectPath{} }
func (softPathType) Equal(a, b SoftObjectPath) bool { return a == b }

func (softPathType) Write(s serial.Serializer, v SoftObjectPath) {
	s.WriteObject()
	s.WriteKey(softAssetKey)
	s.WriteString(v.AssetPath)
	s.PopKey(softAssetKey)
	s.WriteKey(softSubKey)
	s.WriteString(v.SubPath)
	s.PopKey(softSubKey)
	s.PopObject()
}

// Read requires both keys to be present.
func (softPathType) Read(d serial.Deserializer, prev SoftObjectPath) (SoftObjectPath, bool) {
	if !d.ReadObject() {
		return prev, false
	}
	var (
		v               SoftObjectPath
		key             string
		asset, sub, bad bool
	)
	for d.ReadKey(&key) {
		switch key {
		case softAssetKey:
			asset = d.ReadString(&v.AssetPath)
			bad = bad || !asset
		case softSubKey:
			sub = d.ReadString(&v.SubPath)
			bad = bad || !sub
		}
		d.PopKey(key)
	}
	d.PopObject()
	if bad || !asset || !sub {
		return prev, false
	}
	return v, true
}

// declFactory makes field declarations for one scalar type.
type declFactory struct {
	scalar, array, keyed func(name string, meta ...Meta) Decl
}

var scalarTypes = map[string]declFactory{}

// RegisterType makes the given scalar type available to [Declare]
// by its name. The built in types are registered already.
func RegisterType[T comparable](t Type[T]) {
	scalarTypes[t.Name()] = declFactory{
		scalar: func(name string, meta ...Meta) Decl { return Scalar(name, t, meta...) },
		array:  func(name string, meta ...Meta) Decl { return Array(name, t, meta...) },
		keyed:  func(name string, meta ...Meta) Decl { return Map(name, t, meta...) },
	}
}

func init() {
	RegisterType(Bool)
	RegisterType(Int32)
	RegisterType(Int64)
	RegisterType(Uint8)
	RegisterType(Float32)
	RegisterType(Float64)
	RegisterType(String)
	RegisterType(SoftPath)
}

// Declare returns the declaration of a field by shape and type name,
// for callers that read class declarations from data. For node shapes
// typ is the name of the element class.
func Declare(shape Shape, typ, name string, meta ...Meta) (Decl, error) {
	switch shape {
	case ShapeNode:
		return Child(name, typ, meta...), nil
	case ShapeNodeArray:
		return ChildArray(name, typ, meta...), nil
	case ShapeNodeMap:
		return ChildMap(name, typ, meta...), nil
	}
	f, ok := scalarTypes[typ]
	if !ok {
		return nil, fmt.Errorf("tree.Declare: unknown scalar type %q for field %q", typ, name)
	}
	switch shape {
	case ShapeArray:
		return f.array(name, meta...), nil
	case ShapeMap:
		return f.keyed(name, meta...), nil
	}
	return f.scalar(name, meta...), nil
}
