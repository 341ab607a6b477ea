// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serial

import (
	"fmt"
	"math"
	"slices"
)

// Kind is the kind of a [Value].
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Uint
	Float
	String
	Array
	Object
)

var kindNames = [...]string{"null", "bool", "int", "uint", "float", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a generic structured document node. Scalars hold their
// value in Scalar (bool, int64, uint64, float64 or string). Arrays
// hold Elems. Objects hold parallel Keys and Fields slices that keep
// the order in which keys were written or parsed.
type Value struct {
	Kind   Kind
	Scalar any
	Elems  []*Value
	Keys   []string
	Fields []*Value
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{Kind: Null} }

// NewBool returns a bool value.
func NewBool(v bool) *Value { return &Value{Kind: Bool, Scalar: v} }

// NewInt returns an int value.
func NewInt(v int64) *Value { return &Value{Kind: Int, Scalar: v} }

// NewUint returns a uint value.
func NewUint(v uint64) *Value { return &Value{Kind: Uint, Scalar: v} }

// NewFloat returns a float value.
func NewFloat(v float64) *Value { return &Value{Kind: Float, Scalar: v} }

// NewString returns a string value.
func NewString(v string) *Value { return &Value{Kind: String, Scalar: v} }

// NewArray returns an array value with the given elements.
func NewArray(elems ...*Value) *Value { return &Value{Kind: Array, Elems: elems} }

// NewObject returns an empty object value.
func NewObject() *Value { return &Value{Kind: Object} }

// Set sets the given key of an object value, replacing
// any existing entry with the same key. It returns v.
func (v *Value) Set(key string, field *Value) *Value {
	if i := slices.Index(v.Keys, key); i >= 0 {
		v.Fields[i] = field
		return v
	}
	v.Keys = append(v.Keys, key)
	v.Fields = append(v.Fields, field)
	return v
}

// Field returns the value for the given key of an object,
// or nil if there is none.
func (v *Value) Field(key string) *Value {
	if i := slices.Index(v.Keys, key); i >= 0 {
		return v.Fields[i]
	}
	return nil
}

// Len returns the number of elements or keys of a container value.
func (v *Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Elems)
	case Object:
		return len(v.Keys)
	}
	return 0
}

// AsBool returns the value as a bool.
func (v *Value) AsBool() (bool, bool) {
	b, ok := v.Scalar.(bool)
	return b, ok && v.Kind == Bool
}

// AsInt returns the value as an int64, converting
// uint and integral float values that fit.
func (v *Value) AsInt() (int64, bool) {
	switch v.Kind {
	case Int:
		return v.Scalar.(int64), true
	case Uint:
		u := v.Scalar.(uint64)
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case Float:
		f := v.Scalar.(float64)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// AsUint returns the value as a uint64, converting
// non-negative int and integral float values.
func (v *Value) AsUint() (uint64, bool) {
	switch v.Kind {
	case Uint:
		return v.Scalar.(uint64), true
	case Int:
		i := v.Scalar.(int64)
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case Float:
		f := v.Scalar.(float64)
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	}
	return 0, false
}

// AsFloat returns the value as a float64, converting any number.
func (v *Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case Float:
		return v.Scalar.(float64), true
	case Int:
		return float64(v.Scalar.(int64)), true
	case Uint:
		return float64(v.Scalar.(uint64)), true
	}
	return 0, false
}

// AsString returns the value as a string.
func (v *Value) AsString() (string, bool) {
	s, ok := v.Scalar.(string)
	return s, ok && v.Kind == String
}

// Equal reports whether two values are structurally equal.
// Numbers of different kinds compare equal when they
// represent the same number; object key order matters.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	switch v.Kind {
	case Int, Uint, Float:
		if o.Kind != Int && o.Kind != Uint && o.Kind != Float {
			return false
		}
		if v.Kind == o.Kind {
			return v.Scalar == o.Scalar
		}
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	case Array:
		return o.Kind == Array && slices.EqualFunc(v.Elems, o.Elems, (*Value).Equal)
	case Object:
		return o.Kind == Object && slices.Equal(v.Keys, o.Keys) &&
			slices.EqualFunc(v.Fields, o.Fields, (*Value).Equal)
	}
	return v.Kind == o.Kind && v.Scalar == o.Scalar
}

// Write replays the value into the given [Serializer].
func (v *Value) Write(s Serializer) {
	switch v.Kind {
	case Null:
		s.WriteNull()
	case Bool:
		s.WriteBool(v.Scalar.(bool))
	case Int:
		s.WriteInt(v.Scalar.(int64))
	case Uint:
		s.WriteUint(v.Scalar.(uint64))
	case Float:
		s.WriteFloat(v.Scalar.(float64))
	case String:
		s.WriteString(v.Scalar.(string))
	case Array:
		s.WriteArray()
		for _, e := range v.Elems {
			e.Write(s)
		}
		s.PopArray()
	case Object:
		s.WriteObject()
		for i, k := range v.Keys {
			s.WriteKey(k)
			v.Fields[i].Write(s)
			s.PopKey(k)
		}
		s.PopObject()
	}
}
