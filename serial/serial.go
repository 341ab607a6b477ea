// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package serial defines the structural [Serializer] and [Deserializer]
// contracts that tree nodes are written through, a generic in-memory
// [Value] document, and the concrete JSON, YAML and binary formats.
//
// The contracts only know about object, array and key framing plus
// scalar values; the byte-level grammar is owned entirely by the format.
package serial

// Serializer receives a structural stream of values. Objects contain
// keys, each key is followed by exactly one value, and arrays contain
// values. Every Write of a container is matched by the corresponding Pop.
type Serializer interface {
	WriteNull()
	WriteBool(v bool)
	WriteInt(v int64)
	WriteUint(v uint64)
	WriteFloat(v float64)
	WriteString(v string)

	WriteArray()
	PopArray()

	WriteObject()
	PopObject()

	WriteKey(name string)
	PopKey(name string)
}

// Deserializer is the reading counterpart of [Serializer]. All Read
// methods return false on a structural mismatch without consuming
// anything, so that callers can apply their own fallback policy.
//
// Arrays are read as:
//
//	if d.ReadArray() {
//		for d.ReadIndex() {
//			// read one value
//			d.PopIndex()
//		}
//		d.PopArray()
//	}
//
// and objects as:
//
//	if d.ReadObject() {
//		var key string
//		for d.ReadKey(&key) {
//			// read one value, or nothing to skip it
//			d.PopKey(key)
//		}
//		d.PopObject()
//	}
type Deserializer interface {
	ReadNull() bool
	ReadBool(v *bool) bool
	ReadInt(v *int64) bool
	ReadUint(v *uint64) bool
	ReadFloat(v *float64) bool
	ReadString(v *string) bool

	ReadArray() bool
	ReadIndex() bool
	PopIndex()
	PopArray()

	ReadObject() bool
	ReadKey(name *string) bool
	PopKey(name string)
	PopObject()
}
