// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serial

// Builder is a [Serializer] that builds a [Value] document in memory.
// It is used by formats that need the whole document before encoding,
// and for copying nodes.
type Builder struct {
	root       *Value
	containers []*Value
	keys       []string
}

// NewBuilder returns a new empty [Builder].
func NewBuilder() *Builder {
	return &Builder{}
}

// Value returns the document built so far.
// It is nil if nothing has been written.
func (b *Builder) Value() *Value {
	return b.root
}

// put adds the given value at the current position.
func (b *Builder) put(v *Value) {
	if len(b.containers) == 0 {
		b.root = v
		return
	}
	top := b.containers[len(b.containers)-1]
	switch top.Kind {
	case Array:
		top.Elems = append(top.Elems, v)
	case Object:
		if len(b.keys) == 0 {
			return
		}
		top.Set(b.keys[len(b.keys)-1], v)
	}
}

func (b *Builder) WriteNull()           { b.put(NewNull()) }
func (b *Builder) WriteBool(v bool)     { b.put(NewBool(v)) }
func (b *Builder) WriteInt(v int64)     { b.put(NewInt(v)) }
func (b *Builder) WriteUint(v uint64)   { b.put(NewUint(v)) }
func (b *Builder) WriteFloat(v float64) { b.put(NewFloat(v)) }
func (b *Builder) WriteString(v string) { b.put(NewString(v)) }

func (b *Builder) WriteArray() {
	v := NewArray()
	b.put(v)
	b.containers = append(b.containers, v)
}

func (b *Builder) WriteObject() {
	v := NewObject()
	b.put(v)
	b.containers = append(b.containers, v)
}

func (b *Builder) PopArray()  { b.pop() }
func (b *Builder) PopObject() { b.pop() }

func (b *Builder) pop() {
	if len(b.containers) > 0 {
		b.containers = b.containers[:len(b.containers)-1]
	}
}

func (b *Builder) WriteKey(name string) {
	b.keys = append(b.keys, name)
}

func (b *Builder) PopKey(name string) {
	if len(b.keys) > 0 {
		b.keys = b.keys[:len(b.keys)-1]
	}
}

// frame is one level of the [Reader] position stack. An element frame
// points at a single value; an open frame is a container being iterated.
type frame struct {
	v     *Value
	index int
	open  bool
}

// Reader is a [Deserializer] that walks a [Value] document.
// All formats decode into a document first and read through a Reader,
// so unknown keys can be skipped by simply popping them.
type Reader struct {
	stack []frame
}

// NewReader returns a [Reader] positioned at the given document.
func NewReader(v *Value) *Reader {
	if v == nil {
		v = NewNull()
	}
	return &Reader{stack: []frame{{v: v}}}
}

func (r *Reader) top() *frame {
	if len(r.stack) == 0 {
		return nil
	}
	return &r.stack[len(r.stack)-1]
}

// current returns the value at the read position, or nil if
// the position is an open container or the reader is exhausted.
func (r *Reader) current() *Value {
	t := r.top()
	if t == nil || t.open {
		return nil
	}
	return t.v
}

func (r *Reader) ReadNull() bool {
	v := r.current()
	return v != nil && v.Kind == Null
}

func (r *Reader) ReadBool(p *bool) bool {
	v := r.current()
	if v == nil {
		return false
	}
	b, ok := v.AsBool()
	if ok {
		*p = b
	}
	return ok
}

func (r *Reader) ReadInt(p *int64) bool {
	v := r.current()
	if v == nil {
		return false
	}
	i, ok := v.AsInt()
	if ok {
		*p = i
	}
	return ok
}

func (r *Reader) ReadUint(p *uint64) bool {
	v := r.current()
	if v == nil {
		return false
	}
	u, ok := v.AsUint()
	if ok {
		*p = u
	}
	return ok
}

func (r *Reader) ReadFloat(p *float64) bool {
	v := r.current()
	if v == nil {
		return false
	}
	f, ok := v.AsFloat()
	if ok {
		*p = f
	}
	return ok
}

func (r *Reader) ReadString(p *string) bool {
	v := r.current()
	if v == nil {
		return false
	}
	s, ok := v.AsString()
	if ok {
		*p = s
	}
	return ok
}

func (r *Reader) open(kind Kind) bool {
	v := r.current()
	if v == nil || v.Kind != kind {
		return false
	}
	r.stack = append(r.stack, frame{v: v, index: -1, open: true})
	return true
}

// next advances the open container of the given kind and pushes
// its next child, returning its index, or false when it is exhausted.
func (r *Reader) next(kind Kind) (int, bool) {
	t := r.top()
	if t == nil || !t.open || t.v.Kind != kind {
		return 0, false
	}
	if t.index+1 >= t.v.Len() {
		return 0, false
	}
	t.index++
	i := t.index
	var child *Value
	if kind == Array {
		child = t.v.Elems[i]
	} else {
		child = t.v.Fields[i]
	}
	r.stack = append(r.stack, frame{v: child})
	return i, true
}

// popElement pops an element frame.
func (r *Reader) popElement() {
	if t := r.top(); t != nil && !t.open {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// popOpen pops an open container frame of the given kind.
func (r *Reader) popOpen(kind Kind) {
	if t := r.top(); t != nil && t.open && t.v.Kind == kind {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *Reader) ReadArray() bool { return r.open(Array) }

func (r *Reader) ReadIndex() bool {
	_, ok := r.next(Array)
	return ok
}

func (r *Reader) PopIndex() { r.popElement() }
func (r *Reader) PopArray() { r.popOpen(Array) }

func (r *Reader) ReadObject() bool { return r.open(Object) }

func (r *Reader) ReadKey(name *string) bool {
	i, ok := r.next(Object)
	if ok {
		*name = r.stack[len(r.stack)-2].v.Keys[i]
	}
	return ok
}

func (r *Reader) PopKey(name string) { r.popElement() }
func (r *Reader) PopObject()         { r.popOpen(Object) }
