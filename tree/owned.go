// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"cogentcore.org/datamodel/serial"
)

// writeNode writes an owned node as an object, or null for nil.
func writeNode(s serial.Serializer, k *Node) {
	if k == nil {
		s.WriteNull()
		return
	}
	Serialize(k, s)
}

// readNode reads one node object into the seed node, or into a newly
// allocated node of the class of f if the seed is nil.
func readNode(f *Field, seed *Node, d serial.Deserializer) (*Node, bool) {
	if !d.ReadObject() {
		return seed, false
	}
	k := seed
	if k == nil {
		k = f.class.registry.allocate(f.Target())
	}
	k.DataDeserialize(d)
	d.PopObject()
	return k, true
}

// NodeProperty owns one node, or nil.
type NodeProperty struct {
	field *Field
	value *Node
}

func (p *NodeProperty) isProperty()    {}
func (p *NodeProperty) Field() *Field  { return p.field }
func (p *NodeProperty) Any() any       { return p.value }
func (p *NodeProperty) nodes() []*Node { return nonNil(p.value) }

// Get returns the owned node.
func (p *NodeProperty) Get() *Node { return p.value }

// Set sets the owned node of the property of n. The previous node is
// detached and the new node is attached with the field name as its key.
// It panics if the field is strict and v is nil, or if v is owned by
// another node or field, or is an ancestor of n.
func (p *NodeProperty) Set(n *Node, v *Node) {
	if v == p.value {
		return
	}
	if v == nil {
		if p.field.IsStrict() {
			panic(fmt.Sprintf("tree.Set: strict field %v can't be nil", p.field))
		}
	} else {
		n.checkAttach(p.field, v)
	}
	if old := p.value; old != nil {
		n.removeChild(old)
	}
	if v != nil {
		v.changeDataName(p.field.Name, "")
		n.addChild(v)
	}
	p.value = v
	n.propertyChanged(p.field)
}

// Reset allocates a new node for strict fields and clears the others.
func (p *NodeProperty) Reset(n *Node) {
	if p.field.IsStrict() {
		p.Set(n, n.class.registry.allocate(p.field.Target()))
		return
	}
	p.Set(n, nil)
}

func (p *NodeProperty) Serialize(n *Node, s serial.Serializer) {
	writeNode(s, p.value)
}

// Deserialize reads into the current node, allocating one if there is
// none. A null value clears the field unless it is strict.
func (p *NodeProperty) Deserialize(n *Node, d serial.Deserializer) {
	if d.ReadNull() {
		if p.field.IsStrict() {
			mismatch(n, p.field)
			return
		}
		p.Set(n, nil)
		return
	}
	k, ok := readNode(p.field, p.value, d)
	if !ok {
		mismatch(n, p.field)
		return
	}
	p.Set(n, k)
}

// NodeArrayProperty owns a sequence of nodes.
type NodeArrayProperty struct {
	field  *Field
	values []*Node
}

func (p *NodeArrayProperty) isProperty()    {}
func (p *NodeArrayProperty) Field() *Field  { return p.field }
func (p *NodeArrayProperty) Any() any       { return p.Get() }
func (p *NodeArrayProperty) nodes() []*Node { return p.values }

// Get returns a copy of the owned nodes.
func (p *NodeArrayProperty) Get() []*Node { return slices.Clone(p.values) }

// Len returns the number of owned nodes.
func (p *NodeArrayProperty) Len() int { return len(p.values) }

// At returns the owned node at the given index.
func (p *NodeArrayProperty) At(i int) *Node { return p.values[i] }

// Set sets the owned nodes of the property of n. Nodes that are no
// longer present are detached, every node is keyed by its index, and
// nodes that are new to the field are attached. Nodes may be reordered.
// It panics on nil or duplicate nodes, and on nodes owned by another
// node or field.
func (p *NodeArrayProperty) Set(n *Node, vs []*Node) {
	if slices.Equal(p.values, vs) {
		return
	}
	for i, v := range vs {
		if v == nil {
			panic(fmt.Sprintf("tree.Set: nil node at index %d of %v", i, p.field))
		}
		if slices.Contains(vs[:i], v) {
			panic(fmt.Sprintf("tree.Set: %v is at more than one index of %v", v, p.field))
		}
		n.checkAttach(p.field, v)
	}
	for _, old := range p.values {
		if !slices.Contains(vs, old) {
			n.removeChild(old)
		}
	}
	for i, v := range vs {
		v.changeDataName(strconv.Itoa(i), p.field.Name)
	}
	for _, v := range vs {
		if v.parent == nil {
			n.addChild(v)
		}
	}
	p.values = slices.Clone(vs)
	n.propertyChanged(p.field)
}

func (p *NodeArrayProperty) Reset(n *Node) { p.Set(n, nil) }

func (p *NodeArrayProperty) Serialize(n *Node, s serial.Serializer) {
	s.WriteArray()
	for _, k := range p.values {
		writeNode(s, k)
	}
	s.PopArray()
}

// Deserialize reads each element into the node previously at the same
// index, allocating nodes for new indexes. Nodes beyond the new length
// are detached.
func (p *NodeArrayProperty) Deserialize(n *Node, d serial.Deserializer) {
	if !d.ReadArray() {
		mismatch(n, p.field)
		return
	}
	var vs []*Node
	for d.ReadIndex() {
		var seed *Node
		if i := len(vs); i < len(p.values) {
			seed = p.values[i]
		}
		k, ok := readNode(p.field, seed, d)
		if !ok {
			mismatch(n, p.field)
		}
		if k != nil {
			vs = append(vs, k)
		}
		d.PopIndex()
	}
	d.PopArray()
	p.Set(n, vs)
}

// NodeMapProperty owns string keyed nodes, kept in sorted key order.
type NodeMapProperty struct {
	field  *Field
	keys   []string
	values map[string]*Node
}

func (p *NodeMapProperty) isProperty()   {}
func (p *NodeMapProperty) Field() *Field { return p.field }
func (p *NodeMapProperty) Any() any      { return p.Get() }

func (p *NodeMapProperty) nodes() []*Node {
	nodes := make([]*Node, len(p.keys))
	for i, k := range p.keys {
		nodes[i] = p.values[k]
	}
	return nodes
}

// Get returns a copy of the owned nodes.
func (p *NodeMapProperty) Get() map[string]*Node { return maps.Clone(p.values) }

func (p *NodeMapProperty) Keys() []string { return slices.Clone(p.keys) }

func (p *NodeMapProperty) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Value returns the owned node with the given key, or nil.
func (p *NodeMapProperty) Value(key string) *Node { return p.values[key] }

// Set sets the owned nodes of the property of n, like
// [NodeArrayProperty.Set] with each node keyed by its map key.
func (p *NodeMapProperty) Set(n *Node, vs map[string]*Node) {
	if maps.Equal(p.values, vs) {
		return
	}
	keys := slices.Sorted(maps.Keys(vs))
	seen := make(map[*Node]string, len(vs))
	for _, key := range keys {
		v := vs[key]
		if v == nil {
			panic(fmt.Sprintf("tree.Set: nil node at key %q of %v", key, p.field))
		}
		if other, dup := seen[v]; dup {
			panic(fmt.Sprintf("tree.Set: %v is at keys %q and %q of %v", v, other, key, p.field))
		}
		seen[v] = key
		n.checkAttach(p.field, v)
	}
	for _, key := range p.keys {
		if old := p.values[key]; !hasNode(seen, old) {
			n.removeChild(old)
		}
	}
	for _, key := range keys {
		vs[key].changeDataName(key, p.field.Name)
	}
	for _, key := range keys {
		if v := vs[key]; v.parent == nil {
			n.addChild(v)
		}
	}
	p.keys = keys
	p.values = maps.Clone(vs)
	if p.values == nil {
		p.values = map[string]*Node{}
	}
	n.propertyChanged(p.field)
}

func (p *NodeMapProperty) Reset(n *Node) { p.Set(n, nil) }

func (p *NodeMapProperty) Serialize(n *Node, s serial.Serializer) {
	s.WriteObject()
	for _, key := range p.keys {
		s.WriteKey(key)
		writeNode(s, p.values[key])
		s.PopKey(key)
	}
	s.PopObject()
}

// Deserialize replaces the owned nodes with the keys in the stream,
// reading each into the node previously under the same key.
func (p *NodeMapProperty) Deserialize(n *Node, d serial.Deserializer) {
	if !d.ReadObject() {
		mismatch(n, p.field)
		return
	}
	vs := map[string]*Node{}
	var key string
	for d.ReadKey(&key) {
		k, ok := readNode(p.field, p.values[key], d)
		if !ok {
			mismatch(n, p.field)
		}
		if k != nil {
			vs[key] = k
		}
		d.PopKey(key)
	}
	d.PopObject()
	p.Set(n, vs)
}

func hasNode(set map[*Node]string, k *Node) bool {
	_, ok := set[k]
	return ok
}

func nonNil(k *Node) []*Node {
	if k == nil {
		return nil
	}
	return []*Node{k}
}
