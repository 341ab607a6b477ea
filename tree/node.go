// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree provides a reflective data model: nodes of registered
// classes hold typed properties, own other nodes through node shaped
// properties, broadcast change events that bubble toward the root,
// and can be serialized, hashed and validated generically.
//
// Classes are declared once with [Register] and nodes are created with
// [Class.New]. Every mutation of a node goes through a Set function
// such as [Set] or [Node.SetChild], which detects changes, maintains
// the ownership tree and raises events.
package tree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Node is an instance of a [Class] in the ownership tree.
// Nodes are not safe for concurrent use; a tree must only be used
// from one goroutine at a time.
type Node struct {
	class *Class

	// key and collectionKey are the position of the node under its
	// parent: the field name for a single child, or the index or map
	// key for collection members, whose collectionKey is the field name.
	key           string
	collectionKey string

	// parent is a non-owning back reference.
	parent *Node

	// children are the owned nodes, in the order they were attached.
	children []*Node

	props   []Property
	changed bool

	// destroyed is set by [Node.Destroy].
	destroyed bool

	listeners    map[string][]*Listener
	broadcasting int
}

// New returns a new node of the class with the given name
// in the [DefaultRegistry]. It panics if there is no such class.
func New(class string) *Node {
	return DefaultRegistry.New(class)
}

// String implements the [fmt.Stringer] interface by returning
// the class name and path of the node.
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	p := n.Path()
	if p == "" {
		return n.class.Name
	}
	return n.class.Name + "(" + p + ")"
}

// Class returns the class of the node.
func (n *Node) Class() *Class { return n.class }

// Key returns the key of the node under its parent: the name of the
// field for a single child, or its index or map key in a collection.
func (n *Node) Key() string { return n.key }

// CollectionKey returns the name of the collection field that owns
// the node, or "" if it is not a collection member.
func (n *Node) CollectionKey() string { return n.collectionKey }

// Parent returns the parent of the node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the owned nodes in the order they were attached.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// NumChildren returns the number of owned nodes.
func (n *Node) NumChildren() int { return len(n.children) }

// IsRoot returns whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Root returns the root of the tree of the node.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Depth returns the number of ancestors of the node.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// pathSegment returns the path segment of the node relative to its parent.
func (n *Node) pathSegment() string {
	if n.collectionKey != "" {
		return n.collectionKey + "." + n.key
	}
	return n.key
}

// Path returns the dotted path of the node from the root of its tree,
// made of the collection key and key of each node below the root.
// It is "" for a root.
func (n *Node) Path() string {
	var segs []string
	for k := n; k.parent != nil; k = k.parent {
		segs = append(segs, k.pathSegment())
	}
	slices.Reverse(segs)
	return strings.Join(segs, ".")
}

// PathFrom returns the dotted path of the node relative to the
// given ancestor. It is "" if the ancestor is the node itself
// or not an ancestor.
func (n *Node) PathFrom(ancestor *Node) string {
	var segs []string
	for k := n; k != ancestor; k = k.parent {
		if k.parent == nil {
			return ""
		}
		segs = append(segs, k.pathSegment())
	}
	slices.Reverse(segs)
	return strings.Join(segs, ".")
}

// FindPath returns the node at the given dotted path relative to this
// node, as returned by [Node.PathFrom], or nil if there is none.
// Each segment names a field; collection fields are followed by
// a segment with the index or key of the member.
func (n *Node) FindPath(path string) *Node {
	if path == "" {
		return n
	}
	cur := n
	segs := strings.Split(path, ".")
	for i := 0; i < len(segs); i++ {
		p, ok := cur.LookupProperty(segs[i])
		if !ok {
			return nil
		}
		switch p := p.(type) {
		case *NodeProperty:
			cur = p.value
		case *NodeArrayProperty:
			i++
			if i >= len(segs) {
				return nil
			}
			idx, err := strconv.Atoi(segs[i])
			if err != nil || idx < 0 || idx >= len(p.values) {
				return nil
			}
			cur = p.values[idx]
		case *NodeMapProperty:
			i++
			if i >= len(segs) {
				return nil
			}
			cur = p.values[segs[i]]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// IsChanged returns whether any property of the node
// has changed since the flag was last cleared.
func (n *Node) IsChanged() bool { return n.changed }

// SetChanged sets the changed flag of the node.
func (n *Node) SetChanged(changed bool) { n.changed = changed }

// Reset sets every property of the node back to its default,
// in field order, and then runs the [Class.OnInit] functions.
// Strict node fields get freshly allocated nodes.
func (n *Node) Reset() {
	n.resetProperties()
}

func (n *Node) resetProperties() {
	for _, p := range n.props {
		p.Reset(n)
	}
	for _, fun := range n.class.inits {
		fun(n)
	}
}

// Destroy marks the node and all of its owned nodes as destroyed,
// and drops their listeners. Destroyed nodes ignore broadcasts.
// Only root nodes can be destroyed; detach a node first.
func (n *Node) Destroy() {
	if n.parent != nil {
		panic(fmt.Sprintf("tree.Node.Destroy: %v is still owned by %v", n, n.parent))
	}
	n.WalkDown(func(k *Node) bool {
		k.destroyed = true
		k.listeners = nil
		return Continue
	})
}

// IsDestroyed returns whether [Node.Destroy] has been called
// on the node or one of its former ancestors.
func (n *Node) IsDestroyed() bool { return n.destroyed }
