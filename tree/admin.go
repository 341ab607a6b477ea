// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"
)

// admin.go has the ownership link infrastructure used by node properties.

// Event types raised by the ownership tree.
const (
	// EventAdded is raised on a node, bubbling, after it is attached to a parent.
	EventAdded = "Added"

	// EventRemoving is raised on a node, bubbling, before it is detached.
	EventRemoving = "Removing"

	// EventNameChanged is raised on a node when its key changes. It does not bubble.
	EventNameChanged = "NameChanged"

	// EventChanged is raised on a node, bubbling, after any property changes.
	EventChanged = "Changed"
)

// addChild links the given child to n. It panics
// if the child already has a parent.
func (n *Node) addChild(child *Node) {
	if child.parent != nil {
		panic(fmt.Sprintf("tree.AddChild: %v already has parent %v", child, child.parent))
	}
	child.parent = n
	n.children = append(n.children, child)
	child.Broadcast(&Event{Type: EventAdded, Bubbles: true})
}

// removeChild unlinks the given child from n. It panics
// if n is not the parent of the child.
func (n *Node) removeChild(child *Node) {
	if child.parent != n {
		panic(fmt.Sprintf("tree.RemoveChild: %v is not the parent of %v", n, child))
	}
	child.Broadcast(&Event{Type: EventRemoving, Bubbles: true})
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.parent = nil
}

// changeDataName sets the key and collection key of n,
// raising [EventNameChanged] if either is different.
func (n *Node) changeDataName(key, collectionKey string) {
	if n.key == key && n.collectionKey == collectionKey {
		return
	}
	n.key = key
	n.collectionKey = collectionKey
	n.Broadcast(&Event{Type: EventNameChanged})
}

// ownerField returns the name of the field of its parent that owns n.
func (n *Node) ownerField() string {
	if n.collectionKey != "" {
		return n.collectionKey
	}
	return n.key
}

// isAncestorOf returns whether n is k or one of its ancestors.
func (n *Node) isAncestorOf(k *Node) bool {
	for ; k != nil; k = k.parent {
		if k == n {
			return true
		}
	}
	return false
}

// checkAttach panics if the given node can not be stored
// in field f of n: it must be alive, of the declared class,
// not owned elsewhere and not an ancestor of n.
func (n *Node) checkAttach(f *Field, child *Node) {
	switch {
	case child.destroyed:
		panic(fmt.Sprintf("tree.Set: %v is destroyed", child))
	case child.class != f.Target():
		panic(fmt.Sprintf("tree.Set: field %v holds %s nodes, not %s", f, f.Type, child.class.Name))
	case child.parent != nil && (child.parent != n || child.ownerField() != f.Name):
		panic(fmt.Sprintf("tree.Set: %v is owned by %v; remove it before adding it to %v", child, child.parent, f))
	case child.isAncestorOf(n):
		panic(fmt.Sprintf("tree.Set: adding %v to %v would create a cycle", child, f))
	}
}
