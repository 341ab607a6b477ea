// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"
)

// Event is an event raised on a node. It is created just before it is
// broadcast and can be changed by listeners while it is dispatched.
type Event struct {

	// Type is the event type, which selects the listeners.
	Type string

	// Target is the node the event was raised on. It is set by
	// [Node.Broadcast] if it is nil.
	Target *Node

	// Bubbles is whether the event is also dispatched to the
	// ancestors of the target after its own listeners.
	Bubbles bool

	// Field is the field that changed, for change events.
	Field *Field

	stop          bool
	stopImmediate bool
}

// StopPropagation stops the event from bubbling
// further once the current node is done.
func (ev *Event) StopPropagation() { ev.stop = true }

// StopImmediatePropagation stops the event from reaching any
// further listener, on this node or its ancestors.
func (ev *Event) StopImmediatePropagation() {
	ev.stop = true
	ev.stopImmediate = true
}

// IsStopped returns whether [Event.StopPropagation] was called.
func (ev *Event) IsStopped() bool { return ev.stop }

// IsImmediateStopped returns whether [Event.StopImmediatePropagation] was called.
func (ev *Event) IsImmediateStopped() bool { return ev.stopImmediate }

// Listener is a function bound to an event type on a node.
type Listener struct {
	typ     string
	field   *Field
	fun     func(ev *Event)
	unbound bool
}

// Type returns the event type the listener is bound to.
func (l *Listener) Type() string { return l.typ }

// Field returns the field the listener is bound to, or nil.
func (l *Listener) Field() *Field { return l.field }

// IsBound returns whether the listener has not been unbound.
func (l *Listener) IsBound() bool { return !l.unbound }

// Bind adds a listener for events of the given type on the node.
// Listeners of the same type are called in the order they were bound.
func (n *Node) Bind(typ string, fun func(ev *Event)) *Listener {
	return n.bind(&Listener{typ: typ, fun: fun})
}

// BindField adds a listener for changes of the field with the given
// name. For scalar fields it is called for the change event of the
// field on this node. For node shaped fields it is called for every
// [EventChanged] that bubbles up through an owned node of the field's
// class, including changes of the field itself. It panics if there
// is no such field.
func (n *Node) BindField(name string, fun func(ev *Event)) *Listener {
	f := n.class.Field(name)
	if f == nil {
		panic(fmt.Sprintf("tree.Node.BindField: class %s has no field %q", n.class.Name, name))
	}
	return n.bindField(f, fun)
}

// BindHash is like [Node.BindField] with a field name hash.
func (n *Node) BindHash(hash uint32, fun func(ev *Event)) *Listener {
	f := n.class.FieldByHash(hash)
	if f == nil {
		panic(fmt.Sprintf("tree.Node.BindHash: class %s has no field with hash %#x", n.class.Name, hash))
	}
	return n.bindField(f, fun)
}

func (n *Node) bindField(f *Field, fun func(ev *Event)) *Listener {
	typ := f.ChangedEvent()
	if f.Shape.IsNode() {
		typ = EventChanged
	}
	return n.bind(&Listener{typ: typ, field: f, fun: fun})
}

func (n *Node) bind(l *Listener) *Listener {
	if n.listeners == nil {
		n.listeners = map[string][]*Listener{}
	}
	n.listeners[l.typ] = append(n.listeners[l.typ], l)
	n.pruneListeners()
	return l
}

// Unbind removes the given listener. A listener that is unbound while
// an event is dispatched is still called for that event if it was bound
// when the dispatch started; it is removed once all dispatches are done.
func (n *Node) Unbind(l *Listener) {
	if l == nil {
		return
	}
	l.unbound = true
	n.pruneListeners()
}

// UnbindAll removes all listeners for the given event type.
func (n *Node) UnbindAll(typ string) {
	for _, l := range n.listeners[typ] {
		l.unbound = true
	}
	n.pruneListeners()
}

// NumListeners returns the number of bound listeners for the given event type.
func (n *Node) NumListeners(typ string) int {
	c := 0
	for _, l := range n.listeners[typ] {
		if !l.unbound {
			c++
		}
	}
	return c
}

// pruneListeners removes unbound listeners and empty event types,
// unless an event is being dispatched on the node.
func (n *Node) pruneListeners() {
	if n.broadcasting > 0 {
		return
	}
	for typ, ls := range n.listeners {
		ls = slices.DeleteFunc(ls, func(l *Listener) bool { return l.unbound })
		if len(ls) == 0 {
			delete(n.listeners, typ)
			continue
		}
		n.listeners[typ] = ls
	}
}

// Broadcast dispatches the event to the listeners of the node for its
// type, and then, if it bubbles and was not stopped, to the ancestors
// of the node. Broadcasts on destroyed nodes are ignored.
func (n *Node) Broadcast(ev *Event) {
	n.broadcast(ev, nil)
}

// broadcast dispatches the event, where prev is the class of the child
// the event bubbled up from, or nil on the target itself.
func (n *Node) broadcast(ev *Event, prev *Class) {
	if n.destroyed {
		return
	}
	n.broadcasting++
	if ev.Target == nil {
		ev.Target = n
	}
	if !ev.stopImmediate {
		// listeners bound or unbound during the dispatch do not affect it
		for _, l := range slices.Clone(n.listeners[ev.Type]) {
			if !l.accepts(ev, prev) {
				continue
			}
			l.fun(ev)
			if ev.stopImmediate {
				break
			}
		}
	}
	// the parent is read again here, as a listener may have detached the node
	if !ev.stop && ev.Bubbles && n.parent != nil && !n.parent.destroyed {
		n.parent.broadcast(ev, n.class)
	}
	n.broadcasting--
	n.pruneListeners()
}

// accepts returns whether a listener is called for the given event.
func (l *Listener) accepts(ev *Event, prev *Class) bool {
	if l.field == nil {
		return true
	}
	if prev == nil {
		return ev.Type == l.field.ChangedEvent() || ev.Field == l.field
	}
	return l.field.Shape.IsNode() && l.field.Target() == prev
}

// propertyChanged marks n as changed and raises the change events for f.
func (n *Node) propertyChanged(f *Field) {
	n.changed = true
	n.Broadcast(&Event{Type: f.ChangedEvent(), Field: f})
	n.Broadcast(&Event{Type: EventChanged, Bubbles: true, Field: f})
}
