// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"
	"sync"
)

// Allocator creates new nodes for owned node fields. It is used
// to fill strict node fields and to create nodes while deserializing.
type Allocator interface {
	Allocate(c *Class) *Node
}

// AllocatorFunc is a function that implements [Allocator].
type AllocatorFunc func(c *Class) *Node

func (f AllocatorFunc) Allocate(c *Class) *Node { return f(c) }

// Registry holds the registered classes. Classes must be registered
// before any node of them is created, and are read only after that.
type Registry struct {

	// Allocator allocates nodes of owned node fields.
	// If it is nil, [Class.New] is used.
	Allocator Allocator

	mu      sync.RWMutex
	classes map[string]*Class
	order   []*Class
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: map[string]*Class{}}
}

// DefaultRegistry is the registry used by [Register].
var DefaultRegistry = NewRegistry()

// Register registers a new class with the given fields
// in the [DefaultRegistry].
func Register(name string, decls ...Decl) *Class {
	return DefaultRegistry.Register(name, decls...)
}

// Register registers a new class with the given fields, in order.
// It panics if the class is already registered or if two fields
// have the same name or hash.
func (r *Registry) Register(name string, decls ...Decl) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, has := r.classes[name]; has {
		panic(fmt.Sprintf("tree.Register: class %q is already registered", name))
	}
	c := &Class{
		Name:     name,
		registry: r,
		byName:   map[string]*Field{},
		byHash:   map[uint32]*Field{},
	}
	var links []*linkDecl
	for _, d := range decls {
		switch d := d.(type) {
		case *fieldDecl:
			c.addField(d)
		case *linkDecl:
			links = append(links, d)
		}
	}
	for _, l := range links {
		lk := &Reference{Name: l.name, Path: l.path, Meta: l.meta, Field: c.byName[l.name]}
		if lk.Field != nil {
			lk.Field.LinkPath = l.path
			lk.Field.Meta |= l.meta
		}
		c.links = append(c.links, lk)
	}
	r.classes[name] = c
	r.order = append(r.order, c)
	return c
}

// Class returns the class with the given name, or nil if there is none.
func (r *Registry) Class(name string) *Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[name]
}

// Classes returns all classes in registration order.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// New returns a new node of the class with the given name.
// It panics if the class is not registered.
func (r *Registry) New(name string) *Node {
	c := r.Class(name)
	if c == nil {
		panic(fmt.Sprintf("tree.Registry.New: unknown class %q", name))
	}
	return c.New()
}

// allocate returns a new node of the given class through the Allocator.
func (r *Registry) allocate(c *Class) *Node {
	if r.Allocator != nil {
		return r.Allocator.Allocate(c)
	}
	return c.New()
}

// Class is a registered node class: an ordered list of fields.
type Class struct {

	// Name is the unique name of the class in its registry.
	Name string

	registry *Registry
	fields   []*Field
	byName   map[string]*Field
	byHash   map[uint32]*Field
	links    []*Reference
	inits    []func(n *Node)

	checkOnce sync.Once
}

func (c *Class) addField(d *fieldDecl) {
	if _, has := c.byName[d.name]; has {
		panic(fmt.Sprintf("tree.Register: duplicate field %s.%s", c.Name, d.name))
	}
	f := &Field{
		Name:     d.name,
		Index:    len(c.fields),
		Hash:     HashName(d.name),
		Shape:    d.shape,
		Type:     d.typ,
		LinkPath: d.link,
		class:    c,
		newProp:  d.newProp,
	}
	for _, m := range d.meta {
		f.Meta |= m
	}
	if o, has := c.byHash[f.Hash]; has {
		panic(fmt.Sprintf("tree.Register: fields %s and %s of %s have the same hash", o.Name, f.Name, c.Name))
	}
	c.fields = append(c.fields, f)
	c.byName[f.Name] = f
	c.byHash[f.Hash] = f
	if f.LinkPath != "" {
		c.links = append(c.links, &Reference{Name: f.Name, Path: f.LinkPath, Meta: f.Meta, Field: f})
	}
}

// Registry returns the registry the class belongs to.
func (c *Class) Registry() *Registry { return c.registry }

// Fields returns the fields of the class in declaration order.
func (c *Class) Fields() []*Field { return slices.Clone(c.fields) }

// NumFields returns the number of fields of the class.
func (c *Class) NumFields() int { return len(c.fields) }

// Field returns the field with the given name, or nil if there is none.
func (c *Class) Field(name string) *Field { return c.byName[name] }

// FieldByHash returns the field with the given name hash,
// or nil if there is none.
func (c *Class) FieldByHash(hash uint32) *Field { return c.byHash[hash] }

// Links returns the references declared by the class.
func (c *Class) Links() []*Reference { return slices.Clone(c.links) }

// OnInit adds a function that is called on every new node of the
// class after its fields have their defaults, and again after
// [Node.Reset]. It must be called before any node is created.
func (c *Class) OnInit(fun func(n *Node)) *Class {
	c.inits = append(c.inits, fun)
	return c
}

// New returns a new node of the class with every field at its default.
// Strict node fields are filled through the registry [Allocator].
// The new node is not marked as changed.
func (c *Class) New() *Node {
	c.checkOnce.Do(c.checkStrictCycle)
	n := &Node{class: c, props: make([]Property, len(c.fields))}
	for i, f := range c.fields {
		n.props[i] = f.newProp(f)
	}
	n.resetProperties()
	n.changed = false
	return n
}

// checkStrictCycle panics if filling the strict node fields of c
// would never terminate.
func (c *Class) checkStrictCycle() {
	var visit func(k *Class, stack []*Class)
	visit = func(k *Class, stack []*Class) {
		if slices.Contains(stack, k) {
			panic(fmt.Sprintf("tree: strict node fields of class %q form a cycle through %q", c.Name, k.Name))
		}
		stack = append(stack, k)
		for _, f := range k.fields {
			if f.Shape == ShapeNode && f.IsStrict() {
				visit(f.Target(), stack)
			}
		}
	}
	visit(c, nil)
}

func (c *Class) String() string { return c.Name }

// Reference is a declared link from the values of a field
// to the keys of a keyed collection elsewhere in the tree.
type Reference struct {

	// Name is the name of the source field.
	Name string

	// Path is the dotted path from the tree root to the collection.
	Path string

	// Meta has the flags of the link.
	Meta Meta

	// Field is the source field, or nil if the class
	// has no field with the given name.
	Field *Field
}

// Decl is a declaration passed to [Registry.Register].
type Decl interface {
	decl()
}

type fieldDecl struct {
	name    string
	shape   Shape
	typ     string
	meta    []Meta
	link    string
	newProp func(f *Field) Property
}

func (*fieldDecl) decl() {}

type linkDecl struct {
	name, path string
	meta       Meta
}

func (*linkDecl) decl() {}

// Scalar declares a field holding one value of the given type.
func Scalar[T comparable](name string, typ Type[T], meta ...Meta) Decl {
	return &fieldDecl{name: name, shape: ShapeScalar, typ: typ.Name(), meta: meta,
		newProp: func(f *Field) Property {
			return &ScalarProperty[T]{field: f, typ: typ, value: typ.Default()}
		}}
}

// Array declares a field holding a sequence of values of the given type.
func Array[T comparable](name string, typ Type[T], meta ...Meta) Decl {
	return &fieldDecl{name: name, shape: ShapeArray, typ: typ.Name(), meta: meta,
		newProp: func(f *Field) Property {
			return &ArrayProperty[T]{field: f, typ: typ}
		}}
}

// Map declares a field holding string keyed values of the given type.
func Map[T comparable](name string, typ Type[T], meta ...Meta) Decl {
	return &fieldDecl{name: name, shape: ShapeMap, typ: typ.Name(), meta: meta,
		newProp: func(f *Field) Property {
			return &MapProperty[T]{field: f, typ: typ, values: map[string]T{}}
		}}
}

// Child declares a field owning one node of the given class.
func Child(name, class string, meta ...Meta) Decl {
	return &fieldDecl{name: name, shape: ShapeNode, typ: class, meta: meta,
		newProp: func(f *Field) Property { return &NodeProperty{field: f} }}
}

// ChildArray declares a field owning a sequence of nodes of the given class.
func ChildArray(name, class string, meta ...Meta) Decl {
	return &fieldDecl{name: name, shape: ShapeNodeArray, typ: class, meta: meta,
		newProp: func(f *Field) Property { return &NodeArrayProperty{field: f} }}
}

// ChildMap declares a field owning string keyed nodes of the given class.
func ChildMap(name, class string, meta ...Meta) Decl {
	return &fieldDecl{name: name, shape: ShapeNodeMap, typ: class, meta: meta,
		newProp: func(f *Field) Property {
			return &NodeMapProperty{field: f, values: map[string]*Node{}}
		}}
}

// Link declares a string field whose value is a key of the keyed
// collection at the given dotted path from the tree root.
func Link(name, path string, meta ...Meta) Decl {
	d := Scalar(name, String, meta...).(*fieldDecl)
	d.link = path
	return d
}

// LinkArray declares a string array field whose values are keys of
// the keyed collection at the given dotted path from the tree root.
func LinkArray(name, path string, meta ...Meta) Decl {
	d := Array(name, String, meta...).(*fieldDecl)
	d.link = path
	return d
}

// LinkTo declares that the field with the given name is a link to
// the keyed collection at the given path. The field may be declared
// anywhere in the same registration; a link to a missing field is
// reported by [Validate].
func LinkTo(name, path string, meta ...Meta) Decl {
	d := &linkDecl{name: name, path: path}
	for _, m := range meta {
		d.meta |= m
	}
	return d
}
