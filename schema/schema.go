// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema loads versioned class declarations from YAML
// and registers them in a [tree.Registry]:
//
//	version: 1.0.0
//	classes:
//	  - name: Item
//	    fields:
//	      - {name: name, type: string}
//	      - {name: tags, shape: array, type: string}
//	  - name: Inventory
//	    fields:
//	      - {name: items, shape: node-map, type: Item}
//	      - {name: selected, type: string, link: items, flags: [nullable]}
package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"cogentcore.org/datamodel/tree"
)

// Schema is a versioned list of class declarations.
type Schema struct {

	// Version is the semantic version of the schema.
	Version *semver.Version `yaml:"-"`

	// Classes are the declared classes, in registration order.
	Classes []Class `yaml:"classes"`
}

// Class is the declaration of one class.
type Class struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`

	// Links declare links on fields by name, see [tree.LinkTo].
	Links []Link `yaml:"links,omitempty"`
}

// Field is the declaration of one field.
type Field struct {
	Name string `yaml:"name"`

	// Shape is the name of the [tree.Shape]; it defaults to scalar.
	Shape string `yaml:"shape,omitempty"`

	// Type is the scalar type name, or the element class for node shapes.
	Type string `yaml:"type"`

	// Flags are the names of the [tree.Meta] flags.
	Flags []string `yaml:"flags,omitempty"`

	// Link is the dotted path of the collection that
	// the values of the field are keys of.
	Link string `yaml:"link,omitempty"`
}

// Link is the declaration of a link on a field.
type Link struct {
	Field string   `yaml:"field"`
	Path  string   `yaml:"path"`
	Flags []string `yaml:"flags,omitempty"`
}

// file is the document form of a [Schema].
type file struct {
	Version string  `yaml:"version"`
	Classes []Class `yaml:"classes"`
}

// Parse parses a schema from YAML data.
func Parse(data []byte) (*Schema, error) {
	return Read(bytes.NewReader(data))
}

// Read reads a schema from YAML.
func Read(r io.Reader) (*Schema, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("schema: missing version")
	}
	v, err := semver.NewVersion(f.Version)
	if err != nil {
		return nil, fmt.Errorf("schema: version %q: %w", f.Version, err)
	}
	return &Schema{Version: v, Classes: f.Classes}, nil
}

// Open reads a schema from the given YAML file.
func Open(filename string) (*Schema, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	s, err := Read(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// Write writes the schema as YAML.
func (s *Schema) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file{Version: s.Version.String(), Classes: s.Classes}); err != nil {
		return err
	}
	return enc.Close()
}

// Compatible returns whether data written with the given schema
// version can be read with this schema: the major versions must match.
func (s *Schema) Compatible(v *semver.Version) bool {
	return v != nil && s.Version.Major() == v.Major()
}

// Satisfies returns whether the schema version meets the
// given constraint, such as ">= 1.2, < 2".
func (s *Schema) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(s.Version), nil
}

// ParseMeta returns the field flags with the given names.
func ParseMeta(names []string) (tree.Meta, error) {
	var m tree.Meta
	for _, nm := range names {
		switch nm {
		case "strict":
			m |= tree.Strict
		case "nullable":
			m |= tree.Nullable
		case "abstract":
			m |= tree.Abstract
		default:
			return 0, fmt.Errorf("unknown flag %q", nm)
		}
	}
	return m, nil
}

// Register registers all classes of the schema in the given registry.
// Every declaration is checked first, so nothing is registered if
// there is an error.
func (s *Schema) Register(reg *tree.Registry) error {
	all := make([][]tree.Decl, len(s.Classes))
	for i := range s.Classes {
		decls, err := s.decls(reg, i)
		if err != nil {
			return err
		}
		all[i] = decls
	}
	for i, c := range s.Classes {
		reg.Register(c.Name, all[i]...)
	}
	return nil
}

// hasClass returns whether the class name is declared
// by the schema or already registered.
func (s *Schema) hasClass(reg *tree.Registry, name string) bool {
	return reg.Class(name) != nil || slices.ContainsFunc(s.Classes, func(c Class) bool { return c.Name == name })
}

// decls returns the declarations of the class at the given index.
func (s *Schema) decls(reg *tree.Registry, index int) ([]tree.Decl, error) {
	c := s.Classes[index]
	errorf := func(format string, a ...any) error {
		return fmt.Errorf("schema: class %q: %s", c.Name, fmt.Sprintf(format, a...))
	}
	if c.Name == "" {
		return nil, fmt.Errorf("schema: class %d has no name", index)
	}
	if reg.Class(c.Name) != nil {
		return nil, errorf("already registered")
	}
	if slices.ContainsFunc(s.Classes[:index], func(o Class) bool { return o.Name == c.Name }) {
		return nil, errorf("declared twice")
	}
	var decls []tree.Decl
	names := map[uint32]string{}
	for _, f := range c.Fields {
		if f.Name == "" {
			return nil, errorf("field without a name")
		}
		h := tree.HashName(f.Name)
		if o, has := names[h]; has {
			if o == f.Name {
				return nil, errorf("duplicate field %q", f.Name)
			}
			return nil, errorf("fields %q and %q have the same hash", o, f.Name)
		}
		names[h] = f.Name
		shape := tree.ShapeScalar
		if f.Shape != "" {
			var err error
			if shape, err = tree.ParseShape(f.Shape); err != nil {
				return nil, errorf("field %q: %v", f.Name, err)
			}
		}
		if shape.IsNode() && !s.hasClass(reg, f.Type) {
			return nil, errorf("field %q: unknown class %q", f.Name, f.Type)
		}
		meta, err := ParseMeta(f.Flags)
		if err != nil {
			return nil, errorf("field %q: %v", f.Name, err)
		}
		d, err := tree.Declare(shape, f.Type, f.Name, meta)
		if err != nil {
			return nil, errorf("%v", err)
		}
		decls = append(decls, d)
		if f.Link != "" {
			decls = append(decls, tree.LinkTo(f.Name, f.Link))
		}
	}
	for _, l := range c.Links {
		meta, err := ParseMeta(l.Flags)
		if err != nil {
			return nil, errorf("link %q: %v", l.Field, err)
		}
		decls = append(decls, tree.LinkTo(l.Field, l.Path, meta))
	}
	return decls, nil
}
