// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"strings"
)

// ReportKind is the kind of a validation [Report].
type ReportKind int32

const (
	// ReportLogic is a declaration error: a link that can not be
	// resolved through the registry, or that must not be used.
	ReportLogic ReportKind = iota

	// ReportLink is a data error: a link value that names a key
	// missing from its collection, or an empty required link.
	ReportLink
)

func (k ReportKind) String() string {
	switch k {
	case ReportLogic:
		return "Logic"
	case ReportLink:
		return "Link"
	}
	return fmt.Sprintf("ReportKind(%d)", int32(k))
}

// Report is one finding of [Validate].
type Report struct {
	Kind ReportKind

	// Path is the dotted path of the link field from the root,
	// or the declared path of a collection that does not exist.
	Path string

	// Reason is a short description of the finding.
	Reason string

	// LinkedPath is the dotted path of the missing collection entry.
	LinkedPath string

	// Suggestion is the existing key most similar to a missing one.
	Suggestion string
}

func (r Report) String() string {
	s := r.Kind.String() + ": " + r.Path + ": " + r.Reason
	if r.LinkedPath != "" {
		s += " (" + r.LinkedPath + ")"
	}
	if r.Suggestion != "" {
		s += ", did you mean " + r.Suggestion + "?"
	}
	return s
}

// Validate checks every link field of the node and of all of its owned
// nodes against the keyed collections they refer to, which are looked up
// from the root of the tree. It returns every finding; an empty result
// means the tree is consistent.
func Validate(n *Node) []Report {
	var reports []Report
	root := n.Root()
	n.WalkDown(func(k *Node) bool {
		reports = k.validateLinks(root, reports)
		return Continue
	})
	return reports
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	return a + "." + b
}

func (n *Node) validateLinks(root *Node, reports []Report) []Report {
	for _, ref := range n.class.links {
		path := joinPath(n.Path(), ref.Name)
		logic := func(path, reason string) {
			reports = append(reports, Report{Kind: ReportLogic, Path: path, Reason: reason})
		}
		if ref.Meta&Abstract != 0 || (ref.Field != nil && ref.Field.IsAbstract()) {
			logic(path, "Used abstract property")
			continue
		}
		if ref.Field == nil {
			logic(path, "Used undeclared property")
			continue
		}
		coll := lookupCollection(root, ref.Path)
		if coll == nil {
			logic(ref.Path, "Used undeclared property")
			continue
		}
		var keys []string
		switch p := n.props[ref.Field.Index].(type) {
		case *ScalarProperty[string]:
			keys = []string{p.value}
		case *ArrayProperty[string]:
			keys = p.values
		default:
			logic(path, "Link property is not a string or string array")
			continue
		}
		nullable := ref.Meta&Nullable != 0 || ref.Field.IsNullable()
		for _, key := range keys {
			switch {
			case key == "":
				if !nullable {
					reports = append(reports, Report{Kind: ReportLink, Path: path, Reason: "Property is empty", LinkedPath: ref.Path + ".?"})
				}
			case !coll.Has(key):
				reports = append(reports, Report{Kind: ReportLink, Path: path, Reason: "Property not found",
					LinkedPath: ref.Path + "." + key, Suggestion: suggest(key, coll.Keys())})
			}
		}
	}
	return reports
}

// lookupCollection returns the keyed property at the given
// dotted path from the root, or nil if there is none.
func lookupCollection(root *Node, path string) Keyed {
	owner, name := root, path
	if i := strings.LastIndex(path, "."); i >= 0 {
		owner, name = root.FindPath(path[:i]), path[i+1:]
	}
	if owner == nil {
		return nil
	}
	p, ok := owner.LookupProperty(name)
	if !ok {
		return nil
	}
	keyed, _ := p.(Keyed)
	return keyed
}
