// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testdata registers classes used by the tree tests.
package testdata

import "cogentcore.org/datamodel/tree"

// The test classes, registered in [tree.DefaultRegistry].
var (
	Item = tree.Register("Item",
		tree.Scalar("name", tree.String),
		tree.Scalar("count", tree.Int32),
		tree.Scalar("price", tree.Float64),
		tree.Scalar("icon", tree.SoftPath),
	)

	Leaf = tree.Register("Leaf",
		tree.Scalar("value", tree.Int32),
		tree.Scalar("flag", tree.Bool),
	)

	Mid = tree.Register("Mid",
		tree.Child("leaf", "Leaf", tree.Strict),
		tree.Scalar("label", tree.String),
	)

	Entry = tree.Register("Entry",
		tree.Link("item", "items"),
		tree.LinkArray("related", "items", tree.Nullable),
		tree.Scalar("note", tree.String),
	)

	Root = tree.Register("Root",
		tree.Child("mid", "Mid", tree.Strict),
		tree.ChildMap("items", "Item"),
		tree.ChildArray("entries", "Entry"),
		tree.Child("extra", "Leaf"),
		tree.Scalar("level", tree.Uint8),
		tree.Array("tags", tree.String),
		tree.Map("weights", tree.Float32),
	).OnInit(func(n *tree.Node) {
		tree.Set[uint8](n, "level", 1)
	})

	Folder = tree.Register("Folder",
		tree.Scalar("name", tree.String),
		tree.ChildArray("folders", "Folder"),
	)

	Broken = tree.Register("Broken",
		tree.LinkTo("missing", "items"),
		tree.Link("abstract", "items", tree.Abstract),
		tree.Link("nowhere", "nothing.here"),
		tree.Scalar("count", tree.Int64),
	)
)

// NewItem returns a new Item with the given name and count.
func NewItem(name string, count int32) *tree.Node {
	n := Item.New()
	tree.Set(n, "name", name)
	tree.Set(n, "count", count)
	return n
}

// NewEntry returns a new Entry linking to the given item key.
func NewEntry(item string, related ...string) *tree.Node {
	n := Entry.New()
	tree.Set(n, "item", item)
	tree.SetArray(n, "related", related)
	return n
}

// NewRoot returns a new Root with items "a" and "b"
// and one entry linking to "a".
func NewRoot() *tree.Node {
	n := Root.New()
	n.SetChildMap("items", map[string]*tree.Node{
		"b": NewItem("Bee", 2),
		"a": NewItem("Ant", 1),
	})
	n.SetChildArray("entries", []*tree.Node{NewEntry("a")})
	tree.SetArray(n, "tags", []string{"x", "y"})
	tree.SetMap(n, "weights", map[string]float32{"w": 0.5})
	n.SetChanged(false)
	return n
}
