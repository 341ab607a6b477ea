// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/datamodel/tree"
	"cogentcore.org/datamodel/tree/testdata"
)

func TestNewStrictFields(t *testing.T) {
	root := testdata.Root.New()
	mid := root.Child("mid")
	require.NotNil(t, mid)
	assert.Equal(t, root, mid.Parent())
	assert.Equal(t, "mid", mid.Key())
	assert.Equal(t, "", mid.CollectionKey())

	leaf := mid.Child("leaf")
	require.NotNil(t, leaf)
	assert.Equal(t, "mid.leaf", leaf.Path())
	assert.Equal(t, root, leaf.Root())
	assert.Equal(t, 2, leaf.Depth())

	assert.Nil(t, root.Child("extra"))
	assert.Equal(t, uint8(1), Get[uint8](root, "level"))
	assert.False(t, root.IsChanged())
	assert.False(t, mid.IsChanged())
	assert.True(t, root.IsRoot())
	assert.Equal(t, "", root.Path())
}

func TestCollectionKeys(t *testing.T) {
	root := testdata.NewRoot()
	items := root.ChildMap("items")
	a := items["a"]
	require.NotNil(t, a)
	assert.Equal(t, "a", a.Key())
	assert.Equal(t, "items", a.CollectionKey())
	assert.Equal(t, "items.a", a.Path())
	assert.Equal(t, "items.a", a.PathFrom(root))

	entries := root.ChildArray("entries")
	require.Len(t, entries, 1)
	assert.Equal(t, "entries.0", entries[0].Path())

	assert.Equal(t, a, root.FindPath("items.a"))
	assert.Equal(t, entries[0], root.FindPath("entries.0"))
	assert.Equal(t, root.Child("mid").Child("leaf"), root.FindPath("mid.leaf"))
	assert.Equal(t, root, root.FindPath(""))
	assert.Nil(t, root.FindPath("items.z"))
	assert.Nil(t, root.FindPath("entries.5"))
	assert.Nil(t, root.FindPath("entries"))
	assert.Nil(t, root.FindPath("level"))
	assert.Nil(t, root.FindPath("extra"))
	assert.Nil(t, root.FindPath("nope"))
}

func TestAddRemoveChild(t *testing.T) {
	root := testdata.Root.New()
	leaf := testdata.Leaf.New()

	var added, removing []*Node
	root.Bind(EventAdded, func(ev *Event) { added = append(added, ev.Target) })
	root.Bind(EventRemoving, func(ev *Event) {
		// raised before the child is unlinked
		assert.Equal(t, root, ev.Target.Parent())
		removing = append(removing, ev.Target)
	})

	root.SetChild("extra", leaf)
	assert.Equal(t, root, leaf.Parent())
	assert.Contains(t, root.Children(), leaf)
	assert.Equal(t, "extra", leaf.Key())
	assert.Equal(t, []*Node{leaf}, added)

	root.SetChild("extra", nil)
	assert.Nil(t, leaf.Parent())
	assert.NotContains(t, root.Children(), leaf)
	assert.Equal(t, []*Node{leaf}, removing)

	// a node can only have one owner at a time
	root.SetChild("extra", leaf)
	other := testdata.Root.New()
	assert.Panics(t, func() { other.SetChild("extra", leaf) })
	assert.Equal(t, root, leaf.Parent())

	// detaching first makes it possible
	root.SetChild("extra", nil)
	other.SetChild("extra", leaf)
	assert.Equal(t, other, leaf.Parent())
}

func TestSetChildContractViolations(t *testing.T) {
	root := testdata.Root.New()
	assert.Panics(t, func() { root.SetChild("mid", nil) }, "strict field set to nil")
	assert.Panics(t, func() { root.SetChild("extra", testdata.Item.New()) }, "wrong class")
	assert.Panics(t, func() { root.SetChild("extra", root.Child("mid").Child("leaf")) }, "owned elsewhere")
	assert.Panics(t, func() { root.SetChildArray("entries", []*Node{nil}) }, "nil element")
	e := testdata.NewEntry("a")
	assert.Panics(t, func() { root.SetChildArray("entries", []*Node{e, e}) }, "duplicate element")
	assert.Panics(t, func() {
		root.SetChildMap("items", map[string]*Node{"x": testdata.Item.New(), "y": nil})
	}, "nil map value")
	assert.Panics(t, func() { root.Child("level") }, "not a node field")
	assert.Panics(t, func() { root.Child("nope") }, "unknown field")
	assert.Equal(t, 1, root.NumChildren(), "failed sets leave the tree unchanged")
}

func TestNoCycles(t *testing.T) {
	f1 := testdata.Folder.New()
	f2 := testdata.Folder.New()
	f3 := testdata.Folder.New()
	f1.SetChildArray("folders", []*Node{f2})
	f2.SetChildArray("folders", []*Node{f3})

	assert.Panics(t, func() { f1.SetChildArray("folders", []*Node{f2, f1}) })
	assert.Panics(t, func() { f3.SetChildArray("folders", []*Node{f1}) })
	assert.Nil(t, f1.Parent())

	// walking up always terminates at the root
	steps := 0
	f3.WalkUp(func(k *Node) bool {
		steps++
		return Continue
	})
	assert.Equal(t, 3, steps)
	assert.Equal(t, f1, f3.Root())
	assert.Equal(t, "folders.0.folders.0", f3.Path())
}

func TestMoveWithinCollection(t *testing.T) {
	root := testdata.NewRoot()
	items := root.ChildMap("items")
	a, b := items["a"], items["b"]

	events := 0
	root.Bind(EventAdded, func(ev *Event) { events++ })
	root.Bind(EventRemoving, func(ev *Event) { events++ })

	root.SetChildMap("items", map[string]*Node{"a": b, "b": a})
	assert.Equal(t, 0, events, "moving within a collection keeps ownership")
	assert.Equal(t, "b", a.Key())
	assert.Equal(t, "a", b.Key())
	assert.Equal(t, root, a.Parent())
	assert.Equal(t, b, root.FindPath("items.a"))

	root.SetChildMap("items", map[string]*Node{"a": b})
	assert.Equal(t, 1, events)
	assert.Nil(t, a.Parent())
	assert.NotContains(t, root.Children(), a)
}

func TestReorderArray(t *testing.T) {
	root := testdata.Root.New()
	e0, e1 := testdata.NewEntry("a"), testdata.NewEntry("b")
	root.SetChildArray("entries", []*Node{e0, e1})
	assert.Equal(t, "0", e0.Key())

	renamed := 0
	e0.Bind(EventNameChanged, func(ev *Event) { renamed++ })
	root.SetChildArray("entries", []*Node{e1, e0})
	assert.Equal(t, "1", e0.Key())
	assert.Equal(t, "entries", e0.CollectionKey())
	assert.Equal(t, "0", e1.Key())
	assert.Equal(t, 1, renamed)
	assert.Equal(t, []*Node{e1, e0}, root.ChildArray("entries"))
}

func TestWalkDown(t *testing.T) {
	root := testdata.NewRoot()
	var paths []string
	root.WalkDown(func(k *Node) bool {
		paths = append(paths, k.Path())
		return k.Class() != testdata.Mid
	})
	assert.Equal(t, []string{"", "mid", "items.a", "items.b", "entries.0"}, paths)

	paths = nil
	root.WalkDownPost(func(k *Node) { paths = append(paths, k.Path()) })
	assert.Equal(t, []string{"mid.leaf", "mid", "items.a", "items.b", "entries.0", ""}, paths)
}

func TestDestroy(t *testing.T) {
	root := testdata.NewRoot()
	a := root.FindPath("items.a")
	assert.Panics(t, func() { a.Destroy() })
	root.Destroy()
	assert.True(t, root.IsDestroyed())
	assert.True(t, a.IsDestroyed())
}

func TestReset(t *testing.T) {
	root := testdata.NewRoot()
	mid := root.Child("mid")
	Set[uint8](root, "level", 7)
	root.Reset()
	assert.NotEqual(t, mid, root.Child("mid"), "strict fields get a new node")
	assert.NotNil(t, root.Child("mid"))
	assert.Nil(t, mid.Parent())
	assert.Empty(t, root.ChildMap("items"))
	assert.Empty(t, root.ChildArray("entries"))
	assert.Empty(t, GetArray[string](root, "tags"))
	assert.Equal(t, uint8(1), Get[uint8](root, "level"), "init runs again")
	assert.Equal(t, 1, root.NumChildren())
}

func TestAllocator(t *testing.T) {
	reg := NewRegistry()
	reg.Register("L", Scalar("v", Int32))
	reg.Register("P", Child("l", "L", Strict), ChildArray("ls", "L"))
	var allocated []string
	reg.Allocator = AllocatorFunc(func(c *Class) *Node {
		allocated = append(allocated, c.Name)
		return c.New()
	})
	p := reg.New("P")
	assert.Equal(t, []string{"L"}, allocated)
	p.Reset()
	assert.Equal(t, []string{"L", "L"}, allocated)

	require.NoError(t, p.UnmarshalJSON([]byte(`{"ls":[{"v":1},{"v":2}]}`)))
	assert.Len(t, allocated, 4)
	assert.Equal(t, int32(2), Get[int32](p.ChildArray("ls")[1], "v"))
}

func TestRegistration(t *testing.T) {
	reg := NewRegistry()
	reg.Register("A", Scalar("x", Int32))
	assert.Panics(t, func() { reg.Register("A") }, "duplicate class")
	assert.Panics(t, func() { reg.Register("B", Scalar("x", Int32), Scalar("x", String)) }, "duplicate field")

	reg.Register("C", Child("d", "D", Strict))
	reg.Register("D", Child("c", "C", Strict))
	assert.Panics(t, func() { reg.New("C") }, "strict cycle")

	reg.Register("E", Child("u", "Unknown"))
	assert.Panics(t, func() { reg.New("E").SetChild("u", reg.New("A")) }, "unknown class")
	assert.Panics(t, func() { reg.New("Nope") })

	assert.Equal(t, []string{"A", "C", "D", "E"}, classNames(reg.Classes()))
}

func classNames(cs []*Class) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

func TestFieldDescriptors(t *testing.T) {
	c := testdata.Item
	f := c.Field("count")
	require.NotNil(t, f)
	assert.Equal(t, 1, f.Index)
	assert.Equal(t, HashName("count"), f.Hash)
	assert.Equal(t, f, c.FieldByHash(f.Hash))
	assert.Equal(t, ShapeScalar, f.Shape)
	assert.Equal(t, "int32", f.Type)
	assert.Equal(t, "countChanged", f.ChangedEvent())
	assert.Equal(t, c, f.Class())

	mid := testdata.Root.Field("mid")
	assert.True(t, mid.IsStrict())
	assert.Equal(t, testdata.Mid, mid.Target())
	assert.True(t, mid.Shape.IsNode())

	item := testdata.Entry.Field("item")
	assert.True(t, item.IsLink())
	assert.False(t, item.IsCollectionLink())
	assert.True(t, testdata.Entry.Field("related").IsCollectionLink())
	assert.Len(t, testdata.Entry.Links(), 2)

	s, err := ParseShape("node-map")
	assert.NoError(t, err)
	assert.Equal(t, ShapeNodeMap, s)
	assert.True(t, s.IsKeyed())
}
