// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/datamodel/tree"
	"cogentcore.org/datamodel/tree/testdata"
)

func TestScalarSet(t *testing.T) {
	n := testdata.Item.New()
	changes := 0
	n.Bind("nameChanged", func(ev *Event) {
		changes++
		assert.Equal(t, n, ev.Target)
		assert.Equal(t, "name", ev.Field.Name)
	})
	assert.False(t, n.IsChanged())
	Set(n, "name", "Ant")
	Set(n, "name", "Ant")
	assert.Equal(t, 1, changes, "setting an equal value does nothing")
	assert.True(t, n.IsChanged())
	assert.Equal(t, "Ant", Get[string](n, "name"))

	n.SetChanged(false)
	Set(n, "icon", SoftObjectPath{AssetPath: "/Game/Icons/Ant"})
	assert.True(t, n.IsChanged())
	assert.Equal(t, "/Game/Icons/Ant", Get[SoftObjectPath](n, "icon").String())
}

func TestArraySet(t *testing.T) {
	n := testdata.Root.New()
	changes := 0
	n.BindField("tags", func(ev *Event) { changes++ })

	tags := []string{"a", "b"}
	SetArray(n, "tags", tags)
	tags[0] = "z"
	assert.Equal(t, []string{"a", "b"}, GetArray[string](n, "tags"), "Set copies the slice")
	SetArray(n, "tags", []string{"a", "b"})
	assert.Equal(t, 1, changes)

	got := GetArray[string](n, "tags")
	got[1] = "q"
	assert.Equal(t, []string{"a", "b"}, GetArray[string](n, "tags"), "Get returns a copy")

	p := n.Property("tags").(*ArrayProperty[string])
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "b", p.At(1))

	SetArray[string](n, "tags", nil)
	assert.Equal(t, 2, changes)
	assert.Empty(t, GetArray[string](n, "tags"))
}

func TestMapSet(t *testing.T) {
	n := testdata.Root.New()
	changes := 0
	n.BindField("weights", func(ev *Event) { changes++ })

	SetMap(n, "weights", map[string]float32{"c": 3, "a": 1, "b": 2})
	p := n.Property("weights").(*MapProperty[float32])
	assert.Equal(t, []string{"a", "b", "c"}, p.Keys())
	assert.True(t, p.Has("b"))
	assert.False(t, p.Has("d"))
	v, ok := p.Value("c")
	assert.True(t, ok)
	assert.Equal(t, float32(3), v)

	SetMap(n, "weights", map[string]float32{"b": 2, "c": 3, "a": 1})
	assert.Equal(t, 1, changes, "maps with equal entries are equal")

	m := GetMap[float32](n, "weights")
	m["d"] = 4
	assert.Len(t, GetMap[float32](n, "weights"), 3)
}

func TestSetNaN(t *testing.T) {
	n := testdata.Item.New()
	changes := 0
	n.BindField("price", func(ev *Event) { changes++ })
	Set(n, "price", math.NaN())
	Set(n, "price", math.NaN())
	assert.Equal(t, 1, changes, "NaN over NaN is not a change")
	assert.True(t, math.IsNaN(Get[float64](n, "price")))

	r := testdata.Root.New()
	weights := 0
	r.BindField("weights", func(ev *Event) { weights++ })
	nan := float32(math.NaN())
	SetMap(r, "weights", map[string]float32{"w": nan})
	SetMap(r, "weights", map[string]float32{"w": nan})
	assert.Equal(t, 1, weights)
}

func TestPropertyAccessPanics(t *testing.T) {
	n := testdata.Item.New()
	assert.Panics(t, func() { Get[int64](n, "count") }, "wrong type")
	assert.Panics(t, func() { Set(n, "count", "x") }, "wrong type")
	assert.Panics(t, func() { GetArray[string](n, "name") }, "wrong shape")
	assert.Panics(t, func() { Get[string](n, "nope") })
	assert.Panics(t, func() { n.PropertyAt(4) })
	assert.Panics(t, func() { n.PropertyAt(-1) })
	assert.Panics(t, func() { n.PropertyByHash(HashName("nope")) })
	_, ok := n.LookupProperty("nope")
	assert.False(t, ok)
}

func TestPropertyByHash(t *testing.T) {
	n := testdata.Item.New()
	h := HashName("count")
	SetByHash[int32](n, h, 9)
	assert.Equal(t, int32(9), GetByHash[int32](n, h))
	assert.Equal(t, int32(9), Get[int32](n, "count"))
	assert.Equal(t, n.Property("count"), n.PropertyByHash(h))
	assert.Equal(t, n.Property("count"), n.PropertyAt(1))

	require.Equal(t, 4, n.NumProperties())
	for i, p := range n.Properties() {
		assert.Equal(t, i, p.Field().Index)
	}
	assert.Equal(t, int32(9), n.Property("count").Any())
}

func TestKeyedProperties(t *testing.T) {
	root := testdata.NewRoot()
	items, ok := root.Property("items").(Keyed)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, items.Keys())
	assert.True(t, items.Has("a"))

	weights, ok := root.Property("weights").(Keyed)
	require.True(t, ok)
	assert.Equal(t, []string{"w"}, weights.Keys())

	_, ok = root.Property("entries").(Keyed)
	assert.False(t, ok)
	_, ok = root.Property("tags").(Keyed)
	assert.False(t, ok)
}

func TestDeclare(t *testing.T) {
	reg := NewRegistry()
	var decls []Decl
	for _, d := range []struct {
		shape     Shape
		typ, name string
	}{
		{ShapeScalar, "int64", "id"},
		{ShapeArray, "string", "names"},
		{ShapeMap, "float64", "scores"},
		{ShapeNodeArray, "Thing", "things"},
	} {
		decl, err := Declare(d.shape, d.typ, d.name)
		require.NoError(t, err)
		decls = append(decls, decl)
	}
	_, err := Declare(ShapeScalar, "complex", "z")
	assert.Error(t, err)

	reg.Register("Thing", decls...)
	n := reg.New("Thing")
	Set[int64](n, "id", 7)
	SetArray(n, "names", []string{"x"})
	SetMap(n, "scores", map[string]float64{"s": 1.5})
	n.SetChildArray("things", []*Node{reg.New("Thing")})
	assert.Equal(t, "things.0", n.ChildArray("things")[0].Path())
	assert.Equal(t, "int64", n.Class().Field("id").Type)
	assert.Equal(t, ShapeMap, n.Class().Field("scores").Shape)
}
