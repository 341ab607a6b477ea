// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"bytes"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/datamodel/tree"
)

func TestOpenRegister(t *testing.T) {
	s, err := Open("testdata/inventory.yaml")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", s.Version.String())
	require.Len(t, s.Classes, 4)

	reg := tree.NewRegistry()
	require.NoError(t, s.Register(reg))
	inv := reg.New("Inventory")
	require.NotNil(t, inv.Child("stats"), "strict fields are filled")

	f := reg.Class("Stats").Field("scores")
	assert.Equal(t, tree.ShapeMap, f.Shape)
	assert.Equal(t, "float64", f.Type)
	assert.True(t, reg.Class("Slot").Field("item").IsLink())
	assert.True(t, reg.Class("Slot").Field("alt").IsCollectionLink())
	assert.True(t, reg.Class("Slot").Field("alt").IsNullable())

	item := reg.New("Item")
	tree.Set(item, "name", "Ant")
	inv.SetChildMap("items", map[string]*tree.Node{"ant": item})
	slot := reg.New("Slot")
	tree.Set(slot, "item", "bee")
	inv.SetChildArray("slots", []*tree.Node{slot})

	reports := tree.Validate(inv)
	require.Len(t, reports, 1)
	assert.Equal(t, "slots.0.item", reports[0].Path)
	assert.Equal(t, "items.bee", reports[0].LinkedPath)
}

func TestCompatible(t *testing.T) {
	s, err := Parse([]byte("version: 1.2.0\nclasses: []\n"))
	require.NoError(t, err)
	assert.True(t, s.Compatible(semver.MustParse("1.0.0")))
	assert.True(t, s.Compatible(semver.MustParse("1.9.3")))
	assert.False(t, s.Compatible(semver.MustParse("2.0.0")))
	assert.False(t, s.Compatible(nil))

	ok, err := s.Satisfies(">= 1.2, < 2")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Satisfies("~1.3")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.Satisfies("not a constraint")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	s, err := Open("testdata/inventory.yaml")
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, s.Write(&b))
	res, err := Read(&b)
	require.NoError(t, err)
	assert.True(t, s.Version.Equal(res.Version))
	assert.Equal(t, s.Classes, res.Classes)
}

func TestErrors(t *testing.T) {
	reg := tree.NewRegistry()
	reg.Register("Existing", tree.Scalar("x", tree.Int32))
	for _, src := range []string{
		"",
		"classes: []\n",
		"version: one\nclasses: []\n",
		"version: 1.0.0\nunknown: 1\n",
		"version: 1.0.0\nclasses:\n  - fields: []\n",
		"version: 1.0.0\nclasses:\n  - name: Existing\n",
		"version: 1.0.0\nclasses:\n  - name: A\n  - name: A\n",
		"version: 1.0.0\nclasses:\n  - name: A\n    fields: [{name: x, type: int32}, {name: x, type: bool}]\n",
		"version: 1.0.0\nclasses:\n  - name: A\n    fields: [{name: x, shape: cube, type: int32}]\n",
		"version: 1.0.0\nclasses:\n  - name: A\n    fields: [{name: x, type: complex}]\n",
		"version: 1.0.0\nclasses:\n  - name: A\n    fields: [{name: x, shape: node, type: Missing}]\n",
		"version: 1.0.0\nclasses:\n  - name: A\n    fields: [{name: x, type: int32, flags: [loud]}]\n",
		"version: 1.0.0\nclasses:\n  - name: A\n    links: [{field: x, path: y, flags: [loud]}]\n",
	} {
		s, err := Parse([]byte(src))
		if err == nil {
			err = s.Register(reg)
		}
		assert.Error(t, err, src)
	}
	assert.Len(t, reg.Classes(), 1, "failed schemas register nothing")

	_, err := Open("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestRegisterHashCollision(t *testing.T) {
	require.Equal(t, tree.HashName("plumless"), tree.HashName("buckeroo"))
	reg := tree.NewRegistry()
	s, err := Parse([]byte(`version: 1.0.0
classes:
  - name: A
    fields: [{name: x, type: int32}]
  - name: B
    fields: [{name: plumless, type: int32}, {name: buckeroo, type: bool}]
`))
	require.NoError(t, err)
	err = s.Register(reg)
	assert.ErrorContains(t, err, "same hash")
	assert.Empty(t, reg.Classes())
}

func TestRegisterAgainstExisting(t *testing.T) {
	reg := tree.NewRegistry()
	reg.Register("Leaf", tree.Scalar("v", tree.Int32))
	s, err := Parse([]byte("version: 0.1.0\nclasses:\n  - name: Holder\n    fields: [{name: leaves, shape: node-array, type: Leaf}]\n"))
	require.NoError(t, err)
	require.NoError(t, s.Register(reg))
	h := reg.New("Holder")
	h.SetChildArray("leaves", []*tree.Node{reg.New("Leaf")})
	assert.Equal(t, "leaves.0", h.ChildArray("leaves")[0].Path())
}

func TestParseMeta(t *testing.T) {
	m, err := ParseMeta([]string{"strict", "abstract"})
	require.NoError(t, err)
	assert.Equal(t, tree.Strict|tree.Abstract, m)
	m, err = ParseMeta(nil)
	require.NoError(t, err)
	assert.Zero(t, m)
}
