// Copyright (c) 2025, Cogent Core. All rights reserved.
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

func TestContentHashOrder(t *testing.T) {
	r1 := testdata.Root.New()
	r1.SetChildMap("items", map[string]*Node{"a": testdata.NewItem("Ant", 1)})
	r1.SetChildMap("items", map[string]*Node{"a": r1.FindPath("items.a"), "b": testdata.NewItem("Bee", 2)})

	r2 := testdata.Root.New()
	r2.SetChildMap("items", map[string]*Node{"b": testdata.NewItem("Bee", 2)})
	r2.SetChildMap("items", map[string]*Node{"b": r2.FindPath("items.b"), "a": testdata.NewItem("Ant", 1)})

	assert.NotEqual(t, r1.Children(), r2.Children())
	assert.Equal(t, ContentHash(r1), ContentHash(r2), "attach order is not part of the content")
	assert.Equal(t, r1.Hash(), ContentHash(r1))

	SetMap(r1, "weights", map[string]float32{"x": 1, "y": 2})
	SetMap(r2, "weights", map[string]float32{"y": 2, "x": 1})
	assert.Equal(t, ContentHash(r1), ContentHash(r2))
}

func TestContentHashChanges(t *testing.T) {
	root := testdata.NewRoot()
	h := ContentHash(root)
	assert.Len(t, h, 32)
	assert.Equal(t, h, ContentHash(root), "hashing is deterministic")

	leaf := root.FindPath("mid.leaf")
	Set[int32](leaf, "value", 1)
	h1 := ContentHash(root)
	assert.NotEqual(t, h, h1, "deep changes change the hash")
	Set[int32](leaf, "value", 0)
	assert.Equal(t, h, ContentHash(root))

	SetArray(root, "tags", []string{"y", "x"})
	assert.NotEqual(t, h, ContentHash(root), "array order is content")

	// keys and parents are not content
	assert.Equal(t, ContentHash(testdata.NewItem("Ant", 1)), ContentHash(root.FindPath("items.a")))
}

func TestContentHashAlgorithms(t *testing.T) {
	root := testdata.NewRoot()
	b := ContentHashWith(root, HashBlake2b)
	m := ContentHashWith(root, HashMD5)
	assert.Len(t, b, 32)
	assert.Len(t, m, 32)
	assert.NotEqual(t, b, m)
	assert.Equal(t, b, ContentHash(root))

	alg, err := ParseHashAlgorithm("md5")
	require.NoError(t, err)
	assert.Equal(t, HashMD5, alg)
	assert.Equal(t, "md5", alg.String())
	alg, err = ParseHashAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, HashBlake2b, alg)
	_, err = ParseHashAlgorithm("sha3")
	assert.Error(t, err)
}
