// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/datamodel/store"
	"cogentcore.org/datamodel/store/storetest"
	"cogentcore.org/datamodel/tree"
	"cogentcore.org/datamodel/tree/testdata"
)

func TestBackend(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	storetest.Backend(t, s)
}

func TestLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "root")
	s, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	ctx := context.Background()
	require.NoError(t, s.Append(ctx, storetest.NewRecord("doc", 1)))
	require.NoError(t, s.Append(ctx, storetest.NewRecord("doc", 2)))
	assert.FileExists(t, filepath.Join(dir, "doc", "00000001.rec"))
	assert.FileExists(t, filepath.Join(dir, "doc", "00000002.rec"))

	// other files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc", "notes.txt"), []byte("x"), 0640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.rec"), []byte("x"), 0640))
	hist, err := s.History(ctx, "doc")
	require.NoError(t, err)
	assert.Len(t, hist, 2)
	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, names)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc", "00000003.rec"), []byte("bad"), 0640))
	_, err = s.Load(ctx, "doc", uuid.Nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	b, err := New(t.TempDir())
	require.NoError(t, err)
	s := store.New(b, store.DefaultOptions())

	root := testdata.NewRoot()
	_, err = s.Put(ctx, "inv", root)
	require.NoError(t, err)
	tree.Set(root.FindPath("items.b"), "count", int32(9))
	rev, err := s.Put(ctx, "inv", root)
	require.NoError(t, err)
	assert.Equal(t, 2, rev.Seq)

	// a second store on the same directory sees the revisions
	b2, err := New(b.Dir())
	require.NoError(t, err)
	res := testdata.Root.New()
	got, err := store.New(b2, store.DefaultOptions()).Get(ctx, "inv", res)
	require.NoError(t, err)
	assert.Equal(t, rev, got)
	assert.Equal(t, int32(9), tree.Get[int32](res.FindPath("items.b"), "count"))
}

func TestWatch(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	revs := make(chan store.Revision, 4)
	require.NoError(t, b.Watch(ctx, "inv", func(rev store.Revision) { revs <- rev }))
	assert.ErrorIs(t, b.Watch(ctx, "../inv", nil), store.ErrInvalidName)

	s := store.New(b, store.DefaultOptions())
	want, err := s.Put(ctx, "inv", testdata.NewRoot())
	require.NoError(t, err)
	select {
	case rev := <-revs:
		assert.Equal(t, want, rev)
	case <-time.After(5 * time.Second):
		t.Fatal("no revision seen by the watcher")
	}
}
