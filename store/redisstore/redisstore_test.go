// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/datamodel/store"
	"cogentcore.org/datamodel/store/storetest"
	"cogentcore.org/datamodel/tree/testdata"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewWithClient(client, "test:")
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestBackend(t *testing.T) {
	s, _ := setupTestRedis(t)
	storetest.Backend(t, s)
}

func TestNew(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	opts := DefaultOptions()
	assert.Equal(t, "datamodel:", opts.Prefix)
	opts.Addr = mr.Addr()
	s, err := New(context.Background(), opts)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(context.Background(), storetest.NewRecord("doc", 1)))
	assert.True(t, mr.Exists("datamodel:rev:doc"))
	members, err := mr.Members("datamodel:names")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, members)

	mr.Close()
	_, err = New(context.Background(), opts)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, storetest.NewRecord("doc", 1)))
	require.NoError(t, s.Append(ctx, storetest.NewRecord("doc", 2)))
	list, err := mr.List("test:rev:doc")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = mr.Lpush("test:rev:bad", "not a record")
	require.NoError(t, err)
	_, err = s.Load(ctx, "bad", uuid.Nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestStoreAndWatch(t *testing.T) {
	b, _ := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	revs := make(chan store.Revision, 4)
	require.NoError(t, b.Watch(ctx, "inv", func(rev store.Revision) { revs <- rev }))
	assert.ErrorIs(t, b.Watch(ctx, "a b", nil), store.ErrInvalidName)

	s := store.New(b, store.DefaultOptions())
	want, err := s.Put(ctx, "inv", testdata.NewRoot())
	require.NoError(t, err)
	select {
	case rev := <-revs:
		assert.Equal(t, want, rev)
	case <-time.After(5 * time.Second):
		t.Fatal("no revision seen by the watcher")
	}

	res := testdata.Root.New()
	got, err := s.Get(ctx, "inv", res)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want.Hash, res.Hash())
}
