// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storetest provides tests shared by all [store.Backend]
// implementations.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/datamodel/serial"
	"cogentcore.org/datamodel/store"
)

// NewRecord returns a record with the given name and sequence number.
func NewRecord(name string, seq int) store.Record {
	return store.Record{
		Revision: store.Revision{
			ID:     uuid.New(),
			Name:   name,
			Seq:    seq,
			Hash:   fmt.Sprintf("%032x", seq),
			Schema: "1.0.0",
			Format: serial.Binary,
			Time:   time.Unix(1700000000+int64(seq), 0).UTC(),
		},
		Data: []byte{9, byte(seq), 0, 10},
	}
}

// Backend runs the shared backend tests on an empty backend.
func Backend(t *testing.T, b store.Backend) {
	ctx := context.Background()

	names, err := b.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = b.Load(ctx, "missing", uuid.Nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = b.History(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, b.Delete(ctx, "missing"), store.ErrNotFound)

	assert.ErrorIs(t, b.Append(ctx, NewRecord("../up", 1)), store.ErrInvalidName)

	r1, r2 := NewRecord("doc", 1), NewRecord("doc", 2)
	require.NoError(t, b.Append(ctx, r1))
	require.NoError(t, b.Append(ctx, r2))
	require.NoError(t, b.Append(ctx, NewRecord("alpha", 1)))

	head, err := b.Load(ctx, "doc", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, r2, head)

	first, err := b.Load(ctx, "doc", r1.ID)
	require.NoError(t, err)
	assert.Equal(t, r1, first)

	_, err = b.Load(ctx, "doc", uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	hist, err := b.History(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []store.Revision{r1.Revision, r2.Revision}, hist)

	names, err = b.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "doc"}, names)

	require.NoError(t, b.Delete(ctx, "doc"))
	_, err = b.Load(ctx, "doc", uuid.Nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
	names, err = b.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = b.Load(canceled, "alpha", uuid.Nil)
	assert.ErrorIs(t, err, context.Canceled)
}
