// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Memory is a [Backend] that keeps records in memory.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemory returns a new empty [Memory] backend.
func NewMemory() *Memory {
	return &Memory{records: map[string][]Record{}}
}

func (m *Memory) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckName(rec.Name); err != nil {
		return err
	}
	rec.Data = slices.Clone(rec.Data)
	m.mu.Lock()
	m.records[rec.Name] = append(m.records[rec.Name], rec)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(ctx context.Context, name string, id uuid.UUID) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := m.records[name]
	if len(recs) == 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if id == uuid.Nil {
		return recs[len(recs)-1], nil
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %q revision %v", ErrNotFound, name, id)
}

func (m *Memory) History(ctx context.Context, name string) ([]Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs, ok := m.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	revs := make([]Revision, len(recs))
	for i, rec := range recs {
		revs[i] = rec.Revision
	}
	return revs, nil
}

func (m *Memory) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.records)), nil
}

func (m *Memory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(m.records, name)
	return nil
}

func (m *Memory) Close() error { return nil }
