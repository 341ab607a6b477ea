// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filestore provides a [store.Backend] that keeps each
// revision in its own file, in a directory per name.
package filestore

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/store"
)

// Ext is the extension of revision files.
const Ext = ".rec"

// Store is a [store.Backend] rooted at a directory. Revision n of a
// name is stored in <dir>/<name>/<n>.rec, with n zero padded to 8 digits.
type Store struct {
	dir string

	// mu serializes appends made through this value.
	mu sync.Mutex
}

// New returns a new file store rooted at the given directory, which
// may start with ~ and is created if it does not exist.
func New(dir string) (*Store, error) {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) nameDir(name string) (string, error) {
	if err := store.CheckName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// files returns the revision files of the given directory in order.
func files(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var fns []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == Ext {
			fns = append(fns, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(fns)
	return fns, nil
}

func notFound(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	return err
}

func readRecord(fn string) (store.Record, error) {
	var rec store.Record
	b, err := os.ReadFile(fn)
	if err != nil {
		return rec, err
	}
	if err := rec.UnmarshalBinary(b); err != nil {
		return rec, fmt.Errorf("%s: %w", fn, err)
	}
	return rec, nil
}

func (s *Store) Append(ctx context.Context, rec store.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := s.nameDir(rec.Name)
	if err != nil {
		return err
	}
	b, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	fns, err := files(dir)
	if err != nil {
		return err
	}
	fn := filepath.Join(dir, fmt.Sprintf("%08d%s", len(fns)+1, Ext))
	tmp, err := os.CreateTemp(dir, ".append-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fn)
}

func (s *Store) Load(ctx context.Context, name string, id uuid.UUID) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return store.Record{}, err
	}
	dir, err := s.nameDir(name)
	if err != nil {
		return store.Record{}, err
	}
	fns, err := files(dir)
	if err != nil {
		return store.Record{}, notFound(name, err)
	}
	if len(fns) == 0 {
		return store.Record{}, notFound(name, fs.ErrNotExist)
	}
	if id == uuid.Nil {
		return readRecord(fns[len(fns)-1])
	}
	for _, fn := range slices.Backward(fns) {
		rec, err := readRecord(fn)
		if err != nil {
			return rec, err
		}
		if rec.ID == id {
			return rec, nil
		}
	}
	return store.Record{}, fmt.Errorf("%w: %q revision %v", store.ErrNotFound, name, id)
}

func (s *Store) History(ctx context.Context, name string) ([]store.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.nameDir(name)
	if err != nil {
		return nil, err
	}
	fns, err := files(dir)
	if err != nil {
		return nil, notFound(name, err)
	}
	revs := make([]store.Revision, len(fns))
	for i, fn := range fns {
		rec, err := readRecord(fn)
		if err != nil {
			return nil, err
		}
		revs[i] = rec.Revision
	}
	return revs, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() && store.CheckName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := s.nameDir(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		return notFound(name, err)
	}
	return os.RemoveAll(dir)
}

func (s *Store) Close() error { return nil }

// Watch calls fun with each revision of the given name added after
// Watch is called, including those written by other processes, until
// the context is done. It returns once the watcher is running.
func (s *Store) Watch(ctx context.Context, name string, fun func(rev store.Revision)) error {
	dir, err := s.nameDir(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != fsnotify.Create || !strings.HasSuffix(event.Name, Ext) {
					continue
				}
				rec, err := readRecord(event.Name)
				if errors.Log(err) != nil {
					continue
				}
				fun(rec.Revision)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("filestore: watching", "name", name, "err", err)
			}
		}
	}()
	return nil
}
