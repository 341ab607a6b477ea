// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store keeps named snapshots of trees, each with a history
// of revisions identified by the content hash of the tree. The
// [Store] encodes and decodes trees and delegates the records to a
// [Backend], such as [Memory], the file backend in store/filestore or
// the redis backend in store/redisstore.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"cogentcore.org/datamodel/serial"
	"cogentcore.org/datamodel/tree"
)

var (
	// ErrNotFound is returned for names and revisions that are not stored.
	ErrNotFound = errors.New("store: not found")

	// ErrIncompatible is returned when a revision was written with a
	// schema version whose major version differs from that of the store.
	ErrIncompatible = errors.New("store: incompatible schema version")

	// ErrInvalidName is returned for names that can't be stored.
	ErrInvalidName = errors.New("store: invalid name")
)

// Revision describes one stored snapshot of a named tree.
type Revision struct {

	// ID uniquely identifies the revision.
	ID uuid.UUID

	// Name is the name of the tree.
	Name string

	// Seq is the 1 based position of the revision in the history of the name.
	Seq int

	// Hash is the content hash of the tree.
	Hash string

	// Schema is the schema version the tree was written with, or "".
	Schema string

	// Format is the format of the data.
	Format serial.Format

	// Time is when the revision was stored.
	Time time.Time
}

func (r Revision) String() string {
	return fmt.Sprintf("%s@%d %s", r.Name, r.Seq, r.Hash)
}

// Record is a [Revision] with its encoded tree.
type Record struct {
	Revision
	Data []byte
}

// Backend persists records. Implementations must be safe for concurrent use.
type Backend interface {

	// Append adds a record at the end of the history of its name.
	Append(ctx context.Context, rec Record) error

	// Load returns the record of the given name with the given id,
	// or the latest record if id is [uuid.Nil]. It returns
	// [ErrNotFound] if there is no such record.
	Load(ctx context.Context, name string, id uuid.UUID) (Record, error)

	// History returns the revisions of the given name, oldest first.
	History(ctx context.Context, name string) ([]Revision, error)

	// Names returns the stored names in sorted order.
	Names(ctx context.Context) ([]string, error)

	// Delete removes the given name and all of its revisions.
	Delete(ctx context.Context, name string) error

	// Close releases the resources of the backend.
	Close() error
}

// Options are the options of a [Store].
type Options struct {

	// Format is the format trees are encoded in.
	Format serial.Format

	// Hash is the content hash algorithm.
	Hash tree.HashAlgorithm

	// Schema is the schema version of the trees. If it is set,
	// revisions written with a different major version can't be read.
	Schema *semver.Version
}

// DefaultOptions returns the default options: binary data
// hashed with [tree.HashBlake2b] and no schema version.
func DefaultOptions() Options {
	return Options{Format: serial.Binary, Hash: tree.HashBlake2b}
}

// Store stores trees in a [Backend].
type Store struct {
	Options
	backend Backend
}

// New returns a new store on the given backend.
func New(b Backend, opts Options) *Store {
	return &Store{Options: opts, backend: b}
}

// Backend returns the backend of the store.
func (s *Store) Backend() Backend { return s.backend }

var validName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// CheckName returns [ErrInvalidName] if the name can't be stored.
// Names are made of letters, digits, '_', '.' and '-', and do
// not start with '.' or '-'.
func CheckName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Put stores the tree under the given name. If the latest revision
// has the same content hash, no revision is added and it is returned.
func (s *Store) Put(ctx context.Context, name string, n *tree.Node) (Revision, error) {
	if err := CheckName(name); err != nil {
		return Revision{}, err
	}
	hash := tree.ContentHashWith(n, s.Hash)
	head, err := s.backend.Load(ctx, name, uuid.Nil)
	switch {
	case err == nil:
		if head.Hash == hash {
			return head.Revision, nil
		}
	case errors.Is(err, ErrNotFound):
	default:
		return Revision{}, err
	}
	var b bytes.Buffer
	if err := tree.Write(n, s.Format, &b); err != nil {
		return Revision{}, err
	}
	rec := Record{
		Revision: Revision{
			ID:     uuid.New(),
			Name:   name,
			Seq:    head.Seq + 1,
			Hash:   hash,
			Format: s.Format,
			Time:   time.Now().UTC(),
		},
		Data: b.Bytes(),
	}
	if s.Schema != nil {
		rec.Schema = s.Schema.String()
	}
	if err := s.backend.Append(ctx, rec); err != nil {
		return Revision{}, err
	}
	return rec.Revision, nil
}

// Get reads the latest revision of the given name into the tree.
func (s *Store) Get(ctx context.Context, name string, n *tree.Node) (Revision, error) {
	return s.GetRevision(ctx, name, uuid.Nil, n)
}

// GetRevision reads the revision of the given name with the given id
// into the tree, or the latest revision if id is [uuid.Nil]. It
// returns [ErrIncompatible] if the schema versions don't match.
func (s *Store) GetRevision(ctx context.Context, name string, id uuid.UUID, n *tree.Node) (Revision, error) {
	rec, err := s.backend.Load(ctx, name, id)
	if err != nil {
		return Revision{}, err
	}
	if err := s.compatible(rec.Revision); err != nil {
		return rec.Revision, err
	}
	if err := tree.Read(n, rec.Format, bytes.NewReader(rec.Data)); err != nil {
		return rec.Revision, fmt.Errorf("store: reading %v: %w", rec.Revision, err)
	}
	if h := tree.ContentHashWith(n, s.Hash); h != rec.Hash {
		slog.Warn("store: content hash differs after reading", "revision", rec.Revision.String(), "hash", h)
	}
	return rec.Revision, nil
}

func (s *Store) compatible(r Revision) error {
	if s.Schema == nil || r.Schema == "" {
		return nil
	}
	v, err := semver.NewVersion(r.Schema)
	if err != nil {
		return fmt.Errorf("%w: %v has version %q: %v", ErrIncompatible, r, r.Schema, err)
	}
	if v.Major() != s.Schema.Major() {
		return fmt.Errorf("%w: %v has version %s, not %d.x", ErrIncompatible, r, v, s.Schema.Major())
	}
	return nil
}

// Head returns the latest revision of the given name.
func (s *Store) Head(ctx context.Context, name string) (Revision, error) {
	rec, err := s.backend.Load(ctx, name, uuid.Nil)
	return rec.Revision, err
}

// History returns the revisions of the given name, oldest first.
func (s *Store) History(ctx context.Context, name string) ([]Revision, error) {
	return s.backend.History(ctx, name)
}

// Names returns the stored names in sorted order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	return s.backend.Names(ctx)
}

// Delete removes the given name and all of its revisions.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, name)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
