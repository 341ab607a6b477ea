// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package redisstore provides a [store.Backend] that keeps the
// revisions of each name in a redis list.
package redisstore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/store"
)

// Options are the options for connecting to redis.
type Options struct {

	// Addr is the address of the server, as host:port.
	Addr string

	// Password is the optional password.
	Password string

	// DB is the database number.
	DB int

	// Prefix is prepended to all keys.
	Prefix string
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{Addr: "localhost:6379", Prefix: "datamodel:"}
}

// Store is a [store.Backend] on a redis server. The records of a
// name are in the list <prefix>rev:<name>, the names in the set
// <prefix>names, and the ids of new revisions are published on the
// channel <prefix>events:<name>.
type Store struct {
	client *redis.Client
	prefix string
}

// New connects to the server with the given options.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: connecting to %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient returns a new store using an existing client.
func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) revKey(name string) string   { return s.prefix + "rev:" + name }
func (s *Store) namesKey() string            { return s.prefix + "names" }
func (s *Store) eventKey(name string) string { return s.prefix + "events:" + name }

func (s *Store) Append(ctx context.Context, rec store.Record) error {
	if err := store.CheckName(rec.Name); err != nil {
		return err
	}
	b, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, s.revKey(rec.Name), b)
		p.SAdd(ctx, s.namesKey(), rec.Name)
		return nil
	})
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.eventKey(rec.Name), rec.ID.String()).Err()
}

func decode(b []byte) (store.Record, error) {
	var rec store.Record
	err := rec.UnmarshalBinary(b)
	return rec, err
}

func (s *Store) Load(ctx context.Context, name string, id uuid.UUID) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return store.Record{}, err
	}
	if id == uuid.Nil {
		b, err := s.client.LIndex(ctx, s.revKey(name), -1).Bytes()
		if errors.Is(err, redis.Nil) {
			return store.Record{}, fmt.Errorf("%w: %q", store.ErrNotFound, name)
		}
		if err != nil {
			return store.Record{}, err
		}
		return decode(b)
	}
	all, err := s.client.LRange(ctx, s.revKey(name), 0, -1).Result()
	if err != nil {
		return store.Record{}, err
	}
	if len(all) == 0 {
		return store.Record{}, fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	for _, b := range slices.Backward(all) {
		rec, err := decode([]byte(b))
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
	all, err := s.client.LRange(ctx, s.revKey(name), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	revs := make([]store.Revision, len(all))
	for i, b := range all {
		rec, err := decode([]byte(b))
		if err != nil {
			return nil, err
		}
		revs[i] = rec.Revision
	}
	return revs, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.namesKey()).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.revKey(name))
		p.SRem(ctx, s.namesKey(), name)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %q", store.ErrNotFound, name)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Watch calls fun with each revision of the given name added after
// Watch is called, until the context is done. It returns once the
// subscription is active.
func (s *Store) Watch(ctx context.Context, name string, fun func(rev store.Revision)) error {
	if err := store.CheckName(name); err != nil {
		return err
	}
	sub := s.client.Subscribe(ctx, s.eventKey(name))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}
	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				id, err := uuid.Parse(msg.Payload)
				if errors.Log(err) != nil {
					continue
				}
				rec, err := s.Load(ctx, name, id)
				if err != nil {
					if ctx.Err() == nil {
						slog.Error("redisstore: watching", "name", name, "err", err)
					}
					continue
				}
				fun(rec.Revision)
			}
		}
	}()
	return nil
}
