// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/store"
	"cogentcore.org/datamodel/tree"
)

// watcher is implemented by backends that report new revisions.
type watcher interface {
	Watch(ctx context.Context, name string, fun func(rev store.Revision)) error
}

func (a *app) newWatchCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Watch a file or a stored name for changes",
		Long: `Watch reads a file into a tree and reads it again each time the file
is written, printing the properties that changed and the new content hash.
With --name it prints the revisions added to a stored name instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if name != "" {
				return a.watchStore(ctx, cmd.OutOrStdout(), name)
			}
			if len(args) != 1 {
				return errors.New("watch needs a file or --name")
			}
			root, _, err := a.newRoot()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			hash := a.cfg.HashValue()
			printChanges(w, root)
			return watchFile(ctx, root, args[0], func() {
				fmt.Fprintf(w, "%s  %s\n", a.out.Bold(tree.ContentHashWith(root, hash)), args[0])
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "stored name to watch instead of a file")
	return cmd
}

// printChanges prints the changes of the properties of the tree.
func printChanges(w io.Writer, root *tree.Node) {
	root.Bind(tree.EventChanged, func(ev *tree.Event) {
		if ev.Field != nil {
			fmt.Fprintln(w, "changed", joinPath(ev.Target.Path(), ev.Field.Name))
		}
	})
	root.Bind(tree.EventAdded, func(ev *tree.Event) {
		fmt.Fprintln(w, "added", ev.Target.Path())
	})
	root.Bind(tree.EventRemoving, func(ev *tree.Event) {
		fmt.Fprintln(w, "removed", ev.Target.Path())
	})
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	return a + "." + b
}

// watchFile reads the file into the tree, and again each time it is
// written, until the context is done. It calls loaded after each read.
func watchFile(ctx context.Context, root *tree.Node, filename string, loaded func()) error {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	watch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watch.Close()
	// editors often replace the file, so the directory is watched
	if err := watch.Add(filepath.Dir(filename)); err != nil {
		return err
	}
	if err := tree.Open(root, filename); err != nil {
		return err
	}
	loaded()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watch.Events:
			if !ok {
				return nil
			}
			if event.Name != filename || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if errors.Log(tree.Open(root, filename)) != nil {
				continue
			}
			loaded()
		case err, ok := <-watch.Errors:
			if !ok {
				return nil
			}
			slog.Error("watching", "file", filename, "err", err)
		}
	}
}

func (a *app) watchStore(ctx context.Context, w io.Writer, name string) error {
	st, err := a.openStore(ctx, nil)
	if err != nil {
		return err
	}
	defer st.Close()
	wb, ok := st.Backend().(watcher)
	if !ok {
		return fmt.Errorf("a %s store can't be watched", a.cfg.Store.Kind)
	}
	err = wb.Watch(ctx, name, func(rev store.Revision) {
		fmt.Fprintln(w, formatRevision(rev))
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
