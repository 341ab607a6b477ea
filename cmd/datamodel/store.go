// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cogentcore.org/datamodel/store"
	"cogentcore.org/datamodel/tree"
)

func (a *app) newSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save name file",
		Short: "Store a tree as a new revision of a name",
		Long:  "Save reads a tree from a file and stores it under a name. Nothing is stored if the content hash is that of the latest revision.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, s, err := a.newRoot()
			if err != nil {
				return err
			}
			if err := tree.Open(root, args[1]); err != nil {
				return err
			}
			st, err := a.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()
			rev, err := st.Put(cmd.Context(), args[0], root)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatRevision(rev))
			return nil
		},
	}
}

func (a *app) newLoadCommand() *cobra.Command {
	var rev string
	cmd := &cobra.Command{
		Use:   "load name [file]",
		Short: "Load a stored tree",
		Long:  "Load reads the latest or the given revision of a name and writes it to a file, or to stdout in the configured format.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.Nil
			if rev != "" {
				var err error
				if id, err = uuid.Parse(rev); err != nil {
					return fmt.Errorf("revision %q: %w", rev, err)
				}
			}
			root, s, err := a.newRoot()
			if err != nil {
				return err
			}
			st, err := a.openStore(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()
			r, err := st.GetRevision(cmd.Context(), args[0], id, root)
			if err != nil {
				return err
			}
			a.out.Println(slog.LevelInfo, "loaded ", formatRevision(r))
			if len(args) == 2 {
				return tree.Save(root, args[1])
			}
			return tree.Write(root, a.cfg.FormatValue(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&rev, "rev", "", "id of the revision to load (default the latest)")
	return cmd
}

func (a *app) newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history name",
		Short: "List the revisions of a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer st.Close()
			revs, err := st.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, r := range revs {
				fmt.Fprintln(cmd.OutOrStdout(), formatRevision(r))
			}
			return nil
		},
	}
}

func (a *app) newNamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List the stored names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer st.Close()
			names, err := st.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func formatRevision(r store.Revision) string {
	s := fmt.Sprintf("%s %d %s %s %s", r.Name, r.Seq, r.ID, r.Hash, r.Time.Format(time.RFC3339))
	if r.Schema != "" {
		s += " schema " + r.Schema
	}
	return s
}
