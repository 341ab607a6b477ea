// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/tree"
)

func (a *app) newClassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the classes declared in the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, reg, err := a.loadSchema()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "schema %s\n", s.Version)
			for _, c := range reg.Classes() {
				fmt.Fprintln(w, a.out.Bold(c.Name))
				for _, f := range c.Fields() {
					fmt.Fprintf(w, "  %s %s %s%s\n", f.Name, f.Shape, f.Type, fieldFlags(f))
				}
			}
			return nil
		},
	}
}

func fieldFlags(f *tree.Field) string {
	var flags []string
	if f.IsStrict() {
		flags = append(flags, "strict")
	}
	if f.IsNullable() {
		flags = append(flags, "nullable")
	}
	if f.IsAbstract() {
		flags = append(flags, "abstract")
	}
	s := ""
	if len(flags) > 0 {
		s = " [" + strings.Join(flags, ",") + "]"
	}
	if f.IsLink() {
		s += " -> " + f.LinkPath
	}
	return s
}

// errInvalid is returned by validate when there are findings,
// so that the exit status is not zero.
var errInvalid = errors.New("invalid")

func (a *app) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate file...",
		Short: "Check the links of trees",
		Long:  "Validate reads each file into a tree and checks that every link names an existing key of its collection.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			total := 0
			for _, fn := range args {
				root, _, err := a.newRoot()
				if err != nil {
					return err
				}
				if err := tree.Open(root, fn); err != nil {
					return err
				}
				reports := tree.Validate(root)
				for _, r := range reports {
					level := slog.LevelWarn
					if r.Kind == tree.ReportLogic {
						level = slog.LevelError
					}
					fmt.Fprintf(w, "%s: %s\n", fn, a.out.LevelColor(level, r.String()))
				}
				if len(reports) == 0 {
					fmt.Fprintf(w, "%s: %s\n", fn, a.out.Success("ok"))
				}
				total += len(reports)
			}
			if total > 0 {
				return fmt.Errorf("%w: %d problems", errInvalid, total)
			}
			return nil
		},
	}
}

func (a *app) newHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash file...",
		Short: "Print the content hash of trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, fn := range args {
				root, _, err := a.newRoot()
				if err != nil {
					return err
				}
				if err := tree.Open(root, fn); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", tree.ContentHashWith(root, a.cfg.HashValue()), fn)
			}
			return nil
		},
	}
}

func (a *app) newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert in out",
		Short: "Convert a tree between formats",
		Long:  "Convert reads a tree and writes it in the format of the extension of the output file.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, err := a.newRoot()
			if err != nil {
				return err
			}
			if err := tree.Open(root, args[0]); err != nil {
				return err
			}
			if err := tree.Save(root, args[1]); err != nil {
				return err
			}
			a.out.Println(slog.LevelInfo, "wrote ", args[1])
			return nil
		},
	}
}
