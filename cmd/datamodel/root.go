// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/base/logx"
	"cogentcore.org/datamodel/config"
	"cogentcore.org/datamodel/schema"
	"cogentcore.org/datamodel/store"
	"cogentcore.org/datamodel/store/filestore"
	"cogentcore.org/datamodel/store/redisstore"
	"cogentcore.org/datamodel/tree"
)

// app is the state shared by the commands.
type app struct {

	// configFile is the --config flag.
	configFile string

	// flags has the values of the flags that override the config file.
	flags config.Config

	// class is the --class flag.
	class string

	// verbose, veryVerbose and quiet are the -v, --vv and -q flags,
	// used when --log-level is not given.
	verbose, veryVerbose, quiet bool

	cfg *config.Config
	out *logx.Printer
}

// NewRootCommand returns the datamodel command with all of its subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "datamodel",
		Short: "Validate, hash, convert and store data model trees",
		Long: `datamodel works on trees of classes declared in a YAML schema.
Trees are read from and written to json, yaml and binary files,
and stored with their revision history in a file or redis store.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "configuration file (default "+config.DefaultPath+")")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "minimum level of log messages: debug, info, warn or error")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "show info messages")
	pf.BoolVar(&a.veryVerbose, "vv", false, "show debug messages")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only show error messages")
	pf.StringVar(&a.flags.Schema, "schema", "", "YAML schema file declaring the classes")
	pf.StringVar(&a.flags.Format, "format", "", "format for writing to stdout: json, yaml or binary")
	pf.StringVar(&a.flags.Hash, "hash", "", "content hash algorithm: blake2b or md5")
	pf.StringVar(&a.flags.Store.Kind, "store", "", "kind of store: memory, file or redis")
	pf.StringVar(&a.flags.Store.Dir, "store-dir", "", "root directory of a file store")
	pf.StringVar(&a.flags.Store.RedisAddr, "redis-addr", "", "host:port of the redis server of a redis store")
	pf.StringVar(&a.class, "class", "", "class of the root node (default the last class of the schema)")

	cmd.AddCommand(
		a.newClassesCommand(),
		a.newValidateCommand(),
		a.newHashCommand(),
		a.newConvertCommand(),
		a.newWatchCommand(),
		a.newSaveCommand(),
		a.newLoadCommand(),
		a.newHistoryCommand(),
		a.newNamesCommand(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.flags.LogLevel == "" && (a.veryVerbose || a.verbose || a.quiet) {
		a.flags.LogLevel = logx.LevelFromFlags(a.veryVerbose, a.verbose, a.quiet).String()
	}
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if err := config.Merge(cfg, &a.flags); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.out = logx.NewPrinter(cmd.OutOrStdout())
	return logx.SetLevel(cfg.LogLevel)
}

// loadSchema loads the configured schema into a new registry.
func (a *app) loadSchema() (*schema.Schema, *tree.Registry, error) {
	if a.cfg.Schema == "" {
		return nil, nil, errors.New("no schema: use --schema or set schema in the configuration file")
	}
	s, err := schema.Open(a.cfg.Schema)
	if err != nil {
		return nil, nil, err
	}
	reg := tree.NewRegistry()
	if err := s.Register(reg); err != nil {
		return nil, nil, err
	}
	return s, reg, nil
}

// newRoot returns a new root node of the selected class.
func (a *app) newRoot() (*tree.Node, *schema.Schema, error) {
	s, reg, err := a.loadSchema()
	if err != nil {
		return nil, nil, err
	}
	name := a.class
	if name == "" {
		classes := reg.Classes()
		if len(classes) == 0 {
			return nil, nil, fmt.Errorf("%s declares no classes", a.cfg.Schema)
		}
		name = classes[len(classes)-1].Name
	}
	c := reg.Class(name)
	if c == nil {
		return nil, nil, fmt.Errorf("unknown class %q", name)
	}
	return c.New(), s, nil
}

// openStore opens the configured store for trees of the given schema.
func (a *app) openStore(ctx context.Context, s *schema.Schema) (*store.Store, error) {
	var b store.Backend
	var err error
	switch a.cfg.Store.Kind {
	case "memory":
		b = store.NewMemory()
	case "file":
		b, err = filestore.New(a.cfg.Store.Dir)
	case "redis":
		opts := redisstore.DefaultOptions()
		opts.Addr = a.cfg.Store.RedisAddr
		opts.Prefix = a.cfg.Store.Prefix
		b, err = redisstore.New(ctx, opts)
	default:
		err = fmt.Errorf("unknown store kind %q", a.cfg.Store.Kind)
	}
	if err != nil {
		return nil, err
	}
	opts := store.DefaultOptions()
	opts.Hash = a.cfg.HashValue()
	switch {
	case a.cfg.Store.SchemaVersion != "":
		opts.Schema, err = semver.NewVersion(a.cfg.Store.SchemaVersion)
		if err != nil {
			b.Close()
			return nil, err
		}
	case s != nil:
		opts.Schema = s.Version
	}
	return store.New(b, opts), nil
}
