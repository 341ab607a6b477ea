// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the TOML configuration of the datamodel tool.
package config

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/base/logx"
	"cogentcore.org/datamodel/serial"
	"cogentcore.org/datamodel/tree"
)

// DefaultPath is the default location of the configuration file.
const DefaultPath = "~/.config/datamodel/config.toml"

// Config is the configuration of the datamodel tool.
type Config struct {

	// Format is the default format for writing trees: json, yaml or binary.
	Format string `toml:"format"`

	// Hash is the content hash algorithm: blake2b or md5.
	Hash string `toml:"hash"`

	// LogLevel is the minimum level of log messages: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// Schema is the YAML schema file the classes are loaded from.
	Schema string `toml:"schema"`

	// Store configures the snapshot store.
	Store Store `toml:"store"`
}

// Store is the configuration of the snapshot store.
type Store struct {

	// Kind is the kind of store: memory, file or redis.
	Kind string `toml:"kind"`

	// Dir is the root directory of a file store.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the redis server of a redis store.
	RedisAddr string `toml:"redis_addr"`

	// Prefix is prepended to the keys of a redis store.
	Prefix string `toml:"prefix"`

	// SchemaVersion is the schema version stored trees are written
	// with. If it is empty, the version of the schema is used.
	SchemaVersion string `toml:"schema_version"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Format:   "json",
		Hash:     "blake2b",
		LogLevel: "warn",
		Store: Store{
			Kind:      "file",
			Dir:       "~/.local/share/datamodel",
			RedisAddr: "localhost:6379",
			Prefix:    "datamodel:",
		},
	}
}

// Merge copies the non-empty values of src into dst.
func Merge(dst, src *Config) error {
	return copier.CopyWithOption(dst, src, copier.Option{IgnoreEmpty: true, DeepCopy: true})
}

// Read reads a configuration from r and merges it over the defaults.
// Unknown keys are an error.
func Read(r io.Reader) (*Config, error) {
	var file Config
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := Merge(cfg, &file); err != nil {
		return nil, err
	}
	if err := cfg.expand(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Load reads the configuration file at the given path, which may start
// with ~. If path is "", [DefaultPath] is used, and the defaults are
// returned if it does not exist.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultPath
	}
	fn, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fn)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			return cfg, cfg.expand()
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path, creating its directory.
func (c *Config) Save(path string) error {
	fn, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	var b bytes.Buffer
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fn), 0750); err != nil {
		return err
	}
	return os.WriteFile(fn, b.Bytes(), 0640)
}

func (c *Config) expand() error {
	var err error
	if c.Schema, err = homedir.Expand(c.Schema); err != nil {
		return err
	}
	c.Store.Dir, err = homedir.Expand(c.Store.Dir)
	return err
}

// Validate returns an error describing all invalid values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := serial.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := tree.ParseHashAlgorithm(c.Hash); err != nil {
		errs = append(errs, err)
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Kind {
	case "memory", "file", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", c.Store.Kind))
	}
	if c.Store.SchemaVersion != "" {
		if _, err := semver.NewVersion(c.Store.SchemaVersion); err != nil {
			errs = append(errs, fmt.Errorf("store schema version %q: %w", c.Store.SchemaVersion, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FormatValue returns the parsed [Config.Format].
func (c *Config) FormatValue() serial.Format {
	return errors.Log1(serial.ParseFormat(c.Format))
}

// HashValue returns the parsed [Config.Hash].
func (c *Config) HashValue() tree.HashAlgorithm {
	return errors.Log1(tree.ParseHashAlgorithm(c.Hash))
}
