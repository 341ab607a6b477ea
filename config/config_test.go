// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/datamodel/serial"
	"cogentcore.org/datamodel/tree"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, serial.JSON, cfg.FormatValue())
	assert.Equal(t, tree.HashBlake2b, cfg.HashValue())
	assert.Equal(t, "file", cfg.Store.Kind)
}

func TestRead(t *testing.T) {
	in := `
format = "yaml"
hash = "md5"

[store]
kind = "redis"
redis_addr = "db:6380"
schema_version = "1.2.0"
`
	cfg, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, serial.YAML, cfg.FormatValue())
	assert.Equal(t, tree.HashMD5, cfg.HashValue())
	assert.Equal(t, "warn", cfg.LogLevel, "missing values keep their defaults")
	assert.Equal(t, "redis", cfg.Store.Kind)
	assert.Equal(t, "db:6380", cfg.Store.RedisAddr)
	assert.Equal(t, "datamodel:", cfg.Store.Prefix)
	assert.Equal(t, "1.2.0", cfg.Store.SchemaVersion)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local/share/datamodel"), cfg.Store.Dir)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(`formt = "json"`))
	assert.Error(t, err, "unknown keys")
	_, err = Read(strings.NewReader(`format = `))
	assert.Error(t, err)

	_, err = Read(strings.NewReader("format = \"xml\"\nhash = \"sha1\"\n[store]\nkind = \"s3\"\nschema_version = \"x\"\n"))
	require.Error(t, err)
	for _, s := range []string{"xml", "sha1", "s3", `"x"`} {
		assert.Contains(t, err.Error(), s)
	}
	_, err = Read(strings.NewReader(`log_level = "loud"`))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := Default()
	require.NoError(t, Merge(cfg, &Config{LogLevel: "debug", Store: Store{Dir: "/data"}}))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/data", cfg.Store.Dir)
	assert.Equal(t, "file", cfg.Store.Kind)
}

func TestSaveLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sub", "config.toml")
	_, err := Load(fn)
	assert.Error(t, err, "explicit paths must exist")

	cfg := Default()
	cfg.Format = "binary"
	cfg.Schema = "/schemas/inventory.yaml"
	cfg.Store.Dir = "/data"
	require.NoError(t, cfg.Save(fn))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[store]")
	assert.Contains(t, string(b), "redis_addr = ")
	assert.Contains(t, string(b), "localhost:6379")

	res, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, cfg, res)
}
