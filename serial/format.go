// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serial

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is a concrete serialization format.
type Format int32

const (
	JSON Format = iota
	YAML
	Binary
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "binary", "bin":
		return Binary, nil
	}
	return JSON, fmt.Errorf("serial: unknown format %q", name)
}

// FormatFromExt returns the format for the extension of the given
// file name, and false if the extension is not recognized.
func FormatFromExt(filename string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return JSON, false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Encoder is a [Serializer] that must be closed to complete its output.
type Encoder interface {
	Serializer
	Close() error
}

// NewEncoder returns a new [Encoder] for the given format writing to w.
// JSON output is indented with tabs.
func NewEncoder(f Format, w io.Writer) Encoder {
	switch f {
	case YAML:
		return NewYAMLWriter(w)
	case Binary:
		return NewBinaryWriter(w)
	}
	return NewJSONWriter(w, "\t")
}

// Parse reads a whole document in the given format.
func Parse(f Format, r io.Reader) (*Value, error) {
	switch f {
	case YAML:
		return ParseYAML(r)
	case Binary:
		return DecodeBinary(r)
	}
	return ParseJSON(r)
}

// Decode reads a whole document in the given format and
// returns a [Deserializer] positioned at its root.
func Decode(f Format, r io.Reader) (Deserializer, error) {
	v, err := Parse(f, r)
	if err != nil {
		return nil, err
	}
	return NewReader(v), nil
}
