// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"cogentcore.org/datamodel/serial"
)

// Write writes the node to the given writer in the given format.
func Write(n *Node, f serial.Format, w io.Writer) error {
	enc := serial.NewEncoder(f, w)
	Serialize(n, enc)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("tree.Write %s: %w", f, err)
	}
	return nil
}

// Read reads the node from the given reader in the given format.
// Fields missing from the input keep their values; values that don't
// match their fields are logged and skipped.
func Read(n *Node, f serial.Format, r io.Reader) error {
	d, err := serial.Decode(f, r)
	if err != nil {
		return fmt.Errorf("tree.Read %s: %w", f, err)
	}
	if !Deserialize(n, d) {
		return fmt.Errorf("tree.Read %s: top level value is not an object", f)
	}
	return nil
}

// formatFor returns the format for the given file name, defaulting to JSON.
func formatFor(filename string) serial.Format {
	f, _ := serial.FormatFromExt(filename)
	return f
}

// Save writes the node to the given file, in the format
// given by its extension (JSON if it is not recognized).
func Save(n *Node, filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	if err := Write(n, formatFor(filename), bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Open reads the node from the given file, in the format
// given by its extension (JSON if it is not recognized).
func Open(n *Node, filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return Read(n, formatFor(filename), bufio.NewReader(fp))
}

// MarshalJSON implements [json.Marshaler] by writing the fields of the node.
func (n *Node) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	w := serial.NewJSONWriter(&b, "")
	Serialize(n, w)
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalJSON implements [json.Unmarshaler] by reading the fields
// of the node, which must already have its class.
func (n *Node) UnmarshalJSON(b []byte) error {
	v, err := serial.ParseJSON(bytes.NewReader(b))
	if err != nil {
		return err
	}
	if !Deserialize(n, serial.NewReader(v)) {
		return fmt.Errorf("tree.Node.UnmarshalJSON: expected an object for %s, got %s", n.class.Name, v.Kind)
	}
	return nil
}

// Clone returns a deep copy of the node and its owned nodes, as a new
// root that is not marked as changed. Listeners are not copied.
func Clone(n *Node) *Node {
	b := serial.NewBuilder()
	Serialize(n, b)
	c := n.class.registry.allocate(n.class)
	Deserialize(c, serial.NewReader(b.Value()))
	c.WalkDown(func(k *Node) bool {
		k.changed = false
		return Continue
	})
	return c
}
