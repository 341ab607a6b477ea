// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"log/slog"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"cogentcore.org/datamodel/serial"
)

// DataSerialize writes every field of the node as a key followed by
// its value, in field order. It does not write the object framing;
// see [Serialize].
func (n *Node) DataSerialize(s serial.Serializer) {
	for i, p := range n.props {
		name := n.class.fields[i].Name
		s.WriteKey(name)
		p.Serialize(n, s)
		s.PopKey(name)
	}
}

// DataDeserialize reads keys and values until the current object is
// exhausted, deserializing the values of known fields through their
// properties. Values of unknown keys are skipped. Values that do not
// match their field are logged and leave the field unchanged.
func (n *Node) DataDeserialize(d serial.Deserializer) {
	var key string
	for d.ReadKey(&key) {
		if p, ok := n.LookupProperty(key); ok {
			p.Deserialize(n, d)
		} else {
			slog.Debug("tree: skipping unknown field", "class", n.class.Name, "key", key, "suggestion", n.class.suggestField(key))
		}
		d.PopKey(key)
	}
}

// Serialize writes the node as an object of its fields.
func Serialize(n *Node, s serial.Serializer) {
	s.WriteObject()
	n.DataSerialize(s)
	s.PopObject()
}

// Deserialize reads an object of fields into the node. It returns false,
// leaving the node unchanged, if the stream is not at an object.
func Deserialize(n *Node, d serial.Deserializer) bool {
	if !d.ReadObject() {
		return false
	}
	n.DataDeserialize(d)
	d.PopObject()
	return true
}

// suggestField returns the name of the field most similar to
// the given unknown name, or "" if none is close.
func (c *Class) suggestField(name string) string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return suggest(name, names)
}

// suggest returns the option most similar to s by Levenshtein
// similarity, or "" if no option is at least half similar.
func suggest(s string, options []string) string {
	best, score := "", 0.0
	lev := metrics.NewLevenshtein()
	for _, o := range options {
		if sim := strutil.Similarity(s, o, lev); sim > score {
			best, score = o, sim
		}
	}
	if score < 0.5 {
		return ""
	}
	return best
}
