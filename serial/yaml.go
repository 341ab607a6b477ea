// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serial

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLNode converts a [Value] document to a yaml.v3 node.
func YAMLNode(v *Value) *yaml.Node {
	switch v.Kind {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Scalar.(bool))}
	case Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Scalar.(int64), 10)}
	case Uint:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v.Scalar.(uint64), 10)}
	case Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(v.Scalar.(float64))}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Scalar.(string)}
	case Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.Elems {
			n.Content = append(n.Content, YAMLNode(e))
		}
		return n
	default:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, k := range v.Keys {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				YAMLNode(v.Fields[i]))
		}
		return n
	}
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0" // keep integral floats resolving as floats
	}
	return s
}

// FromYAMLNode converts a yaml.v3 node to a [Value] document.
func FromYAMLNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewNull(), nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		v := NewArray()
		for _, c := range n.Content {
			e, err := FromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			v.Elems = append(v.Elems, e)
		}
		return v, nil
	case yaml.MappingNode:
		v := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: bad key: %w", n.Content[i].Line, err)
			}
			f, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			v.Set(key, f)
		}
		return v, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %v", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return NewInt(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, err
		}
		return NewUint(u), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return NewFloat(f), nil
	}
	return NewString(n.Value), nil
}

// ParseYAML parses YAML text into a [Value] document.
func ParseYAML(r io.Reader) (*Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("serial.ParseYAML: %w", err)
	}
	v, err := FromYAMLNode(&doc)
	if err != nil {
		return nil, fmt.Errorf("serial.ParseYAML: %w", err)
	}
	return v, nil
}

// YAMLWriter is a [Serializer] that builds the document
// in memory and encodes it as YAML on [YAMLWriter.Close].
type YAMLWriter struct {
	*Builder
	w io.Writer
}

// NewYAMLWriter returns a new [YAMLWriter] writing to w.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{Builder: NewBuilder(), w: w}
}

// Close encodes the built document.
func (y *YAMLWriter) Close() error {
	v := y.Value()
	if v == nil {
		v = NewNull()
	}
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(YAMLNode(v)); err != nil {
		return err
	}
	return enc.Close()
}
