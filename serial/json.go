// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serial

import (
	"bufio"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/json"
)

// jsonLevel is one open container of a [JSONWriter].
type jsonLevel struct {
	object bool
	count  int
}

// JSONWriter is a streaming [Serializer] that writes JSON text.
type JSONWriter struct {
	w      *bufio.Writer
	indent string
	levels []jsonLevel
	err    error
}

// NewJSONWriter returns a [JSONWriter] writing to w. If indent is
// non-empty, containers are written one element per line.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w), indent: indent}
}

func (j *JSONWriter) write(s string) {
	if j.err != nil {
		return
	}
	_, j.err = j.w.WriteString(s)
}

func (j *JSONWriter) newline() {
	if j.indent == "" {
		return
	}
	j.write("\n" + strings.Repeat(j.indent, len(j.levels)))
}

// value prepares for writing a value at the current position.
func (j *JSONWriter) value() {
	if len(j.levels) == 0 {
		return
	}
	l := &j.levels[len(j.levels)-1]
	if l.object {
		return // the key has already been written
	}
	if l.count > 0 {
		j.write(",")
	}
	l.count++
	j.newline()
}

func (j *JSONWriter) WriteNull() {
	j.value()
	j.write("null")
}

func (j *JSONWriter) WriteBool(v bool) {
	j.value()
	j.write(strconv.FormatBool(v))
}

func (j *JSONWriter) WriteInt(v int64) {
	j.value()
	j.write(strconv.FormatInt(v, 10))
}

func (j *JSONWriter) WriteUint(v uint64) {
	j.value()
	j.write(strconv.FormatUint(v, 10))
}

// WriteFloat writes a float. JSON has no representation for
// NaN and infinities, so they are written as null.
func (j *JSONWriter) WriteFloat(v float64) {
	j.value()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		j.write("null")
		return
	}
	j.write(strconv.FormatFloat(v, 'g', -1, 64))
}

func (j *JSONWriter) WriteString(v string) {
	j.value()
	j.write(quoteJSON(v))
}

func (j *JSONWriter) open(object bool, delim string) {
	j.value()
	j.write(delim)
	j.levels = append(j.levels, jsonLevel{object: object})
}

func (j *JSONWriter) close(delim string) {
	if len(j.levels) == 0 {
		return
	}
	n := j.levels[len(j.levels)-1].count
	j.levels = j.levels[:len(j.levels)-1]
	if n > 0 {
		j.newline()
	}
	j.write(delim)
}

func (j *JSONWriter) WriteArray()  { j.open(false, "[") }
func (j *JSONWriter) PopArray()    { j.close("]") }
func (j *JSONWriter) WriteObject() { j.open(true, "{") }
func (j *JSONWriter) PopObject()   { j.close("}") }

func (j *JSONWriter) WriteKey(name string) {
	if len(j.levels) == 0 {
		return
	}
	l := &j.levels[len(j.levels)-1]
	if l.count > 0 {
		j.write(",")
	}
	l.count++
	j.newline()
	j.write(quoteJSON(name))
	if j.indent != "" {
		j.write(": ")
	} else {
		j.write(":")
	}
}

func (j *JSONWriter) PopKey(name string) {}

// Close flushes the writer and returns the first error encountered.
func (j *JSONWriter) Close() error {
	if j.indent != "" {
		j.write("\n")
	}
	if j.err != nil {
		return j.err
	}
	return j.w.Flush()
}

// quoteJSON returns s as a JSON string literal, without the
// HTML escaping of [stdjson.Marshal].
func quoteJSON(s string) string {
	var b strings.Builder
	enc := stdjson.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.Encode(s) // strings always encode
	return strings.TrimSuffix(b.String(), "\n")
}

// ParseJSON parses JSON text into a [Value] document.
func ParseJSON(r io.Reader) (*Value, error) {
	p := json.NewParser(parse.NewInput(r))
	var (
		root       *Value
		containers []*Value
		keys       []string
		expectKey  []bool
	)
	put := func(v *Value) error {
		if len(containers) == 0 {
			if root != nil {
				return errors.New("serial.ParseJSON: multiple top-level values")
			}
			root = v
			return nil
		}
		top := containers[len(containers)-1]
		if top.Kind == Array {
			top.Elems = append(top.Elems, v)
			return nil
		}
		if len(keys) == 0 || expectKey[len(expectKey)-1] {
			return errors.New("serial.ParseJSON: object value without a key")
		}
		top.Set(keys[len(keys)-1], v)
		keys = keys[:len(keys)-1]
		expectKey[len(expectKey)-1] = true
		return nil
	}
	for {
		gt, data := p.Next()
		switch gt {
		case json.ErrorGrammar:
			if err := p.Err(); err != io.EOF {
				return nil, fmt.Errorf("serial.ParseJSON: %w", err)
			}
			if root == nil {
				return nil, errors.New("serial.ParseJSON: empty document")
			}
			if len(containers) > 0 {
				return nil, errors.New("serial.ParseJSON: unexpected end of document")
			}
			return root, nil
		case json.WhitespaceGrammar:
			continue
		case json.StringGrammar:
			var s string
			if err := stdjson.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("serial.ParseJSON: bad string %s: %w", data, err)
			}
			if n := len(expectKey); n > 0 && expectKey[n-1] {
				keys = append(keys, s)
				expectKey[n-1] = false
				continue
			}
			if err := put(NewString(s)); err != nil {
				return nil, err
			}
		case json.NumberGrammar:
			if err := put(parseJSONNumber(string(data))); err != nil {
				return nil, err
			}
		case json.LiteralGrammar:
			var v *Value
			switch string(data) {
			case "true":
				v = NewBool(true)
			case "false":
				v = NewBool(false)
			case "null":
				v = NewNull()
			default:
				return nil, fmt.Errorf("serial.ParseJSON: unknown literal %q", data)
			}
			if err := put(v); err != nil {
				return nil, err
			}
		case json.StartObjectGrammar, json.StartArrayGrammar:
			var v *Value
			if gt == json.StartObjectGrammar {
				v = NewObject()
			} else {
				v = NewArray()
			}
			if err := put(v); err != nil {
				return nil, err
			}
			containers = append(containers, v)
			expectKey = append(expectKey, gt == json.StartObjectGrammar)
		case json.EndObjectGrammar, json.EndArrayGrammar:
			if len(containers) == 0 {
				return nil, errors.New("serial.ParseJSON: unbalanced container")
			}
			containers = containers[:len(containers)-1]
			expectKey = expectKey[:len(expectKey)-1]
		}
	}
}

// parseJSONNumber returns the narrowest value kind that holds s.
func parseJSONNumber(s string) *Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewInt(i)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NewUint(u)
	}
	f, _ := strconv.ParseFloat(s, 64)
	return NewFloat(f)
}
