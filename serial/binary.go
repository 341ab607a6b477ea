// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serial

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// binary stream tags
const (
	tagNull byte = iota
	tagFalse
	tagTrue
	tagInt
	tagUint
	tagFloat
	tagString
	tagArray
	tagArrayEnd
	tagObject
	tagObjectEnd
	tagKey
)

// BinaryWriter is a streaming [Serializer] that writes a compact
// tagged binary encoding. Every structural event is written, so two
// documents encode to the same bytes only if they have the same
// structure, which makes it a good input for content hashing.
type BinaryWriter struct {
	w   *bufio.Writer
	buf [binary.MaxVarintLen64]byte
	err error
}

// NewBinaryWriter returns a new [BinaryWriter] writing to w.
func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{w: bufio.NewWriter(w)}
}

func (b *BinaryWriter) tag(t byte) {
	if b.err != nil {
		return
	}
	b.err = b.w.WriteByte(t)
}

func (b *BinaryWriter) bytes(p []byte) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.Write(p)
}

func (b *BinaryWriter) uvarint(u uint64) {
	n := binary.PutUvarint(b.buf[:], u)
	b.bytes(b.buf[:n])
}

func (b *BinaryWriter) str(s string) {
	b.uvarint(uint64(len(s)))
	if b.err != nil {
		return
	}
	_, b.err = b.w.WriteString(s)
}

func (b *BinaryWriter) WriteNull() { b.tag(tagNull) }

func (b *BinaryWriter) WriteBool(v bool) {
	if v {
		b.tag(tagTrue)
	} else {
		b.tag(tagFalse)
	}
}

func (b *BinaryWriter) WriteInt(v int64) {
	b.tag(tagInt)
	n := binary.PutVarint(b.buf[:], v)
	b.bytes(b.buf[:n])
}

func (b *BinaryWriter) WriteUint(v uint64) {
	b.tag(tagUint)
	b.uvarint(v)
}

func (b *BinaryWriter) WriteFloat(v float64) {
	b.tag(tagFloat)
	binary.BigEndian.PutUint64(b.buf[:8], math.Float64bits(v))
	b.bytes(b.buf[:8])
}

func (b *BinaryWriter) WriteString(v string) {
	b.tag(tagString)
	b.str(v)
}

func (b *BinaryWriter) WriteArray()  { b.tag(tagArray) }
func (b *BinaryWriter) PopArray()    { b.tag(tagArrayEnd) }
func (b *BinaryWriter) WriteObject() { b.tag(tagObject) }
func (b *BinaryWriter) PopObject()   { b.tag(tagObjectEnd) }

func (b *BinaryWriter) WriteKey(name string) {
	b.tag(tagKey)
	b.str(name)
}

func (b *BinaryWriter) PopKey(name string) {}

// Close flushes the writer and returns the first error encountered.
func (b *BinaryWriter) Close() error {
	if b.err != nil {
		return b.err
	}
	return b.w.Flush()
}

// errTruncated is returned when binary input ends inside a value.
var errTruncated = errors.New("truncated input")

// binaryDecoder decodes the output of [BinaryWriter].
type binaryDecoder struct {
	r *bufio.Reader
}

// DecodeBinary reads one binary encoded document from r.
func DecodeBinary(r io.Reader) (*Value, error) {
	d := &binaryDecoder{r: bufio.NewReader(r)}
	t, err := d.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("serial.DecodeBinary: %w", errTruncated)
	}
	v, err := d.value(t)
	if err != nil {
		return nil, fmt.Errorf("serial.DecodeBinary: %w", err)
	}
	return v, nil
}

func (d *binaryDecoder) readByte() (byte, error) {
	t, err := d.r.ReadByte()
	if err == io.EOF {
		return 0, errTruncated
	}
	return t, err
}

func (d *binaryDecoder) str() (string, error) {
	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		return "", errTruncated
	}
	// n comes from the input and may be far larger than it
	var b bytes.Buffer
	if _, err := io.CopyN(&b, d.r, int64(min(n, math.MaxInt64))); err != nil {
		return "", errTruncated
	}
	return b.String(), nil
}

func (d *binaryDecoder) value(t byte) (*Value, error) {
	switch t {
	case tagNull:
		return NewNull(), nil
	case tagFalse:
		return NewBool(false), nil
	case tagTrue:
		return NewBool(true), nil
	case tagInt:
		i, err := binary.ReadVarint(d.r)
		if err != nil {
			return nil, errTruncated
		}
		return NewInt(i), nil
	case tagUint:
		u, err := binary.ReadUvarint(d.r)
		if err != nil {
			return nil, errTruncated
		}
		return NewUint(u), nil
	case tagFloat:
		var p [8]byte
		if _, err := io.ReadFull(d.r, p[:]); err != nil {
			return nil, errTruncated
		}
		return NewFloat(math.Float64frombits(binary.BigEndian.Uint64(p[:]))), nil
	case tagString:
		s, err := d.str()
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case tagArray:
		v := NewArray()
		for {
			t, err := d.readByte()
			if err != nil {
				return nil, err
			}
			if t == tagArrayEnd {
				return v, nil
			}
			e, err := d.value(t)
			if err != nil {
				return nil, err
			}
			v.Elems = append(v.Elems, e)
		}
	case tagObject:
		v := NewObject()
		for {
			t, err := d.readByte()
			if err != nil {
				return nil, err
			}
			if t == tagObjectEnd {
				return v, nil
			}
			if t != tagKey {
				return nil, fmt.Errorf("expected key, got tag %d", t)
			}
			k, err := d.str()
			if err != nil {
				return nil, err
			}
			t, err = d.readByte()
			if err != nil {
				return nil, err
			}
			f, err := d.value(t)
			if err != nil {
				return nil, err
			}
			v.Set(k, f)
		}
	}
	return nil, fmt.Errorf("unknown tag %d", t)
}
