// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cogentcore.org/datamodel/serial"
)

// MarshalBinary encodes the record as a binary [serial] object.
func (r Record) MarshalBinary() ([]byte, error) {
	v := serial.NewObject().
		Set("id", serial.NewString(r.ID.String())).
		Set("name", serial.NewString(r.Name)).
		Set("seq", serial.NewInt(int64(r.Seq))).
		Set("hash", serial.NewString(r.Hash)).
		Set("schema", serial.NewString(r.Schema)).
		Set("format", serial.NewString(r.Format.String())).
		Set("time", serial.NewInt(r.Time.UnixNano())).
		Set("data", serial.NewString(string(r.Data)))
	var b bytes.Buffer
	w := serial.NewBinaryWriter(&b)
	v.Write(w)
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary decodes a record encoded by [Record.MarshalBinary].
func (r *Record) UnmarshalBinary(data []byte) error {
	v, err := serial.DecodeBinary(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("store: decoding record: %w", err)
	}
	if v.Kind != serial.Object {
		return fmt.Errorf("store: decoding record: got %v, not an object", v.Kind)
	}
	str := func(key string) (string, error) {
		f := v.Field(key)
		if f == nil {
			return "", fmt.Errorf("store: decoding record: missing %q", key)
		}
		s, ok := f.AsString()
		if !ok {
			return "", fmt.Errorf("store: decoding record: %q is a %v", key, f.Kind)
		}
		return s, nil
	}
	num := func(key string) (int64, error) {
		f := v.Field(key)
		if f == nil {
			return 0, fmt.Errorf("store: decoding record: missing %q", key)
		}
		i, ok := f.AsInt()
		if !ok {
			return 0, fmt.Errorf("store: decoding record: %q is a %v", key, f.Kind)
		}
		return i, nil
	}

	var res Record
	id, err := str("id")
	if err != nil {
		return err
	}
	if res.ID, err = uuid.Parse(id); err != nil {
		return fmt.Errorf("store: decoding record: %w", err)
	}
	if res.Name, err = str("name"); err != nil {
		return err
	}
	seq, err := num("seq")
	if err != nil {
		return err
	}
	res.Seq = int(seq)
	if res.Hash, err = str("hash"); err != nil {
		return err
	}
	if res.Schema, err = str("schema"); err != nil {
		return err
	}
	format, err := str("format")
	if err != nil {
		return err
	}
	if res.Format, err = serial.ParseFormat(format); err != nil {
		return fmt.Errorf("store: decoding record: %w", err)
	}
	nanos, err := num("time")
	if err != nil {
		return err
	}
	res.Time = time.Unix(0, nanos).UTC()
	data, err := str("data")
	if err != nil {
		return err
	}
	res.Data = []byte(data)
	*r = res
	return nil
}
