// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"

	"cogentcore.org/datamodel/base/errors"
	"cogentcore.org/datamodel/serial"
)

// HashAlgorithm is a digest used by [ContentHashWith].
type HashAlgorithm int32

const (
	// HashBlake2b is a 128 bit BLAKE2b digest.
	HashBlake2b HashAlgorithm = iota

	// HashMD5 is an MD5 digest.
	HashMD5
)

func (h HashAlgorithm) String() string {
	switch h {
	case HashBlake2b:
		return "blake2b"
	case HashMD5:
		return "md5"
	}
	return fmt.Sprintf("HashAlgorithm(%d)", int32(h))
}

// ParseHashAlgorithm returns the algorithm with the given name.
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch name {
	case "blake2b", "":
		return HashBlake2b, nil
	case "md5":
		return HashMD5, nil
	}
	return HashBlake2b, fmt.Errorf("tree: unknown hash algorithm %q", name)
}

func (h HashAlgorithm) new() hash.Hash {
	if h == HashMD5 {
		return md5.New()
	}
	return errors.Must1(blake2b.New(16, nil)) // only fails for invalid sizes or keys
}

// ContentHash returns the [HashBlake2b] content hash of the node.
// See [ContentHashWith].
func ContentHash(n *Node) string {
	return ContentHashWith(n, HashBlake2b)
}

// ContentHashWith returns the hex digest of the canonical binary
// serialization of the node and its owned nodes. Fields are written
// in field order and keyed fields in sorted key order, so equal
// content always has the same hash. Keys and parents are not part
// of the content.
func ContentHashWith(n *Node, alg HashAlgorithm) string {
	h := alg.new()
	w := serial.NewBinaryWriter(h)
	Serialize(n, w)
	errors.Must(w.Close()) // hash writers never fail
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the [ContentHash] of the node.
func (n *Node) Hash() string {
	return ContentHash(n)
}
