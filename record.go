// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/retree/internal/base"
)

// A tree is persisted under its key, prefixed with keyPrefix, as a record
// holding its canonical text:
//
//	+---------+---------------------+----------------+
//	| version | xxhash64(text) (LE) | canonical text |
//	| 1 byte  | 8 bytes             |                |
//	+---------+---------------------+----------------+
const (
	recordVersion    = 1
	recordHeaderSize = 1 + 8
)

var (
	keyPrefix = []byte("t/")
	// keyUpperBound is the exclusive upper bound of all prefixed keys.
	keyUpperBound = []byte("t0")
)

func storeKey(key []byte) []byte {
	k := make([]byte, 0, len(keyPrefix)+len(key))
	k = append(k, keyPrefix...)
	return append(k, key...)
}

func encodeRecord(text string) []byte {
	buf := make([]byte, recordHeaderSize+len(text))
	buf[0] = recordVersion
	binary.LittleEndian.PutUint64(buf[1:recordHeaderSize], xxhash.Sum64String(text))
	copy(buf[recordHeaderSize:], text)
	return buf
}

// decodeRecord returns the canonical text held by a record. The returned
// string does not alias buf.
func decodeRecord(buf []byte) (string, error) {
	if len(buf) < recordHeaderSize {
		return "", base.CorruptionErrorf("retree: record too short (%d bytes)", len(buf))
	}
	if buf[0] != recordVersion {
		return "", base.CorruptionErrorf("retree: unknown record version %d", buf[0])
	}
	text := buf[recordHeaderSize:]
	if want, got := binary.LittleEndian.Uint64(buf[1:recordHeaderSize]), xxhash.Sum64(text); want != got {
		return "", base.CorruptionErrorf("retree: record checksum mismatch: %016x != %016x", want, got)
	}
	return string(text), nil
}
