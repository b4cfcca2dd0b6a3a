// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	for _, text := range []string{"a", "0( 1 2( a b( d ) ) e f( g h ) )"} {
		buf := encodeRecord(text)
		require.Len(t, buf, recordHeaderSize+len(text))
		got, err := decodeRecord(buf)
		require.NoError(t, err)
		require.Equal(t, text, got)
	}
}

func TestRecordCorruption(t *testing.T) {
	good := encodeRecord("0( 1 2 )")

	flipped := append([]byte(nil), good...)
	flipped[len(flipped)-1] ^= 0xff
	badVersion := append([]byte(nil), good...)
	badVersion[0] = 7

	for _, buf := range [][]byte{nil, good[:4], flipped, badVersion} {
		_, err := decodeRecord(buf)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrCorruption), "%v", err)
	}
}

func TestStoreKey(t *testing.T) {
	k := storeKey([]byte("hello"))
	require.Equal(t, "t/hello", string(k))
	require.Less(t, string(k), string(keyUpperBound))
	require.GreaterOrEqual(t, string(k), string(keyPrefix))
	// The largest possible byte still sorts below the upper bound.
	require.Less(t, string(storeKey([]byte{0xff})), string(keyUpperBound))
}
