// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

// ErrKeyNotFound means that a command addressed a key which holds no tree.
var ErrKeyNotFound = errors.New("retree: key not found")

// ErrCorruption is a marker to indicate that a persisted tree record could
// not be decoded.
var ErrCorruption = errors.New("retree: corruption")

// MarkCorruptionError marks given error as a corruption error.
func MarkCorruptionError(err error) error {
	if errors.Is(err, ErrCorruption) {
		return err
	}
	return errors.Mark(err, ErrCorruption)
}

// CorruptionErrorf formats according to a format specifier and returns
// the string as an error value that is marked as a corruption error.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruption)
}

// KeyNotFoundErrorf returns an error marked with ErrKeyNotFound.
func KeyNotFoundErrorf(key []byte) error {
	return errors.Mark(errors.Newf("retree: key %q not found", key), ErrKeyNotFound)
}
