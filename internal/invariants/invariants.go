// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants exposes the "invariants" build tag. Tests are expected
// to run with it so that structural checks on trees are performed after
// every mutation and consumed trees are caught when used again.
package invariants
