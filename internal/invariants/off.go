// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !invariants && !race

package invariants

// Enabled is true if we were built with the "invariants" or "race" build tags.
const Enabled = false

// Consumed tracks ownership of a value that is handed over to another one. It
// is a no-op in non-invariant builds.
type Consumed struct{}

// Consume marks the value as consumed by the named operation.
func (c *Consumed) Consume(by string) {}

// AssertLive panics if the value has been consumed.
func (c *Consumed) AssertLive() {}
