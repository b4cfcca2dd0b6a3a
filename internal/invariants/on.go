// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build invariants || race

package invariants

import "github.com/cockroachdb/errors"

// Enabled is true if we were built with the "invariants" or "race" build tags.
const Enabled = true

// Consumed tracks ownership of a value that is handed over to another one,
// such as a tree grafted into another tree. It panics when a consumed value is
// consumed again or used.
type Consumed struct {
	by string
}

// Consume marks the value as consumed by the named operation.
func (c *Consumed) Consume(by string) {
	if c.by != "" {
		panic(errors.AssertionFailedf("consumed by %s and again by %s", c.by, by))
	}
	c.by = by
}

// AssertLive panics if the value has been consumed.
func (c *Consumed) AssertLive() {
	if c.by != "" {
		panic(errors.AssertionFailedf("used after being consumed by %s", c.by))
	}
}
