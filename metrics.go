// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// CommandMetrics holds the counters of a single command.
type CommandMetrics struct {
	// Count is the number of times the command ran.
	Count uint64
	// Errors is the number of runs that returned an error.
	Errors uint64
}

// Metrics holds metrics for various subsystems of the DB such as the tree
// cache and the underlying store.
type Metrics struct {
	// Commands is indexed by Command.
	Commands [numCommands]CommandMetrics

	Cache struct {
		// Count is the number of trees in the cache.
		Count int64
		// Hits and Misses count lookups of the cache.
		Hits   uint64
		Misses uint64
		// Evictions is the number of trees dropped to make room.
		Evictions uint64
	}

	Store struct {
		// Loads is the number of trees read and parsed from the store.
		Loads uint64
		// Writes and Deletes count store mutations.
		Writes  uint64
		Deletes uint64
		// BytesWritten is the total size of the records written.
		BytesWritten uint64
		// Corruptions is the number of records that failed to decode.
		Corruptions uint64
	}
}

// Metrics returns a snapshot of the DB's metrics.
func (d *DB) Metrics() *Metrics {
	m := &Metrics{}
	for c := range m.Commands {
		m.Commands[c].Count = d.metrics.commands[c].count.Load()
		m.Commands[c].Errors = d.metrics.commands[c].errors.Load()
	}
	m.Cache.Hits = d.metrics.hits.Load()
	m.Cache.Misses = d.metrics.misses.Load()
	m.Cache.Evictions = d.metrics.evictions.Load()
	m.Store.Loads = d.metrics.loads.Load()
	m.Store.Writes = d.metrics.writes.Load()
	m.Store.Deletes = d.metrics.deletes.Load()
	m.Store.BytesWritten = d.metrics.bytesWritten.Load()
	m.Store.Corruptions = d.metrics.corruptions.Load()

	d.mu.RLock()
	m.Cache.Count = int64(d.mu.trees.Len())
	d.mu.RUnlock()
	return m
}

// String pretty-prints the metrics.
func (m *Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

var _ redact.SafeFormatter = &Metrics{}

// SafeFormat implements redact.SafeFormatter.
func (m *Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.SafeString("command               count   errors\n")
	for c := Command(0); c < numCommands; c++ {
		cm := m.Commands[c]
		w.Printf("%-20s %7s %8s\n", c,
			crhumanize.Count(cm.Count, crhumanize.Compact),
			crhumanize.Count(cm.Errors, crhumanize.Compact))
	}
	w.Printf("cache: %s trees, %s hits, %s misses, %s evictions\n",
		crhumanize.Count(m.Cache.Count, crhumanize.Compact),
		crhumanize.Count(m.Cache.Hits, crhumanize.Compact),
		crhumanize.Count(m.Cache.Misses, crhumanize.Compact),
		crhumanize.Count(m.Cache.Evictions, crhumanize.Compact))
	w.Printf("store: %s loads, %s writes (%s), %s deletes, %s corruptions\n",
		crhumanize.Count(m.Store.Loads, crhumanize.Compact),
		crhumanize.Count(m.Store.Writes, crhumanize.Compact),
		crhumanize.Bytes(m.Store.BytesWritten, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Count(m.Store.Deletes, crhumanize.Compact),
		crhumanize.Count(m.Store.Corruptions, crhumanize.Compact))
}
