// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package retree provides a labeled tree data type stored under the keys of
// a Pebble database.
//
// Every key holds at most one tree. Trees are created from their textual
// notation (see package tree), persisted as canonical text and addressed by
// node label:
//
//	db, err := retree.Open("demo", &retree.Options{})
//	...
//	err = db.Init([]byte("hello"), "0 (1 2 (a b (d)) e f (g h))")
//	s, ok, err := db.Get([]byte("hello"))       // "0( 1 2( a b( d ) ) e f( g h ) )"
//	anc, err := db.GetAncestors([]byte("hello"), "d") // [b 2 0]
//
// The same operations are available through Exec, which takes a command as a
// sequence of strings (e.g. "tree.get_father", "hello", "j") and returns a
// Value, the way a command dispatcher of a key-value server would.
package retree

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/retree/internal/base"
	"github.com/cockroachdb/retree/tree"
	"github.com/cockroachdb/swiss"
)

var (
	// ErrKeyNotFound is returned when a command other than tree.init,
	// tree.get and tree.del addresses a key that holds no tree.
	ErrKeyNotFound = base.ErrKeyNotFound
	// ErrCorruption is returned when a stored tree cannot be decoded.
	ErrCorruption = base.ErrCorruption
	// ErrClosed is returned when a command is issued on a closed DB.
	ErrClosed = errors.New("retree: closed")
	// ErrTreeTooLarge is returned when tree.set_subtree would grow a stored
	// tree beyond Options.MaxNodes or Options.MaxDepth.
	ErrTreeTooLarge = errors.New("retree: tree too large")

	// ErrMalformedInput is returned for tree text that does not parse.
	ErrMalformedInput = tree.ErrMalformedInput
	// ErrNodeNotFound is returned when no node carries the requested label.
	ErrNodeNotFound = tree.ErrNodeNotFound
	// ErrRootHasNoFather is returned by tree.get_father on the root.
	ErrRootHasNoFather = tree.ErrRootHasNoFather
	// ErrRootDetach is returned by tree.del_subtree on the root.
	ErrRootDetach = tree.ErrRootDetach
)

// DB is a namespace of trees keyed by byte strings. It is safe for
// concurrent use. Read commands run concurrently; mutating commands are
// serialized.
//
// Stored trees are immutable: a mutation clones the tree, modifies the
// clone, persists it and only then replaces the cached instance. A failed
// command leaves the stored tree untouched and readers never observe a
// partially modified tree.
type DB struct {
	opts      *Options
	dirname   string
	parser    tree.Parser
	store     *pebble.DB
	writeOpts *pebble.WriteOptions

	metrics struct {
		commands [numCommands]struct {
			count  atomic.Uint64
			errors atomic.Uint64
		}
		hits         atomic.Uint64
		misses       atomic.Uint64
		evictions    atomic.Uint64
		loads        atomic.Uint64
		writes       atomic.Uint64
		deletes      atomic.Uint64
		bytesWritten atomic.Uint64
		corruptions  atomic.Uint64
	}

	mu struct {
		sync.RWMutex
		closed bool
		// trees caches parsed trees by key. Cached trees are never mutated.
		trees swiss.Map[string, *tree.Tree]
	}
}

// Open opens a DB whose files live in the given directory.
func Open(dirname string, opts *Options) (*DB, error) {
	opts = opts.Clone()
	opts.EnsureDefaults()

	store, err := pebble.Open(dirname, opts.Pebble)
	if err != nil {
		return nil, errors.Wrapf(err, "retree: opening %q", dirname)
	}
	d := &DB{
		opts:    opts,
		dirname: dirname,
		parser: tree.Parser{
			MaxDepth: limit(opts.MaxDepth),
			MaxNodes: limit(opts.MaxNodes),
		},
		store:     store,
		writeOpts: pebble.NoSync,
	}
	if opts.Sync {
		d.writeOpts = pebble.Sync
	}
	d.mu.trees.Init(16)
	d.opts.Logger.Infof("retree: opened %s", dirname)
	return d, nil
}

// Close closes the DB. Any command issued afterwards returns ErrClosed.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mu.closed {
		return ErrClosed
	}
	d.mu.closed = true
	d.mu.trees.Init(0)
	if err := d.store.Close(); err != nil {
		return err
	}
	d.opts.Logger.Infof("retree: closed %s", d.dirname)
	return nil
}

// track records the outcome of a command.
func (d *DB) track(cmd Command, key []byte, start time.Time, err *error) {
	m := &d.metrics.commands[cmd]
	m.count.Add(1)
	if *err != nil {
		m.errors.Add(1)
	}
	if h := d.opts.CommandLatency; h != nil {
		h.Observe(float64(time.Since(start)))
	}
	if d.opts.Verbose && cmd.mutates() {
		if *err != nil {
			d.opts.Logger.Infof("retree: %s %q: %v", cmd, key, *err)
		} else {
			d.opts.Logger.Infof("retree: %s %q", cmd, key)
		}
	}
}

// loadLocked returns the tree stored at key, or nil if there is none. On a
// cache miss the tree is read from the store and cached. d.mu must be held
// exclusively.
func (d *DB) loadLocked(key []byte) (*tree.Tree, error) {
	if t, ok := d.mu.trees.Get(string(key)); ok {
		d.metrics.hits.Add(1)
		return t, nil
	}
	d.metrics.misses.Add(1)

	buf, closer, err := d.store.Get(storeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	t, err := decodeTree(buf)
	_ = closer.Close()
	if err != nil {
		d.metrics.corruptions.Add(1)
		err = errors.Wrapf(err, "retree: key %q", key)
		d.opts.Logger.Errorf("%v", err)
		return nil, err
	}
	d.metrics.loads.Add(1)
	d.cacheLocked(key, t)
	return t, nil
}

func decodeTree(buf []byte) (*tree.Tree, error) {
	text, err := decodeRecord(buf)
	if err != nil {
		return nil, err
	}
	t, err := tree.Parse(text)
	if err != nil {
		return nil, base.MarkCorruptionError(err)
	}
	return t, nil
}

// cacheLocked inserts t into the cache, evicting an arbitrary entry if the
// cache is full.
func (d *DB) cacheLocked(key []byte, t *tree.Tree) {
	k := string(key)
	if c := d.opts.CacheCapacity; c > 0 && d.mu.trees.Len() >= c {
		if _, ok := d.mu.trees.Get(k); !ok {
			var victim string
			d.mu.trees.All(func(k string, _ *tree.Tree) bool {
				victim = k
				return false
			})
			d.mu.trees.Delete(victim)
			d.metrics.evictions.Add(1)
		}
	}
	d.mu.trees.Put(k, t)
}

// putLocked persists t at key and publishes it. d.mu must be held
// exclusively.
func (d *DB) putLocked(key []byte, t *tree.Tree) error {
	rec := encodeRecord(t.String())
	if err := d.store.Set(storeKey(key), rec, d.writeOpts); err != nil {
		return err
	}
	d.metrics.writes.Add(1)
	d.metrics.bytesWritten.Add(uint64(len(rec)))
	d.cacheLocked(key, t)
	return nil
}

// view runs fn with the tree stored at key, or with nil if there is none. fn
// must not modify the tree.
func (d *DB) view(key []byte, fn func(t *tree.Tree) error) error {
	d.mu.RLock()
	if d.mu.closed {
		d.mu.RUnlock()
		return ErrClosed
	}
	if t, ok := d.mu.trees.Get(string(key)); ok {
		defer d.mu.RUnlock()
		d.metrics.hits.Add(1)
		return fn(t)
	}
	d.mu.RUnlock()

	// Cache miss: loading populates the cache, which requires the exclusive
	// lock.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mu.closed {
		return ErrClosed
	}
	t, err := d.loadLocked(key)
	if err != nil {
		return err
	}
	return fn(t)
}

// viewExisting is like view, but fails with ErrKeyNotFound if key holds no
// tree.
func (d *DB) viewExisting(key []byte, fn func(t *tree.Tree) error) error {
	return d.view(key, func(t *tree.Tree) error {
		if t == nil {
			return base.KeyNotFoundErrorf(key)
		}
		return fn(t)
	})
}

// update replaces the tree stored at key with a modified copy. fn receives a
// private clone of the stored tree; if fn succeeds the clone is persisted and
// published. Fails with ErrKeyNotFound if key holds no tree.
func (d *DB) update(key []byte, fn func(t *tree.Tree) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mu.closed {
		return ErrClosed
	}
	old, err := d.loadLocked(key)
	if err != nil {
		return err
	}
	if old == nil {
		return base.KeyNotFoundErrorf(key)
	}
	t := old.Clone()
	if err := fn(t); err != nil {
		return err
	}
	return d.putLocked(key, t)
}

// Init parses text and stores the resulting tree at key, replacing any
// previous value.
func (d *DB) Init(key []byte, text string) (err error) {
	defer d.track(CmdInit, key, time.Now(), &err)
	t, err := d.parser.Parse(text)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mu.closed {
		return ErrClosed
	}
	return d.putLocked(key, t)
}

// Get returns the canonical text of the tree stored at key. ok is false if
// there is none.
func (d *DB) Get(key []byte) (text string, ok bool, err error) {
	defer d.track(CmdGet, key, time.Now(), &err)
	err = d.view(key, func(t *tree.Tree) error {
		if t != nil {
			text, ok = t.String(), true
		}
		return nil
	})
	return text, ok, err
}

// Del removes the tree stored at key. It returns false if there was none.
func (d *DB) Del(key []byte) (deleted bool, err error) {
	defer d.track(CmdDel, key, time.Now(), &err)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mu.closed {
		return false, ErrClosed
	}
	if _, ok := d.mu.trees.Get(string(key)); !ok {
		// Presence is all that matters; the record is not decoded.
		_, closer, err := d.store.Get(storeKey(key))
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		} else if err != nil {
			return false, err
		}
		_ = closer.Close()
	}
	if err := d.store.Delete(storeKey(key), d.writeOpts); err != nil {
		return false, err
	}
	d.metrics.deletes.Add(1)
	d.mu.trees.Delete(string(key))
	return true, nil
}

// GetSubtree returns the canonical text of the subtree rooted at the node
// labeled label.
func (d *DB) GetSubtree(key []byte, label string) (text string, err error) {
	defer d.track(CmdGetSubtree, key, time.Now(), &err)
	err = d.viewExisting(key, func(t *tree.Tree) error {
		n, err := t.Find(label)
		if err != nil {
			return err
		}
		text = n.String()
		return nil
	})
	return text, err
}

// SetSubtree parses text and makes the resulting tree the only child of the
// node labeled label, discarding the node's previous children. The text is
// parsed before the stored tree is touched.
func (d *DB) SetSubtree(key []byte, label, text string) (err error) {
	defer d.track(CmdSetSubtree, key, time.Now(), &err)
	sub, err := d.parser.Parse(text)
	if err != nil {
		return err
	}
	return d.update(key, func(t *tree.Tree) error {
		if err := t.SetSubtree(label, sub); err != nil {
			return err
		}
		return d.checkLimits(key, t)
	})
}

// checkLimits returns an error marked with ErrTreeTooLarge if t exceeds the
// MaxNodes or MaxDepth options.
func (d *DB) checkLimits(key []byte, t *tree.Tree) error {
	if m := d.parser.MaxNodes; m > 0 && t.Len() > m {
		return errors.Mark(errors.Newf("retree: tree at key %q would have %d nodes, more than %d",
			key, t.Len(), m), ErrTreeTooLarge)
	}
	if m := d.parser.MaxDepth; m > 0 && t.Depth() > m {
		return errors.Mark(errors.Newf("retree: tree at key %q would have depth %d, more than %d",
			key, t.Depth(), m), ErrTreeTooLarge)
	}
	return nil
}

// DelSubtree removes the node labeled label and its descendants and returns
// their canonical text. The root cannot be removed; use Del instead.
func (d *DB) DelSubtree(key []byte, label string) (text string, err error) {
	defer d.track(CmdDelSubtree, key, time.Now(), &err)
	err = d.update(key, func(t *tree.Tree) error {
		sub, err := t.DetachSubtree(label)
		if err != nil {
			return err
		}
		text = sub.String()
		return nil
	})
	return text, err
}

// GetAncestors returns the labels of the ancestors of the node labeled
// label, parent first and root last.
func (d *DB) GetAncestors(key []byte, label string) (labels []string, err error) {
	defer d.track(CmdGetAncestors, key, time.Now(), &err)
	err = d.viewExisting(key, func(t *tree.Tree) error {
		labels, err = t.Ancestors(label)
		return err
	})
	return labels, err
}

// GetDescendants returns the labels of the subtree rooted at the node
// labeled label in level order, starting with label itself.
func (d *DB) GetDescendants(key []byte, label string) (labels []string, err error) {
	defer d.track(CmdGetDescendants, key, time.Now(), &err)
	err = d.viewExisting(key, func(t *tree.Tree) error {
		labels, err = t.Descendants(label)
		return err
	})
	return labels, err
}

// GetFather returns the label of the parent of the node labeled label.
func (d *DB) GetFather(key []byte, label string) (father string, err error) {
	defer d.track(CmdGetFather, key, time.Now(), &err)
	err = d.viewExisting(key, func(t *tree.Tree) error {
		father, err = t.Father(label)
		return err
	})
	return father, err
}

// GetChildren returns the labels of the direct children of the node labeled
// label.
func (d *DB) GetChildren(key []byte, label string) (labels []string, err error) {
	defer d.track(CmdGetChildren, key, time.Now(), &err)
	err = d.viewExisting(key, func(t *tree.Tree) error {
		labels, err = t.Children(label)
		return err
	})
	return labels, err
}

// Scan calls fn for every stored tree in key order. Trees are decoded from
// the store and bypass the cache. fn must not issue commands on d.
func (d *DB) Scan(fn func(key []byte, t *tree.Tree) error) (err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.mu.closed {
		return ErrClosed
	}
	iter, err := d.store.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyUpperBound,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, iter.Close())
	}()
	for valid := iter.First(); valid; valid = iter.Next() {
		key := iter.Key()[len(keyPrefix):]
		t, err := decodeTree(iter.Value())
		if err != nil {
			d.metrics.corruptions.Add(1)
			return errors.Wrapf(err, "retree: key %q", key)
		}
		if err := fn(key, t); err != nil {
			return err
		}
	}
	return iter.Error()
}
