// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/crlib/crstrings"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/cockroachdb/retree/internal/base"
	"github.com/cockroachdb/retree/tree"
	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testOptions(fs vfs.FS) *Options {
	return &Options{FS: fs, Logger: base.NoopLogger{}}
}

func openTestDB(t *testing.T, opts *Options) *DB {
	t.Helper()
	if opts == nil {
		opts = testOptions(vfs.NewMem())
	}
	d, err := Open("", opts)
	require.NoError(t, err)
	return d
}

func TestCommands(t *testing.T) {
	fs := vfs.NewMem()
	d := openTestDB(t, testOptions(fs))
	defer func() {
		require.NoError(t, d.Close())
	}()

	datadriven.RunTest(t, "testdata/commands", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "exec":
			var out []string
			for _, line := range crstrings.Lines(td.Input) {
				args, err := shellquote.Split(line)
				require.NoError(t, err)
				v, err := d.Exec(args)
				if err != nil {
					out = append(out, fmt.Sprintf("error: %v", err))
					continue
				}
				out = append(out, v.String())
			}
			return strings.Join(out, "\n")

		case "reopen":
			require.NoError(t, d.Close())
			d = openTestDB(t, testOptions(fs))
			return ""

		case "scan":
			var b strings.Builder
			err := d.Scan(func(key []byte, tr *tree.Tree) error {
				fmt.Fprintf(&b, "%s: %s\n", key, tr)
				return nil
			})
			if err != nil {
				return fmt.Sprintf("error: %v", err)
			}
			return b.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

func TestClosed(t *testing.T) {
	d := openTestDB(t, nil)
	require.NoError(t, d.Init([]byte("k"), "0 (1)"))
	require.NoError(t, d.Close())

	_, _, err := d.Get([]byte("k"))
	require.True(t, errors.Is(err, ErrClosed))
	err = d.Init([]byte("k"), "0")
	require.True(t, errors.Is(err, ErrClosed))
	_, err = d.Del([]byte("k"))
	require.True(t, errors.Is(err, ErrClosed))
	_, err = d.GetChildren([]byte("k"), "0")
	require.True(t, errors.Is(err, ErrClosed))
	err = d.Scan(func([]byte, *tree.Tree) error { return nil })
	require.True(t, errors.Is(err, ErrClosed))
	require.True(t, errors.Is(d.Close(), ErrClosed))
}

func TestErrorMatching(t *testing.T) {
	d := openTestDB(t, nil)
	defer d.Close()
	key := []byte("k")
	require.NoError(t, d.Init(key, "0 (1 2 (a b (d)) e f (g h))"))

	err := d.Init([]byte("x"), "0 (1")
	require.True(t, errors.Is(err, ErrMalformedInput))
	require.Equal(t, "() is not closed or no root", err.Error())

	_, err = d.GetSubtree([]byte("missing"), "0")
	require.True(t, errors.Is(err, ErrKeyNotFound))
	_, err = d.GetAncestors(key, "zz")
	require.True(t, errors.Is(err, ErrNodeNotFound))
	_, err = d.GetFather(key, "0")
	require.True(t, errors.Is(err, ErrRootHasNoFather))
	_, err = d.DelSubtree(key, "0")
	require.True(t, errors.Is(err, ErrRootDetach))

	// Failed commands leave the stored tree untouched.
	s, ok, err := d.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "0( 1 2( a b( d ) ) e f( g h ) )", s)
}

func TestCorruption(t *testing.T) {
	d := openTestDB(t, nil)
	defer d.Close()

	// Records written behind the DB's back are not cached.
	require.NoError(t, d.store.Set(storeKey([]byte("junk")), []byte("junk"), pebble.Sync))
	require.NoError(t, d.store.Set(storeKey([]byte("text")), encodeRecord("0 ("), pebble.Sync))

	_, _, err := d.Get([]byte("junk"))
	require.True(t, errors.Is(err, ErrCorruption), "%v", err)
	_, err = d.GetChildren([]byte("text"), "0")
	require.True(t, errors.Is(err, ErrCorruption), "%v", err)
	require.True(t, errors.Is(err, ErrMalformedInput), "%v", err)

	err = d.Scan(func([]byte, *tree.Tree) error { return nil })
	require.True(t, errors.Is(err, ErrCorruption), "%v", err)
	require.Equal(t, uint64(3), d.Metrics().Store.Corruptions)

	// A corrupt tree can be deleted or overwritten.
	deleted, err := d.Del([]byte("junk"))
	require.NoError(t, err)
	require.True(t, deleted)
	require.NoError(t, d.Init([]byte("text"), "0 (1)"))
	children, err := d.GetChildren([]byte("text"), "0")
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, children)
}

func TestCacheEviction(t *testing.T) {
	opts := testOptions(vfs.NewMem())
	opts.CacheCapacity = 2
	d := openTestDB(t, opts)
	defer d.Close()

	const n = 10
	for i := 0; i < n; i++ {
		key := []byte(fmt.Sprintf("k%d", i))
		require.NoError(t, d.Init(key, fmt.Sprintf("r%d (c%d)", i, i)))
	}
	for i := 0; i < n; i++ {
		key := []byte(fmt.Sprintf("k%d", i))
		father, err := d.GetFather(key, fmt.Sprintf("c%d", i))
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("r%d", i), father)
	}
	m := d.Metrics()
	require.LessOrEqual(t, m.Cache.Count, int64(2))
	require.Greater(t, m.Cache.Evictions, uint64(0))
	require.Greater(t, m.Store.Loads, uint64(0))
}

func TestVerboseLogging(t *testing.T) {
	var log base.InMemLogger
	d := openTestDB(t, &Options{FS: vfs.NewMem(), Logger: &log, Verbose: true})
	log.Reset()

	require.NoError(t, d.Init([]byte("k"), "0 (1)"))
	_, err := d.DelSubtree([]byte("k"), "0")
	require.Error(t, err)
	_, _, err = d.Get([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	s := log.String()
	require.Contains(t, s, `retree: tree.init "k"`+"\n")
	require.Contains(t, s, `retree: tree.del_subtree "k": retree: cannot detach the root "0"`)
	require.NotContains(t, s, "tree.get")
}

// TestConcurrentReaders checks that readers only ever observe one of the
// trees the writer publishes.
func TestConcurrentReaders(t *testing.T) {
	d := openTestDB(t, nil)
	defer d.Close()
	key := []byte("k")
	require.NoError(t, d.Init(key, "0 (1 2)"))

	subs := []string{"3 (4 5)", "6 (7 (8 9) 10)"}
	valid := map[string]bool{
		"0( 1 2 )":                     true,
		"0( 1 2( 3( 4 5 ) ) )":         true,
		"0( 1 2( 6( 7( 8 9 ) 10 ) ) )": true,
	}

	const readers = 4
	const iters = 200
	var wg sync.WaitGroup
	wg.Add(readers + 1)
	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < iters; i++ {
			if err := d.SetSubtree(key, "2", subs[rng.Intn(len(subs))]); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	for r := 0; r < readers; r++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				s, ok, err := d.Get(key)
				if err != nil || !ok || !valid[s] {
					t.Errorf("unexpected read: %q %t %v", s, ok, err)
					return
				}
				anc, err := d.GetAncestors(key, "2")
				if err != nil || len(anc) != 1 || anc[0] != "0" {
					t.Errorf("unexpected ancestors: %v %v", anc, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
