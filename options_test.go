// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/require"
)

func TestOptionsString(t *testing.T) {
	const expected = `[Version]
  retree_version=0.1

[Options]
  cache_capacity=1024
  max_depth=4096
  max_nodes=1048576
  sync=false
  verbose=false
`

	opts := &Options{}
	opts.EnsureDefaults()
	if v := opts.String(); expected != v {
		t.Fatalf("expected\n%s\nbut found\n%s", expected, v)
	}
	require.Equal(t, vfs.Default, opts.FS)
	require.Equal(t, opts.FS, opts.Pebble.FS)
}

func TestOptionsParse(t *testing.T) {
	opts := &Options{}
	opts.EnsureDefaults()
	opts.CacheCapacity = 7
	opts.MaxDepth = -1
	opts.Sync = true

	var parsed Options
	require.NoError(t, parsed.Parse(opts.String()))
	require.Equal(t, 7, parsed.CacheCapacity)
	require.Equal(t, -1, parsed.MaxDepth)
	require.Equal(t, 1048576, parsed.MaxNodes)
	require.True(t, parsed.Sync)
	require.False(t, parsed.Verbose)
	require.Equal(t, opts.String(), parsed.String())

	// Comments and blank lines are ignored.
	require.NoError(t, parsed.Parse("# comment\n\n; another\n[Options]\n verbose = true\n"))
	require.True(t, parsed.Verbose)

	testCases := []struct {
		input string
		err   string
	}{
		{"[Options]\nfoo=1", "retree: unknown option: Options.foo"},
		{"[Bogus]\nfoo=1", `retree: unknown section: "Bogus"`},
		{"[Options]\nmax_depth", `retree: invalid key=value syntax: "max_depth"`},
		{"[Options]\nsync=maybe", `retree: invalid value for Options.sync: strconv.ParseBool: parsing "maybe": invalid syntax`},
	}
	for _, tc := range testCases {
		var o Options
		err := o.Parse(tc.input)
		require.Error(t, err, tc.input)
		require.Equal(t, tc.err, err.Error())
	}
}

func TestOptionsClone(t *testing.T) {
	var nilOpts *Options
	require.NotNil(t, nilOpts.Clone())

	opts := &Options{MaxNodes: 10}
	opts.EnsureDefaults()
	c := opts.Clone()
	c.MaxNodes = 20
	c.Pebble.MemTableSize = 1 << 20
	require.Equal(t, 10, opts.MaxNodes)
	require.NotSame(t, opts.Pebble, c.Pebble)
}

func TestOptionsLimits(t *testing.T) {
	opts := testOptions(vfs.NewMem())
	opts.MaxDepth = 2
	opts.MaxNodes = -1
	d := openTestDB(t, opts)
	defer d.Close()

	require.NoError(t, d.Init([]byte("k"), "0 (1 (2))"))
	err := d.Init([]byte("k"), "0 (1 (2 (3)))")
	require.ErrorIs(t, err, ErrMalformedInput)
	err = d.SetSubtree([]byte("k"), "2", "a (b (c (d)))")
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestStoredTreeLimits(t *testing.T) {
	opts := testOptions(vfs.NewMem())
	opts.MaxDepth = 2
	opts.MaxNodes = 4
	d := openTestDB(t, opts)
	defer d.Close()
	key := []byte("k")

	require.NoError(t, d.Init(key, "0 (1 2)"))
	require.NoError(t, d.SetSubtree(key, "2", "x"))

	// Each text is within the limits; the grafted result is not.
	err := d.SetSubtree(key, "x", "y")
	require.ErrorIs(t, err, ErrTreeTooLarge)
	require.Equal(t, `retree: tree at key "k" would have 5 nodes, more than 4`, err.Error())
	err = d.SetSubtree(key, "1", "y (z)")
	require.ErrorIs(t, err, ErrTreeTooLarge)

	s, _, err := d.Get(key)
	require.NoError(t, err)
	require.Equal(t, "0( 1 2( x ) )", s)

	// Replacing children may shrink the tree back under the limits.
	require.NoError(t, d.SetSubtree(key, "0", "y"))
	require.NoError(t, d.SetSubtree(key, "y", "z"))
	s, _, err = d.Get(key)
	require.NoError(t, err)
	require.Equal(t, "0( y( z ) )", s)

	err = d.SetSubtree(key, "z", "w")
	require.ErrorIs(t, err, ErrTreeTooLarge)
	require.Equal(t, `retree: tree at key "k" would have depth 3, more than 2`, err.Error())
}
