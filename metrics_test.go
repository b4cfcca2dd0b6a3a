// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/cockroachdb/redact"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	opts := testOptions(vfs.NewMem())
	opts.CommandLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "retree_command_latency_ns",
		Buckets: prometheus.ExponentialBuckets(1e3, 10, 7),
	})
	d := openTestDB(t, opts)
	defer d.Close()

	key := []byte("k")
	require.NoError(t, d.Init(key, "0 (1 2)"))
	require.Error(t, d.Init(key, "0 ("))
	_, _, err := d.Get(key)
	require.NoError(t, err)
	_, err = d.GetChildren(key, "0")
	require.NoError(t, err)
	_, err = d.GetChildren(key, "nope")
	require.Error(t, err)
	_, err = d.Del(key)
	require.NoError(t, err)

	m := d.Metrics()
	require.Equal(t, CommandMetrics{Count: 2, Errors: 1}, m.Commands[CmdInit])
	require.Equal(t, CommandMetrics{Count: 1}, m.Commands[CmdGet])
	require.Equal(t, CommandMetrics{Count: 2, Errors: 1}, m.Commands[CmdGetChildren])
	require.Equal(t, CommandMetrics{Count: 1}, m.Commands[CmdDel])
	require.Equal(t, CommandMetrics{}, m.Commands[CmdSetSubtree])
	require.Equal(t, uint64(3), m.Cache.Hits)
	require.Equal(t, uint64(1), m.Store.Writes)
	require.Equal(t, uint64(1), m.Store.Deletes)
	require.Equal(t, uint64(len(encodeRecord("0( 1 2 )"))), m.Store.BytesWritten)
	require.Equal(t, int64(0), m.Cache.Count)

	var pm dto.Metric
	require.NoError(t, opts.CommandLatency.Write(&pm))
	require.Equal(t, uint64(6), pm.GetHistogram().GetSampleCount())

	s := m.String()
	require.Contains(t, s, "tree.init")
	require.Contains(t, s, "tree.get_children")
	require.Contains(t, s, "store: ")
}

func TestCommandNames(t *testing.T) {
	for c := Command(0); c < numCommands; c++ {
		got, ok := ParseCommand(c.String())
		require.True(t, ok)
		require.Equal(t, c, got)
	}
	c, ok := ParseCommand("Tree.Get_Father")
	require.True(t, ok)
	require.Equal(t, CmdGetFather, c)
	_, ok = ParseCommand("tree.set")
	require.False(t, ok)
	require.Equal(t, "Command(42)", Command(42).String())
	require.Equal(t, "tree.del_subtree", redact.Sprint(CmdDelSubtree).StripMarkers())
}

func TestValueString(t *testing.T) {
	require.Equal(t, "(nil)", Nil.String())
	require.Equal(t, "OK", OK.String())
	require.Equal(t, `"f( g h )"`, StringValue("f( g h )").String())
	require.Equal(t, "(empty array)", ArrayValue(nil).String())
	require.Equal(t, "1) \"b\"\n2) \"2\"\n3) \"0\"", ArrayValue([]string{"b", "2", "0"}).String())
}
