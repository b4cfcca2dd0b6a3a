// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/retree"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

const (
	minLatency = 100 * time.Nanosecond
	maxLatency = 10 * time.Second
)

var benchConfig struct {
	trees       int
	nodes       int
	ops         int
	readPercent int
	seed        uint64
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "run a random read/write command mix",
	Long: `
Create random trees and run a random mix of traversal reads and set_subtree
writes against them, then print latency percentiles per command.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		if p := benchConfig.readPercent; p < 0 || p > 100 {
			return errors.Errorf("invalid --read-percent %d", p)
		}
		if benchConfig.trees <= 0 || benchConfig.nodes <= 0 {
			return errors.New("--trees and --nodes must be positive")
		}
		latency := prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "retree_command_latency_ns",
			Help:    "Latency of tree commands in nanoseconds.",
			Buckets: prometheus.ExponentialBuckets(float64(minLatency), 4, 12),
		})
		d, err := openDB(&retree.Options{CommandLatency: latency})
		if err != nil {
			return err
		}
		defer func() {
			err = errors.CombineErrors(err, d.Close())
		}()
		if err := runBench(cmd.OutOrStdout(), d); err != nil {
			return err
		}
		var m dto.Metric
		if err := latency.Write(&m); err != nil {
			return err
		}
		if h := m.GetHistogram(); h.GetSampleCount() > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d commands, mean %s\n", h.GetSampleCount(),
				time.Duration(h.GetSampleSum()/float64(h.GetSampleCount())))
		}
		return nil
	},
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 2)
}

func recordLatency(h *hdrhistogram.Histogram, elapsed time.Duration) {
	if elapsed < minLatency {
		elapsed = minLatency
	} else if elapsed > maxLatency {
		elapsed = maxLatency
	}
	if err := h.RecordValue(elapsed.Nanoseconds()); err != nil {
		// Values are clamped to the histogram's range.
		panic(err)
	}
}

// randomTreeText returns the text of a random tree with n nodes labeled
// <prefix>0 through <prefix>n-1, <prefix>0 being the root.
func randomTreeText(rng *rand.Rand, prefix string, n int) string {
	children := make([][]int, n)
	for i := 1; i < n; i++ {
		p := rng.Intn(i)
		children[p] = append(children[p], i)
	}

	var b strings.Builder
	type frame struct {
		node int
		next int
	}
	stack := []frame{{node: 0}}
	fmt.Fprintf(&b, "%s0", prefix)
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		c := children[f.node]
		if f.next == len(c) {
			if len(c) > 0 {
				b.WriteByte(')')
			}
			stack = stack[:len(stack)-1]
			continue
		}
		if f.next == 0 {
			b.WriteString(" (")
		} else {
			b.WriteByte(' ')
		}
		child := c[f.next]
		f.next++
		fmt.Fprintf(&b, "%s%d", prefix, child)
		stack = append(stack, frame{node: child})
	}
	return b.String()
}

var benchReads = []string{
	"tree.get_subtree",
	"tree.get_ancestors",
	"tree.get_descendants",
	"tree.get_father",
	"tree.get_children",
}

func runBench(w io.Writer, d *retree.DB) error {
	cfg := benchConfig
	rng := rand.New(rand.NewSource(cfg.seed))
	hists := make(map[string]*hdrhistogram.Histogram)
	hist := func(name string) *hdrhistogram.Histogram {
		h, ok := hists[name]
		if !ok {
			h = newHistogram()
			hists[name] = h
		}
		return h
	}

	key := func(i int) string { return fmt.Sprintf("bench/%06d", i) }
	label := func() string { return fmt.Sprintf("n%d", rng.Intn(cfg.nodes)) }

	start := time.Now()
	for i := 0; i < cfg.trees; i++ {
		text := randomTreeText(rng, "n", cfg.nodes)
		begin := time.Now()
		if _, err := d.Exec([]string{"tree.init", key(i), text}); err != nil {
			return err
		}
		recordLatency(hist("tree.init"), time.Since(begin))
	}
	fmt.Fprintf(w, "loaded %d trees of %d nodes in %s\n\n",
		cfg.trees, cfg.nodes, time.Since(start).Round(time.Millisecond))

	// Writes replace a node's children with a small fresh subtree, so later
	// reads may address labels that no longer exist.
	var notFound int
	var subtrees int
	for i := 0; i < cfg.ops; i++ {
		k := key(rng.Intn(cfg.trees))
		var args []string
		if rng.Intn(100) < cfg.readPercent {
			args = []string{benchReads[rng.Intn(len(benchReads))], k, label()}
		} else {
			subtrees++
			args = []string{"tree.set_subtree", k, label(),
				randomTreeText(rng, fmt.Sprintf("s%d.", subtrees), 1+rng.Intn(8))}
		}
		begin := time.Now()
		_, err := d.Exec(args)
		elapsed := time.Since(begin)
		switch {
		case err == nil:
		case errors.Is(err, retree.ErrNodeNotFound), errors.Is(err, retree.ErrRootHasNoFather):
			notFound++
		default:
			return err
		}
		recordLatency(hist(args[0]), elapsed)
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"command", "ops", "p50", "p95", "p99", "max"})
	for _, name := range append([]string{"tree.init", "tree.set_subtree"}, benchReads...) {
		h, ok := hists[name]
		if !ok {
			continue
		}
		tbl.Append([]string{
			name,
			fmt.Sprint(h.TotalCount()),
			time.Duration(h.ValueAtQuantile(50)).String(),
			time.Duration(h.ValueAtQuantile(95)).String(),
			time.Duration(h.ValueAtQuantile(99)).String(),
			time.Duration(h.Max()).String(),
		})
	}
	tbl.Render()
	fmt.Fprintf(w, "%d commands addressed a missing node or the root's father\n", notFound)
	return nil
}
