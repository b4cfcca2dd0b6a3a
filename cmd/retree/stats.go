// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/retree"
	"github.com/cockroachdb/retree/tree"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "print stored trees and DB metrics",
	Long: `
Print the key, node count and depth of every stored tree, followed by the
DB's metrics.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		d, err := openDB(nil)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.CombineErrors(err, d.Close())
		}()
		return stats(cmd.OutOrStdout(), d)
	},
}

func stats(w io.Writer, d *retree.DB) error {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"key", "nodes", "depth", "root"})
	var count int
	err := d.Scan(func(key []byte, t *tree.Tree) error {
		count++
		tbl.Append([]string{
			string(key),
			fmt.Sprint(t.Len()),
			fmt.Sprint(t.Depth()),
			t.Root().Label(),
		})
		return nil
	})
	if err != nil {
		return err
	}
	tbl.Render()
	fmt.Fprintf(w, "%d trees\n\n%s", count, d.Metrics())
	return nil
}
