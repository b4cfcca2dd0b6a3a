// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/retree"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "run a single tree command",
	Long: `
Run a single tree command and print its reply, e.g.

  retree exec --dir=db tree.init hello '0 (1 2 (a b (d)) e f (g h))'
  retree exec --dir=db tree.get_ancestors hello d
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) (err error) {
	d, err := openDB(nil)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, d.Close())
	}()
	return execLine(cmd.OutOrStdout(), d, args)
}

// execLine runs one command and prints its reply. Command errors are part of
// the reply and are not returned.
func execLine(w io.Writer, d *retree.DB, args []string) error {
	v, err := d.Exec(args)
	if err != nil {
		_, werr := fmt.Fprintf(w, "(error) %v\n", err)
		return werr
	}
	_, err = fmt.Fprintln(w, v)
	return err
}
