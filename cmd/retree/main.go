// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/cockroachdb/retree"
	"github.com/spf13/cobra"
)

var (
	dir         string
	optionsPath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "retree [command] (flags)",
	Short: "labeled tree store tool",
	Long: `
The retree tool runs tree commands against a store directory. An empty
--dir runs against an in-memory store that is discarded on exit.
`,
	SilenceUsage: true,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		execCmd,
		replCmd,
		benchCmd,
		statsCmd,
	)

	rootCmd.PersistentFlags().StringVar(
		&dir, "dir", "", "store directory (empty for an in-memory store)")
	rootCmd.PersistentFlags().StringVar(
		&optionsPath, "options", "", "path to an INI options file")
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log every mutating command")

	benchCmd.Flags().IntVar(
		&benchConfig.trees, "trees", 100, "number of trees to create")
	benchCmd.Flags().IntVar(
		&benchConfig.nodes, "nodes", 100, "number of nodes per tree")
	benchCmd.Flags().IntVarP(
		&benchConfig.ops, "ops", "n", 10000, "number of commands to run after loading")
	benchCmd.Flags().IntVar(
		&benchConfig.readPercent, "read-percent", 80,
		"Percent (0-100) of operations that are reads")
	benchCmd.Flags().Uint64Var(
		&benchConfig.seed, "seed", 1, "random seed")

	replCmd.Flags().BoolVar(
		&replPrompt, "prompt", true, "print a prompt before reading each line")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}

// openDB opens the store named by the common flags.
func openDB(opts *retree.Options) (*retree.DB, error) {
	if opts == nil {
		opts = &retree.Options{}
	}
	if optionsPath != "" {
		data, err := os.ReadFile(optionsPath)
		if err != nil {
			return nil, errors.Wrap(err, "reading options")
		}
		if err := opts.Parse(string(data)); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", optionsPath)
		}
	}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}
	if verbose {
		opts.Verbose = true
	}
	return retree.Open(dir, opts)
}
