// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/retree"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var replPrompt bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "read tree commands from stdin",
	Long: `
Read tree commands from stdin, one per line, and print their replies. Lines
are split into arguments with shell quoting rules, so tree text containing
spaces must be quoted. Blank lines and lines starting with '#' are skipped.
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
		return repl(cmd.InOrStdin(), cmd.OutOrStdout(), d, replPrompt)
	},
}

func repl(r io.Reader, w io.Writer, d *retree.DB, prompt bool) error {
	s := bufio.NewScanner(r)
	s.Buffer(nil, 64<<20)
	for {
		if prompt {
			fmt.Fprint(w, "retree> ")
		}
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintf(w, "(error) %v\n", err)
			continue
		}
		if err := execLine(w, d, args); err != nil {
			return err
		}
	}
	return s.Err()
}
