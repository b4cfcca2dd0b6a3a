// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/cockroachdb/retree/internal/base"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
var DefaultLogger = base.DefaultLogger

const (
	defaultMaxDepth      = 1 << 12
	defaultMaxNodes      = 1 << 20
	defaultCacheCapacity = 1 << 10
)

// Options holds the optional parameters for configuring a DB. These options
// are not persisted.
type Options struct {
	// FS provides the interface for persistent file storage. Defaults to
	// vfs.Default.
	FS vfs.FS

	// Logger used to write log messages. Defaults to DefaultLogger.
	Logger Logger

	// MaxDepth bounds the nesting of tree text accepted by tree.init and
	// tree.set_subtree, and the depth of a stored tree after tree.set_subtree.
	// Defaults to 4096. A negative value disables the limit.
	MaxDepth int

	// MaxNodes bounds the number of nodes in tree text accepted by tree.init
	// and tree.set_subtree, and the size of a stored tree after
	// tree.set_subtree. Defaults to 1M. A negative value disables the limit.
	MaxNodes int

	// CacheCapacity is the number of parsed trees kept in memory. Trees
	// evicted from the cache are parsed again from the store on next use.
	// Defaults to 1024. A negative value disables the limit.
	CacheCapacity int

	// Sync controls whether writes are synced to stable storage before a
	// mutating command returns.
	Sync bool

	// Verbose enables logging of every mutating command.
	Verbose bool

	// CommandLatency, if set, receives the latency in nanoseconds of every
	// command.
	CommandLatency prometheus.Histogram

	// Pebble holds the options of the underlying store. FS and Logger are
	// overridden by the fields above.
	Pebble *pebble.Options
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified.
func (o *Options) EnsureDefaults() {
	if o.FS == nil {
		o.FS = vfs.Default
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = defaultMaxNodes
	}
	if o.CacheCapacity == 0 {
		o.CacheCapacity = defaultCacheCapacity
	}
	if o.Pebble == nil {
		o.Pebble = &pebble.Options{}
	}
	o.Pebble.FS = o.FS
	o.Pebble.Logger = o.Logger
	o.Pebble.EnsureDefaults()
}

// Clone creates a shallow-copy of the supplied options.
func (o *Options) Clone() *Options {
	n := &Options{}
	if o != nil {
		*n = *o
		if o.Pebble != nil {
			n.Pebble = o.Pebble.Clone()
		}
	}
	return n
}

func limit(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// String writes the options in an INI-style format, the inverse of Parse.
func (o *Options) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[Version]\n")
	fmt.Fprintf(&buf, "  retree_version=0.1\n")
	fmt.Fprintf(&buf, "\n")
	fmt.Fprintf(&buf, "[Options]\n")
	fmt.Fprintf(&buf, "  cache_capacity=%d\n", o.CacheCapacity)
	fmt.Fprintf(&buf, "  max_depth=%d\n", o.MaxDepth)
	fmt.Fprintf(&buf, "  max_nodes=%d\n", o.MaxNodes)
	fmt.Fprintf(&buf, "  sync=%t\n", o.Sync)
	fmt.Fprintf(&buf, "  verbose=%t\n", o.Verbose)
	return buf.String()
}

// Parse parses the options from the specified string. Note that certain
// options cannot be parsed into populated fields (FS, Logger, Pebble,
// CommandLatency) and are left untouched.
func (o *Options) Parse(s string) error {
	var section string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == ';' || line[0] == '#' {
			// Skip blank lines and comments.
			continue
		}
		n := len(line)
		if line[0] == '[' && line[n-1] == ']' {
			section = line[1 : n-1]
			continue
		}

		pos := strings.Index(line, "=")
		if pos < 0 {
			return errors.Errorf("retree: invalid key=value syntax: %q", line)
		}
		key := strings.TrimSpace(line[:pos])
		value := strings.TrimSpace(line[pos+1:])

		var err error
		switch section {
		case "Version":
			switch key {
			case "retree_version":
			default:
				return errors.Errorf("retree: unknown option: %s.%s",
					errors.Safe(section), errors.Safe(key))
			}
		case "Options":
			switch key {
			case "cache_capacity":
				o.CacheCapacity, err = strconv.Atoi(value)
			case "max_depth":
				o.MaxDepth, err = strconv.Atoi(value)
			case "max_nodes":
				o.MaxNodes, err = strconv.Atoi(value)
			case "sync":
				o.Sync, err = strconv.ParseBool(value)
			case "verbose":
				o.Verbose, err = strconv.ParseBool(value)
			default:
				return errors.Errorf("retree: unknown option: %s.%s",
					errors.Safe(section), errors.Safe(key))
			}
		default:
			return errors.Errorf("retree: unknown section: %q", errors.Safe(section))
		}
		if err != nil {
			return errors.Wrapf(err, "retree: invalid value for %s.%s", errors.Safe(section), errors.Safe(key))
		}
	}
	return nil
}
