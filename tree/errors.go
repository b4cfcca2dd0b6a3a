// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tree

import "github.com/cockroachdb/errors"

var (
	// ErrMalformedInput is returned when tree text does not conform to the
	// notation: unbalanced parentheses, a missing root label, an empty group
	// or trailing content after the root. The message is part of the command
	// contract and must not change; specifics are attached as error details.
	ErrMalformedInput = errors.New("() is not closed or no root")
	// ErrNodeNotFound is returned when no node carries the requested label.
	ErrNodeNotFound = errors.New("retree: node not found")
	// ErrRootHasNoFather is returned when asking for the father of the root.
	ErrRootHasNoFather = errors.New("retree: root has no father")
	// ErrRootDetach is returned when asking to detach the root.
	ErrRootDetach = errors.New("retree: cannot detach the root")
)

func malformedf(format string, args ...interface{}) error {
	return errors.WithDetailf(ErrMalformedInput, format, args...)
}

func nodeNotFound(label string) error {
	return errors.Mark(errors.Newf("retree: node %q not found", label), ErrNodeNotFound)
}

func rootHasNoFather(label string) error {
	return errors.Mark(errors.Newf("retree: root %q has no father", label), ErrRootHasNoFather)
}
