// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tree

import (
	"io"
	"strings"
)

// String returns the canonical text of the subtree rooted at n, e.g.
// `f( g h )`.
func (n *Node) String() string {
	var b strings.Builder
	n.format(&b)
	return b.String()
}

// String returns the canonical text of the tree.
func (t *Tree) String() string {
	return t.root.String()
}

// Format writes the canonical text of t to w.
func Format(w io.Writer, t *Tree) error {
	var b strings.Builder
	t.root.format(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// format writes `<label>` for a leaf and `<label>( <child> ... )` otherwise,
// with every child followed by a single space.
func (n *Node) format(b *strings.Builder) {
	b.WriteString(n.label)
	if len(n.children) == 0 {
		return
	}
	b.WriteString("( ")

	type frame struct {
		n    *Node
		next int
	}
	stack := []frame{{n: n}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next == len(f.n.children) {
			b.WriteByte(')')
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				b.WriteByte(' ')
			}
			continue
		}
		c := f.n.children[f.next]
		f.next++
		b.WriteString(c.label)
		if len(c.children) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteString("( ")
		stack = append(stack, frame{n: c})
	}
}
