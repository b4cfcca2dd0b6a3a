// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tree implements ordered, labeled, n-ary trees with a textual
// notation.
//
// # Notation
//
// A tree is written as its root label optionally followed by a parenthesized,
// whitespace separated list of child trees:
//
//	0 (1 2 (a b (d)) e f (g h))
//
// Labels are maximal runs of characters that are neither whitespace nor
// parentheses. Whitespace only separates tokens, so `a(b c)` and `a ( b c )`
// describe the same tree. The canonical form produced by String puts a
// single space inside each pair of parentheses and between siblings:
//
//	0( 1 2( a b( d ) ) e f( g h ) )
//
// # Addressing
//
// Nodes are addressed by label. Labels are not required to be unique; when a
// label occurs more than once, lookups resolve to the first occurrence in
// pre-order (parent before children, children left to right). A Tree keeps a
// label index that is rebuilt after every structural mutation.
//
// # Depth
//
// Parsing, formatting, lookups and traversals use explicit stacks and queues,
// so deeply nested input never grows the goroutine stack. Parser.MaxDepth
// bounds nesting when input is untrusted.
package tree
