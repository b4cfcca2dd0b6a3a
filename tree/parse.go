// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tree

import "github.com/cockroachdb/retree/internal/strparse"

const (
	openParen  = "("
	closeParen = ")"
)

// Parser parses tree text. The zero value places no limits on the input.
type Parser struct {
	// MaxDepth is the maximum nesting of parenthesized groups. Zero means
	// unlimited.
	MaxDepth int
	// MaxNodes is the maximum number of nodes in a parsed tree. Zero means
	// unlimited.
	MaxNodes int
}

// Parse parses text with no limits. See Parser.Parse.
func Parse(text string) (*Tree, error) {
	var p Parser
	return p.Parse(text)
}

// Parse converts text into a freshly allocated tree. All failures are marked
// with ErrMalformedInput and carry the same message; the offending token and
// its offset are available as error details.
func (p *Parser) Parse(text string) (*Tree, error) {
	toks := strparse.MakeParser(openParen+closeParen, text)
	if toks.Done() {
		return nil, malformedf("empty input")
	}
	if tok := toks.Peek(); tok == openParen || tok == closeParen {
		return nil, malformedf("expected root label, found %q at offset %d", tok, toks.Offset())
	}
	root := &Node{label: toks.Next()}
	nodes := 1

	// open holds the nodes whose parenthesized child lists are being read,
	// innermost last. last is the most recently read label, the only node a
	// "(" may attach to.
	var open []*Node
	last := root
	for !toks.Done() {
		off := toks.Offset()
		switch tok := toks.Next(); tok {
		case openParen:
			if last == nil {
				return nil, malformedf("%q at offset %d does not follow a label", tok, off)
			}
			if p.MaxDepth > 0 && len(open) >= p.MaxDepth {
				return nil, malformedf("nesting at offset %d exceeds maximum depth %d", off, p.MaxDepth)
			}
			open = append(open, last)
			last = nil

		case closeParen:
			if len(open) == 0 {
				return nil, malformedf("unmatched %q at offset %d", tok, off)
			}
			if parent := open[len(open)-1]; len(parent.children) == 0 {
				return nil, malformedf("empty child list of %q at offset %d", parent.label, off)
			}
			open = open[:len(open)-1]
			last = nil

		default:
			if len(open) == 0 {
				return nil, malformedf("unexpected %q at offset %d after root", tok, off)
			}
			nodes++
			if p.MaxNodes > 0 && nodes > p.MaxNodes {
				return nil, malformedf("more than %d nodes", p.MaxNodes)
			}
			parent := open[len(open)-1]
			n := &Node{label: tok, parent: parent}
			parent.children = append(parent.children, n)
			last = n
		}
	}
	if len(open) > 0 {
		return nil, malformedf("%d unclosed %q", len(open), openParen)
	}
	return newTree(root), nil
}
