// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package strparse splits tree text into tokens.
package strparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser splits a string into tokens. Tokens are separated by whitespace; in
// addition user-specified separators are also always separate tokens. For
// example, when passed the separators `()` the string `a(b c)` results in
// tokens `a`, `(`, `b`, `c`, `)`.
//
// Tokens are produced on demand, so a caller that stops early never pays for
// the rest of the input. Each byte of input is examined once.
type Parser struct {
	separators string
	input      string
	// pos is the offset of the first byte not yet tokenized.
	pos int
	// next is the token at the head of the stream; valid if ok is set.
	next Token
	ok   bool
}

// Token is a single token along with its byte offset in the original input.
type Token struct {
	Tok    string
	Offset int
}

// MakeParser constructs a new Parser that converts any instance of the runes
// contained in [separators] into separate tokens, and consumes the provided
// input string.
func MakeParser(separators string, input string) Parser {
	p := Parser{separators: separators, input: input}
	p.advance()
	return p
}

func (p *Parser) isSeparator(r rune) bool {
	return strings.ContainsRune(p.separators, r)
}

// advance scans the token starting at or after p.pos.
func (p *Parser) advance() {
	s := p.input[p.pos:]
	start := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if start == -1 {
		p.pos = len(p.input)
		p.next, p.ok = Token{}, false
		return
	}
	s = s[start:]
	off := p.pos + start

	n := 0
	if r, size := utf8.DecodeRuneInString(s); p.isSeparator(r) {
		n = size
	} else {
		n = strings.IndexFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || p.isSeparator(r)
		})
		if n == -1 {
			n = len(s)
		}
	}
	p.next, p.ok = Token{Tok: s[:n], Offset: off}, true
	p.pos = off + n
}

// Done returns true if there are no more tokens.
func (p *Parser) Done() bool {
	return !p.ok
}

// Offset returns the offset of the next token.
func (p *Parser) Offset() int {
	if p.Done() {
		return len(p.input)
	}
	return p.next.Offset
}

// Peek returns the next token, without consuming the token. Returns "" if there
// are no more tokens.
func (p *Parser) Peek() string {
	if p.Done() {
		return ""
	}
	return p.next.Tok
}

// Next returns the next token, or "" if there are no more tokens.
func (p *Parser) Next() string {
	res := p.Peek()
	if !p.Done() {
		p.advance()
	}
	return res
}
