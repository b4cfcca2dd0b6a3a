// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package retree

import (
	"strconv"
	"strings"
)

// ValueKind is the kind of a command reply.
type ValueKind int8

const (
	// ValueNil is the "no value" reply, e.g. tree.get on an absent key.
	ValueNil ValueKind = iota
	// ValueOK is the status reply of successful mutations.
	ValueOK
	// ValueString is a single string reply.
	ValueString
	// ValueArray is an ordered sequence of strings.
	ValueArray
)

// Value is the reply to a command.
type Value struct {
	Kind  ValueKind
	Str   string
	Array []string
}

var (
	// Nil is the "no value" reply.
	Nil = Value{Kind: ValueNil}
	// OK is the status reply.
	OK = Value{Kind: ValueOK}
)

// StringValue returns a string reply.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// ArrayValue returns an array reply.
func ArrayValue(a []string) Value {
	if a == nil {
		a = []string{}
	}
	return Value{Kind: ValueArray, Array: a}
}

// String renders the reply the way redis-cli does:
//
//	(nil)
//	OK
//	"0( 1 2 )"
//	1) "b"
//	2) "0"
func (v Value) String() string {
	switch v.Kind {
	case ValueNil:
		return "(nil)"
	case ValueOK:
		return "OK"
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueArray:
		if len(v.Array) == 0 {
			return "(empty array)"
		}
		var b strings.Builder
		for i, s := range v.Array {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(") ")
			b.WriteString(strconv.Quote(s))
		}
		return b.String()
	default:
		return "(unknown)"
	}
}
